package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/delivery"
	"github.com/x-xyz/marketledger/base/validator"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
)

const maxLimit = 100

type handler struct {
	event event.Usecase
}

func New(e *echo.Echo, uc event.Usecase) {
	h := &handler{
		event: uc,
	}
	e.GET("/events", h.findAll)
}

func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Collection string   `query:"collection"`
		ItemId     string   `query:"itemId"`
		Kind       []string `query:"kind"`
		Actor      string   `query:"actor"`
		Offset     int      `query:"offset"`
		Limit      int      `query:"limit"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts := []event.FindAllOptions{}
	if p.Collection != "" {
		if !validator.IsValidAddress(p.Collection) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, event.WithCollection(domain.Address(p.Collection)))
	}
	if p.ItemId != "" {
		id, err := strconv.ParseUint(p.ItemId, 10, 64)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, event.WithItemId(id))
	}
	if len(p.Kind) > 0 {
		kinds := make([]event.Kind, 0, len(p.Kind))
		for _, k := range p.Kind {
			kinds = append(kinds, event.Kind(k))
		}
		opts = append(opts, event.WithKinds(kinds...))
	}
	if p.Actor != "" {
		if !validator.IsValidAddress(p.Actor) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, event.WithActor(domain.Address(p.Actor)))
	}
	if p.Limit <= 0 || p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	opts = append(opts, event.WithPagination(p.Offset, p.Limit))

	es, err := h.event.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, es)
}
