package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/delivery"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/royalty"
	"github.com/x-xyz/marketledger/middleware"
	authMiddleware "github.com/x-xyz/marketledger/stores/auth/delivery/http/middleware"
)

type handler struct {
	royalty royalty.Usecase
}

func New(e *echo.Echo, uc royalty.Usecase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		royalty: uc,
	}
	g := e.Group("/royalty")
	g.GET("", h.getConfig)
	g.PUT("/listing-fee", h.setListingFee, am.Auth())
	g.PUT("/platform", h.setPlatformRoyalty, am.Auth())
	g.PUT("/registry", h.setRegistry, am.Auth())
	g.GET("/creator/:collection/:itemId", h.getCreatorRoyalty, middleware.IsValidAddress("collection"))
	g.PUT("/creator/:collection/:itemId", h.setCreatorRoyalty, middleware.IsValidAddress("collection"), am.Auth())
	g.GET("/curator/:collection", h.getCuratorRoyalty, middleware.IsValidAddress("collection"))
	g.PUT("/curator/:collection", h.setCuratorRoyalty, middleware.IsValidAddress("collection"), am.Auth())
}

type configResp struct {
	Owner       domain.Address `json:"owner"`
	ListingFee  domain.Price   `json:"listingFee"`
	PlatformBps domain.Bps     `json:"platformBps"`
}

func (h *handler) getConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	owner, err := h.royalty.Owner(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	fee, err := h.royalty.GetListingFee(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	bps, err := h.royalty.GetPlatformRoyalty(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, configResp{
		Owner:       owner,
		ListingFee:  domain.ToPrice(fee),
		PlatformBps: bps,
	})
}

func (h *handler) setListingFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Amount string `json:"amount" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	amount, err := domain.ParseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.royalty.SetListingFee(ctx, authMiddleware.Caller(c), amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, domain.ToPrice(amount))
}

type bpsParams struct {
	Bps *domain.Bps `json:"bps" validate:"required"`
}

func (h *handler) setPlatformRoyalty(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := bpsParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if err := h.royalty.SetPlatformRoyalty(ctx, authMiddleware.Caller(c), *p.Bps); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, *p.Bps)
}

func (h *handler) setRegistry(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Registry domain.Address `json:"registry" validate:"required,address"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if err := h.royalty.SetRegistry(ctx, authMiddleware.Caller(c), p.Registry.ToLower()); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, p.Registry.ToLower())
}

func creatorKeyParam(c echo.Context) (royalty.CreatorKey, error) {
	id, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil || id == 0 {
		return royalty.CreatorKey{}, domain.ErrBadParamInput
	}
	return royalty.CreatorKey{
		Collection: domain.Address(c.Param("collection")).ToLower(),
		ItemId:     id,
	}, nil
}

func (h *handler) getCreatorRoyalty(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := creatorKeyParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	bps, err := h.royalty.GetCreatorRoyalty(ctx, key)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, bps)
}

func (h *handler) setCreatorRoyalty(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := creatorKeyParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := bpsParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if err := h.royalty.SetCreatorRoyalty(ctx, authMiddleware.Caller(c), key, *p.Bps); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, *p.Bps)
}

func (h *handler) getCuratorRoyalty(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	cur, err := h.royalty.GetCuratorRoyalty(ctx, domain.Address(c.Param("collection")).ToLower())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cur)
}

func (h *handler) setCuratorRoyalty(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Curator domain.Address `json:"curator" validate:"required,address"`
		Bps     *domain.Bps    `json:"bps" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	collection := domain.Address(c.Param("collection")).ToLower()
	if err := h.royalty.SetCuratorRoyalty(ctx, authMiddleware.Caller(c), collection, p.Curator.ToLower(), *p.Bps); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, royalty.CuratorRoyalty{Curator: p.Curator.ToLower(), Bps: *p.Bps})
}
