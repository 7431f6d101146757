package http

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/delivery"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/ledger"
	"github.com/x-xyz/marketledger/domain/registry"
	"github.com/x-xyz/marketledger/middleware"
	authMiddleware "github.com/x-xyz/marketledger/stores/auth/delivery/http/middleware"
)

type handler struct {
	registry registry.Usecase
}

func New(e *echo.Echo, uc registry.Usecase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		registry: uc,
	}
	e.GET("/marketplace", h.getMarketplace)

	g := e.Group("/collections")
	g.POST("", h.createCollection, am.Auth())
	g.GET("", h.listCollections)

	col := g.Group("/:address", middleware.IsValidAddress("address"))
	col.GET("", h.getCollection)
	col.GET("/stats", h.getStats)
	col.POST("/items", h.createNft, am.Auth())
	col.GET("/items/:itemId", h.getItem)
	col.POST("/items/:itemId/sale", h.sellNft, am.Auth())
	col.DELETE("/items/:itemId/sale", h.cancelSaleNft, am.Auth())
	col.POST("/items/:itemId/buy", h.buyNft, am.Auth())
}

type itemResp struct {
	Collection domain.Address `json:"collection"`
	Id         ledger.ItemId  `json:"id"`
	Owner      domain.Address `json:"owner"`
	Seller     domain.Address `json:"seller"`
	Price      domain.Price   `json:"price"`
	OnSale     bool           `json:"onSale"`
	Uri        string         `json:"uri"`
}

type statsResp struct {
	Collection  domain.Address `json:"collection"`
	TotalSupply uint64         `json:"totalSupply"`
	TotalInSale uint64         `json:"totalInSale"`
}

func collectionParam(c echo.Context) domain.Address {
	return domain.Address(c.Param("address")).ToLower()
}

func itemIdParam(c echo.Context) (ledger.ItemId, error) {
	id, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrBadParamInput
	}
	return ledger.ItemId(id), nil
}

// parseOptionalAmount treats an empty string as zero
func parseOptionalAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	return domain.ParseAmount(s)
}

func (h *handler) getMarketplace(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	fee, err := h.registry.GetCurrentListingFees(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		Owner      domain.Address `json:"owner"`
		Registry   domain.Address `json:"registry"`
		ListingFee domain.Price   `json:"listingFee"`
	}{
		Owner:      h.registry.GetOwner(),
		Registry:   h.registry.Address(),
		ListingFee: domain.ToPrice(fee),
	})
}

func (h *handler) createCollection(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	address, err := h.registry.CreateCollection(ctx, domain.NewCall(authMiddleware.Caller(c)), p.Name, p.Symbol)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	col, err := h.registry.GetCollection(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, col)
}

func (h *handler) listCollections(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	cols, err := h.registry.ListCollections(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cols)
}

func (h *handler) getCollection(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	col, err := h.registry.GetCollection(ctx, collectionParam(c))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, col)
}

func (h *handler) getStats(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	collection := collectionParam(c)

	supply, err := h.registry.TotalSupply(ctx, collection)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	inSale, err := h.registry.TotalInSale(ctx, collection)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, statsResp{
		Collection:  collection,
		TotalSupply: supply,
		TotalInSale: inSale,
	})
}

func (h *handler) createNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListForSale       bool       `json:"listForSale"`
		CreatorRoyaltyBps domain.Bps `json:"creatorRoyaltyBps"`
		Price             string     `json:"price"`
		Uri               string     `json:"uri"`
		Value             string     `json:"value"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	price, err := parseOptionalAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	value, err := parseOptionalAmount(p.Value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	collection := collectionParam(c)
	call := domain.NewCall(authMiddleware.Caller(c)).WithValue(value)
	id, err := h.registry.CreateNft(ctx, call, registry.CreateNftParams{
		ListForSale:       p.ListForSale,
		CreatorRoyaltyBps: p.CreatorRoyaltyBps,
		Collection:        collection,
		Price:             price,
		Uri:               p.Uri,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return h.respondItem(c, ctx, http.StatusCreated, collection, id)
}

func (h *handler) respondItem(c echo.Context, ctx ctx.Ctx, status int, collection domain.Address, id ledger.ItemId) error {
	item, err := h.registry.GetItem(ctx, collection, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, status, itemResp{
		Collection: collection,
		Id:         item.Id,
		Owner:      item.Owner,
		Seller:     item.Seller,
		Price:      domain.ToPrice(item.Price),
		OnSale:     item.OnSale,
		Uri:        item.Uri,
	})
}

func (h *handler) getItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return h.respondItem(c, ctx, http.StatusOK, collectionParam(c), id)
}

func (h *handler) sellNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := struct {
		Price string `json:"price" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	price, err := domain.ParseAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	collection := collectionParam(c)
	if err := h.registry.SellNft(ctx, domain.NewCall(authMiddleware.Caller(c)), collection, id, price); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return h.respondItem(c, ctx, http.StatusOK, collection, id)
}

func (h *handler) cancelSaleNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	collection := collectionParam(c)
	if err := h.registry.CancelSaleNft(ctx, domain.NewCall(authMiddleware.Caller(c)), collection, id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return h.respondItem(c, ctx, http.StatusOK, collection, id)
}

func (h *handler) buyNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := itemIdParam(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := struct {
		Price string `json:"price" validate:"required"`
		Value string `json:"value"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	price, err := domain.ParseAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	value, err := parseOptionalAmount(p.Value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	collection := collectionParam(c)
	call := domain.NewCall(authMiddleware.Caller(c)).WithValue(value)
	if err := h.registry.BuyNft(ctx, call, collection, id, price); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return h.respondItem(c, ctx, http.StatusOK, collection, id)
}
