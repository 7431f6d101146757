package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/delivery"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/wallet"
	"github.com/x-xyz/marketledger/middleware"
	authMiddleware "github.com/x-xyz/marketledger/stores/auth/delivery/http/middleware"
)

type handler struct {
	wallet wallet.Usecase
}

func New(e *echo.Echo, uc wallet.Usecase, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		wallet: uc,
	}
	g := e.Group("/wallets/:address", middleware.IsValidAddress("address"))
	g.GET("", h.getBalance)
	g.POST("/deposit", h.deposit, am.Auth(), am.IsAdmin())
}

type balanceResp struct {
	Address domain.Address `json:"address"`
	Balance domain.Price   `json:"balance"`
}

func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("address")).ToLower()

	b, err := h.wallet.Balance(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balanceResp{Address: address, Balance: domain.ToPrice(b)})
}

func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("address")).ToLower()

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

	b, err := h.wallet.Deposit(ctx, address, amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	ctx.WithFields(log.Fields{"address": address, "amount": amount}).Info("deposit")
	return delivery.MakeJsonResp(c, http.StatusOK, balanceResp{Address: address, Balance: domain.ToPrice(b)})
}
