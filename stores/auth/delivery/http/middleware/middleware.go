package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/delivery"
	"github.com/x-xyz/marketledger/domain"
)

const addressKey = "address"

type AuthMiddleware struct {
	auth           domain.AuthUsecase
	adminAddresses []domain.Address
}

func New(auth domain.AuthUsecase, adminAddresses []string) *AuthMiddleware {
	admins := make([]domain.Address, 0, len(adminAddresses))
	for _, a := range adminAddresses {
		admins = append(admins, domain.Address(a).ToLower())
	}
	return &AuthMiddleware{
		auth:           auth,
		adminAddresses: admins,
	}
}

// Caller returns the address authenticated by Auth, empty when the route is not authenticated
func Caller(c echo.Context) domain.Address {
	address, _ := c.Get(addressKey).(domain.Address)
	return address
}

func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) IsAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			address := Caller(c)
			for _, admin := range m.adminAddresses {
				if admin.Equals(address) {
					return next(c)
				}
			}
			return delivery.MakeJsonResp(c, http.StatusForbidden, "require admin privilege")
		}
	}
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	cont := c.Get("ctx").(ctx.Ctx)
	address, err := m.auth.ParseToken(cont, key)
	if err != nil {
		cont.WithField("err", err).Warn("auth.ParseToken failed")
		return false, nil
	}
	c.Set(addressKey, address.ToLower())
	c.Set("ctx", ctx.WithCaller(cont, address.ToLowerStr()))
	return true, nil
}
