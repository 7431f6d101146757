package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

var kindStatus = map[error]int{
	domain.ErrUnauthorized:      http.StatusForbidden,
	domain.ErrNotFound:          http.StatusNotFound,
	domain.ErrInvalidArgument:   http.StatusBadRequest,
	domain.ErrInvalidPrice:      http.StatusBadRequest,
	domain.ErrInvalidPercentage: http.StatusBadRequest,
	domain.ErrBadParamInput:     http.StatusBadRequest,
	domain.ErrInvalidAddress:    http.StatusBadRequest,
	domain.ErrInvalidAmount:     http.StatusBadRequest,
	domain.ErrInvalidSignature:  http.StatusUnauthorized,
	domain.ErrDuplicateURI:      http.StatusConflict,
	domain.ErrNotListed:         http.StatusConflict,
	domain.ErrMissingPayment:    http.StatusPaymentRequired,
	domain.ErrWrongPayment:      http.StatusPaymentRequired,
	domain.ErrInsufficientFunds: http.StatusPaymentRequired,
}

// ErrorStatus maps a domain error to its http status, fallback is returned for anything else
func ErrorStatus(err error, fallback int) int {
	if errors.Is(err, query.ErrNotFound) {
		return http.StatusNotFound
	}
	if status, ok := kindStatus[domain.Kind(err)]; ok {
		return status
	}
	return fallback
}

// MakeJsonResp writes data in the {data, status} envelope. An error as data is
// rendered as its message, with the status derived from its kind.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = ErrorStatus(err, status)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
