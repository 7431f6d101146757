package healthcheck

import (
	"github.com/x-xyz/marketledger/base/ctx"
)

// Status maps each backend to "ok" or its ping error
type Status map[string]string

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(c ctx.Ctx) (Status, error)
}

// HealthCheckRepo pings one backend
type HealthCheckRepo interface {
	Name() string
	Ping(c ctx.Ctx) error
}
