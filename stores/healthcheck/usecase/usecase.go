package usecase

import (
	"github.com/x-xyz/marketledger/base/ctx"
	hcdomain "github.com/x-xyz/marketledger/domain/healthcheck"
)

const statusOk = "ok"

type impl struct {
	repos []hcdomain.HealthCheckRepo
}

// New checks every configured backend, with none the service reports healthy
func New(repos ...hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repos: repos,
	}
}

// Check pings every backend and returns the first failure along with the full status
func (im *impl) Check(c ctx.Ctx) (hcdomain.Status, error) {
	status := hcdomain.Status{"ledger": statusOk}
	var firstErr error
	for _, r := range im.repos {
		if err := r.Ping(c); err != nil {
			status[r.Name()] = err.Error()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		status[r.Name()] = statusOk
	}
	return status, firstErr
}
