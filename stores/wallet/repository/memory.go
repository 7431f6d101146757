package repository

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/wallet"
)

type memory struct {
	mu       sync.RWMutex
	balances map[domain.Address]*big.Int
}

func NewMemory() wallet.Repo {
	return &memory{
		balances: make(map[domain.Address]*big.Int),
	}
}

// Balance returns 0 for accounts never funded
func (m *memory) Balance(c ctx.Ctx, account domain.Address) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Amount(m.balances[account.ToLower()]), nil
}

func (m *memory) SetBalance(c ctx.Ctx, account domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account.ToLower()] = domain.Amount(amount)
	return nil
}
