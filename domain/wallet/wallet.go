package wallet

import (
	"math/big"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
)

type Payout struct {
	To     domain.Address `json:"to"`
	Amount *big.Int       `json:"amount"`
}

type Repo interface {
	// Balance returns 0 for unknown accounts
	Balance(c ctx.Ctx, account domain.Address) (*big.Int, error)
	SetBalance(c ctx.Ctx, account domain.Address, amount *big.Int) error
}

type Usecase interface {
	Balance(c ctx.Ctx, account domain.Address) (*big.Int, error)
	Deposit(c ctx.Ctx, account domain.Address, amount *big.Int) (*big.Int, error)
	// CanPay returns domain.ErrInsufficientFunds if account holds less than amount
	CanPay(c ctx.Ctx, account domain.Address, amount *big.Int) error
	Transfer(c ctx.Ctx, from, to domain.Address, amount *big.Int) error
	// Disburse moves the sum of the payouts out of from, all or nothing
	Disburse(c ctx.Ctx, from domain.Address, payouts []Payout) error
}
