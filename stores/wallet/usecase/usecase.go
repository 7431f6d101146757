package usecase

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/wallet"
)

type WalletUseCaseCfg struct {
	Repo wallet.Repo
}

type impl struct {
	// balance movements are read-modify-write on the repo
	mu   sync.Mutex
	repo wallet.Repo
}

func New(cfg *WalletUseCaseCfg) wallet.Usecase {
	return &impl{
		repo: cfg.Repo,
	}
}

func validAmount(amount *big.Int) bool {
	return amount != nil && amount.Sign() >= 0
}

func (im *impl) Balance(c ctx.Ctx, account domain.Address) (*big.Int, error) {
	b, err := im.repo.Balance(c, account)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "account": account}).Error("repo.Balance failed")
		return nil, err
	}
	return b, nil
}

func (im *impl) Deposit(c ctx.Ctx, account domain.Address, amount *big.Int) (*big.Int, error) {
	if !validAmount(amount) {
		return nil, domain.ErrInvalidAmount
	}
	im.mu.Lock()
	defer im.mu.Unlock()

	b, err := im.Balance(c, account)
	if err != nil {
		return nil, err
	}
	b.Add(b, amount)
	if err := im.repo.SetBalance(c, account, b); err != nil {
		c.WithFields(log.Fields{"err": err, "account": account}).Error("repo.SetBalance failed")
		return nil, err
	}
	return b, nil
}

func (im *impl) canPay(c ctx.Ctx, account domain.Address, amount *big.Int) error {
	b, err := im.Balance(c, account)
	if err != nil {
		return err
	}
	if b.Cmp(amount) < 0 {
		c.WithFields(log.Fields{"account": account, "balance": b, "amount": amount}).Warn("insufficient funds")
		return domain.Reason(domain.ErrInsufficientFunds, domain.ReasonInsufficientFunds)
	}
	return nil
}

func (im *impl) CanPay(c ctx.Ctx, account domain.Address, amount *big.Int) error {
	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.canPay(c, account, amount)
}

func (im *impl) Transfer(c ctx.Ctx, from, to domain.Address, amount *big.Int) error {
	return im.Disburse(c, from, []wallet.Payout{{To: to, Amount: amount}})
}

// Disburse debits the sum of the payouts from one account and credits every payee,
// either all of it happens or none of it does
func (im *impl) Disburse(c ctx.Ctx, from domain.Address, payouts []wallet.Payout) error {
	total := new(big.Int)
	for _, p := range payouts {
		if !validAmount(p.Amount) {
			return domain.ErrInvalidAmount
		}
		total.Add(total, p.Amount)
	}
	if total.Sign() == 0 {
		return nil
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.canPay(c, from, total); err != nil {
		return err
	}

	// stage every new balance before writing any of them
	staged := map[domain.Address]*big.Int{}
	order := []domain.Address{}
	balance := func(a domain.Address) (*big.Int, error) {
		a = a.ToLower()
		if b, ok := staged[a]; ok {
			return b, nil
		}
		b, err := im.Balance(c, a)
		if err != nil {
			return nil, err
		}
		staged[a] = b
		order = append(order, a)
		return b, nil
	}

	b, err := balance(from)
	if err != nil {
		return err
	}
	b.Sub(b, total)
	for _, p := range payouts {
		if p.Amount.Sign() == 0 {
			continue
		}
		b, err := balance(p.To)
		if err != nil {
			return err
		}
		b.Add(b, p.Amount)
	}

	for _, a := range order {
		if err := im.repo.SetBalance(c, a, staged[a]); err != nil {
			c.WithFields(log.Fields{"err": err, "account": a}).Error("repo.SetBalance failed")
			return err
		}
	}
	return nil
}
