package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/wallet"
	"github.com/x-xyz/marketledger/stores/wallet/repository"
)

var mockCtx = ctx.Background()

const (
	buyer    = domain.Address("0x00000000000000000000000000000000000000b1")
	seller   = domain.Address("0x00000000000000000000000000000000000000b2")
	platform = domain.Address("0x00000000000000000000000000000000000000a1")
)

type walletTestSuite struct {
	suite.Suite
	uc wallet.Usecase
}

func TestWallet(t *testing.T) {
	suite.Run(t, new(walletTestSuite))
}

func (s *walletTestSuite) SetupTest() {
	s.uc = New(&WalletUseCaseCfg{Repo: repository.NewMemory()})
	_, err := s.uc.Deposit(mockCtx, buyer, big.NewInt(1000))
	s.Require().NoError(err)
}

func (s *walletTestSuite) balance(a domain.Address) int64 {
	b, err := s.uc.Balance(mockCtx, a)
	s.Require().NoError(err)
	return b.Int64()
}

func (s *walletTestSuite) TestDeposit() {
	b, err := s.uc.Deposit(mockCtx, buyer, big.NewInt(5))
	s.NoError(err)
	s.Equal(int64(1005), b.Int64())

	_, err = s.uc.Deposit(mockCtx, buyer, big.NewInt(-5))
	s.ErrorIs(err, domain.ErrInvalidAmount)
}

func (s *walletTestSuite) TestCanPay() {
	s.NoError(s.uc.CanPay(mockCtx, buyer, big.NewInt(1000)))
	err := s.uc.CanPay(mockCtx, buyer, big.NewInt(1001))
	s.ErrorIs(err, domain.ErrInsufficientFunds)
	s.Equal(domain.ReasonInsufficientFunds, err.Error())
}

func (s *walletTestSuite) TestTransfer() {
	s.NoError(s.uc.Transfer(mockCtx, buyer, seller, big.NewInt(400)))
	s.Equal(int64(600), s.balance(buyer))
	s.Equal(int64(400), s.balance(seller))

	s.ErrorIs(s.uc.Transfer(mockCtx, seller, buyer, big.NewInt(401)), domain.ErrInsufficientFunds)
	s.Equal(int64(400), s.balance(seller))
}

func (s *walletTestSuite) TestDisburseIsAllOrNothing() {
	err := s.uc.Disburse(mockCtx, buyer, []wallet.Payout{
		{To: platform, Amount: big.NewInt(600)},
		{To: seller, Amount: big.NewInt(600)},
	})
	s.ErrorIs(err, domain.ErrInsufficientFunds)
	s.Equal(int64(1000), s.balance(buyer))
	s.Equal(int64(0), s.balance(platform))
	s.Equal(int64(0), s.balance(seller))
}

func (s *walletTestSuite) TestDisburse() {
	s.NoError(s.uc.Disburse(mockCtx, buyer, []wallet.Payout{
		{To: platform, Amount: big.NewInt(20)},
		{To: seller, Amount: big.NewInt(0)},
		{To: seller, Amount: big.NewInt(980)},
	}))
	s.Equal(int64(0), s.balance(buyer))
	s.Equal(int64(20), s.balance(platform))
	s.Equal(int64(980), s.balance(seller))
}

func (s *walletTestSuite) TestDisburseToSelf() {
	s.NoError(s.uc.Disburse(mockCtx, buyer, []wallet.Payout{
		{To: buyer, Amount: big.NewInt(300)},
		{To: seller, Amount: big.NewInt(100)},
	}))
	s.Equal(int64(900), s.balance(buyer))
	s.Equal(int64(100), s.balance(seller))
}

func (s *walletTestSuite) TestZeroDisburseIsNoop() {
	s.NoError(s.uc.Disburse(mockCtx, seller, []wallet.Payout{{To: buyer, Amount: big.NewInt(0)}}))
	s.Equal(int64(1000), s.balance(buyer))
}
