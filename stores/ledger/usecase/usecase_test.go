package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	mEvent "github.com/x-xyz/marketledger/domain/event/mocks"
	"github.com/x-xyz/marketledger/domain/ledger"
	"github.com/x-xyz/marketledger/stores/ledger/repository"
)

var mockCtx = ctx.Background()

const (
	registry   = domain.Address("0x00000000000000000000000000000000000000a2")
	platform   = domain.Address("0x00000000000000000000000000000000000000a1")
	alice      = domain.Address("0x00000000000000000000000000000000000000b1")
	bob        = domain.Address("0x00000000000000000000000000000000000000b2")
	collection = domain.Address("0x00000000000000000000000000000000000000d1")
	other      = domain.Address("0x00000000000000000000000000000000000000d2")
)

var (
	fromRegistry = domain.NewCall(registry)
	price        = big.NewInt(1e18)
)

type ledgerTestSuite struct {
	suite.Suite
	repo    ledger.Repo
	sink    *mEvent.Sink
	factory ledger.Factory
	uc      ledger.Usecase
}

func TestLedger(t *testing.T) {
	suite.Run(t, new(ledgerTestSuite))
}

func (s *ledgerTestSuite) SetupTest() {
	s.repo = repository.NewMemory()
	s.sink = &mEvent.Sink{}
	s.sink.On("Emit", mock.Anything, mock.Anything).Return()
	s.factory = NewFactory(s.repo, s.sink)
	s.uc = s.factory(info(collection))
}

func info(address domain.Address) ledger.Info {
	return ledger.Info{
		Address:  address,
		Registry: registry,
		Owner:    platform,
		Creator:  alice,
		Name:     "Nifty",
		Symbol:   "NFT",
	}
}

func (s *ledgerTestSuite) mint(uri string, listed bool) ledger.ItemId {
	call := fromRegistry
	p := ledger.MintParams{Uri: uri, Creator: alice, ListForSale: listed}
	if listed {
		call = call.WithValue(big.NewInt(1))
		p.Price = price
	}
	id, err := s.uc.Mint(mockCtx, call, p)
	s.Require().NoError(err)
	return id
}

func (s *ledgerTestSuite) stats() (uint64, uint64) {
	supply, err := s.uc.TotalSupply(mockCtx, fromRegistry)
	s.Require().NoError(err)
	inSale, err := s.uc.TotalInSale(mockCtx, fromRegistry)
	s.Require().NoError(err)
	return supply, inSale
}

func (s *ledgerTestSuite) TestInfoIsLowerCased() {
	uc := New(&LedgerUseCaseCfg{Info: ledger.Info{
		Address:  "0x00000000000000000000000000000000000000DD",
		Registry: "0x00000000000000000000000000000000000000AA",
	}, Repo: s.repo})
	s.Equal(domain.Address("0x00000000000000000000000000000000000000dd"), uc.Info().Address)
	s.Equal(domain.Address("0x00000000000000000000000000000000000000aa"), uc.Info().Registry)
	s.Equal("Nifty", s.uc.Info().Name)
}

func (s *ledgerTestSuite) TestMintUnlisted() {
	id := s.mint("ipfs://a", false)
	s.Equal(ledger.ItemId(1), id)

	owner, err := s.uc.GetOwner(mockCtx, id)
	s.NoError(err)
	s.Equal(alice, owner)

	seller, err := s.uc.GetSeller(mockCtx, id)
	s.NoError(err)
	s.Equal(domain.EmptyAddress, seller)

	onSale, err := s.uc.IsOnSale(mockCtx, id)
	s.NoError(err)
	s.False(onSale)

	supply, inSale := s.stats()
	s.Equal(uint64(1), supply)
	s.Equal(uint64(0), inSale)

	s.sink.AssertCalled(s.T(), "Emit", mock.Anything, mock.MatchedBy(func(e event.Event) bool {
		return e.Kind == event.KindItemMinted && e.ItemId == 1 && e.Actor == alice && e.Amount == "0"
	}))
}

func (s *ledgerTestSuite) TestMintListedGoesToCustody() {
	id := s.mint("ipfs://a", true)

	item, err := s.uc.GetItem(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(platform, item.Owner)
	s.Equal(alice, item.Seller)
	s.Equal(0, item.Price.Cmp(price))
	s.True(item.OnSale)

	supply, inSale := s.stats()
	s.Equal(uint64(1), supply)
	s.Equal(uint64(1), inSale)
}

func (s *ledgerTestSuite) TestMintRejections() {
	_, err := s.uc.Mint(mockCtx, domain.NewCall(alice), ledger.MintParams{Uri: "u", Creator: alice})
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(domain.ReasonOnlyRegistry, err.Error())

	_, err = s.uc.Mint(mockCtx, fromRegistry, ledger.MintParams{Uri: "u", Creator: bob})
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(domain.ReasonOnlyCreator, err.Error())

	_, err = s.uc.Mint(mockCtx, fromRegistry, ledger.MintParams{Creator: alice})
	s.ErrorIs(err, domain.ErrInvalidArgument)

	_, err = s.uc.Mint(mockCtx, fromRegistry.WithValue(big.NewInt(1)), ledger.MintParams{Uri: "u", Creator: alice, ListForSale: true, Price: big.NewInt(0)})
	s.ErrorIs(err, domain.ErrInvalidPrice)
	s.Equal(domain.ReasonZeroPrice, err.Error())

	_, err = s.uc.Mint(mockCtx, fromRegistry, ledger.MintParams{Uri: "u", Creator: alice, ListForSale: true, Price: price})
	s.ErrorIs(err, domain.ErrMissingPayment)
	s.Equal(domain.ReasonMissingListingFees, err.Error())

	supply, _ := s.stats()
	s.Equal(uint64(0), supply)
	s.sink.AssertNotCalled(s.T(), "Emit", mock.Anything, mock.Anything)
}

func (s *ledgerTestSuite) TestCheckMintDoesNotMutate() {
	s.NoError(s.uc.CheckMint(mockCtx, fromRegistry, ledger.MintParams{Uri: "u", Creator: alice}))
	supply, _ := s.stats()
	s.Equal(uint64(0), supply)

	s.mint("u", false)
	err := s.uc.CheckMint(mockCtx, fromRegistry, ledger.MintParams{Uri: "u", Creator: alice})
	s.ErrorIs(err, domain.ErrDuplicateURI)
}

func (s *ledgerTestSuite) TestDuplicateUriPerCollection() {
	s.mint("ipfs://same", false)

	_, err := s.uc.Mint(mockCtx, fromRegistry, ledger.MintParams{Uri: "ipfs://same", Creator: alice})
	s.ErrorIs(err, domain.ErrDuplicateURI)
	s.Equal(domain.ReasonDuplicateURI, err.Error())

	second := s.factory(info(other))
	id, err := second.Mint(mockCtx, fromRegistry, ledger.MintParams{Uri: "ipfs://same", Creator: alice})
	s.NoError(err)
	s.Equal(ledger.ItemId(1), id)
}

func (s *ledgerTestSuite) TestListThenCancelRestoresItem() {
	id := s.mint("ipfs://a", false)
	before, err := s.uc.GetItem(mockCtx, id)
	s.Require().NoError(err)

	s.Require().NoError(s.uc.List(mockCtx, fromRegistry, id, price, alice))
	item, err := s.uc.GetItem(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(platform, item.Owner)
	s.Equal(alice, item.Seller)
	_, inSale := s.stats()
	s.Equal(uint64(1), inSale)

	s.Require().NoError(s.uc.Cancel(mockCtx, fromRegistry, id, alice))
	after, err := s.uc.GetItem(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(before, after)
	_, inSale = s.stats()
	s.Equal(uint64(0), inSale)
}

func (s *ledgerTestSuite) TestListRejections() {
	id := s.mint("ipfs://a", false)

	err := s.uc.List(mockCtx, fromRegistry, 9, price, alice)
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(domain.ReasonNftNotFound, err.Error())

	err = s.uc.List(mockCtx, fromRegistry, id, price, bob)
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(domain.ReasonOnlyNftOwner, err.Error())

	err = s.uc.List(mockCtx, fromRegistry, id, big.NewInt(0), alice)
	s.ErrorIs(err, domain.ErrInvalidPrice)

	err = s.uc.List(mockCtx, domain.NewCall(alice), id, price, alice)
	s.ErrorIs(err, domain.ErrUnauthorized)

	s.Require().NoError(s.uc.List(mockCtx, fromRegistry, id, price, alice))
	err = s.uc.List(mockCtx, fromRegistry, id, price, alice)
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(domain.ReasonOnlyNftOwner, err.Error())

	// the custodian holds listed items but cannot list them twice
	err = s.uc.List(mockCtx, fromRegistry, id, price, platform)
	s.ErrorIs(err, domain.ErrInvalidArgument)
	s.Equal(domain.ReasonAlreadyInSale, err.Error())

	_, inSale := s.stats()
	s.Equal(uint64(1), inSale)
}

func (s *ledgerTestSuite) TestListListedItemByStranger() {
	id := s.mint("ipfs://a", true)

	err := s.uc.List(mockCtx, fromRegistry, id, price, bob)
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(domain.ReasonOnlyNftOwner, err.Error())

	seller, err := s.uc.GetSeller(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(alice, seller)
}

func (s *ledgerTestSuite) TestCancelRejections() {
	id := s.mint("ipfs://a", false)

	err := s.uc.Cancel(mockCtx, fromRegistry, id, alice)
	s.ErrorIs(err, domain.ErrNotListed)
	s.Equal(domain.ReasonNotInSale, err.Error())

	s.Require().NoError(s.uc.List(mockCtx, fromRegistry, id, price, alice))
	err = s.uc.Cancel(mockCtx, fromRegistry, id, bob)
	s.ErrorIs(err, domain.ErrUnauthorized)
	s.Equal(domain.ReasonOnlySeller, err.Error())

	err = s.uc.Cancel(mockCtx, fromRegistry, 9, alice)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ledgerTestSuite) TestBuy() {
	id := s.mint("ipfs://a", true)

	err := s.uc.Buy(mockCtx, fromRegistry.WithValue(big.NewInt(1)), id, bob, price, alice)
	s.ErrorIs(err, domain.ErrWrongPayment)
	s.Equal(domain.ReasonWrongPrice, err.Error())

	s.Require().NoError(s.uc.Buy(mockCtx, fromRegistry.WithValue(price), id, bob, price, alice))
	item, err := s.uc.GetItem(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(bob, item.Owner)
	s.Equal(domain.EmptyAddress, item.Seller)
	s.True(domain.IsZero(item.Price))
	s.False(item.OnSale)

	supply, inSale := s.stats()
	s.Equal(uint64(1), supply)
	s.Equal(uint64(0), inSale)

	err = s.uc.Buy(mockCtx, fromRegistry.WithValue(price), id, bob, price, alice)
	s.ErrorIs(err, domain.ErrNotListed)

	// the buyer can list it again
	s.NoError(s.uc.List(mockCtx, fromRegistry, id, price, bob))
}

func (s *ledgerTestSuite) TestReadsOnUnmintedItem() {
	_, err := s.uc.GetOwner(mockCtx, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.uc.GetSeller(mockCtx, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.uc.GetPrice(mockCtx, 1)
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.uc.IsOnSale(mockCtx, 1)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ledgerTestSuite) TestCountersAreRegistryGated() {
	_, err := s.uc.TotalSupply(mockCtx, domain.NewCall(alice))
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.uc.TotalInSale(mockCtx, domain.NewCall(alice))
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *ledgerTestSuite) TestInSaleNeverExceedsSupply() {
	ids := []ledger.ItemId{
		s.mint("a", false),
		s.mint("b", true),
		s.mint("c", false),
	}
	s.Require().NoError(s.uc.List(mockCtx, fromRegistry, ids[0], price, alice))
	s.Require().NoError(s.uc.Buy(mockCtx, fromRegistry.WithValue(price), ids[1], bob, price, alice))
	s.Require().NoError(s.uc.List(mockCtx, fromRegistry, ids[2], price, alice))
	s.Require().NoError(s.uc.Cancel(mockCtx, fromRegistry, ids[0], alice))

	supply, inSale := s.stats()
	s.Equal(uint64(3), supply)
	s.Equal(uint64(1), inSale)

	var flagged uint64
	for _, id := range ids {
		onSale, err := s.uc.IsOnSale(mockCtx, id)
		s.Require().NoError(err)
		if onSale {
			flagged++
		}
	}
	s.Equal(inSale, flagged)
}
