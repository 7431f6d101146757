package usecase

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	mEvent "github.com/x-xyz/marketledger/domain/event/mocks"
	"github.com/x-xyz/marketledger/domain/keys"
	"github.com/x-xyz/marketledger/domain/royalty"
	"github.com/x-xyz/marketledger/service/cache"
	"github.com/x-xyz/marketledger/service/cache/provider/primitive"
	"github.com/x-xyz/marketledger/stores/royalty/repository"
)

var mockCtx = ctx.Background()

const (
	owner      = domain.Address("0x00000000000000000000000000000000000000a1")
	registry   = domain.Address("0x00000000000000000000000000000000000000a2")
	stranger   = domain.Address("0x00000000000000000000000000000000000000b1")
	curator    = domain.Address("0x00000000000000000000000000000000000000c1")
	collection = domain.Address("0x00000000000000000000000000000000000000d1")
)

type royaltyTestSuite struct {
	suite.Suite
	withCache bool
	repo      royalty.Repo
	uc        royalty.Usecase
	events    []event.Event
}

func TestRoyalty(t *testing.T) {
	suite.Run(t, new(royaltyTestSuite))
}

func TestRoyaltyCached(t *testing.T) {
	suite.Run(t, &royaltyTestSuite{withCache: true})
}

func (s *royaltyTestSuite) SetupTest() {
	s.events = nil
	s.repo = repository.NewMemory(royalty.Settings{
		Owner:       owner,
		ListingFee:  big.NewInt(1000),
		PlatformBps: 200,
	})
	cfg := &RoyaltyUseCaseCfg{
		Repo: s.repo,
		Sink: event.SinkFunc(func(c ctx.Ctx, e event.Event) { s.events = append(s.events, e) }),
	}
	if s.withCache {
		cfg.Cache = cache.New(cache.ServiceConfig{
			Ttl:      time.Minute,
			Pfx:      keys.PfxRoyalty,
			Provider: primitive.NewPrimitive("royalty", 1),
		})
	}
	uc, err := New(cfg)
	s.Require().NoError(err)
	s.uc = uc
	s.Require().NoError(s.uc.SetRegistry(mockCtx, owner, registry))
}

func (s *royaltyTestSuite) TestNewRejectsPlatformRateAboveMax() {
	_, err := New(&RoyaltyUseCaseCfg{Repo: repository.NewMemory(royalty.Settings{
		Owner:       owner,
		PlatformBps: 10001,
	})})
	s.ErrorIs(err, domain.ErrInvalidPercentage)
	s.Equal(domain.ReasonRoyaltiesTooHigh, err.Error())

	_, err = New(&RoyaltyUseCaseCfg{Repo: repository.NewMemory(royalty.Settings{
		Owner:       owner,
		PlatformBps: 10000,
	})})
	s.NoError(err)
}

func (s *royaltyTestSuite) TestOwnerOnlySetters() {
	s.ErrorIs(s.uc.SetListingFee(mockCtx, stranger, big.NewInt(1)), domain.ErrUnauthorized)
	s.ErrorIs(s.uc.SetPlatformRoyalty(mockCtx, stranger, 1), domain.ErrUnauthorized)
	s.ErrorIs(s.uc.SetCuratorRoyalty(mockCtx, stranger, collection, curator, 1), domain.ErrUnauthorized)
	s.ErrorIs(s.uc.SetRegistry(mockCtx, stranger, stranger), domain.ErrUnauthorized)
	s.ErrorIs(s.uc.SetCreatorRoyalty(mockCtx, stranger, royalty.CreatorKey{Collection: collection, ItemId: 1}, 1), domain.ErrUnauthorized)

	// the registry writes creator rates but nothing else
	s.ErrorIs(s.uc.SetListingFee(mockCtx, registry, big.NewInt(1)), domain.ErrUnauthorized)
	s.NoError(s.uc.SetCreatorRoyalty(mockCtx, registry, royalty.CreatorKey{Collection: collection, ItemId: 1}, 1))

	fee, err := s.uc.GetListingFee(mockCtx)
	s.NoError(err)
	s.Equal(int64(1000), fee.Int64())
}

func (s *royaltyTestSuite) TestPercentageBounds() {
	key := royalty.CreatorKey{Collection: collection, ItemId: 1}
	cases := []struct {
		name string
		set  func(domain.Bps) error
	}{
		{"platform", func(b domain.Bps) error { return s.uc.SetPlatformRoyalty(mockCtx, owner, b) }},
		{"creator", func(b domain.Bps) error { return s.uc.SetCreatorRoyalty(mockCtx, owner, key, b) }},
		{"curator", func(b domain.Bps) error { return s.uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, b) }},
	}
	for _, c := range cases {
		err := c.set(10001)
		s.ErrorIs(err, domain.ErrInvalidPercentage, c.name)
		s.Equal(domain.ReasonRoyaltiesTooHigh, err.Error(), c.name)
		s.NoError(c.set(10000), c.name)
	}

	got, err := s.uc.GetPlatformRoyalty(mockCtx)
	s.NoError(err)
	s.Equal(domain.MaxBps, got)
}

func (s *royaltyTestSuite) TestReadsFollowWrites() {
	key := royalty.CreatorKey{Collection: collection, ItemId: 7}
	bps, err := s.uc.GetCreatorRoyalty(mockCtx, key)
	s.NoError(err)
	s.Equal(domain.Bps(0), bps)

	s.NoError(s.uc.SetCreatorRoyalty(mockCtx, owner, key, 220))
	bps, err = s.uc.GetCreatorRoyalty(mockCtx, key)
	s.NoError(err)
	s.Equal(domain.Bps(220), bps)

	cur, err := s.uc.GetCuratorRoyalty(mockCtx, collection)
	s.NoError(err)
	s.True(cur.Curator.IsEmpty())
	s.Equal(domain.Bps(0), cur.Bps)

	s.NoError(s.uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, 145))
	cur, err = s.uc.GetCuratorRoyalty(mockCtx, collection)
	s.NoError(err)
	s.Equal(royalty.CuratorRoyalty{Curator: curator, Bps: 145}, *cur)

	s.NoError(s.uc.SetListingFee(mockCtx, owner, big.NewInt(5)))
	fee, err := s.uc.GetListingFee(mockCtx)
	s.NoError(err)
	s.Equal(int64(5), fee.Int64())
}

func (s *royaltyTestSuite) TestComputeSplit() {
	key := royalty.CreatorKey{Collection: collection, ItemId: 1}
	s.Require().NoError(s.uc.SetCreatorRoyalty(mockCtx, registry, key, 220))
	s.Require().NoError(s.uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, 145))

	price, _ := new(big.Int).SetString("1000000000000000000", 10)
	split, err := s.uc.ComputeSplit(mockCtx, registry, key, price)
	s.Require().NoError(err)
	s.Equal("20000000000000000", split.Platform.String())
	s.Equal("22000000000000000", split.Creator.String())
	s.Equal("14500000000000000", split.Curator.String())
	s.Equal("943500000000000000", split.Seller.String())
	s.Equal(0, split.Total().Cmp(price))
}

func (s *royaltyTestSuite) TestComputeSplitTruncatesToSeller() {
	key := royalty.CreatorKey{Collection: collection, ItemId: 1}
	s.Require().NoError(s.uc.SetCreatorRoyalty(mockCtx, owner, key, 333))
	s.Require().NoError(s.uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, 1))

	for _, p := range []int64{0, 1, 7, 99, 10001, 123457, 999999999} {
		price := big.NewInt(p)
		split, err := s.uc.ComputeSplit(mockCtx, owner, key, price)
		s.Require().NoError(err)
		s.Equal(0, split.Total().Cmp(price), "price %d", p)
		s.True(split.Seller.Sign() >= 0, "price %d", p)
	}
}

func (s *royaltyTestSuite) TestComputeSplitNoCurator() {
	key := royalty.CreatorKey{Collection: collection, ItemId: 1}
	split, err := s.uc.ComputeSplit(mockCtx, owner, key, big.NewInt(10000))
	s.Require().NoError(err)
	s.Equal(int64(200), split.Platform.Int64())
	s.Equal(int64(0), split.Creator.Int64())
	s.Equal(int64(0), split.Curator.Int64())
	s.Equal(int64(9800), split.Seller.Int64())
}

func (s *royaltyTestSuite) TestComputeSplitSumAboveMax() {
	key := royalty.CreatorKey{Collection: collection, ItemId: 1}
	s.Require().NoError(s.uc.SetCreatorRoyalty(mockCtx, owner, key, 9000))
	s.Require().NoError(s.uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, 801))

	_, err := s.uc.ComputeSplit(mockCtx, owner, key, big.NewInt(100))
	s.ErrorIs(err, domain.ErrInvalidPercentage)
	s.Equal(domain.ReasonRoyaltiesSumTooHigh, err.Error())

	// exactly 100% is still a valid split
	s.Require().NoError(s.uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, 800))
	split, err := s.uc.ComputeSplit(mockCtx, owner, key, big.NewInt(100))
	s.NoError(err)
	s.Equal(int64(0), split.Seller.Int64())
}

func (s *royaltyTestSuite) TestComputeSplitIsGated() {
	_, err := s.uc.ComputeSplit(mockCtx, stranger, royalty.CreatorKey{Collection: collection, ItemId: 1}, big.NewInt(1))
	s.ErrorIs(err, domain.ErrUnauthorized)

	_, err = s.uc.GetRegistry(mockCtx, stranger)
	s.ErrorIs(err, domain.ErrUnauthorized)
	got, err := s.uc.GetRegistry(mockCtx, registry)
	s.NoError(err)
	s.Equal(registry, got)
}

func (s *royaltyTestSuite) TestCuratorRequiresAddress() {
	err := s.uc.SetCuratorRoyalty(mockCtx, owner, collection, "", 10)
	s.ErrorIs(err, domain.ErrInvalidArgument)
	s.NoError(s.uc.SetCuratorRoyalty(mockCtx, owner, collection, "", 0))
}

func (s *royaltyTestSuite) TestEvents() {
	s.events = nil
	s.Require().NoError(s.uc.SetPlatformRoyalty(mockCtx, owner, 300))
	s.Require().Error(s.uc.SetPlatformRoyalty(mockCtx, owner, 10001))
	s.Require().NoError(s.uc.SetListingFee(mockCtx, owner, big.NewInt(42)))

	s.Require().Len(s.events, 2)
	s.Equal(event.KindPlatformRoyaltyUpdated, s.events[0].Kind)
	s.Equal(domain.Bps(300), *s.events[0].Bps)
	s.Equal(owner, s.events[0].Actor)
	s.Equal(event.KindListingFeeUpdated, s.events[1].Kind)
	s.Equal("42", s.events[1].Amount)
}

func TestRoyaltyEmitsThroughSink(t *testing.T) {
	sink := &mEvent.Sink{}
	sink.On("Emit", mock.Anything, mock.MatchedBy(func(e event.Event) bool {
		return e.Kind == event.KindCuratorRoyaltyUpdated && e.Counterparty == curator && e.Collection == collection
	})).Once()

	uc, err := New(&RoyaltyUseCaseCfg{
		Repo: repository.NewMemory(royalty.Settings{Owner: owner}),
		Sink: sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := uc.SetCuratorRoyalty(mockCtx, owner, collection, curator, 100); err != nil {
		t.Fatal(err)
	}
	sink.AssertExpectations(t)
}

type failingRepo struct {
	royalty.Repo
}

var errRepo = errors.New("store down")

func (f failingRepo) GetCreatorBps(c ctx.Ctx, key royalty.CreatorKey) (domain.Bps, error) {
	return 0, errRepo
}

func TestRoyaltyRepoErrorPropagates(t *testing.T) {
	uc, err := New(&RoyaltyUseCaseCfg{
		Repo: failingRepo{repository.NewMemory(royalty.Settings{Owner: owner})},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.ComputeSplit(mockCtx, owner, royalty.CreatorKey{Collection: collection, ItemId: 1}, big.NewInt(1)); !errors.Is(err, errRepo) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

// slowRepo holds the next GetSettings after it has read, until release is closed
type slowRepo struct {
	royalty.Repo
	mu      sync.Mutex
	armed   bool
	read    chan struct{}
	release chan struct{}
}

func (r *slowRepo) GetSettings(c ctx.Ctx) (*royalty.Settings, error) {
	st, err := r.Repo.GetSettings(c)
	r.mu.Lock()
	hold := r.armed
	r.armed = false
	r.mu.Unlock()
	if hold {
		close(r.read)
		<-r.release
	}
	return st, err
}

func TestCachedReadNeverOutlivesWrite(t *testing.T) {
	repo := &slowRepo{
		Repo: repository.NewMemory(royalty.Settings{
			Owner:       owner,
			PlatformBps: 200,
		}),
		read:    make(chan struct{}),
		release: make(chan struct{}),
	}
	uc, err := New(&RoyaltyUseCaseCfg{
		Repo: repo,
		Cache: cache.New(cache.ServiceConfig{
			Ttl:      time.Minute,
			Pfx:      keys.PfxRoyalty,
			Provider: primitive.NewPrimitive("royalty", 1),
		}),
	})
	require.NoError(t, err)

	repo.mu.Lock()
	repo.armed = true
	repo.mu.Unlock()

	readDone := make(chan domain.Bps)
	go func() {
		bps, err := uc.GetPlatformRoyalty(mockCtx)
		assert.NoError(t, err)
		readDone <- bps
	}()
	<-repo.read

	writeDone := make(chan error)
	go func() {
		writeDone <- uc.SetPlatformRoyalty(mockCtx, owner, 500)
	}()
	// give the write the chance to land while the read still holds the old value
	time.Sleep(50 * time.Millisecond)
	close(repo.release)

	assert.Equal(t, domain.Bps(200), <-readDone)
	require.NoError(t, <-writeDone)

	st, err := repo.Repo.GetSettings(mockCtx)
	require.NoError(t, err)
	assert.Equal(t, domain.Bps(500), st.PlatformBps)
	bps, err := uc.GetPlatformRoyalty(mockCtx)
	require.NoError(t, err)
	assert.Equal(t, domain.Bps(500), bps)
}
