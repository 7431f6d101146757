package usecase

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	"github.com/x-xyz/marketledger/stores/event/repository"
)

var mockCtx = ctx.Background()

const collection = domain.Address("0x00000000000000000000000000000000000000d1")

// archiveMock is a hand written event.Repo mock, Insert may run on any worker
type archiveMock struct {
	mock.Mock
	mu       sync.Mutex
	received []event.Event
}

func (m *archiveMock) Insert(c ctx.Ctx, e event.Event) error {
	ret := m.Called(e.Kind)
	m.mu.Lock()
	m.received = append(m.received, e)
	m.mu.Unlock()
	return ret.Error(0)
}

func (m *archiveMock) FindAll(c ctx.Ctx, opts ...event.FindAllOptions) ([]event.Event, error) {
	return nil, nil
}

type publisherTestSuite struct {
	suite.Suite
	repo    event.Repo
	archive *archiveMock
	uc      event.Usecase
}

func TestPublisher(t *testing.T) {
	defer goleak.VerifyNone(t)
	suite.Run(t, new(publisherTestSuite))
}

func (s *publisherTestSuite) SetupTest() {
	s.repo = repository.NewMemory()
	s.archive = &archiveMock{}
	s.uc = New(&EventUseCaseCfg{
		Repo:     s.repo,
		Archives: []event.Repo{s.archive},
		Workers:  2,
	})
}

func (s *publisherTestSuite) TearDownTest() {
	s.uc.Close()
}

func (s *publisherTestSuite) TestEmitIsVisibleImmediately() {
	s.archive.On("Insert", mock.Anything).Return(nil)

	s.uc.Emit(mockCtx, event.New(event.KindCollectionAdded).WithCollection(collection))
	es, err := s.uc.FindAll(mockCtx, event.WithCollection(collection))
	s.NoError(err)
	s.Len(es, 1)
}

func (s *publisherTestSuite) TestCloseDrainsArchives() {
	s.archive.On("Insert", event.KindNftAdded).Return(nil)
	s.archive.On("Insert", event.KindSaleListed).Return(errors.New("archive down"))

	for i := 0; i < 50; i++ {
		s.uc.Emit(mockCtx, event.New(event.KindNftAdded).WithItem(uint64(i+1)))
	}
	s.uc.Emit(mockCtx, event.New(event.KindSaleListed))
	s.uc.Close()

	s.archive.mu.Lock()
	s.Len(s.archive.received, 51)
	s.archive.mu.Unlock()

	// a failed archive write does not lose the primary record
	es, err := s.uc.FindAll(mockCtx, event.WithKinds(event.KindSaleListed))
	s.NoError(err)
	s.Len(es, 1)
}

func (s *publisherTestSuite) TestEmitAfterClose() {
	s.uc.Close()
	s.uc.Emit(mockCtx, event.New(event.KindSaleCancelled))

	s.archive.AssertNotCalled(s.T(), "Insert", mock.Anything)
	es, err := s.uc.FindAll(mockCtx)
	s.NoError(err)
	s.Len(es, 1)
}
