package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/registry"
)

type memory struct {
	mu          sync.RWMutex
	collections map[domain.Address]registry.Collection
}

func NewMemory() registry.Repo {
	return &memory{
		collections: make(map[domain.Address]registry.Collection),
	}
}

func (m *memory) Insert(c ctx.Ctx, col *registry.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	address := col.Address.ToLower()
	if _, ok := m.collections[address]; ok {
		return domain.Reason(domain.ErrInvalidArgument, domain.ReasonCollectionAlreadyExist)
	}
	stored := *col
	stored.Address = address
	stored.Creator = col.Creator.ToLower()
	m.collections[address] = stored
	return nil
}

func (m *memory) FindOne(c ctx.Ctx, address domain.Address) (*registry.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col, ok := m.collections[address.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &col, nil
}

// FindAll returns the collections in creation order
func (m *memory) FindAll(c ctx.Ctx) ([]*registry.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]*registry.Collection, 0, len(m.collections))
	for _, col := range m.collections {
		col := col
		res = append(res, &col)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Nonce < res[j].Nonce
	})
	return res, nil
}

func (m *memory) Count(c ctx.Ctx) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.collections)), nil
}
