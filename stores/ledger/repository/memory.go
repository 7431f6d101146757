package repository

import (
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/ledger"
)

type table struct {
	// items[i] holds item id i+1
	items  []*ledger.Item
	uris   map[string]struct{}
	inSale uint64
}

type memory struct {
	mu     sync.RWMutex
	tables map[domain.Address]*table
}

// NewMemory keeps the item tables of every collection in process
func NewMemory() ledger.Repo {
	return &memory{
		tables: make(map[domain.Address]*table),
	}
}

// get returns the table of collection, creating it when create is set. Callers hold the lock.
func (m *memory) get(collection domain.Address, create bool) *table {
	key := collection.ToLower()
	t, ok := m.tables[key]
	if !ok && create {
		t = &table{uris: make(map[string]struct{})}
		m.tables[key] = t
	}
	return t
}

func (m *memory) Insert(c ctx.Ctx, collection domain.Address, item *ledger.Item) (ledger.ItemId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.get(collection, true)
	if _, ok := t.uris[item.Uri]; ok {
		return 0, domain.Reason(domain.ErrDuplicateURI, domain.ReasonDuplicateURI)
	}

	stored := item.Clone()
	stored.Id = ledger.ItemId(len(t.items) + 1)
	t.items = append(t.items, stored)
	t.uris[stored.Uri] = struct{}{}
	if stored.OnSale {
		t.inSale++
	}
	return stored.Id, nil
}

func (t *table) find(id ledger.ItemId) *ledger.Item {
	if t == nil || id == 0 || uint64(id) > uint64(len(t.items)) {
		return nil
	}
	return t.items[id-1]
}

func (m *memory) FindOne(c ctx.Ctx, collection domain.Address, id ledger.ItemId) (*ledger.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item := m.get(collection, false).find(id)
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item.Clone(), nil
}

func (m *memory) Update(c ctx.Ctx, collection domain.Address, item *ledger.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.get(collection, false)
	current := t.find(item.Id)
	if current == nil {
		return domain.ErrNotFound
	}

	switch {
	case item.OnSale && !current.OnSale:
		t.inSale++
	case !item.OnSale && current.OnSale:
		t.inSale--
	}

	stored := item.Clone()
	// the uri of a minted item never changes
	stored.Uri = current.Uri
	t.items[item.Id-1] = stored
	return nil
}

func (m *memory) UriExists(c ctx.Ctx, collection domain.Address, uri string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t := m.get(collection, false)
	if t == nil {
		return false, nil
	}
	_, ok := t.uris[uri]
	return ok, nil
}

func (m *memory) Stats(c ctx.Ctx, collection domain.Address) (*ledger.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t := m.get(collection, false)
	if t == nil {
		return &ledger.Stats{}, nil
	}
	return &ledger.Stats{
		TotalSupply: uint64(len(t.items)),
		TotalInSale: t.inSale,
	}, nil
}
