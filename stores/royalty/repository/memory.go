package repository

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/royalty"
)

type memory struct {
	mu       sync.RWMutex
	settings royalty.Settings
	creator  map[royalty.CreatorKey]domain.Bps
	curator  map[domain.Address]royalty.CuratorRoyalty
}

// NewMemory keeps the configuration in process, seeded with the given settings
func NewMemory(settings royalty.Settings) royalty.Repo {
	settings.Owner = settings.Owner.ToLower()
	settings.Registry = settings.Registry.ToLower()
	settings.ListingFee = domain.Amount(settings.ListingFee)
	return &memory{
		settings: settings,
		creator:  make(map[royalty.CreatorKey]domain.Bps),
		curator:  make(map[domain.Address]royalty.CuratorRoyalty),
	}
}

func (m *memory) GetSettings(c ctx.Ctx) (*royalty.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.settings
	s.ListingFee = domain.Amount(m.settings.ListingFee)
	return &s, nil
}

func (m *memory) SetRegistry(c ctx.Ctx, registry domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Registry = registry.ToLower()
	return nil
}

func (m *memory) SetListingFee(c ctx.Ctx, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.ListingFee = domain.Amount(amount)
	return nil
}

func (m *memory) SetPlatformBps(c ctx.Ctx, bps domain.Bps) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.PlatformBps = bps
	return nil
}

func normalize(key royalty.CreatorKey) royalty.CreatorKey {
	key.Collection = key.Collection.ToLower()
	return key
}

func (m *memory) GetCreatorBps(c ctx.Ctx, key royalty.CreatorKey) (domain.Bps, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creator[normalize(key)], nil
}

func (m *memory) SetCreatorBps(c ctx.Ctx, key royalty.CreatorKey, bps domain.Bps) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creator[normalize(key)] = bps
	return nil
}

func (m *memory) GetCurator(c ctx.Ctx, collection domain.Address) (*royalty.CuratorRoyalty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cur, ok := m.curator[collection.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cur, nil
}

func (m *memory) SetCurator(c ctx.Ctx, collection domain.Address, curator royalty.CuratorRoyalty) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	curator.Curator = curator.Curator.ToLower()
	m.curator[collection.ToLower()] = curator
	return nil
}
