package royalty

import (
	"math/big"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
)

// CreatorKey identifies the creator royalty of one item.
type CreatorKey struct {
	Collection domain.Address `json:"collection"`
	ItemId     uint64         `json:"itemId"`
}

type CuratorRoyalty struct {
	Curator domain.Address `json:"curator"`
	Bps     domain.Bps     `json:"bps"`
}

// Split is the four-way division of a sale price. The shares always add up to the price.
type Split struct {
	Platform *big.Int `json:"platform"`
	Creator  *big.Int `json:"creator"`
	Curator  *big.Int `json:"curator"`
	Seller   *big.Int `json:"seller"`
}

// Total returns the sum of the four shares.
func (s *Split) Total() *big.Int {
	total := new(big.Int)
	for _, v := range []*big.Int{s.Platform, s.Creator, s.Curator, s.Seller} {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

// Settings is the global part of the configuration.
type Settings struct {
	Owner       domain.Address `json:"owner"`
	Registry    domain.Address `json:"registry"`
	ListingFee  *big.Int       `json:"listingFee"`
	PlatformBps domain.Bps     `json:"platformBps"`
}

type Repo interface {
	GetSettings(c ctx.Ctx) (*Settings, error)
	SetRegistry(c ctx.Ctx, registry domain.Address) error
	SetListingFee(c ctx.Ctx, amount *big.Int) error
	SetPlatformBps(c ctx.Ctx, bps domain.Bps) error
	// GetCreatorBps returns 0 for items never configured
	GetCreatorBps(c ctx.Ctx, key CreatorKey) (domain.Bps, error)
	SetCreatorBps(c ctx.Ctx, key CreatorKey, bps domain.Bps) error
	// GetCurator returns domain.ErrNotFound when the collection has no curator
	GetCurator(c ctx.Ctx, collection domain.Address) (*CuratorRoyalty, error)
	SetCurator(c ctx.Ctx, collection domain.Address, curator CuratorRoyalty) error
}

type Usecase interface {
	Owner(c ctx.Ctx) (domain.Address, error)
	// GetRegistry is restricted to the owner and the bound registry
	GetRegistry(c ctx.Ctx, caller domain.Address) (domain.Address, error)
	SetRegistry(c ctx.Ctx, caller, registry domain.Address) error

	SetListingFee(c ctx.Ctx, caller domain.Address, amount *big.Int) error
	SetPlatformRoyalty(c ctx.Ctx, caller domain.Address, bps domain.Bps) error
	SetCreatorRoyalty(c ctx.Ctx, caller domain.Address, key CreatorKey, bps domain.Bps) error
	SetCuratorRoyalty(c ctx.Ctx, caller, collection, curator domain.Address, bps domain.Bps) error

	GetListingFee(c ctx.Ctx) (*big.Int, error)
	GetPlatformRoyalty(c ctx.Ctx) (domain.Bps, error)
	GetCreatorRoyalty(c ctx.Ctx, key CreatorKey) (domain.Bps, error)
	// GetCuratorRoyalty returns an empty curator with 0 bps when none is assigned
	GetCuratorRoyalty(c ctx.Ctx, collection domain.Address) (*CuratorRoyalty, error)

	ComputeSplit(c ctx.Ctx, caller domain.Address, key CreatorKey, price *big.Int) (*Split, error)
}
