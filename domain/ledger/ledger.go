package ledger

import (
	"math/big"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
)

type ItemId uint64

// Item is one entry of a collection's item table.
type Item struct {
	Id     ItemId         `json:"id"`
	Owner  domain.Address `json:"owner"`
	Seller domain.Address `json:"seller"`
	Price  *big.Int       `json:"price"`
	OnSale bool           `json:"onSale"`
	Uri    string         `json:"uri"`
}

// Clone returns a deep copy so callers never share the stored price.
func (i *Item) Clone() *Item {
	c := *i
	c.Price = domain.Amount(i.Price)
	return &c
}

// Info is the immutable identity of a collection ledger.
type Info struct {
	Address  domain.Address `json:"address"`
	Registry domain.Address `json:"registry"`
	Owner    domain.Address `json:"owner"`
	Creator  domain.Address `json:"creator"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
}

type Stats struct {
	TotalSupply uint64 `json:"totalSupply"`
	TotalInSale uint64 `json:"totalInSale"`
}

// Repo stores the item tables of every collection, keyed by collection address.
// Insert and Update keep TotalInSale consistent with the OnSale flags.
type Repo interface {
	// Insert stores a new item with the next sequential id and registers its uri
	Insert(c ctx.Ctx, collection domain.Address, item *Item) (ItemId, error)
	FindOne(c ctx.Ctx, collection domain.Address, id ItemId) (*Item, error)
	Update(c ctx.Ctx, collection domain.Address, item *Item) error
	UriExists(c ctx.Ctx, collection domain.Address, uri string) (bool, error)
	Stats(c ctx.Ctx, collection domain.Address) (*Stats, error)
}

// MintParams are the arguments of Mint besides the call itself.
type MintParams struct {
	ListForSale bool
	Price       *big.Int
	Uri         string
	Creator     domain.Address
}

// Usecase is the ledger of one collection. Mutations and the counters are only
// available to the registry the ledger was created by.
type Usecase interface {
	Info() Info

	// CheckMint runs every check of Mint without mutating anything
	CheckMint(c ctx.Ctx, call domain.Call, p MintParams) error
	Mint(c ctx.Ctx, call domain.Call, p MintParams) (ItemId, error)
	List(c ctx.Ctx, call domain.Call, id ItemId, price *big.Int, seller domain.Address) error
	Cancel(c ctx.Ctx, call domain.Call, id ItemId, caller domain.Address) error
	Buy(c ctx.Ctx, call domain.Call, id ItemId, buyer domain.Address, price *big.Int, sellerPayout domain.Address) error

	GetOwner(c ctx.Ctx, id ItemId) (domain.Address, error)
	GetSeller(c ctx.Ctx, id ItemId) (domain.Address, error)
	GetPrice(c ctx.Ctx, id ItemId) (*big.Int, error)
	IsOnSale(c ctx.Ctx, id ItemId) (bool, error)
	GetItem(c ctx.Ctx, id ItemId) (*Item, error)

	TotalSupply(c ctx.Ctx, call domain.Call) (uint64, error)
	TotalInSale(c ctx.Ctx, call domain.Call) (uint64, error)
}

// Factory builds the ledger of one collection, the registry calls it once per collection.
type Factory func(info Info) Usecase
