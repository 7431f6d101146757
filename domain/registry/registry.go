package registry

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/ledger"
)

// Collection is the registration record of a collection ledger.
type Collection struct {
	Address   domain.Address `json:"address"`
	Name      string         `json:"name"`
	Symbol    string         `json:"symbol"`
	Creator   domain.Address `json:"creator"`
	Nonce     uint64         `json:"nonce"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Repo interface {
	Insert(c ctx.Ctx, col *Collection) error
	FindOne(c ctx.Ctx, address domain.Address) (*Collection, error)
	FindAll(c ctx.Ctx) ([]*Collection, error)
	Count(c ctx.Ctx) (uint64, error)
}

type CreateNftParams struct {
	ListForSale       bool
	CreatorRoyaltyBps domain.Bps
	Collection        domain.Address
	Price             *big.Int
	Uri               string
}

// Usecase is the marketplace entry point. Every call names its caller and attached payment explicitly.
type Usecase interface {
	Address() domain.Address
	GetOwner() domain.Address

	CreateCollection(c ctx.Ctx, call domain.Call, name, symbol string) (domain.Address, error)
	CreateNft(c ctx.Ctx, call domain.Call, p CreateNftParams) (ledger.ItemId, error)
	SellNft(c ctx.Ctx, call domain.Call, collection domain.Address, id ledger.ItemId, price *big.Int) error
	CancelSaleNft(c ctx.Ctx, call domain.Call, collection domain.Address, id ledger.ItemId) error
	BuyNft(c ctx.Ctx, call domain.Call, collection domain.Address, id ledger.ItemId, price *big.Int) error

	TotalSupply(c ctx.Ctx, collection domain.Address) (uint64, error)
	TotalInSale(c ctx.Ctx, collection domain.Address) (uint64, error)
	GetNftOwner(c ctx.Ctx, collection domain.Address, id ledger.ItemId) (domain.Address, error)
	GetCurrentListingFees(c ctx.Ctx) (*big.Int, error)

	GetCollection(c ctx.Ctx, collection domain.Address) (*Collection, error)
	ListCollections(c ctx.Ctx) ([]*Collection, error)
	GetItem(c ctx.Ctx, collection domain.Address, id ledger.ItemId) (*ledger.Item, error)
}
