package event

import (
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain"
)

type Kind string

const (
	KindCollectionAdded        Kind = "collection_added"
	KindItemMinted             Kind = "item_minted"
	KindNftAdded               Kind = "nft_added"
	KindSaleListed             Kind = "sale_listed"
	KindSaleCancelled          Kind = "sale_cancelled"
	KindSaleCompleted          Kind = "sale_completed"
	KindListingFeeUpdated      Kind = "listing_fee_updated"
	KindPlatformRoyaltyUpdated Kind = "platform_royalty_updated"
	KindCreatorRoyaltyUpdated  Kind = "creator_royalty_updated"
	KindCuratorRoyaltyUpdated  Kind = "curator_royalty_updated"
	KindRegistryUpdated        Kind = "registry_updated"
)

// Event is the structured record every successful mutating operation emits.
type Event struct {
	Id         string         `json:"id" bson:"_id"`
	Kind       Kind           `json:"kind" bson:"kind"`
	Collection domain.Address `json:"collection,omitempty" bson:"collection,omitempty"`
	ItemId     uint64         `json:"itemId,omitempty" bson:"itemId,omitempty"`
	// Actor is the account that triggered the operation
	Actor domain.Address `json:"actor,omitempty" bson:"actor,omitempty"`
	// Counterparty is the other side: seller of a sale, curator of a curator config, ...
	Counterparty domain.Address `json:"counterparty,omitempty" bson:"counterparty,omitempty"`
	// Amount in smallest units, stored as decimal string
	Amount string      `json:"amount,omitempty" bson:"amount,omitempty"`
	Bps    *domain.Bps `json:"bps,omitempty" bson:"bps,omitempty"`
	Uri    string      `json:"uri,omitempty" bson:"uri,omitempty"`
	Time   time.Time   `json:"time" bson:"time"`
}

func New(kind Kind) Event {
	return Event{
		Id:   uuid.NewString(),
		Kind: kind,
		Time: time.Now().UTC(),
	}
}

func (e Event) WithCollection(a domain.Address) Event {
	e.Collection = a.ToLower()
	return e
}

func (e Event) WithItem(id uint64) Event {
	e.ItemId = id
	return e
}

func (e Event) WithActor(a domain.Address) Event {
	e.Actor = a.ToLower()
	return e
}

func (e Event) WithCounterparty(a domain.Address) Event {
	e.Counterparty = a.ToLower()
	return e
}

func (e Event) WithAmount(v *big.Int) Event {
	e.Amount = domain.Amount(v).String()
	return e
}

func (e Event) WithBps(b domain.Bps) Event {
	e.Bps = &b
	return e
}

func (e Event) WithUri(uri string) Event {
	e.Uri = uri
	return e
}

// Sink receives emitted events. Emit must not fail the operation that produced the event.
type Sink interface {
	Emit(c ctx.Ctx, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(c ctx.Ctx, e Event)

func (f SinkFunc) Emit(c ctx.Ctx, e Event) {
	f(c, e)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(ctx.Ctx, Event) {})

type findAllOptions struct {
	Collection *domain.Address
	ItemId     *uint64
	Kinds      []Kind
	Actor      *domain.Address
	Offset     *int
	Limit      *int
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (findAllOptions, error) {
	res := findAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithCollection(a domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Collection = a.ToLowerPtr()
		return nil
	}
}

func WithItemId(id uint64) FindAllOptions {
	return func(options *findAllOptions) error {
		options.ItemId = &id
		return nil
	}
}

func WithKinds(kinds ...Kind) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Kinds = kinds
		return nil
	}
}

func WithActor(a domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Actor = a.ToLowerPtr()
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptions {
	return func(options *findAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Match reports whether e satisfies the filter part of the options.
func (o findAllOptions) Match(e Event) bool {
	if o.Collection != nil && !e.Collection.Equals(*o.Collection) {
		return false
	}
	if o.ItemId != nil && e.ItemId != *o.ItemId {
		return false
	}
	if o.Actor != nil && !e.Actor.Equals(*o.Actor) {
		return false
	}
	if len(o.Kinds) > 0 {
		found := false
		for _, k := range o.Kinds {
			if k == e.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type Repo interface {
	Insert(c ctx.Ctx, e Event) error
	// FindAll returns matching events, newest first
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]Event, error)
}

type Usecase interface {
	Sink
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]Event, error)
	// Close stops accepting events and waits for archive sinks to drain
	Close()
}
