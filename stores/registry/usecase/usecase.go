package usecase

import (
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/ethereum"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/base/metrics"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	"github.com/x-xyz/marketledger/domain/ledger"
	"github.com/x-xyz/marketledger/domain/registry"
	"github.com/x-xyz/marketledger/domain/royalty"
	"github.com/x-xyz/marketledger/domain/wallet"
)

type RegistryUseCaseCfg struct {
	Owner domain.Address
	// Address defaults to the first address the owner would deploy
	Address domain.Address
	Repo    registry.Repo
	Royalty royalty.Usecase
	Wallet  wallet.Usecase
	Ledgers ledger.Factory
	Sink    event.Sink
}

type impl struct {
	owner   domain.Address
	address domain.Address
	repo    registry.Repo
	royalty royalty.Usecase
	wallet  wallet.Usecase
	factory ledger.Factory
	sink    event.Sink
	met     metrics.Service

	// every call on the registry is serialized
	mu sync.Mutex

	ledgersMu sync.Mutex
	ledgers   map[domain.Address]ledger.Usecase
}

func New(cfg *RegistryUseCaseCfg) (registry.Usecase, error) {
	if cfg.Owner.IsEmpty() {
		return nil, domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyOwner)
	}
	address := cfg.Address
	if address.IsEmpty() {
		address = ethereum.ContractAddress(cfg.Owner, 0)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = event.Discard
	}
	return &impl{
		owner:   cfg.Owner.ToLower(),
		address: address.ToLower(),
		repo:    cfg.Repo,
		royalty: cfg.Royalty,
		wallet:  cfg.Wallet,
		factory: cfg.Ledgers,
		sink:    sink,
		met:     metrics.New("registry"),
		ledgers: make(map[domain.Address]ledger.Usecase),
	}, nil
}

func (im *impl) Address() domain.Address {
	return im.address
}

func (im *impl) GetOwner() domain.Address {
	return im.owner
}

// self is the call the registry makes on the components it owns
func (im *impl) self() domain.Call {
	return domain.NewCall(im.address)
}

func kindTag(err error) string {
	if k := domain.Kind(err); k != nil {
		return strings.ReplaceAll(strings.ToLower(k.Error()), " ", "_")
	}
	return "internal"
}

func (im *impl) fail(c ctx.Ctx, op string, err error) error {
	im.met.BumpSum(op+".err", 1, "kind", kindTag(err))
	if domain.Kind(err) != nil {
		c.WithFields(log.Fields{"op": op, "err": err}).Warn("registry call rejected")
	} else {
		c.WithFields(log.Fields{"op": op, "err": err}).Error("registry call failed")
	}
	return err
}

func (im *impl) collection(c ctx.Ctx, address domain.Address) (*registry.Collection, error) {
	col, err := im.repo.FindOne(c, address)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Reason(domain.ErrNotFound, domain.ReasonCollectionNotFound)
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "collection": address}).Error("repo.FindOne failed")
		return nil, err
	}
	return col, nil
}

func (im *impl) info(col *registry.Collection) ledger.Info {
	return ledger.Info{
		Address:  col.Address,
		Registry: im.address,
		Owner:    im.owner,
		Creator:  col.Creator,
		Name:     col.Name,
		Symbol:   col.Symbol,
	}
}

// ledger returns the ledger of a registered collection, building it on first use
func (im *impl) ledger(c ctx.Ctx, address domain.Address) (ledger.Usecase, *registry.Collection, error) {
	col, err := im.collection(c, address)
	if err != nil {
		return nil, nil, err
	}
	im.ledgersMu.Lock()
	defer im.ledgersMu.Unlock()
	l, ok := im.ledgers[col.Address]
	if !ok {
		l = im.factory(im.info(col))
		im.ledgers[col.Address] = l
	}
	return l, col, nil
}

func (im *impl) checkBinding(c ctx.Ctx) error {
	bound, err := im.royalty.GetRegistry(c, im.address)
	if errors.Is(err, domain.ErrUnauthorized) || (err == nil && !bound.Equals(im.address)) {
		return domain.Reason(domain.ErrUnauthorized, domain.ReasonRegistryNotBound)
	}
	return err
}

func (im *impl) CreateCollection(c ctx.Ctx, call domain.Call, name, symbol string) (domain.Address, error) {
	defer im.met.BumpTime("createCollection.time").End()
	im.mu.Lock()
	defer im.mu.Unlock()

	if name == "" {
		return "", im.fail(c, "createCollection", domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyCollectionName))
	}

	n, err := im.repo.Count(c)
	if err != nil {
		return "", im.fail(c, "createCollection", err)
	}
	// contract nonces start at 1
	nonce := n + 1
	col := &registry.Collection{
		Address:   ethereum.ContractAddress(im.address, nonce),
		Name:      name,
		Symbol:    symbol,
		Creator:   call.Sender.ToLower(),
		Nonce:     nonce,
		CreatedAt: time.Now().UTC(),
	}
	if err := im.repo.Insert(c, col); err != nil {
		return "", im.fail(c, "createCollection", err)
	}

	im.ledgersMu.Lock()
	im.ledgers[col.Address] = im.factory(im.info(col))
	im.ledgersMu.Unlock()

	im.sink.Emit(c, event.New(event.KindCollectionAdded).WithCollection(col.Address).WithActor(col.Creator))
	c.WithFields(log.Fields{"collection": col.Address, "creator": col.Creator, "name": name}).Info("collection created")
	return col.Address, nil
}

func (im *impl) CreateNft(c ctx.Ctx, call domain.Call, p registry.CreateNftParams) (ledger.ItemId, error) {
	const op = "createNft"
	defer im.met.BumpTime(op + ".time").End()
	im.mu.Lock()
	defer im.mu.Unlock()

	l, col, err := im.ledger(c, p.Collection)
	if err != nil {
		return 0, im.fail(c, op, err)
	}
	if !p.CreatorRoyaltyBps.IsValid() {
		return 0, im.fail(c, op, domain.Reason(domain.ErrInvalidPercentage, domain.ReasonRoyaltiesTooHigh))
	}
	if p.Uri == "" {
		return 0, im.fail(c, op, domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyNftUri))
	}
	if p.ListForSale && (domain.IsZero(p.Price) || p.Price.Sign() < 0) {
		return 0, im.fail(c, op, domain.Reason(domain.ErrInvalidPrice, domain.ReasonZeroPrice))
	}
	if err := im.checkBinding(c); err != nil {
		return 0, im.fail(c, op, err)
	}

	mint := ledger.MintParams{
		ListForSale: p.ListForSale,
		Price:       p.Price,
		Uri:         p.Uri,
		Creator:     call.Sender,
	}
	forward := im.self().WithValue(call.Value)
	if err := l.CheckMint(c, forward, mint); err != nil {
		return 0, im.fail(c, op, err)
	}
	if p.ListForSale {
		fee, err := im.royalty.GetListingFee(c)
		if err != nil {
			return 0, im.fail(c, op, err)
		}
		if domain.Amount(call.Value).Cmp(fee) < 0 {
			return 0, im.fail(c, op, domain.Reason(domain.ErrMissingPayment, domain.ReasonMissingListingFees))
		}
	}
	if call.HasValue() {
		if err := im.wallet.CanPay(c, call.Sender, call.Value); err != nil {
			return 0, im.fail(c, op, err)
		}
	}

	id, err := l.Mint(c, forward, mint)
	if err != nil {
		return 0, im.fail(c, op, err)
	}
	key := royalty.CreatorKey{Collection: col.Address, ItemId: uint64(id)}
	if err := im.royalty.SetCreatorRoyalty(c, im.address, key, p.CreatorRoyaltyBps); err != nil {
		return 0, im.fail(c, op, err)
	}
	if call.HasValue() {
		// listing fees and any value sent with an unlisted mint go to the platform
		if err := im.wallet.Transfer(c, call.Sender, im.owner, call.Value); err != nil {
			return 0, im.fail(c, op, err)
		}
	}

	price := new(big.Int)
	if p.ListForSale {
		price = domain.Amount(p.Price)
	}
	im.sink.Emit(c, event.New(event.KindNftAdded).
		WithCollection(col.Address).
		WithItem(uint64(id)).
		WithActor(call.Sender).
		WithAmount(price).
		WithUri(p.Uri))
	return id, nil
}

func (im *impl) SellNft(c ctx.Ctx, call domain.Call, collection domain.Address, id ledger.ItemId, price *big.Int) error {
	const op = "sellNft"
	defer im.met.BumpTime(op + ".time").End()
	im.mu.Lock()
	defer im.mu.Unlock()

	if domain.IsZero(price) || price.Sign() < 0 {
		return im.fail(c, op, domain.Reason(domain.ErrInvalidPrice, domain.ReasonZeroPrice))
	}
	l, col, err := im.ledger(c, collection)
	if err != nil {
		return im.fail(c, op, err)
	}
	if err := l.List(c, im.self(), id, price, call.Sender); err != nil {
		return im.fail(c, op, err)
	}

	im.sink.Emit(c, event.New(event.KindSaleListed).
		WithCollection(col.Address).
		WithItem(uint64(id)).
		WithActor(call.Sender).
		WithAmount(price))
	return nil
}

func (im *impl) CancelSaleNft(c ctx.Ctx, call domain.Call, collection domain.Address, id ledger.ItemId) error {
	const op = "cancelSaleNft"
	defer im.met.BumpTime(op + ".time").End()
	im.mu.Lock()
	defer im.mu.Unlock()

	l, col, err := im.ledger(c, collection)
	if err != nil {
		return im.fail(c, op, err)
	}
	if err := l.Cancel(c, im.self(), id, call.Sender); err != nil {
		return im.fail(c, op, err)
	}

	im.sink.Emit(c, event.New(event.KindSaleCancelled).
		WithCollection(col.Address).
		WithItem(uint64(id)).
		WithActor(call.Sender))
	return nil
}

func (im *impl) payouts(split *royalty.Split, creator, curator, seller domain.Address) []wallet.Payout {
	sellerShare := domain.Amount(split.Seller)
	res := []wallet.Payout{
		{To: im.owner, Amount: split.Platform},
		{To: creator, Amount: split.Creator},
	}
	if curator.IsEmpty() {
		sellerShare.Add(sellerShare, split.Curator)
	} else {
		res = append(res, wallet.Payout{To: curator, Amount: split.Curator})
	}
	return append(res, wallet.Payout{To: seller, Amount: sellerShare})
}

func (im *impl) BuyNft(c ctx.Ctx, call domain.Call, collection domain.Address, id ledger.ItemId, price *big.Int) error {
	const op = "buyNft"
	defer im.met.BumpTime(op + ".time").End()
	im.mu.Lock()
	defer im.mu.Unlock()

	l, col, err := im.ledger(c, collection)
	if err != nil {
		return im.fail(c, op, err)
	}
	if domain.Amount(call.Value).Cmp(domain.Amount(price)) != 0 {
		return im.fail(c, op, domain.Reason(domain.ErrWrongPayment, domain.ReasonWrongPrice))
	}
	onSale, err := l.IsOnSale(c, id)
	if err != nil {
		return im.fail(c, op, err)
	}
	if !onSale {
		return im.fail(c, op, domain.Reason(domain.ErrNotListed, domain.ReasonNotInSale))
	}
	seller, err := l.GetSeller(c, id)
	if err != nil {
		return im.fail(c, op, err)
	}
	if err := im.checkBinding(c); err != nil {
		return im.fail(c, op, err)
	}

	key := royalty.CreatorKey{Collection: col.Address, ItemId: uint64(id)}
	split, err := im.royalty.ComputeSplit(c, im.address, key, price)
	if err != nil {
		return im.fail(c, op, err)
	}
	curator, err := im.royalty.GetCuratorRoyalty(c, col.Address)
	if err != nil {
		return im.fail(c, op, err)
	}
	if err := im.wallet.CanPay(c, call.Sender, price); err != nil {
		return im.fail(c, op, err)
	}

	if err := l.Buy(c, im.self().WithValue(call.Value), id, call.Sender, price, seller); err != nil {
		return im.fail(c, op, err)
	}
	if err := im.wallet.Disburse(c, call.Sender, im.payouts(split, col.Creator, curator.Curator, seller)); err != nil {
		return im.fail(c, op, err)
	}

	im.sink.Emit(c, event.New(event.KindSaleCompleted).
		WithCollection(col.Address).
		WithItem(uint64(id)).
		WithActor(call.Sender).
		WithCounterparty(seller).
		WithAmount(price))
	im.met.BumpSum("sales", 1, "collection", col.Address.ToLowerStr())
	return nil
}

func (im *impl) TotalSupply(c ctx.Ctx, collection domain.Address) (uint64, error) {
	l, _, err := im.ledger(c, collection)
	if err != nil {
		return 0, err
	}
	return l.TotalSupply(c, im.self())
}

func (im *impl) TotalInSale(c ctx.Ctx, collection domain.Address) (uint64, error) {
	l, _, err := im.ledger(c, collection)
	if err != nil {
		return 0, err
	}
	return l.TotalInSale(c, im.self())
}

func (im *impl) GetNftOwner(c ctx.Ctx, collection domain.Address, id ledger.ItemId) (domain.Address, error) {
	l, _, err := im.ledger(c, collection)
	if err != nil {
		return "", err
	}
	return l.GetOwner(c, id)
}

func (im *impl) GetCurrentListingFees(c ctx.Ctx) (*big.Int, error) {
	return im.royalty.GetListingFee(c)
}

func (im *impl) GetCollection(c ctx.Ctx, collection domain.Address) (*registry.Collection, error) {
	return im.collection(c, collection)
}

func (im *impl) ListCollections(c ctx.Ctx) ([]*registry.Collection, error) {
	cols, err := im.repo.FindAll(c)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return cols, nil
}

func (im *impl) GetItem(c ctx.Ctx, collection domain.Address, id ledger.ItemId) (*ledger.Item, error) {
	l, _, err := im.ledger(c, collection)
	if err != nil {
		return nil, err
	}
	return l.GetItem(c, id)
}
