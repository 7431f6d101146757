package usecase

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	"github.com/x-xyz/marketledger/domain/ledger"
)

type LedgerUseCaseCfg struct {
	Info ledger.Info
	Repo ledger.Repo
	Sink event.Sink
}

type impl struct {
	// serializes the calls on this collection
	mu   sync.Mutex
	info ledger.Info
	repo ledger.Repo
	sink event.Sink
}

func New(cfg *LedgerUseCaseCfg) ledger.Usecase {
	info := cfg.Info
	info.Address = info.Address.ToLower()
	info.Registry = info.Registry.ToLower()
	info.Owner = info.Owner.ToLower()
	info.Creator = info.Creator.ToLower()

	sink := cfg.Sink
	if sink == nil {
		sink = event.Discard
	}
	return &impl{
		info: info,
		repo: cfg.Repo,
		sink: sink,
	}
}

// NewFactory returns the factory the registry builds its collection ledgers with
func NewFactory(repo ledger.Repo, sink event.Sink) ledger.Factory {
	return func(info ledger.Info) ledger.Usecase {
		return New(&LedgerUseCaseCfg{
			Info: info,
			Repo: repo,
			Sink: sink,
		})
	}
}

func (im *impl) Info() ledger.Info {
	return im.info
}

func (im *impl) logger(c ctx.Ctx, op string) ctx.Ctx {
	return ctx.WithFields(c, log.Fields{"collection": im.info.Address, "op": op})
}

func (im *impl) reject(c ctx.Ctx, err error) error {
	c.WithField("err", err).Warn("ledger call rejected")
	return err
}

func (im *impl) onlyRegistry(call domain.Call) error {
	if !call.Sender.Equals(im.info.Registry) {
		return domain.Reason(domain.ErrUnauthorized, domain.ReasonOnlyRegistry)
	}
	return nil
}

func (im *impl) findItem(c ctx.Ctx, id ledger.ItemId) (*ledger.Item, error) {
	item, err := im.repo.FindOne(c, im.info.Address, id)
	if err == domain.ErrNotFound {
		return nil, domain.Reason(domain.ErrNotFound, domain.ReasonNftNotFound)
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "itemId": id}).Error("repo.FindOne failed")
		return nil, err
	}
	return item, nil
}

func (im *impl) checkMint(c ctx.Ctx, call domain.Call, p ledger.MintParams) error {
	if err := im.onlyRegistry(call); err != nil {
		return err
	}
	if !p.Creator.Equals(im.info.Creator) {
		return domain.Reason(domain.ErrUnauthorized, domain.ReasonOnlyCreator)
	}
	if p.Uri == "" {
		return domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyNftUri)
	}
	if exists, err := im.repo.UriExists(c, im.info.Address, p.Uri); err != nil {
		c.WithField("err", err).Error("repo.UriExists failed")
		return err
	} else if exists {
		return domain.Reason(domain.ErrDuplicateURI, domain.ReasonDuplicateURI)
	}
	if p.ListForSale {
		if domain.IsZero(p.Price) || p.Price.Sign() < 0 {
			return domain.Reason(domain.ErrInvalidPrice, domain.ReasonZeroPrice)
		}
		if !call.HasValue() {
			return domain.Reason(domain.ErrMissingPayment, domain.ReasonMissingListingFees)
		}
	}
	return nil
}

func (im *impl) CheckMint(c ctx.Ctx, call domain.Call, p ledger.MintParams) error {
	c = im.logger(c, "checkMint")
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.checkMint(c, call, p); err != nil {
		return im.reject(c, err)
	}
	return nil
}

func (im *impl) Mint(c ctx.Ctx, call domain.Call, p ledger.MintParams) (ledger.ItemId, error) {
	c = im.logger(c, "mint")
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.checkMint(c, call, p); err != nil {
		return 0, im.reject(c, err)
	}

	item := &ledger.Item{
		Owner:  im.info.Creator,
		Seller: domain.EmptyAddress,
		Price:  new(big.Int),
		Uri:    p.Uri,
	}
	if p.ListForSale {
		// the platform holds listed items for the seller
		item.Owner = im.info.Owner
		item.Seller = im.info.Creator
		item.Price = domain.Amount(p.Price)
		item.OnSale = true
	}

	id, err := im.repo.Insert(c, im.info.Address, item)
	if err != nil {
		c.WithField("err", err).Error("repo.Insert failed")
		return 0, err
	}

	im.sink.Emit(c, event.New(event.KindItemMinted).
		WithCollection(im.info.Address).
		WithItem(uint64(id)).
		WithActor(im.info.Creator).
		WithAmount(item.Price).
		WithUri(item.Uri))
	return id, nil
}

func (im *impl) List(c ctx.Ctx, call domain.Call, id ledger.ItemId, price *big.Int, seller domain.Address) error {
	c = im.logger(c, "list")
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.onlyRegistry(call); err != nil {
		return im.reject(c, err)
	}
	item, err := im.findItem(c, id)
	if err != nil {
		return im.reject(c, err)
	}
	if !seller.Equals(item.Owner) {
		return im.reject(c, domain.Reason(domain.ErrUnauthorized, domain.ReasonOnlyNftOwner))
	}
	// only the custodian owns a listed item
	if item.OnSale {
		return im.reject(c, domain.Reason(domain.ErrInvalidArgument, domain.ReasonAlreadyInSale))
	}
	if domain.IsZero(price) || price.Sign() < 0 {
		return im.reject(c, domain.Reason(domain.ErrInvalidPrice, domain.ReasonZeroPrice))
	}

	item.Owner = im.info.Owner
	item.Seller = seller.ToLower()
	item.Price = domain.Amount(price)
	item.OnSale = true
	if err := im.repo.Update(c, im.info.Address, item); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return err
	}
	return nil
}

func (im *impl) Cancel(c ctx.Ctx, call domain.Call, id ledger.ItemId, caller domain.Address) error {
	c = im.logger(c, "cancel")
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.onlyRegistry(call); err != nil {
		return im.reject(c, err)
	}
	item, err := im.findItem(c, id)
	if err != nil {
		return im.reject(c, err)
	}
	if !item.OnSale {
		return im.reject(c, domain.Reason(domain.ErrNotListed, domain.ReasonNotInSale))
	}
	if !caller.Equals(item.Seller) {
		return im.reject(c, domain.Reason(domain.ErrUnauthorized, domain.ReasonOnlySeller))
	}

	item.Owner = item.Seller
	item.Seller = domain.EmptyAddress
	item.Price = new(big.Int)
	item.OnSale = false
	if err := im.repo.Update(c, im.info.Address, item); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return err
	}
	return nil
}

func (im *impl) Buy(c ctx.Ctx, call domain.Call, id ledger.ItemId, buyer domain.Address, price *big.Int, sellerPayout domain.Address) error {
	c = im.logger(c, "buy")
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.onlyRegistry(call); err != nil {
		return im.reject(c, err)
	}
	item, err := im.findItem(c, id)
	if err != nil {
		return im.reject(c, err)
	}
	if !item.OnSale {
		return im.reject(c, domain.Reason(domain.ErrNotListed, domain.ReasonNotInSale))
	}
	if domain.Amount(call.Value).Cmp(item.Price) != 0 || domain.Amount(price).Cmp(item.Price) != 0 {
		return im.reject(c, domain.Reason(domain.ErrWrongPayment, domain.ReasonWrongPrice))
	}

	c.WithFields(log.Fields{"itemId": id, "seller": sellerPayout, "buyer": buyer}).Debug("transferring item")
	item.Owner = buyer.ToLower()
	item.Seller = domain.EmptyAddress
	item.Price = new(big.Int)
	item.OnSale = false
	if err := im.repo.Update(c, im.info.Address, item); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return err
	}
	return nil
}

func (im *impl) GetItem(c ctx.Ctx, id ledger.ItemId) (*ledger.Item, error) {
	return im.findItem(c, id)
}

func (im *impl) GetOwner(c ctx.Ctx, id ledger.ItemId) (domain.Address, error) {
	item, err := im.findItem(c, id)
	if err != nil {
		return "", err
	}
	return item.Owner, nil
}

func (im *impl) GetSeller(c ctx.Ctx, id ledger.ItemId) (domain.Address, error) {
	item, err := im.findItem(c, id)
	if err != nil {
		return "", err
	}
	return item.Seller, nil
}

func (im *impl) GetPrice(c ctx.Ctx, id ledger.ItemId) (*big.Int, error) {
	item, err := im.findItem(c, id)
	if err != nil {
		return nil, err
	}
	return item.Price, nil
}

func (im *impl) IsOnSale(c ctx.Ctx, id ledger.ItemId) (bool, error) {
	item, err := im.findItem(c, id)
	if err != nil {
		return false, err
	}
	return item.OnSale, nil
}

func (im *impl) stats(c ctx.Ctx, call domain.Call) (*ledger.Stats, error) {
	if err := im.onlyRegistry(call); err != nil {
		return nil, err
	}
	st, err := im.repo.Stats(c, im.info.Address)
	if err != nil {
		c.WithField("err", err).Error("repo.Stats failed")
		return nil, err
	}
	return st, nil
}

func (im *impl) TotalSupply(c ctx.Ctx, call domain.Call) (uint64, error) {
	st, err := im.stats(c, call)
	if err != nil {
		return 0, err
	}
	return st.TotalSupply, nil
}

func (im *impl) TotalInSale(c ctx.Ctx, call domain.Call) (uint64, error) {
	st, err := im.stats(c, call)
	if err != nil {
		return 0, err
	}
	return st.TotalInSale, nil
}
