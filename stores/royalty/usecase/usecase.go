package usecase

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	"github.com/x-xyz/marketledger/domain/royalty"
	"github.com/x-xyz/marketledger/service/cache"
)

const settingsKey = "settings"

var bpsDenominator = big.NewInt(int64(domain.MaxBps))

type RoyaltyUseCaseCfg struct {
	Repo royalty.Repo
	// Cache is optional, reads go straight to Repo without it.
	// It must not be shared with other processes, Repo is process local.
	Cache cache.Service
	Sink  event.Sink
}

type impl struct {
	repo  royalty.Repo
	cache cache.Service
	sink  event.Sink

	// fills hold it shared and writes exclusively, so a fill never caches a value older than the last write
	mu sync.RWMutex
}

// New builds the configuration engine on top of an already seeded repo.
// The seeded platform rate must be a valid percentage.
func New(cfg *RoyaltyUseCaseCfg) (royalty.Usecase, error) {
	sink := cfg.Sink
	if sink == nil {
		sink = event.Discard
	}
	im := &impl{
		repo:  cfg.Repo,
		cache: cfg.Cache,
		sink:  sink,
	}

	st, err := cfg.Repo.GetSettings(ctx.Background())
	if err != nil {
		return nil, err
	}
	if !st.PlatformBps.IsValid() {
		return nil, domain.Reason(domain.ErrInvalidPercentage, domain.ReasonRoyaltiesTooHigh)
	}
	if st.Owner.IsEmpty() {
		return nil, domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyOwner)
	}
	return im, nil
}

func creatorKey(key royalty.CreatorKey) string {
	return fmt.Sprintf("creator:%s:%d", key.Collection.ToLower(), key.ItemId)
}

func curatorKey(collection domain.Address) string {
	return "curator:" + collection.ToLowerStr()
}

func (im *impl) load(c ctx.Ctx, key string, container interface{}, loader cache.Loader) error {
	if im.cache == nil {
		val, err := loader()
		if err != nil {
			return err
		}
		return assign(container, val)
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cache.Load(c, key, container, loader)
}

// write runs fn against the repo and drops the cached keys before any fill can see the old value
func (im *impl) write(c ctx.Ctx, fn func() error, keys ...string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	if im.cache == nil {
		return nil
	}
	if err := im.cache.Del(c, keys...); err != nil {
		c.WithFields(log.Fields{"err": err, "keys": keys}).Error("cache.Del failed")
	}
	return nil
}

func (im *impl) settings(c ctx.Ctx) (*royalty.Settings, error) {
	st := &royalty.Settings{}
	if err := im.load(c, settingsKey, st, func() (interface{}, error) {
		return im.repo.GetSettings(c)
	}); err != nil {
		c.WithField("err", err).Error("repo.GetSettings failed")
		return nil, err
	}
	return st, nil
}

func (im *impl) reject(c ctx.Ctx, op string, err error) error {
	c.WithFields(log.Fields{"op": op, "err": err}).Warn("royalty call rejected")
	return err
}

func (im *impl) onlyOwner(c ctx.Ctx, op string, caller domain.Address) (*royalty.Settings, error) {
	st, err := im.settings(c)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(st.Owner) {
		return nil, im.reject(c, op, domain.Reason(domain.ErrUnauthorized, domain.ReasonOnlyOwner))
	}
	return st, nil
}

func (im *impl) onlyOwnerOrRegistry(c ctx.Ctx, op string, caller domain.Address) (*royalty.Settings, error) {
	st, err := im.settings(c)
	if err != nil {
		return nil, err
	}
	if caller.Equals(st.Owner) || (!st.Registry.IsEmpty() && caller.Equals(st.Registry)) {
		return st, nil
	}
	return nil, im.reject(c, op, domain.Reason(domain.ErrUnauthorized, domain.ReasonOnlyOwnerOrRegistry))
}

func checkBps(bps domain.Bps) error {
	if !bps.IsValid() {
		return domain.Reason(domain.ErrInvalidPercentage, domain.ReasonRoyaltiesTooHigh)
	}
	return nil
}

func (im *impl) Owner(c ctx.Ctx) (domain.Address, error) {
	st, err := im.settings(c)
	if err != nil {
		return "", err
	}
	return st.Owner, nil
}

func (im *impl) GetRegistry(c ctx.Ctx, caller domain.Address) (domain.Address, error) {
	st, err := im.onlyOwnerOrRegistry(c, "getRegistry", caller)
	if err != nil {
		return "", err
	}
	return st.Registry, nil
}

func (im *impl) SetRegistry(c ctx.Ctx, caller, registry domain.Address) error {
	if _, err := im.onlyOwner(c, "setRegistry", caller); err != nil {
		return err
	}
	if registry.IsEmpty() {
		return im.reject(c, "setRegistry", domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyRegistry))
	}
	if err := im.write(c, func() error {
		return im.repo.SetRegistry(c, registry)
	}, settingsKey); err != nil {
		c.WithField("err", err).Error("repo.SetRegistry failed")
		return err
	}
	im.sink.Emit(c, event.New(event.KindRegistryUpdated).WithActor(caller).WithCounterparty(registry))
	return nil
}

func (im *impl) SetListingFee(c ctx.Ctx, caller domain.Address, amount *big.Int) error {
	if _, err := im.onlyOwner(c, "setListingFee", caller); err != nil {
		return err
	}
	if amount != nil && amount.Sign() < 0 {
		return im.reject(c, "setListingFee", domain.ErrInvalidAmount)
	}
	if err := im.write(c, func() error {
		return im.repo.SetListingFee(c, domain.Amount(amount))
	}, settingsKey); err != nil {
		c.WithField("err", err).Error("repo.SetListingFee failed")
		return err
	}
	im.sink.Emit(c, event.New(event.KindListingFeeUpdated).WithActor(caller).WithAmount(amount))
	return nil
}

func (im *impl) SetPlatformRoyalty(c ctx.Ctx, caller domain.Address, bps domain.Bps) error {
	if _, err := im.onlyOwner(c, "setPlatformRoyalty", caller); err != nil {
		return err
	}
	if err := checkBps(bps); err != nil {
		return im.reject(c, "setPlatformRoyalty", err)
	}
	if err := im.write(c, func() error {
		return im.repo.SetPlatformBps(c, bps)
	}, settingsKey); err != nil {
		c.WithField("err", err).Error("repo.SetPlatformBps failed")
		return err
	}
	im.sink.Emit(c, event.New(event.KindPlatformRoyaltyUpdated).WithActor(caller).WithBps(bps))
	return nil
}

func (im *impl) SetCreatorRoyalty(c ctx.Ctx, caller domain.Address, key royalty.CreatorKey, bps domain.Bps) error {
	if _, err := im.onlyOwnerOrRegistry(c, "setCreatorRoyalty", caller); err != nil {
		return err
	}
	if err := checkBps(bps); err != nil {
		return im.reject(c, "setCreatorRoyalty", err)
	}
	if err := im.write(c, func() error {
		return im.repo.SetCreatorBps(c, key, bps)
	}, creatorKey(key)); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("repo.SetCreatorBps failed")
		return err
	}
	im.sink.Emit(c, event.New(event.KindCreatorRoyaltyUpdated).
		WithActor(caller).
		WithCollection(key.Collection).
		WithItem(key.ItemId).
		WithBps(bps))
	return nil
}

func (im *impl) SetCuratorRoyalty(c ctx.Ctx, caller, collection, curator domain.Address, bps domain.Bps) error {
	if _, err := im.onlyOwner(c, "setCuratorRoyalty", caller); err != nil {
		return err
	}
	if err := checkBps(bps); err != nil {
		return im.reject(c, "setCuratorRoyalty", err)
	}
	if curator.IsEmpty() && bps > 0 {
		return im.reject(c, "setCuratorRoyalty", domain.Reason(domain.ErrInvalidArgument, domain.ReasonEmptyCurator))
	}
	if err := im.write(c, func() error {
		return im.repo.SetCurator(c, collection, royalty.CuratorRoyalty{Curator: curator, Bps: bps})
	}, curatorKey(collection)); err != nil {
		c.WithFields(log.Fields{"err": err, "collection": collection}).Error("repo.SetCurator failed")
		return err
	}
	im.sink.Emit(c, event.New(event.KindCuratorRoyaltyUpdated).
		WithActor(caller).
		WithCollection(collection).
		WithCounterparty(curator).
		WithBps(bps))
	return nil
}

func (im *impl) GetListingFee(c ctx.Ctx) (*big.Int, error) {
	st, err := im.settings(c)
	if err != nil {
		return nil, err
	}
	return domain.Amount(st.ListingFee), nil
}

func (im *impl) GetPlatformRoyalty(c ctx.Ctx) (domain.Bps, error) {
	st, err := im.settings(c)
	if err != nil {
		return 0, err
	}
	return st.PlatformBps, nil
}

func (im *impl) GetCreatorRoyalty(c ctx.Ctx, key royalty.CreatorKey) (domain.Bps, error) {
	var bps domain.Bps
	if err := im.load(c, creatorKey(key), &bps, func() (interface{}, error) {
		v, err := im.repo.GetCreatorBps(c, key)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("repo.GetCreatorBps failed")
		return 0, err
	}
	return bps, nil
}

func (im *impl) GetCuratorRoyalty(c ctx.Ctx, collection domain.Address) (*royalty.CuratorRoyalty, error) {
	cur := &royalty.CuratorRoyalty{}
	if err := im.load(c, curatorKey(collection), cur, func() (interface{}, error) {
		v, err := im.repo.GetCurator(c, collection)
		if err == domain.ErrNotFound {
			// no curator is a 0 bps curator
			return &royalty.CuratorRoyalty{}, nil
		} else if err != nil {
			return nil, err
		}
		return v, nil
	}); err != nil {
		c.WithFields(log.Fields{"err": err, "collection": collection}).Error("repo.GetCurator failed")
		return nil, err
	}
	return cur, nil
}

func share(price *big.Int, bps domain.Bps) *big.Int {
	v := new(big.Int).Mul(price, big.NewInt(int64(bps)))
	return v.Quo(v, bpsDenominator)
}

func (im *impl) ComputeSplit(c ctx.Ctx, caller domain.Address, key royalty.CreatorKey, price *big.Int) (*royalty.Split, error) {
	st, err := im.onlyOwnerOrRegistry(c, "computeSplit", caller)
	if err != nil {
		return nil, err
	}
	if price != nil && price.Sign() < 0 {
		return nil, im.reject(c, "computeSplit", domain.ErrInvalidAmount)
	}
	creator, err := im.GetCreatorRoyalty(c, key)
	if err != nil {
		return nil, err
	}
	curator, err := im.GetCuratorRoyalty(c, key.Collection)
	if err != nil {
		return nil, err
	}

	if uint64(st.PlatformBps)+uint64(creator)+uint64(curator.Bps) > uint64(domain.MaxBps) {
		return nil, im.reject(c, "computeSplit", domain.Reason(domain.ErrInvalidPercentage, domain.ReasonRoyaltiesSumTooHigh))
	}

	p := domain.Amount(price)
	split := &royalty.Split{
		Platform: share(p, st.PlatformBps),
		Creator:  share(p, creator),
		Curator:  share(p, curator.Bps),
	}
	split.Seller = new(big.Int).Sub(p, split.Platform)
	split.Seller.Sub(split.Seller, split.Creator)
	split.Seller.Sub(split.Seller, split.Curator)
	return split, nil
}
