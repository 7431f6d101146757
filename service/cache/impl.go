package cache

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain/keys"
	"github.com/x-xyz/marketledger/service/cache/provider"
)

type impl struct {
	ttl       time.Duration
	pfx       string
	provider  provider.Provider
	marshal   Marshal
	unmarshal Unmarshal
}

func New(cfg ServiceConfig) Service {
	if cfg.Marshal == nil {
		cfg.Marshal = json.Marshal
	}
	if cfg.Unmarshal == nil {
		cfg.Unmarshal = json.Unmarshal
	}
	return &impl{
		ttl:       cfg.Ttl,
		pfx:       cfg.Pfx,
		provider:  cfg.Provider,
		marshal:   cfg.Marshal,
		unmarshal: cfg.Unmarshal,
	}
}

func (im *impl) key(k string) string {
	return keys.RedisKey(im.pfx, k)
}

func (im *impl) Load(c ctx.Ctx, key string, container interface{}, loader Loader) error {
	if err := im.Get(c, key, container); err == nil {
		return nil
	} else if err != ErrNotFound {
		// fall through to the loader
		c.WithFields(log.Fields{"err": err, "key": key}).Warn("Get failed")
	}

	val, err := loader()
	if err != nil {
		return err
	}

	if err := im.Set(c, key, val); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Warn("Set failed")
	}

	reflect.ValueOf(container).Elem().Set(reflect.ValueOf(val).Elem())
	return nil
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	k := im.key(key)
	raw, _, err := im.provider.Get(c, k)
	if err == provider.ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("provider.Get failed")
		return err
	}
	if err := im.unmarshal(raw, container); err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("unmarshal failed")
		return err
	}
	return nil
}

func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	return im.SetWithTTL(c, key, value, im.ttl)
}

func (im *impl) SetWithTTL(c ctx.Ctx, key string, value interface{}, ttl time.Duration) error {
	k := im.key(key)
	raw, err := im.marshal(value)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("marshal failed")
		return err
	}
	if err := im.provider.Set(c, k, raw, ttl); err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("provider.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, ks ...string) error {
	for _, key := range ks {
		k := im.key(key)
		if err := im.provider.Del(c, k); err != nil {
			c.WithFields(log.Fields{"err": err, "key": k}).Error("provider.Del failed")
			return err
		}
	}
	return nil
}
