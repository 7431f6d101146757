package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/service/cache/provider"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// Loader produces the value stored on a cache miss, it must return a pointer
type Loader func() (interface{}, error)

type Marshal func(interface{}) ([]byte, error)

type Unmarshal func([]byte, interface{}) error

// Service stores values under a prefix with a default ttl
type Service interface {
	// Load fills container from the cache, calling loader and storing its result on a miss
	Load(c ctx.Ctx, key string, container interface{}, loader Loader) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	SetWithTTL(c ctx.Ctx, key string, value interface{}, ttl time.Duration) error
	Del(c ctx.Ctx, keys ...string) error
}

type ServiceConfig struct {
	Ttl       time.Duration
	Pfx       string
	Provider  provider.Provider
	Marshal   Marshal
	Unmarshal Unmarshal
}
