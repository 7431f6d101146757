package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/marketledger/base/ctx"
)

// Forever marks a key without expiration
const Forever = time.Duration(0)

var (
	ErrNotFound = errors.New("redis: key not found")
	ErrNoTTL    = errors.New("redis: key has no expiration")
	ErrNoPool   = errors.New("redis: no pool available")
)

// Service is the subset of redis commands used by the cache layer and the health check
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(c ctx.Ctx, keys ...string) (int, error)
	TTL(c ctx.Ctx, key string) (int, error)
	Ping(c ctx.Ctx) error
}
