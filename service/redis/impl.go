package redis

import (
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/metrics"
	"github.com/x-xyz/marketledger/domain/keys"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2

	// retTTLNoExpire is the return value of TTL when the key exists but has
	// no associated expire
	retTTLNoExpire = -1
)

var delBatchSize = 100

type impl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New wraps a connected pool, name tags every metric it emits
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &impl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *impl) do(c ctx.Ctx, command string, args ...interface{}) (interface{}, error) {
	if r.pool == nil {
		return nil, ErrNoPool
	}
	timer := r.met.BumpTime("getconn.time", "cluster", r.name)
	conn := r.pool.Get()
	timer.End()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getconn.err", 1, "cluster", r.name)
		c.WithFields(map[string]interface{}{"err": err, "command": command}).Error("pool.Get failed")
		return nil, err
	}

	reply, err := conn.Do(command, args...)
	// release the connection before decoding the reply
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *impl) tags(command, key string) []string {
	return []string{"func", command, "cluster", r.name, "prefix", keys.GetPrefix(key)}
}

func (r *impl) Get(c ctx.Ctx, key string) ([]byte, error) {
	tags := r.tags("get", key)
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.do(c, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("GET redis failed")
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *impl) Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := r.tags("set", key)
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	args := []interface{}{key, val}
	if expire != Forever {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
		args = append(args, "PX", int64(expire/time.Millisecond))
	}
	if _, err := r.do(c, "SET", args...); err != nil {
		c.WithField("err", err).Error("SET redis failed")
		return err
	}
	return nil
}

func (r *impl) Del(c ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, fmt.Errorf("length of keys is 0")
	}
	tags := r.tags("del", ks[0])
	defer r.met.BumpTime("time", tags...).End()

	affected := 0
	for start := 0; start < len(ks); start += delBatchSize {
		end := start + delBatchSize
		if end > len(ks) {
			end = len(ks)
		}
		n, err := redis.Int(r.do(c, "DEL", redis.Args{}.AddFlat(ks[start:end])...))
		if err != nil {
			c.WithField("err", err).Error("DEL redis failed")
			return affected, err
		}
		affected += n
	}
	return affected, nil
}

func (r *impl) TTL(c ctx.Ctx, key string) (int, error) {
	defer r.met.BumpTime("time", r.tags("ttl", key)...).End()
	res, err := redis.Int(r.do(c, "TTL", key))
	if err != nil {
		c.WithField("err", err).Error("TTL redis failed")
		return 0, err
	}

	switch res {
	case retTTLNoKey:
		return res, ErrNotFound
	case retTTLNoExpire:
		return res, ErrNoTTL
	}
	return res, nil
}

func (r *impl) Ping(c ctx.Ctx) error {
	defer r.met.BumpTime("time", "func", "ping", "cluster", r.name).End()
	if _, err := redis.String(r.do(c, "PING")); err != nil {
		c.WithField("err", err).Error("PING redis failed")
		return err
	}
	return nil
}
