package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/database/mongoclient"
	hcdomain "github.com/x-xyz/marketledger/domain/healthcheck"
	"github.com/x-xyz/marketledger/domain/keys"
	"github.com/x-xyz/marketledger/service/redis"
)

const pingTimeout = 2 * time.Second

type mongoPing struct {
	client *mongoclient.Client
}

// NewMongo pings the event archive database
func NewMongo(client *mongoclient.Client) hcdomain.HealthCheckRepo {
	return &mongoPing{client: client}
}

func (im *mongoPing) Name() string {
	return "mongo"
}

func (im *mongoPing) Ping(c ctx.Ctx) error {
	cont, cancel := ctx.WithTimeout(c, pingTimeout)
	defer cancel()
	if err := im.client.Ping(cont, readpref.Primary()); err != nil {
		c.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

type redisPing struct {
	redis redis.Service
}

// NewRedis pings the shared cache and checks it accepts writes
func NewRedis(r redis.Service) hcdomain.HealthCheckRepo {
	return &redisPing{redis: r}
}

func (im *redisPing) Name() string {
	return "redis"
}

func (im *redisPing) Ping(c ctx.Ctx) error {
	if err := im.redis.Ping(c); err != nil {
		c.WithField("err", err).Error("ping redis error")
		return err
	}
	if err := im.redis.Set(c, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		c.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
