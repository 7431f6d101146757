package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/database/mongoclient"
	"github.com/x-xyz/marketledger/base/database/redisclient"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/base/metrics"
	bValidator "github.com/x-xyz/marketledger/base/validator"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	hcdomain "github.com/x-xyz/marketledger/domain/healthcheck"
	"github.com/x-xyz/marketledger/domain/keys"
	"github.com/x-xyz/marketledger/domain/royalty"
	mmiddleware "github.com/x-xyz/marketledger/middleware"
	"github.com/x-xyz/marketledger/service/cache"
	"github.com/x-xyz/marketledger/service/cache/provider"
	"github.com/x-xyz/marketledger/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/marketledger/service/cache/provider/redis"
	"github.com/x-xyz/marketledger/service/query"
	"github.com/x-xyz/marketledger/service/redis"
	auth_delivery "github.com/x-xyz/marketledger/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/marketledger/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/marketledger/stores/auth/usecase"
	event_delivery "github.com/x-xyz/marketledger/stores/event/delivery/http"
	event_repository "github.com/x-xyz/marketledger/stores/event/repository"
	event_usecase "github.com/x-xyz/marketledger/stores/event/usecase"
	hc_delivery "github.com/x-xyz/marketledger/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/marketledger/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketledger/stores/healthcheck/usecase"
	ledger_repository "github.com/x-xyz/marketledger/stores/ledger/repository"
	ledger_usecase "github.com/x-xyz/marketledger/stores/ledger/usecase"
	registry_delivery "github.com/x-xyz/marketledger/stores/registry/delivery/http"
	registry_repository "github.com/x-xyz/marketledger/stores/registry/repository"
	registry_usecase "github.com/x-xyz/marketledger/stores/registry/usecase"
	royalty_delivery "github.com/x-xyz/marketledger/stores/royalty/delivery/http"
	royalty_repository "github.com/x-xyz/marketledger/stores/royalty/repository"
	royalty_usecase "github.com/x-xyz/marketledger/stores/royalty/usecase"
	wallet_delivery "github.com/x-xyz/marketledger/stores/wallet/delivery/http"
	wallet_repository "github.com/x-xyz/marketledger/stores/wallet/repository"
	wallet_usecase "github.com/x-xyz/marketledger/stores/wallet/usecase"

	_ "github.com/x-xyz/marketledger/app/api/docs"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	log.SetDebug(viper.GetBool("debug"))
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// cacheProvider shares redis between replicas when it is configured, falls back to process memory otherwise.
// Only state every replica agrees on may use it.
func cacheProvider(name string, redisCache redis.Service) provider.Provider {
	if redisCache != nil {
		return redisProvider.NewRedis(redisCache)
	}
	return primitive.NewPrimitive(name, viper.GetInt("localCache.sizeMB"))
}

//	@title			Marketledger API
//	@version		1.0
//	@description	Collections, items, sales and royalties of the marketplace ledger.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrieve token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middL.CORS)
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()
	hcRepos := []hcdomain.HealthCheckRepo{}

	// init mongo client, the event archive is optional
	var archives []event.Repo
	var mongoClient *mongoclient.Client
	if uri := viper.GetString("mongo.uri"); uri != "" {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnect(mongoclient.Config{
			URI:                uri,
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DBName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: 2,
		})
		q := query.New(mongoClient)
		if viper.GetBool("mongo.checkIndex") {
			if err := event_repository.EnsureIndexes(context, q); err != nil {
				context.WithField("err", err).Warn("EnsureIndexes failed")
			}
		}
		archives = append(archives, event_repository.NewMongo(q))
		hcRepos = append(hcRepos, hc_repo.NewMongo(mongoClient))
	}

	// init Redis service, the shared cache is optional
	var redisCache redis.Service
	if uri := viper.GetString("redis_cache.uri"); uri != "" {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		redisCachePool := redisclient.MustConnectRedis(uri, viper.GetString("redis_cache.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          3,
		})
		defer redisCachePool.Close()
		redisCache = redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)
		hcRepos = append(hcRepos, hc_repo.NewRedis(redisCache))
	}

	publisher := event_usecase.New(&event_usecase.EventUseCaseCfg{
		Repo:        event_repository.NewMemory(),
		Archives:    archives,
		Workers:     viper.GetInt("events.workers"),
		QueueLength: viper.GetInt("events.queueLength"),
	})

	owner := domain.Address(viper.GetString("marketplace.owner")).ToLower()
	listingFee, err := domain.ParseAmount(viper.GetString("marketplace.listingFee"))
	if err != nil {
		context.WithField("err", err).Panic("invalid marketplace.listingFee")
	}
	royaltyUC, err := royalty_usecase.New(&royalty_usecase.RoyaltyUseCaseCfg{
		Repo: royalty_repository.NewMemory(royalty.Settings{
			Owner:       owner,
			ListingFee:  listingFee,
			PlatformBps: domain.Bps(viper.GetUint32("marketplace.platformRoyaltyBps")),
		}),
		Cache: cache.New(cache.ServiceConfig{
			Ttl:      viper.GetDuration("marketplace.cacheTtl"),
			Pfx:      keys.PfxRoyalty,
			Provider: primitive.NewPrimitive(keys.PfxRoyalty, viper.GetInt("localCache.sizeMB")),
		}),
		Sink: publisher,
	})
	if err != nil {
		context.WithField("err", err).Panic("royalty_usecase.New failed")
	}

	walletUC := wallet_usecase.New(&wallet_usecase.WalletUseCaseCfg{
		Repo: wallet_repository.NewMemory(),
	})
	registryUC, err := registry_usecase.New(&registry_usecase.RegistryUseCaseCfg{
		Owner:   owner,
		Address: domain.Address(viper.GetString("marketplace.registry")),
		Repo:    registry_repository.NewMemory(),
		Royalty: royaltyUC,
		Wallet:  walletUC,
		Ledgers: ledger_usecase.NewFactory(ledger_repository.NewMemory(), publisher),
		Sink:    publisher,
	})
	if err != nil {
		context.WithField("err", err).Panic("registry_usecase.New failed")
	}
	if err := royaltyUC.SetRegistry(context, owner, registryUC.Address()); err != nil {
		context.WithField("err", err).Panic("royalty.SetRegistry failed")
	}
	context.WithFields(log.Fields{"owner": owner, "registry": registryUC.Address()}).Info("marketplace ready")

	auth := auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		JwtSecret:    viper.GetString("auth.jwtSecret"),
		SignatureMsg: viper.GetString("auth.signatureMsg"),
		NonceTtl:     viper.GetDuration("auth.nonceTtl"),
		TokenTtl:     viper.GetDuration("auth.tokenTtl"),
		Nonces: cache.New(cache.ServiceConfig{
			Pfx:      keys.PfxNonce,
			Provider: cacheProvider(keys.PfxNonce, redisCache),
		}),
	})
	hc := hc_usecase.New(hcRepos...)

	adminAddresses := viper.GetStringSlice("admin.addresses")
	am := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	registry_delivery.New(e, registryUC, am)
	royalty_delivery.New(e, royaltyUC, am)
	wallet_delivery.New(e, walletUC, am)
	event_delivery.New(e, publisher)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": auth_middleware.Caller(c),
		})
	}, am.Auth())

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}

	publisher.Close()
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Log().WithField("err", err).Error("mongo Disconnect failed")
		}
	}
	log.Sync()
}
