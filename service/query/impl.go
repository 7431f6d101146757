package query

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/database/mongoclient"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/base/metrics"
	"github.com/x-xyz/marketledger/domain"
)

const (
	queryMaxTime     = 20 * time.Second
	slowLogThreshold = 500 * time.Millisecond
)

var (
	timeNow = time.Now
)

type impl struct {
	client *mongoclient.Client
	met    metrics.Service
}

// New initializes an impl
func New(client *mongoclient.Client) Mongo {
	return &impl{
		client: client,
		met:    metrics.New("mongo"),
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Collection(string(table))
}

func (im *impl) Insert(c ctx.Ctx, table domain.Table, doc interface{}) error {
	defer im.met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(c, string(table), "insert", nil, nil)()

	if _, err := im.coll(table).InsertOne(c, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		c.WithFields(log.Fields{"err": err, "table": table}).Error("InsertOne failed")
		return xerrors.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer im.met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(c, string(table), "findone", query, nil)()

	opts := options.FindOne().SetMaxTime(queryMaxTime)
	if err := im.coll(table).FindOne(c, query, opts).Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		c.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("FindOne failed")
		return xerrors.Errorf("findone %s: %w", table, err)
	}
	return nil
}

func (im *impl) Count(c ctx.Ctx, table domain.Table, query interface{}) (int, error) {
	defer im.met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(c, string(table), "count", query, nil)()

	opts := options.Count().SetMaxTime(queryMaxTime)
	n, err := im.coll(table).CountDocuments(c, query, opts)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("CountDocuments failed")
		return 0, xerrors.Errorf("count %s: %w", table, err)
	}
	return int(n), nil
}

func (im *impl) Search(c ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error {
	defer im.met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(c, string(table), "search", query, sortFields)()

	opts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if sort := sortDoc(sortFields...); len(sort) > 0 {
		opts.SetSort(sort)
	}

	cursor, err := im.coll(table).Find(c, query, opts)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("Find failed")
		return xerrors.Errorf("search %s: %w", table, err)
	}
	defer cursor.Close(c)

	if err := cursor.All(c, results); err != nil {
		c.WithFields(log.Fields{"err": err, "table": table}).Error("cursor.All failed")
		return xerrors.Errorf("search %s: %w", table, err)
	}
	return nil
}

func (im *impl) EnsureIndexes(c ctx.Ctx, table domain.Table, indexes ...Index) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		models = append(models, mongo.IndexModel{
			Keys:    sortDoc(idx.Keys...),
			Options: options.Index().SetUnique(idx.Unique),
		})
	}
	if _, err := im.coll(table).Indexes().CreateMany(c, models); err != nil {
		c.WithFields(log.Fields{"err": err, "table": table}).Error("CreateMany failed")
		return xerrors.Errorf("ensure indexes %s: %w", table, err)
	}
	return nil
}

func slowLog(c ctx.Ctx, table, action string, query interface{}, sort interface{}) func() {
	start := timeNow()
	return func() {
		elapsed := timeNow().Sub(start)
		if elapsed < slowLogThreshold {
			return
		}
		c.WithFields(log.Fields{
			"table":      table,
			"action":     action,
			"startTime":  start.Unix(),
			"durationMs": elapsed.Milliseconds(),
			"query":      query,
			"sort":       sort,
		}).Warn("mongo slowlog")
	}
}
