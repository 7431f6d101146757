package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/event"
	"github.com/x-xyz/marketledger/service/query"
)

const defaultLimit = 100

var eventIndexes = []query.Index{
	{Keys: []string{"collection", "itemId", "-time"}},
	{Keys: []string{"kind", "-time"}},
	{Keys: []string{"actor", "-time"}},
}

type mongoRepo struct {
	q query.Mongo
}

// NewMongo archives events in the events table
func NewMongo(q query.Mongo) event.Repo {
	return &mongoRepo{q: q}
}

// EnsureIndexes creates the indexes FindAll relies on
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TableEvents, eventIndexes...)
}

func (r *mongoRepo) Insert(c ctx.Ctx, e event.Event) error {
	if err := r.q.Insert(c, domain.TableEvents, e); err != nil {
		if err == query.ErrDuplicateKey {
			// the same event delivered twice
			return nil
		}
		c.WithFields(log.Fields{"err": err, "id": e.Id}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindAll(c ctx.Ctx, optFns ...event.FindAllOptions) ([]event.Event, error) {
	opts, err := event.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	qry := bson.M{}
	if opts.Collection != nil {
		qry["collection"] = *opts.Collection
	}
	if opts.ItemId != nil {
		qry["itemId"] = *opts.ItemId
	}
	if opts.Actor != nil {
		qry["actor"] = *opts.Actor
	}
	if len(opts.Kinds) > 0 {
		qry["kind"] = bson.M{"$in": opts.Kinds}
	}

	offset, limit := 0, defaultLimit
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil && *opts.Limit > 0 {
		limit = *opts.Limit
	}

	res := []event.Event{}
	if err := r.q.Search(c, domain.TableEvents, offset, limit, []string{"-time"}, qry, &res); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}
