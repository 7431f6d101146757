package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/marketledger/base/log"
)

type ctxKey string

const (
	keyRequestID ctxKey = "requestID"
	keyCaller    ctxKey = "caller"
)

// Ctx is the context every usecase and repository receives, it carries a logger
// enriched with the request scoped fields.
type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent, ctxKey(key), val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

// Value returns the value stored by WithValue under key
func Value(c Ctx, key string) interface{} {
	return c.Context.Value(ctxKey(key))
}

// WithFields only enriches the logger
func WithFields(parent Ctx, fields log.Fields) Ctx {
	return Ctx{
		Context: parent.Context,
		Logger:  parent.Logger.WithFields(fields),
	}
}

func WithRequestID(parent Ctx, id string) Ctx {
	return WithValue(parent, string(keyRequestID), id)
}

func RequestID(c Ctx) string {
	id, _ := Value(c, string(keyRequestID)).(string)
	return id
}

func WithCaller(parent Ctx, caller string) Ctx {
	return WithValue(parent, string(keyCaller), caller)
}

func Caller(c Ctx) string {
	caller, _ := Value(c, string(keyCaller)).(string)
	return caller
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}
