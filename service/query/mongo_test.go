package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketledger/base/ctx"
)

func TestSortDoc(t *testing.T) {
	assert.Equal(t, bson.D{}, sortDoc())
	assert.Equal(t, bson.D{}, sortDoc(""))
	assert.Equal(t, bson.D{
		{Key: "time", Value: -1},
		{Key: "collection", Value: 1},
	}, sortDoc("-time", "collection"))
}

func TestSlowLog(t *testing.T) {
	defer func() { timeNow = time.Now }()

	now := time.Unix(1000, 0)
	timeNow = func() time.Time { return now }
	done := slowLog(ctx.Background(), "events", "search", nil, nil)

	// only reports, never panics on either side of the threshold
	now = now.Add(slowLogThreshold / 2)
	assert.NotPanics(t, done)
	now = now.Add(slowLogThreshold)
	assert.NotPanics(t, done)
}
