package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/domain/keys"
	"github.com/x-xyz/marketledger/service/cache/provider"
	"github.com/x-xyz/marketledger/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type value struct {
	Value string `json:"value"`
}

type testsuite struct {
	suite.Suite
	im       *impl
	provider provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.provider = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:      time.Second,
		Pfx:      "testing",
		Provider: ts.provider,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	c := &value{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))

	raw, err := json.Marshal(value{"v"})
	ts.Require().NoError(err)
	ts.Require().NoError(ts.provider.Set(mockCtx, keys.RedisKey("testing", "key"), raw, time.Minute))

	ts.NoError(ts.im.Get(mockCtx, "key", c))
	ts.Equal(value{"v"}, *c)
}

func (ts *testsuite) TestSetExpires() {
	ts.NoError(ts.im.Set(mockCtx, "key", value{"v"}))

	raw, _, err := ts.provider.Get(mockCtx, keys.RedisKey("testing", "key"))
	ts.NoError(err)
	c := &value{}
	ts.NoError(json.Unmarshal(raw, c))
	ts.Equal("v", c.Value)

	time.Sleep(1100 * time.Millisecond)
	_, _, err = ts.provider.Get(mockCtx, keys.RedisKey("testing", "key"))
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestLoad() {
	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return &value{"loaded"}, nil
	}

	for i := 0; i < 3; i++ {
		c := &value{}
		ts.NoError(ts.im.Load(mockCtx, "key", c, loader))
		ts.Equal("loaded", c.Value)
	}
	ts.Equal(1, calls)

	ts.NoError(ts.im.Del(mockCtx, "key"))
	c := &value{}
	ts.NoError(ts.im.Load(mockCtx, "key", c, loader))
	ts.Equal(2, calls)
}

func (ts *testsuite) TestLoadError() {
	errLoad := errors.New("boom")
	c := &value{}
	err := ts.im.Load(mockCtx, "key", c, func() (interface{}, error) { return nil, errLoad })
	ts.Equal(errLoad, err)
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))
}
