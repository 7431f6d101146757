package usecase_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/ethereum"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/domain/keys"
	"github.com/x-xyz/marketledger/service/cache"
	"github.com/x-xyz/marketledger/service/cache/provider/primitive"
	"github.com/x-xyz/marketledger/stores/auth/usecase"
)

func newAuth(nonceTtl time.Duration) domain.AuthUsecase {
	return usecase.New(&usecase.AuthUseCaseCfg{
		JwtSecret:    "jwt-secret",
		SignatureMsg: "sign in to marketledger: %s",
		NonceTtl:     nonceTtl,
		Nonces: cache.New(cache.ServiceConfig{
			Pfx:      keys.PfxNonce,
			Provider: primitive.NewPrimitive("nonce", 1),
		}),
	})
}

func TestSignAndParseToken(t *testing.T) {
	c := ctx.Background()
	u := newAuth(time.Minute)

	key, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	address := ethereum.KeyAddress(pub)

	nonce, err := u.IssueNonce(c, address)
	require.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(u.SigningMessage(nonce))), key)
	require.NoError(t, err)

	tkn, err := u.SignToken(c, address, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.NotEmpty(t, tkn)

	ads, err := u.ParseToken(c, tkn)
	assert.NoError(t, err)
	assert.Equal(t, address, ads)

	// nonce is consumed
	_, err = u.SignToken(c, address, hexutil.Encode(sig))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestSignTokenRejectsOtherSigner(t *testing.T) {
	c := ctx.Background()
	u := newAuth(time.Minute)

	_, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	other, _, err := ethereum.GenerateKey()
	require.NoError(t, err)
	address := ethereum.KeyAddress(pub)

	nonce, err := u.IssueNonce(c, address)
	require.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(u.SigningMessage(nonce))), other)
	require.NoError(t, err)

	_, err = u.SignToken(c, address, hexutil.Encode(sig))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestSignTokenWithoutNonce(t *testing.T) {
	_, err := newAuth(time.Minute).SignToken(ctx.Background(), "0x00000000000000000000000000000000000000a1", "0x00")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := newAuth(time.Minute).ParseToken(ctx.Background(), "not-a-token")
	assert.Error(t, err)
}
