package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/marketledger/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"` // name data for backward compatibility
	jwt.StandardClaims
}

// AuthUsecase turns a signed nonce into a bearer token naming the caller
type AuthUsecase interface {
	// IssueNonce stores a fresh single-use nonce for address
	IssueNonce(ctx ctx.Ctx, address Address) (string, error)
	// SigningMessage is the text the wallet signs for nonce
	SigningMessage(nonce string) string
	// SignToken checks signature over the pending nonce of address and consumes it
	SignToken(ctx ctx.Ctx, address Address, signature string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (Address, error)
}
