package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/x-xyz/marketledger/base/ctx"
	"github.com/x-xyz/marketledger/base/ethereum"
	"github.com/x-xyz/marketledger/base/log"
	"github.com/x-xyz/marketledger/domain"
	"github.com/x-xyz/marketledger/service/cache"
)

const defaultTokenTtl = 24 * time.Hour

type AuthUseCaseCfg struct {
	JwtSecret string
	// SignatureMsg is a format string with one %s for the nonce
	SignatureMsg string
	NonceTtl     time.Duration
	TokenTtl     time.Duration
	// Nonces holds pending nonces, keyed by address
	Nonces cache.Service
}

type impl struct {
	jwtSecret    []byte
	signatureMsg string
	nonceTtl     time.Duration
	tokenTtl     time.Duration
	nonces       cache.Service
}

func New(cfg *AuthUseCaseCfg) domain.AuthUsecase {
	tokenTtl := cfg.TokenTtl
	if tokenTtl == 0 {
		tokenTtl = defaultTokenTtl
	}
	return &impl{
		jwtSecret:    []byte(cfg.JwtSecret),
		signatureMsg: cfg.SignatureMsg,
		nonceTtl:     cfg.NonceTtl,
		tokenTtl:     tokenTtl,
		nonces:       cfg.Nonces,
	}
}

func (im *impl) SigningMessage(nonce string) string {
	return fmt.Sprintf(im.signatureMsg, nonce)
}

func (im *impl) IssueNonce(ctx ctx.Ctx, address domain.Address) (string, error) {
	nonce := uuid.NewString()
	if err := im.nonces.SetWithTTL(ctx, address.ToLowerStr(), nonce, im.nonceTtl); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("nonces.SetWithTTL failed")
		return "", err
	}
	return nonce, nil
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address, signature string) (string, error) {
	var nonce string
	if err := im.nonces.Get(ctx, address.ToLowerStr(), &nonce); err == cache.ErrNotFound {
		return "", domain.ErrInvalidSignature
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("nonces.Get failed")
		return "", err
	}

	ok, err := ethereum.ValidateMsgSignature([]byte(im.SigningMessage(nonce)), signature, address)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Warn("ethereum.ValidateMsgSignature failed")
		return "", domain.ErrInvalidSignature
	} else if !ok {
		return "", domain.ErrInvalidSignature
	}

	// a nonce signs in once
	if err := im.nonces.Del(ctx, address.ToLowerStr()); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Error("nonces.Del failed")
		return "", err
	}

	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(im.tokenTtl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (domain.Address, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if token != nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return domain.Address(claims.Address), nil
		}
	}

	if err == nil {
		err = domain.ErrUnauthorized
	}
	return "", err
}
