package ethereum

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/x-xyz/marketledger/domain"
)

func GenerateKey() (*ecdsa.PrivateKey, *ecdsa.PublicKey, error) {
	if privateKey, err := crypto.GenerateKey(); err != nil {
		return nil, nil, err
	} else {
		publicKey := privateKey.Public().(*ecdsa.PublicKey)
		return privateKey, publicKey, nil
	}
}

// ContractAddress derives the address a deployer creates at the given nonce,
// the same derivation the chain uses for contract creation.
func ContractAddress(deployer domain.Address, nonce uint64) domain.Address {
	return domain.AddressFromCommon(crypto.CreateAddress(common.HexToAddress(string(deployer)), nonce))
}

// KeyAddress returns the account address owning the public key
func KeyAddress(pub *ecdsa.PublicKey) domain.Address {
	return domain.AddressFromCommon(crypto.PubkeyToAddress(*pub))
}
