package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

// IsEmpty reports whether the address is unset or the zero address
func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) String() string {
	return string(a)
}

// AddressFromCommon converts a go-ethereum address into the lower-cased form used as map keys.
func AddressFromCommon(a common.Address) Address {
	return Address(a.Hex()).ToLower()
}

func (a Address) ToCommon() common.Address {
	return common.HexToAddress(string(a))
}

// Bps is a rate in basis points, 10000 = 100%.
type Bps uint32

const MaxBps Bps = 10000

func (b Bps) IsValid() bool {
	return b <= MaxBps
}
