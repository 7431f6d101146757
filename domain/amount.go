package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// NativeDecimals is the number of decimals of the native currency, amounts are kept in its smallest unit.
const NativeDecimals = 18

// ParseAmount parses a non-negative integer amount in smallest units, e.g. "100000000000000000".
func ParseAmount(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return nil, ErrInvalidAmount
	}
	return d.BigInt(), nil
}

// FormatNative renders an amount in smallest units as native currency, e.g. 1e17 -> "0.1".
func FormatNative(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -NativeDecimals).String()
}

// Amount returns a copy of v, nil is read as zero.
func Amount(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// IsZero reports whether v is nil or zero.
func IsZero(v *big.Int) bool {
	return v == nil || v.Sign() == 0
}

// Price is the wire form of an amount.
type Price struct {
	Wei     string `json:"wei"`
	Display string `json:"display"`
}

func ToPrice(amount *big.Int) Price {
	return Price{
		Wei:     Amount(amount).String(),
		Display: FormatNative(amount),
	}
}
