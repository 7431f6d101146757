package domain

import "math/big"

// Call carries the identity of whoever triggered an operation and the payment attached to it.
type Call struct {
	Sender Address
	Value  *big.Int
}

func NewCall(sender Address) Call {
	return Call{Sender: sender.ToLower(), Value: new(big.Int)}
}

// WithValue returns a copy of the call with the given payment attached.
func (c Call) WithValue(v *big.Int) Call {
	c.Value = Amount(v)
	return c
}

func (c Call) HasValue() bool {
	return !IsZero(c.Value)
}
