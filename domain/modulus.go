package domain

import (
	"math/big"
	"strings"

	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

// ToBigFunc reads a field element Value as an integer.
type ToBigFunc func(value.Value) *big.Int

// FromBigFunc turns an integer into a field element Value.
type FromBigFunc func(*big.Int) value.Value

// Modulus is the numeric-modulus descriptor of a call site: the field
// modulus and the runtime's element conversion primitives.
type Modulus struct {
	n       *big.Int
	toBig   ToBigFunc
	fromBig FromBigFunc
}

// NewModulus builds a descriptor for Z/nZ whose elements are BigInt values
// holding the canonical residue.
func NewModulus(n *big.Int) (*Modulus, error) {
	if n == nil || n.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "modulus must be at least 2")
	}
	m := &Modulus{n: new(big.Int).Set(n)}
	m.toBig = defaultToBig
	m.fromBig = m.reduce
	return m, nil
}

// ParseModulus parses a decimal or 0x-prefixed hexadecimal modulus.
func ParseModulus(s string) (*Modulus, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseConfig, "invalid modulus "+s)
	}
	return NewModulus(n)
}

// MustModulus is NewModulus for constant moduli.
func MustModulus(n int64) *Modulus {
	m, err := NewModulus(big.NewInt(n))
	if err != nil {
		panic(err)
	}
	return m
}

// Infinite returns the descriptor of unbounded integers (no modulus).
func Infinite() *Modulus {
	return &Modulus{toBig: defaultToBig, fromBig: copyBig}
}

func copyBig(x *big.Int) value.Value {
	return value.BigInt(new(big.Int).Set(x))
}

// WithPrimitives builds a descriptor around conversion primitives supplied
// by the host runtime. n may be nil for an unbounded domain.
func WithPrimitives(n *big.Int, toBig ToBigFunc, fromBig FromBigFunc) *Modulus {
	m := &Modulus{toBig: toBig, fromBig: fromBig}
	if n != nil {
		m.n = new(big.Int).Set(n)
	}
	return m
}

func defaultToBig(v value.Value) *big.Int {
	return v.AsUnsigned()
}

func (m *Modulus) reduce(x *big.Int) value.Value {
	r := new(big.Int).Mod(x, m.n)
	return value.BigInt(r)
}

// N returns a copy of the modulus, or nil for an unbounded domain.
func (m *Modulus) N() *big.Int {
	if m.n == nil {
		return nil
	}
	return new(big.Int).Set(m.n)
}

// IsInfinite reports whether the descriptor has no modulus.
func (m *Modulus) IsInfinite() bool {
	return m.n == nil
}

// Bits returns the bit length of the modulus, 0 when unbounded.
func (m *Modulus) Bits() int {
	if m.n == nil {
		return 0
	}
	return m.n.BitLen()
}

// ToBig converts a field element to its integer representative.
func (m *Modulus) ToBig(v value.Value) *big.Int {
	return m.toBig(v)
}

// FromBig converts a (possibly negative) integer into a field element.
func (m *Modulus) FromBig(x *big.Int) value.Value {
	return m.fromBig(x)
}

func (m *Modulus) String() string {
	if m.n == nil {
		return "inf"
	}
	return m.n.String()
}
