// Package numcodec re-encodes matrices between field elements of a prime
// modulus and signed 128-bit integers.
//
// A field element x in [0, n) stands for the signed integer x when
// x < n/2 and for x - n otherwise. Signed integers travel as u128 Values
// holding the i128 two's complement bit pattern.
//
// Both directions are domain aware: when the data's domain is not visible
// in the current domain, no element or modulus is looked at and the result
// is a placeholder matrix of identical shape.
package numcodec

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

// MaxModulusBits is the widest modulus whose centered residues fit in i128.
const MaxModulusBits = 127

// DecodeElem maps a field element x of modulus n to its centered signed
// integer. x must lie in [0, n).
func DecodeElem(n, x *big.Int) *big.Int {
	if x.Sign() < 0 || x.Cmp(n) >= 0 {
		errors.Violation(errors.New(errors.PhaseCodec, errors.KindOutOfBounds).
			Value(x.String()).
			Detail("field element outside [0, %s)", n).
			Build())
	}
	half := new(big.Int).Rsh(n, 1)
	if x.Cmp(half) >= 0 {
		return new(big.Int).Sub(x, n)
	}
	return new(big.Int).Set(x)
}

// EncodeElem maps a signed integer to its field element.
func EncodeElem(m *domain.Modulus, v *big.Int) value.Value {
	return m.FromBig(v)
}

func checkModulus(m *domain.Modulus) *big.Int {
	if m == nil {
		errors.Violation(errors.InvalidInput(errors.PhaseCodec, "nil modulus"))
	}
	if m.IsInfinite() {
		errors.Violation(errors.Overflow(errors.PhaseCodec, nil, "inf", "i128"))
	}
	if m.Bits() > MaxModulusBits {
		errors.Violation(errors.New(errors.PhaseCodec, errors.KindOverflow).
			Value(m.String()).
			Shape("i128").
			Detail("modulus has %d bits, at most %d supported", m.Bits(), MaxModulusBits).
			Build())
	}
	return m.N()
}

// Decode converts rows of field elements of data tagged d into rows of
// u128 Values carrying i128. The caller keeps ownership of xss and owns
// the result.
func Decode(current, d domain.Domain, m *domain.Modulus, xss []value.Value) []value.Value {
	yss := make([]value.Value, len(xss))
	if !d.VisibleIn(current) {
		Logger().Debug("decode of invisible matrix yields zeros",
			zap.Stringer("domain", d),
			zap.Stringer("current", current),
			zap.Int("rows", len(xss)))
		for i, row := range xss {
			ys := make([]value.Value, row.Len())
			for j := range ys {
				ys[j] = value.U128(value.Int128(0))
			}
			yss[i] = value.List(ys...)
		}
		return yss
	}

	n := checkModulus(m)
	for i, row := range xss {
		xs := row.AsList()
		ys := make([]value.Value, len(xs))
		for j, x := range xs {
			ys[j] = value.U128(value.SignedU128(DecodeElem(n, m.ToBig(x))))
		}
		yss[i] = value.List(ys...)
	}
	return yss
}

// Encode converts rows of u128 Values carrying i128 into rows of field
// elements of data tagged d. Invisible data yields rows of unknown, each
// element its own Clone.
func Encode(current, d domain.Domain, m *domain.Modulus, unknown value.Value, xss []value.Value) []value.Value {
	yss := make([]value.Value, len(xss))
	if !d.VisibleIn(current) {
		Logger().Debug("encode of invisible matrix yields unknowns",
			zap.Stringer("domain", d),
			zap.Stringer("current", current),
			zap.Int("rows", len(xss)))
		for i, row := range xss {
			ys := make([]value.Value, row.Len())
			for j := range ys {
				ys[j] = unknown.Clone()
			}
			yss[i] = value.List(ys...)
		}
		return yss
	}

	if m == nil {
		errors.Violation(errors.InvalidInput(errors.PhaseCodec, "nil modulus"))
	}
	for i, row := range xss {
		xs := row.AsList()
		ys := make([]value.Value, len(xs))
		for j, x := range xs {
			ys[j] = EncodeElem(m, value.U128Signed(x.AsU128()))
		}
		yss[i] = value.List(ys...)
	}
	return yss
}
