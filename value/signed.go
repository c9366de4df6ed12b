package value

import (
	"math"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
)

// Wide signed integers cross the boundary as u128 holding the two's
// complement bit pattern of an i128.

var (
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// SignedU128 encodes x as an i128 bit pattern. x outside the i128 range is a
// contract violation.
func SignedU128(x *big.Int) uint128.Uint128 {
	if x.Cmp(maxI128) > 0 || x.Cmp(minI128) < 0 {
		errors.Violation(errors.Overflow(errors.PhaseWrite, nil, x.String(), "i128"))
	}
	// uint128.FromBig consumes its argument.
	if x.Sign() >= 0 {
		return uint128.FromBig(new(big.Int).Set(x))
	}
	return uint128.FromBig(new(big.Int).Add(x, two128))
}

// U128Signed interprets u as an i128 bit pattern.
func U128Signed(u uint128.Uint128) *big.Int {
	b := u.Big()
	if u.Hi>>63 == 1 {
		b.Sub(b, two128)
	}
	return b
}

// Int128 sign-extends x to an i128 bit pattern.
func Int128(x int64) uint128.Uint128 {
	if x < 0 {
		return uint128.New(uint64(x), math.MaxUint64)
	}
	return uint128.From64(uint64(x))
}

// I128 returns a u128 Value holding x as an i128.
func I128(x int64) Value {
	return U128(Int128(x))
}
