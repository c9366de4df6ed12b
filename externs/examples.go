package externs

import (
	"math/big"

	"go.uber.org/zap"
	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/extern"
	"github.com/wippyai/zksc-ffi/value"
)

type (
	ctx   = extern.Context
	stack = extern.Stack
)

// Pair is the native form of (u64, u128).
type Pair struct {
	A uint64
	B uint128.Uint128
}

type tuple3 struct {
	A uint64
	B uint128.Uint128
	C uint128.Uint128
}

type tuple4 struct {
	N    *big.Int
	X    uint128.Uint128
	B    bool
	Unit struct{}
}

type tuple5 struct {
	A uint64
	B uint128.Uint128
	C uint8
	D uint16
	E uint32
}

type nested1 struct {
	P Pair
	N uint64
}

type nested2 struct {
	Inner struct {
		V  value.Value
		Xs []uint128.Uint128
		B  bool
	}
	N uint64
}

func sqr(_ *ctx, _ *stack, _ domain.Domain, x uint64) uint64 {
	return x * x
}

func sqrU128(_ *ctx, _ *stack, _ domain.Domain, x uint128.Uint128) uint128.Uint128 {
	return x.Mul(x)
}

func cond(_ *ctx, _ *stack, _ domain.Domain, b bool, x, y uint64) uint64 {
	if b {
		return x
	}
	return y
}

func printI128(_ *ctx, _ *stack, d domain.Domain, x uint128.Uint128) {
	Logger().Debug("print_i128",
		zap.Stringer("domain", d),
		zap.Stringer("value", value.U128Signed(x)))
}

func flist(_ *ctx, _ *stack, xs []bool) []bool {
	Logger().Debug("flist", zap.Bools("xs", xs))
	return xs
}

func farr(_ *ctx, _ *stack, xs []uint128.Uint128) []uint128.Uint128 {
	Logger().Debug("farr", zap.Int("len", len(xs)))
	return xs
}

func flistlist(_ *ctx, _ *stack, xss [][]uint128.Uint128) [][]uint128.Uint128 {
	out := make([][]uint128.Uint128, len(xss))
	for i, xs := range xss {
		out[i] = make([]uint128.Uint128, len(xs))
		for j, x := range xs {
			out[i][j] = x.Mul64(2)
		}
	}
	return out
}

func ftuple2(_ *ctx, _ *stack, xs Pair) Pair {
	return xs
}

func ftuple3(_ *ctx, _ *stack, xs tuple3) tuple3 {
	return xs
}

func ftuple4(_ *ctx, _ *stack, xs tuple4) tuple4 {
	return tuple4{
		N: new(big.Int).Add(xs.N, big.NewInt(1)),
		X: xs.X.Mul64(2),
		B: !xs.B,
	}
}

func ftuple5(_ *ctx, _ *stack, xs tuple5) tuple5 {
	return xs
}

// ftuple6 takes its components boxed and converts them one by one.
func ftuple6(_ *ctx, _ *stack, x value.Fields) value.Fields {
	x0 := x[0].AsU64()
	x1 := x[1].AsU128()
	return value.Fields{
		value.U64(x0 + 1),
		value.U128(x1.Mul64(2)),
		value.U8(x[2].AsU8()),
		value.U16(x[3].AsU16()),
		x[4].Clone(),
		x[5].Clone(),
	}
}

func fnestedtuple1(_ *ctx, _ *stack, xs nested1) nested1 {
	return xs
}

func fnestedtuple2(_ *ctx, _ *stack, xs nested2) nested2 {
	xs.Inner.V = xs.Inner.V.Clone()
	return xs
}

func flisttuple(_ *ctx, _ *stack, xs []Pair) []Pair {
	out := make([]Pair, len(xs))
	for i, p := range xs {
		out[i] = Pair{A: p.A * 3, B: p.B.Mul64(4)}
	}
	return out
}

func fstruct(_ *ctx, _ *stack, x value.Fields) value.Fields {
	return value.Fields{
		value.U64(x[0].AsU64() + 1),
		value.U128(x[1].AsU128().Mul64(2)),
	}
}

func fstring(_ *ctx, _ *stack, x string) string {
	return x + "!"
}

// reverseList never inspects the elements, so it works for any element type.
func reverseList(_ *ctx, _ *stack, _ domain.Qualified, xs []value.Value) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x.Clone()
	}
	return out
}

func fmutlist(_ *ctx, _ *stack, xs *[]uint128.Uint128) {
	(*xs)[0] = (*xs)[0].Add64(1)
	(*xs)[1] = (*xs)[1].Mul64(2)
}

func fmutlistb(_ *ctx, _ *stack, _ *domain.Modulus, _, _ domain.Domain, xs *[]bool) {
	(*xs)[0] = !(*xs)[0]
	(*xs)[1] = !(*xs)[1]
}

// fmutlistlist edits the rows in place through child handles.
func fmutlistlist(_ *ctx, _ *stack, xs *value.Mut) {
	for i := 0; i < xs.Len(); i++ {
		row := xs.At(i)
		for j := 0; j < row.Len(); j++ {
			x := row.Index(j).AsU128()
			row.SetIndex(j, value.U128(x.Add64(1).Mul64(2)))
		}
		row.Release()
	}
}

func fmuttuple6(_ *ctx, _ *stack, x *value.Fields) {
	x0 := (*x)[0].AsU64()
	x5 := (*x)[5].AsU64()
	(*x)[0] = value.U64(x5 * 2)
	(*x)[5] = value.U64(x0 + 2)
}

func fmutlisttuple(_ *ctx, _ *stack, xs *[]Pair) {
	for i := range *xs {
		p := &(*xs)[i]
		p.A++
		p.B = p.B.Mul64(2)
	}
}

func fmutbigint(_ *ctx, _ *stack, x **big.Int) {
	(*x).Add(*x, big.NewInt(100))
}

func fmutstring(_ *ctx, _ *stack, x *string) {
	*x += "!"
}

func fmutu64(_ *ctx, _ *stack, x *uint64) {
	*x++
}
