package externs

import (
	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/extern"
	"github.com/wippyai/zksc-ffi/value"
)

// Sample is a ready-made call site of a built-in extern together with the
// rendering of its expected result and of its by-reference slots after the
// call.
type Sample struct {
	Name     string
	TypeArgs []extern.TypeArg
	Args     []extern.Arg
	Want     string
	WantRefs []string
}

// Refs returns the slots passed by reference, in argument order.
func (s Sample) Refs() []*value.Slot {
	var refs []*value.Slot
	for _, a := range s.Args {
		if a.IsRef() {
			refs = append(refs, a.Slot)
		}
	}
	return refs
}

func u128s(xs ...uint64) value.Value {
	return value.FromSlice(xs, func(x uint64) value.Value { return value.U128(uint128.From64(x)) })
}

func pair(a, b uint64) value.Value {
	return value.Tuple(value.U64(a), value.U128(uint128.From64(b)))
}

func val(v value.Value) extern.Arg {
	return extern.ByVal(v)
}

func ref(v value.Value) extern.Arg {
	return extern.ByRef(value.NewSlot(v))
}

// Samples returns fresh call sites, one per built-in extern, in a stable
// order. Matrix samples use public data so they decode in every domain.
func Samples() []Sample {
	m17 := extern.NatArg(domain.MustModulus(17))
	public := extern.DomainArg(domain.Public)
	prover := extern.DomainArg(domain.Prover)

	return []Sample{
		{
			Name:     "uint_n_pre_matrix_to_i128",
			TypeArgs: []extern.TypeArg{m17, public},
			Args: []extern.Arg{val(value.List(
				value.FromSlice([]int64{1, 16, 0}, value.BigInt64),
				value.FromSlice([]int64{2, 15, 3}, value.BigInt64),
			))},
			Want: "[[1, 340282366920938463463374607431768211455, 0], [2, 340282366920938463463374607431768211454, 3]]",
		},
		{
			Name:     "i128_pre_matrix_to_uint_n",
			TypeArgs: []extern.TypeArg{m17, public},
			Args: []extern.Arg{val(value.List(
				value.FromSlice([]int64{1, -1, 0}, value.I128),
				value.FromSlice([]int64{8, -8, 2}, value.I128),
			))},
			Want: "[[1, 16, 0], [8, 9, 2]]",
		},
		{
			Name:     "sqr",
			TypeArgs: []extern.TypeArg{prover},
			Args:     []extern.Arg{val(value.U64(7))},
			Want:     "49",
		},
		{
			Name:     "sqr_u128",
			TypeArgs: []extern.TypeArg{public},
			Args:     []extern.Arg{val(value.U128(uint128.From64(12345678901)))},
			Want:     "152415787526596567801",
		},
		{
			Name:     "cond",
			TypeArgs: []extern.TypeArg{extern.DomainArg(domain.Verifier)},
			Args:     []extern.Arg{val(value.Bool(true)), val(value.U64(1)), val(value.U64(2))},
			Want:     "1",
		},
		{
			Name:     "print_i128",
			TypeArgs: []extern.TypeArg{prover},
			Args:     []extern.Arg{val(value.I128(-42))},
			Want:     "()",
		},
		{
			Name: "flist",
			Args: []extern.Arg{val(value.List(value.Bool(true), value.Bool(false)))},
			Want: "[true, false]",
		},
		{
			Name: "farr",
			Args: []extern.Arg{val(u128s(1, 2, 3))},
			Want: "[1, 2, 3]",
		},
		{
			Name: "flistlist",
			Args: []extern.Arg{val(value.List(u128s(1, 2), u128s(3)))},
			Want: "[[2, 4], [6]]",
		},
		{
			Name: "ftuple2",
			Args: []extern.Arg{val(pair(5, 6))},
			Want: "(5, 6)",
		},
		{
			Name: "ftuple3",
			Args: []extern.Arg{val(value.Tuple(value.U64(1), value.U128(uint128.From64(2)), value.U128(uint128.From64(3))))},
			Want: "(1, 2, 3)",
		},
		{
			Name: "ftuple4",
			Args: []extern.Arg{val(value.Tuple(value.BigInt64(41), value.U128(uint128.From64(21)), value.Bool(true), value.Unit()))},
			Want: "(42, 42, false, ())",
		},
		{
			Name: "ftuple5",
			Args: []extern.Arg{val(value.Tuple(value.U64(1), value.U128(uint128.From64(2)), value.U8(3), value.U16(4), value.U32(5)))},
			Want: "(1, 2, 3, 4, 5)",
		},
		{
			Name: "ftuple6",
			Args: []extern.Arg{val(value.Tuple(value.U64(1), value.U128(uint128.From64(2)), value.U8(3), value.U16(4), value.U32(5), value.U64(6)))},
			Want: "(2, 4, 3, 4, 5, 6)",
		},
		{
			Name: "fnestedtuple1",
			Args: []extern.Arg{val(value.Tuple(pair(1, 2), value.U64(3)))},
			Want: "((1, 2), 3)",
		},
		{
			Name: "fnestedtuple2",
			Args: []extern.Arg{val(value.Tuple(value.Tuple(value.Unknown(), u128s(7, 8), value.Bool(true)), value.U64(9)))},
			Want: "((?, [7, 8], true), 9)",
		},
		{
			Name: "flisttuple",
			Args: []extern.Arg{val(value.List(pair(1, 2), pair(3, 4)))},
			Want: "[(3, 8), (9, 16)]",
		},
		{
			Name: "fstruct",
			Args: []extern.Arg{val(pair(10, 20))},
			Want: "(11, 40)",
		},
		{
			Name: "fstring",
			Args: []extern.Arg{val(value.String("hello"))},
			Want: `"hello!"`,
		},
		{
			Name:     "reverse_list",
			TypeArgs: []extern.TypeArg{extern.QualifiedArg(domain.Qualified{Stage: domain.Pre, Domain: domain.Public})},
			Args:     []extern.Arg{val(value.List(value.U64(1), value.String("a"), value.Unit()))},
			Want:     `[(), "a", 1]`,
		},
		{
			Name:     "fmutlist",
			Args:     []extern.Arg{ref(u128s(5, 6, 7))},
			Want:     "()",
			WantRefs: []string{"[6, 12, 7]"},
		},
		{
			Name:     "fmutlistb",
			TypeArgs: []extern.TypeArg{m17, public, extern.UnqualifiedArg(), prover},
			Args:     []extern.Arg{ref(value.List(value.Bool(true), value.Bool(false)))},
			Want:     "()",
			WantRefs: []string{"[false, true]"},
		},
		{
			Name:     "fmutlistlist",
			Args:     []extern.Arg{ref(value.List(u128s(1, 2), u128s(3)))},
			Want:     "()",
			WantRefs: []string{"[[4, 6], [8]]"},
		},
		{
			Name:     "fmuttuple6",
			Args:     []extern.Arg{ref(value.Tuple(value.U64(1), value.U128(uint128.From64(2)), value.U8(3), value.U16(4), value.U32(5), value.U64(6)))},
			Want:     "()",
			WantRefs: []string{"(12, 2, 3, 4, 5, 3)"},
		},
		{
			Name:     "fmutlisttuple",
			Args:     []extern.Arg{ref(value.List(pair(1, 2), pair(3, 4)))},
			Want:     "()",
			WantRefs: []string{"[(2, 4), (4, 8)]"},
		},
		{
			Name:     "fmutbigint",
			Args:     []extern.Arg{ref(value.BigInt64(23))},
			Want:     "()",
			WantRefs: []string{"123"},
		},
		{
			Name:     "fmutstring",
			Args:     []extern.Arg{ref(value.String("hi"))},
			Want:     "()",
			WantRefs: []string{`"hi!"`},
		},
		{
			Name:     "fmutu64",
			Args:     []extern.Arg{ref(value.U64(41))},
			Want:     "()",
			WantRefs: []string{"42"},
		},
	}
}
