package value

import (
	"math/big"
	"strconv"
	"sync/atomic"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
)

// Value is a DSL runtime datum. Scalars are stored inline; big integers,
// text and aggregates live in a reference-counted cell shared by clones.
//
// Assigning a Value copies the handle without counting it. Use Clone when a
// second owner needs to keep the value; Release when an owner is done.
type Value struct {
	c    *cell
	bits uint128.Uint128
	kind Kind
}

// Fields is the native form of a tuple or struct of any arity.
// A plain []Value always denotes a list.
type Fields []Value

type cell struct {
	num   *big.Int
	str   string
	elems []Value
	refs  atomic.Int32
}

// copies counts copy-on-write materializations process-wide.
var copies atomic.Int64

// Copies returns the number of cells privately copied because a write hit
// shared storage.
func Copies() int64 {
	return copies.Load()
}

func newCell() *cell {
	c := &cell{}
	c.refs.Store(1)
	return c
}

// Unit returns the unit value.
func Unit() Value {
	return Value{kind: KindUnit}
}

// Unknown returns the placeholder for a value not observable in the
// current evaluation domain.
func Unknown() Value {
	return Value{kind: KindUnknown}
}

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = uint128.From64(1)
	}
	return v
}

func U8(x uint8) Value {
	return Value{kind: KindU8, bits: uint128.From64(uint64(x))}
}

func U16(x uint16) Value {
	return Value{kind: KindU16, bits: uint128.From64(uint64(x))}
}

func U32(x uint32) Value {
	return Value{kind: KindU32, bits: uint128.From64(uint64(x))}
}

func U64(x uint64) Value {
	return Value{kind: KindU64, bits: uint128.From64(x)}
}

func U128(x uint128.Uint128) Value {
	return Value{kind: KindU128, bits: x}
}

// BigInt wraps x. The Value takes ownership: x must not be modified afterwards.
func BigInt(x *big.Int) Value {
	c := newCell()
	if x == nil {
		x = new(big.Int)
	}
	c.num = x
	return Value{kind: KindBigInt, c: c}
}

func BigInt64(x int64) Value {
	return BigInt(big.NewInt(x))
}

func String(s string) Value {
	c := newCell()
	c.str = s
	return Value{kind: KindString, c: c}
}

// List builds a list. The Value takes ownership of elems and of every element.
func List(elems ...Value) Value {
	c := newCell()
	if elems == nil {
		elems = []Value{}
	}
	c.elems = elems
	return Value{kind: KindList, c: c}
}

// Tuple builds a tuple or struct. The Value takes ownership of elems.
func Tuple(elems ...Value) Value {
	c := newCell()
	if elems == nil {
		elems = []Value{}
	}
	c.elems = elems
	return Value{kind: KindTuple, c: c}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUnknown reports whether v is the Unknown placeholder.
func (v Value) IsUnknown() bool {
	return v.kind == KindUnknown
}

// Clone returns a new owner of the same data. It never copies the payload.
func (v Value) Clone() Value {
	if v.c != nil {
		v.c.refs.Add(1)
	}
	return v
}

// Release drops one owner. When the last owner goes away the elements of an
// aggregate are released in turn. A Value must not be used after Release.
func (v Value) Release() {
	if v.c == nil {
		return
	}
	if v.c.refs.Add(-1) == 0 {
		for _, e := range v.c.elems {
			e.Release()
		}
	}
}

// RefCount returns the number of owners of the shared cell, or 0 for values
// stored inline.
func (v Value) RefCount() int {
	if v.c == nil {
		return 0
	}
	return int(v.c.refs.Load())
}

func (v Value) expect(k Kind) {
	if v.kind != k {
		errors.Violation(errors.ShapeMismatch(errors.PhaseRead, nil, k.String(), v.kind.String()))
	}
}

func (v Value) expectAggregate() {
	if !v.kind.IsAggregate() {
		errors.Violation(errors.ShapeMismatch(errors.PhaseRead, nil, "list or tuple", v.kind.String()))
	}
}

func (v Value) AsUnit() {
	v.expect(KindUnit)
}

func (v Value) AsBool() bool {
	v.expect(KindBool)
	return v.bits.Lo != 0
}

func (v Value) AsU8() uint8 {
	v.expect(KindU8)
	return uint8(v.bits.Lo)
}

func (v Value) AsU16() uint16 {
	v.expect(KindU16)
	return uint16(v.bits.Lo)
}

func (v Value) AsU32() uint32 {
	v.expect(KindU32)
	return uint32(v.bits.Lo)
}

func (v Value) AsU64() uint64 {
	v.expect(KindU64)
	return v.bits.Lo
}

func (v Value) AsU128() uint128.Uint128 {
	v.expect(KindU128)
	return v.bits
}

// AsBigInt returns the shared integer. Callers must treat it as read-only.
func (v Value) AsBigInt() *big.Int {
	v.expect(KindBigInt)
	return v.c.num
}

func (v Value) AsString() string {
	v.expect(KindString)
	return v.c.str
}

// AsList returns the elements of a list without copying them.
// The slice is a shared view and must not be modified.
func (v Value) AsList() []Value {
	v.expect(KindList)
	return v.c.elems
}

// AsTuple returns the components of a tuple or struct without copying them.
// The slice is a shared view and must not be modified.
func (v Value) AsTuple() Fields {
	v.expect(KindTuple)
	return v.c.elems
}

// Len returns the element count of a list or tuple.
func (v Value) Len() int {
	v.expectAggregate()
	return len(v.c.elems)
}

// Index returns element i of a list or tuple.
func (v Value) Index(i int) Value {
	v.expectAggregate()
	if i < 0 || i >= len(v.c.elems) {
		errors.Violation(errors.OutOfBounds(errors.PhaseRead, []string{"[" + strconv.Itoa(i) + "]"}, i, len(v.c.elems)))
	}
	return v.c.elems[i]
}

// AsUnsigned widens any fixed-width unsigned or BigInt value to a fresh big.Int.
func (v Value) AsUnsigned() *big.Int {
	switch {
	case v.kind.IsUnsigned():
		return v.bits.Big()
	case v.kind == KindBigInt:
		return new(big.Int).Set(v.c.num)
	default:
		errors.Violation(errors.ShapeMismatch(errors.PhaseRead, nil, "integer", v.kind.String()))
		return nil
	}
}
