package value

import (
	"math"
	"math/big"
	"testing"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
)

func expectViolation(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected %s violation, got none", kind)
		}
		err, ok := errors.AsViolation(r)
		if !ok {
			t.Fatalf("expected *errors.Error panic, got %T: %v", r, r)
		}
		if err.Kind != kind {
			t.Fatalf("expected kind %s, got %s (%v)", kind, err.Kind, err)
		}
	}()
	fn()
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnit, "unit"},
		{KindBool, "bool"},
		{KindU8, "u8"},
		{KindU128, "u128"},
		{KindBigInt, "bigint"},
		{KindList, "list"},
		{KindTuple, "tuple"},
		{KindUnknown, "unknown"},
		{Kind(200), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKind_Bits(t *testing.T) {
	if KindU8.Bits() != 8 || KindU64.Bits() != 64 || KindU128.Bits() != 128 {
		t.Error("unexpected unsigned widths")
	}
	if KindString.Bits() != 0 {
		t.Error("non-integer kinds have no width")
	}
	if !KindU16.IsUnsigned() || KindBigInt.IsUnsigned() {
		t.Error("IsUnsigned misclassifies")
	}
}

func TestRoundTrip_Scalars(t *testing.T) {
	u128 := uint128.New(0xdeadbeef, 0x1234)

	if got := Bool(true).AsBool(); !got {
		t.Error("bool true round trip")
	}
	if got := Bool(false).AsBool(); got {
		t.Error("bool false round trip")
	}
	if got := U8(math.MaxUint8).AsU8(); got != math.MaxUint8 {
		t.Errorf("u8 = %d", got)
	}
	if got := U16(math.MaxUint16).AsU16(); got != math.MaxUint16 {
		t.Errorf("u16 = %d", got)
	}
	if got := U32(math.MaxUint32).AsU32(); got != math.MaxUint32 {
		t.Errorf("u32 = %d", got)
	}
	if got := U64(math.MaxUint64).AsU64(); got != math.MaxUint64 {
		t.Errorf("u64 = %d", got)
	}
	if got := U128(u128).AsU128(); !got.Equals(u128) {
		t.Errorf("u128 = %v", got)
	}
	if got := String("héllo").AsString(); got != "héllo" {
		t.Errorf("string = %q", got)
	}
	Unit().AsUnit()

	huge, _ := new(big.Int).SetString("-123456789012345678901234567890123456789", 10)
	if got := BigInt(huge).AsBigInt(); got.Cmp(huge) != 0 {
		t.Errorf("bigint = %v", got)
	}
	if got := BigInt(nil).AsBigInt(); got.Sign() != 0 {
		t.Errorf("nil bigint should be zero, got %v", got)
	}
}

func TestRoundTrip_Aggregates(t *testing.T) {
	xs := []uint64{1, 2, 3}
	if got := ListOf(FromSlice(xs, U64), Value.AsU64); len(got) != 3 || got[2] != 3 {
		t.Errorf("list round trip = %v", got)
	}

	rows := [][]uint128.Uint128{{uint128.From64(1)}, {}, {uint128.From64(2), uint128.From64(3)}}
	got := Matrix(FromMatrix(rows, U128), Value.AsU128)
	if len(got) != 3 || len(got[1]) != 0 || !got[2][1].Equals64(3) {
		t.Errorf("matrix round trip = %v", got)
	}

	tup := Tuple(U64(7), String("x"), Unit())
	fields := tup.AsTuple()
	if len(fields) != 3 || fields[0].AsU64() != 7 || fields[1].AsString() != "x" {
		t.Errorf("tuple round trip = %v", tup)
	}
}

func TestNestedExtraction(t *testing.T) {
	v := List(
		Tuple(U64(1), U128(uint128.From64(10))),
		Tuple(U64(2), U128(uint128.From64(20))),
	)
	for i, pair := range ListOf(v, Value.AsTuple) {
		if pair[0].AsU64() != uint64(i+1) {
			t.Errorf("pair[%d].0 = %d", i, pair[0].AsU64())
		}
		if !pair[1].AsU128().Equals64(uint64(i+1) * 10) {
			t.Errorf("pair[%d].1 = %v", i, pair[1].AsU128())
		}
	}
}

func TestRead_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"u64 from string", func() { String("x").AsU64() }},
		{"u8 from u16", func() { U16(1).AsU8() }},
		{"list from tuple", func() { Tuple().AsList() }},
		{"tuple from list", func() { List().AsTuple() }},
		{"bool from unknown", func() { Unknown().AsBool() }},
		{"len of scalar", func() { U64(1).Len() }},
		{"unsigned of string", func() { String("1").AsUnsigned() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectViolation(t, errors.KindTypeMismatch, tt.fn)
		})
	}
}

func TestIndex_OutOfBounds(t *testing.T) {
	v := List(U64(1))
	expectViolation(t, errors.KindOutOfBounds, func() { v.Index(1) })
	expectViolation(t, errors.KindOutOfBounds, func() { v.Index(-1) })
	expectViolation(t, errors.KindOutOfBounds, func() { Tuple().Index(0) })
}

func TestAsUnsigned(t *testing.T) {
	if got := U8(200).AsUnsigned(); got.Int64() != 200 {
		t.Errorf("u8 widened = %v", got)
	}
	b := big.NewInt(5)
	v := BigInt(b)
	w := v.AsUnsigned()
	w.SetInt64(9)
	if v.AsBigInt().Int64() != 5 {
		t.Error("AsUnsigned must return a private copy")
	}
}

func TestClone_SharesCell(t *testing.T) {
	v := FromSlice(make([]uint64, 10000), U64)
	if v.RefCount() != 1 {
		t.Fatalf("fresh list refcount = %d", v.RefCount())
	}

	before := Copies()
	w := v.Clone()
	if v.RefCount() != 2 || w.RefCount() != 2 {
		t.Errorf("refcount after clone = %d", v.RefCount())
	}
	if Copies() != before {
		t.Error("Clone must not copy")
	}
	if &v.AsList()[0] != &w.AsList()[0] {
		t.Error("clones must share element storage")
	}

	w.Release()
	if v.RefCount() != 1 {
		t.Errorf("refcount after release = %d", v.RefCount())
	}
	if U64(1).Clone().RefCount() != 0 {
		t.Error("inline values have no cell")
	}
}

func TestRelease_Cascades(t *testing.T) {
	inner := List(U64(1))
	shared := inner.Clone()
	outer := List(inner)

	if shared.RefCount() != 2 {
		t.Fatalf("inner refcount = %d", shared.RefCount())
	}
	outer.Release()
	if shared.RefCount() != 1 {
		t.Errorf("releasing the last owner of outer should release inner, refcount = %d", shared.RefCount())
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Unit(), "()"},
		{Bool(true), "true"},
		{U64(42), "42"},
		{U128(uint128.Max), "340282366920938463463374607431768211455"},
		{BigInt64(-5), "-5"},
		{String("a\"b"), `"a\"b"`},
		{List(U8(1), U8(2)), "[1, 2]"},
		{Tuple(U64(1), List(), Unknown()), "(1, [], ?)"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{U8(1), "1u8"},
		{U16(2), "2u16"},
		{U32(3), "3u32"},
		{U64(4), "4u64"},
		{I128(-1), "340282366920938463463374607431768211455u128"},
		{BigInt64(-5), "-5big"},
		{Tuple(Unit(), Bool(false), String("s"), Unknown()), `((), false, "s", ?)`},
		{List(List(U64(1)), List()), "[[1u64], []]"},
	}
	for _, tt := range tests {
		if got := tt.v.Literal(); got != tt.want {
			t.Errorf("Literal() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same scalar", U64(1), U64(1), true},
		{"different width", U32(1), U64(1), false},
		{"bigint", BigInt64(7), BigInt64(7), true},
		{"unknown", Unknown(), Unknown(), true},
		{"nested", List(Tuple(U8(1), String("a"))), List(Tuple(U8(1), String("a"))), true},
		{"nested differs", List(Tuple(U8(1), String("a"))), List(Tuple(U8(1), String("b"))), false},
		{"list vs tuple", List(), Tuple(), false},
		{"length", List(U8(1)), List(U8(1), U8(1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func BenchmarkClone_SmallList(b *testing.B) {
	v := FromSlice(make([]uint64, 8), U64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Clone().Release()
	}
}

func BenchmarkClone_LargeList(b *testing.B) {
	v := FromSlice(make([]uint64, 1<<16), U64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Clone().Release()
	}
}
