package numcodec

import (
	"math/big"
	"testing"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

func expectViolation(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		err, ok := errors.AsViolation(recover())
		if !ok {
			t.Fatalf("expected %s violation", kind)
		}
		if err.Kind != kind {
			t.Fatalf("expected kind %s, got %s (%v)", kind, err.Kind, err)
		}
	}()
	fn()
}

func bigRows(rows ...[]int64) []value.Value {
	out := make([]value.Value, len(rows))
	for i, r := range rows {
		out[i] = value.FromSlice(r, value.BigInt64)
	}
	return out
}

func i128Rows(rows ...[]int64) []value.Value {
	out := make([]value.Value, len(rows))
	for i, r := range rows {
		out[i] = value.FromSlice(r, value.I128)
	}
	return out
}

func signedRows(t *testing.T, yss []value.Value) [][]int64 {
	t.Helper()
	out := make([][]int64, len(yss))
	for i, row := range yss {
		for _, y := range row.AsList() {
			out[i] = append(out[i], value.U128Signed(y.AsU128()).Int64())
		}
	}
	return out
}

func equalRows(a, b [][]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestDecodeElem(t *testing.T) {
	n := big.NewInt(17)
	tests := []struct {
		x, want int64
	}{
		{0, 0},
		{1, 1},
		{7, 7},
		{8, -9},
		{9, -8},
		{16, -1},
	}
	for _, tt := range tests {
		if got := DecodeElem(n, big.NewInt(tt.x)); got.Int64() != tt.want {
			t.Errorf("DecodeElem(17, %d) = %v, want %d", tt.x, got, tt.want)
		}
	}

	expectViolation(t, errors.KindOutOfBounds, func() { DecodeElem(n, big.NewInt(17)) })
	expectViolation(t, errors.KindOutOfBounds, func() { DecodeElem(n, big.NewInt(-1)) })
}

func TestDecode_Visible(t *testing.T) {
	m := domain.MustModulus(17)
	got := Decode(domain.Prover, domain.Prover, m, bigRows([]int64{1, 16, 0}, []int64{9, 8, 2}))

	want := [][]int64{{1, -1, 0}, {-8, -9, 2}}
	if rows := signedRows(t, got); !equalRows(rows, want) {
		t.Errorf("Decode = %v, want %v", rows, want)
	}
	if !got[0].Index(1).AsU128().Equals(uint128.Max) {
		t.Errorf("-1 must be carried as all ones, got %v", got[0].Index(1))
	}
}

func TestDecode_FixedWidthElements(t *testing.T) {
	m := domain.MustModulus(17)
	xss := []value.Value{value.List(value.U64(16), value.U8(3))}
	got := signedRows(t, Decode(domain.Public, domain.Public, m, xss))
	if !equalRows(got, [][]int64{{-1, 3}}) {
		t.Errorf("Decode = %v", got)
	}
}

func TestDecode_NotVisible(t *testing.T) {
	m := domain.MustModulus(17)
	xss := []value.Value{
		value.List(value.Unknown(), value.Unknown(), value.Unknown()),
		value.List(value.Unknown(), value.Unknown(), value.Unknown()),
	}

	got := Decode(domain.Verifier, domain.Prover, m, xss)
	if rows := signedRows(t, got); !equalRows(rows, [][]int64{{0, 0, 0}, {0, 0, 0}}) {
		t.Errorf("Decode = %v", rows)
	}

	// The modulus is never consulted for invisible data.
	got = Decode(domain.Public, domain.Verifier, nil, []value.Value{value.List(value.String("opaque"))})
	if len(got) != 1 || got[0].Len() != 1 {
		t.Errorf("Decode = %v", got)
	}
}

func TestDecode_RaggedAndEmpty(t *testing.T) {
	m := domain.MustModulus(17)
	if got := Decode(domain.Prover, domain.Public, m, nil); len(got) != 0 {
		t.Errorf("empty matrix decoded to %v", got)
	}

	got := signedRows(t, Decode(domain.Prover, domain.Public, m, bigRows([]int64{}, []int64{5, 12, 3, 13})))
	if !equalRows(got, [][]int64{nil, {5, -5, 3, -4}}) {
		t.Errorf("Decode = %v", got)
	}
}

func TestDecode_ModulusTooWide(t *testing.T) {
	rows := bigRows([]int64{1})

	wide := new(big.Int).Lsh(big.NewInt(1), 127)
	m, err := domain.NewModulus(new(big.Int).Add(wide, big.NewInt(1)))
	if err != nil {
		t.Fatal(err)
	}
	expectViolation(t, errors.KindOverflow, func() { Decode(domain.Prover, domain.Prover, m, rows) })
	expectViolation(t, errors.KindOverflow, func() { Decode(domain.Prover, domain.Prover, domain.Infinite(), rows) })

	// Largest supported width: the Mersenne prime 2^127 - 1.
	p, _ := domain.NewModulus(new(big.Int).Sub(wide, big.NewInt(1)))
	top := new(big.Int).Sub(wide, big.NewInt(2))
	got := Decode(domain.Prover, domain.Prover, p, []value.Value{value.List(value.BigInt(top))})
	if v := value.U128Signed(got[0].Index(0).AsU128()); v.Int64() != -1 {
		t.Errorf("p-1 decoded to %v, want -1", v)
	}
}

func TestDecode_ShapeViolation(t *testing.T) {
	m := domain.MustModulus(17)
	expectViolation(t, errors.KindTypeMismatch, func() {
		Decode(domain.Prover, domain.Prover, m, []value.Value{value.U64(1)})
	})
	expectViolation(t, errors.KindTypeMismatch, func() {
		Decode(domain.Prover, domain.Prover, m, []value.Value{value.List(value.String("x"))})
	})
}

func TestEncode_Visible(t *testing.T) {
	m := domain.MustModulus(17)
	got := Encode(domain.Prover, domain.Verifier, m, value.Unknown(), i128Rows([]int64{1, -1, 0}, []int64{8, -8, 2}))

	want := [][]int64{{1, 16, 0}, {8, 9, 2}}
	for i, row := range got {
		for j, y := range row.AsList() {
			if y.AsBigInt().Int64() != want[i][j] {
				t.Errorf("Encode[%d][%d] = %v, want %d", i, j, y, want[i][j])
			}
		}
	}
}

func TestEncode_NotVisible(t *testing.T) {
	got := Encode(domain.Public, domain.Prover, domain.MustModulus(17), value.Unknown(), i128Rows([]int64{1, 2}, []int64{3}))
	if len(got) != 2 || got[0].Len() != 2 || got[1].Len() != 1 {
		t.Fatalf("shape not preserved: %v", got)
	}
	for _, row := range got {
		for _, y := range row.AsList() {
			if !y.IsUnknown() {
				t.Errorf("expected Unknown, got %v", y)
			}
		}
	}
}

func TestEncode_NotVisibleUsesPlaceholder(t *testing.T) {
	hidden := value.String("hidden")
	got := Encode(domain.Public, domain.Prover, domain.MustModulus(17), hidden, i128Rows([]int64{1, 2}))
	for _, y := range got[0].AsList() {
		if y.IsUnknown() || y.AsString() != "hidden" {
			t.Errorf("expected placeholder, got %v", y)
		}
	}
	if n := hidden.RefCount(); n != 3 {
		t.Errorf("placeholder refs = %d, want 3", n)
	}
	got[0].Release()
	if n := hidden.RefCount(); n != 1 {
		t.Errorf("placeholder refs after release = %d, want 1", n)
	}
}

func TestEncode_ShapeViolation(t *testing.T) {
	expectViolation(t, errors.KindTypeMismatch, func() {
		Encode(domain.Prover, domain.Prover, domain.MustModulus(17), value.Unknown(), []value.Value{value.List(value.U64(1))})
	})
}

func TestRoundTrip(t *testing.T) {
	m := domain.MustModulus(17)
	var row []int64
	for x := int64(0); x < 17; x++ {
		row = append(row, x)
	}

	decoded := Decode(domain.Prover, domain.Prover, m, bigRows(row))
	encoded := Encode(domain.Prover, domain.Prover, m, value.Unknown(), decoded)
	for x, y := range encoded[0].AsList() {
		if y.AsBigInt().Int64() != int64(x) {
			t.Errorf("encode(decode(%d)) = %v", x, y)
		}
	}

	for v := int64(-8); v <= 8; v++ {
		enc := Encode(domain.Prover, domain.Prover, m, value.Unknown(), i128Rows([]int64{v}))
		dec := signedRows(t, Decode(domain.Prover, domain.Prover, m, enc))
		want := v
		if v == 8 {
			want = -9
		}
		if dec[0][0] != want {
			t.Errorf("decode(encode(%d)) = %d, want %d", v, dec[0][0], want)
		}
	}
}
