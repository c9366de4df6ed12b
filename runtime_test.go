package zkscffi

import (
	"math/big"
	"testing"

	"github.com/wippyai/zksc-ffi/config"
	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/extern"
	"github.com/wippyai/zksc-ffi/value"
)

func newRuntime(t *testing.T, current string) *Runtime {
	t.Helper()
	cfg := config.Default()
	cfg.Runtime.Domain = current
	rt, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rt
}

func ints(rows ...[]int64) [][]*big.Int {
	out := make([][]*big.Int, len(rows))
	for i, r := range rows {
		for _, x := range r {
			out[i] = append(out[i], big.NewInt(x))
		}
	}
	return out
}

func TestNew(t *testing.T) {
	rt, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if rt.Domain() != domain.Prover {
		t.Errorf("domain = %v", rt.Domain())
	}
	if !rt.Registry().Lookup("uint_n_pre_matrix_to_i128") {
		t.Error("built-in catalogue not registered")
	}

	bad := config.Default()
	bad.Runtime.Domain = "nobody"
	if _, err := New(bad); err == nil {
		t.Error("invalid config must be rejected")
	}
}

func TestRuntime_RegisterAndCall(t *testing.T) {
	rt := newRuntime(t, "verifier")
	err := rt.Register("cube", func(ctx *extern.Context, _ *extern.Stack, d domain.Domain, x uint64) value.Value {
		if !ctx.Visible(d) {
			return ctx.Unknown
		}
		return value.U64(x * x * x)
	})
	if err != nil {
		t.Fatal(err)
	}

	v, err := rt.Call("cube", []extern.TypeArg{extern.DomainArg(domain.Verifier)}, extern.ByVal(value.U64(3)))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsU64() != 27 {
		t.Errorf("cube = %v", v)
	}

	v, err = rt.Call("cube", []extern.TypeArg{extern.DomainArg(domain.Prover)}, extern.ByVal(value.U64(3)))
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsUnknown() {
		t.Errorf("prover data in verifier domain = %v", v)
	}

	v, err = rt.CallIn(domain.Prover, "cube", []extern.TypeArg{extern.DomainArg(domain.Prover)}, extern.ByVal(value.U64(2)))
	if err != nil || v.AsU64() != 8 {
		t.Errorf("CallIn = %v, %v", v, err)
	}
}

func TestRuntime_Matrices(t *testing.T) {
	rt := newRuntime(t, "prover")
	m := domain.MustModulus(17)

	dec, err := rt.DecodeMatrix(m, domain.Prover, ints([]int64{1, 16, 0}, []int64{9, 8, 2}))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int64{{1, -1, 0}, {-8, -9, 2}}
	for i, row := range dec.AsList() {
		for j, y := range row.AsList() {
			if got := value.U128Signed(y.AsU128()).Int64(); got != want[i][j] {
				t.Errorf("decoded[%d][%d] = %d, want %d", i, j, got, want[i][j])
			}
		}
	}

	enc, err := rt.EncodeMatrix(m, domain.Prover, ints([]int64{1, -1, 0}, []int64{8, -8, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if got := enc.String(); got != "[[1, 16, 0], [8, 9, 2]]" {
		t.Errorf("encoded = %s", got)
	}
}

func TestRuntime_EncodeMatrixKeepsInput(t *testing.T) {
	rt := newRuntime(t, "prover")
	rows := ints([]int64{1, -1, 8})

	enc, err := rt.EncodeMatrix(domain.MustModulus(17), domain.Public, rows)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Release()
	if got := enc.String(); got != "[[1, 16, 8]]" {
		t.Errorf("encoded = %s", got)
	}
	for i, want := range []int64{1, -1, 8} {
		if rows[0][i].Int64() != want {
			t.Errorf("input row changed: element %d = %v, want %d", i, rows[0][i], want)
		}
	}
}

func TestRuntime_DecodedMatrixMutatesInPlace(t *testing.T) {
	rt := newRuntime(t, "prover")
	dec, err := rt.DecodeMatrix(domain.MustModulus(17), domain.Public, ints([]int64{1, 16}, []int64{9}))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < dec.Len(); i++ {
		if n := dec.Index(i).RefCount(); n != 1 {
			t.Errorf("row %d refcount = %d, want 1", i, n)
		}
	}

	s := value.NewSlot(dec)
	before := value.Copies()
	m := s.Borrow()
	row := m.At(0)
	row.SetIndex(0, value.U128(value.Int128(7)))
	row.Release()
	m.Release()
	if n := value.Copies() - before; n != 0 {
		t.Errorf("sole owner was copied %d times", n)
	}
	got := s.Load()
	defer got.Release()
	if got.String() != "[[7, 340282366920938463463374607431768211455], [340282366920938463463374607431768211448]]" {
		t.Errorf("slot = %v", got)
	}
}

func TestRuntime_MatricesInvisible(t *testing.T) {
	rt := newRuntime(t, "public")
	m := domain.MustModulus(17)

	dec, err := rt.DecodeMatrix(m, domain.Prover, ints([]int64{1, 2, 3}, []int64{4, 5, 6}))
	if err != nil {
		t.Fatal(err)
	}
	if got := dec.String(); got != "[[0, 0, 0], [0, 0, 0]]" {
		t.Errorf("decoded = %s", got)
	}

	enc, err := rt.EncodeMatrix(m, domain.Verifier, ints([]int64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if got := enc.String(); got != "[[?]]" {
		t.Errorf("encoded = %s", got)
	}
}

func TestRuntime_MatrixErrors(t *testing.T) {
	rt := newRuntime(t, "prover")
	m := domain.MustModulus(17)

	if _, err := rt.DecodeMatrix(m, domain.Public, ints([]int64{17})); err == nil {
		t.Error("element outside the field must fail")
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 130)
	if _, err := rt.EncodeMatrix(m, domain.Public, [][]*big.Int{{huge}}); err == nil {
		t.Error("element outside i128 must fail")
	}

	if _, err := rt.DecodeMatrix(m, domain.Public, [][]*big.Int{{nil}}); err == nil {
		t.Error("nil element must fail")
	}
}
