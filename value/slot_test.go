package value

import (
	"math/big"
	"sync"
	"testing"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
)

func TestSlot_MutationVisibility(t *testing.T) {
	s := NewSlot(FromSlice([]uint64{1, 2, 3}, U64))

	m := s.Borrow()
	m.SetIndex(1, U64(20))
	m.Release()

	got := s.Load()
	defer got.Release()
	if got.Index(1).AsU64() != 20 {
		t.Errorf("element 1 = %v, want 20", got.Index(1))
	}
}

func TestSlot_CopyOnWrite(t *testing.T) {
	s := NewSlot(FromSlice([]uint64{1, 2, 3}, U64))
	reader := s.Load() // second owner

	before := Copies()
	m := s.Borrow()
	m.SetIndex(0, U64(100))
	m.SetIndex(2, U64(300))
	m.Release()

	if n := Copies() - before; n != 1 {
		t.Errorf("expected exactly one copy for a shared cell, got %d", n)
	}
	if reader.Index(0).AsU64() != 1 {
		t.Error("write through handle leaked into a shared reader")
	}

	after := s.Load()
	if after.Index(0).AsU64() != 100 || after.Index(2).AsU64() != 300 {
		t.Errorf("slot value = %v", after)
	}
	after.Release()
}

func TestSlot_InPlaceWhenUnique(t *testing.T) {
	s := NewSlot(FromSlice([]uint64{1, 2}, U64))

	before := Copies()
	m := s.Borrow()
	m.SetIndex(0, U64(9))
	m.Push(U64(3))
	m.Release()

	if Copies() != before {
		t.Error("sole owner must be mutated in place")
	}
	v := s.Load()
	defer v.Release()
	if v.Len() != 3 || v.Index(0).AsU64() != 9 {
		t.Errorf("slot value = %v", v)
	}
}

func TestMut_NestedCopyOnWrite(t *testing.T) {
	row := FromSlice([]uint128.Uint128{uint128.From64(1), uint128.From64(2)}, U128)
	alias := row.Clone()
	s := NewSlot(List(row, FromSlice([]uint128.Uint128{uint128.From64(3)}, U128)))

	m := s.Borrow()
	child := m.At(0)
	child.SetIndex(0, U128(uint128.From64(11)))
	child.Release()
	m.Release()

	if !alias.Index(0).AsU128().Equals64(1) {
		t.Error("nested write must not be visible through another owner of the row")
	}
	v := s.Load()
	defer v.Release()
	if !v.Index(0).Index(0).AsU128().Equals64(11) {
		t.Errorf("slot value = %v", v)
	}
}

func TestMut_SingleOwnerIndexing(t *testing.T) {
	s := NewSlot(Tuple(U64(1), U64(2)))
	m := s.Borrow()
	defer m.Release()

	c0 := m.At(0)
	expectViolation(t, errors.KindAliasing, func() { m.At(1) })
	expectViolation(t, errors.KindAliasing, func() { m.SetIndex(1, U64(5)) })
	c0.Set(U64(10))
	c0.Release()

	c1 := m.At(1)
	c1.Set(U64(20))
	c1.Release()

	if got := m.Get().String(); got != "(10, 20)" {
		t.Errorf("tuple = %s", got)
	}
}

func TestMut_UseAfterRelease(t *testing.T) {
	s := NewSlot(U64(1))
	m := s.Borrow()
	m.Release()
	m.Release()

	expectViolation(t, errors.KindReleased, func() { m.Get() })
	expectViolation(t, errors.KindReleased, func() { m.Set(U64(2)) })
}

func TestMut_ContractViolations(t *testing.T) {
	s := NewSlot(List(U64(1)))
	m := s.Borrow()
	defer m.Release()

	expectViolation(t, errors.KindOutOfBounds, func() { m.SetIndex(5, U64(1)) })
	expectViolation(t, errors.KindOutOfBounds, func() { m.At(-1) })
	expectViolation(t, errors.KindTypeMismatch, func() { m.SetBigInt(big.NewInt(1)) })

	ts := NewSlot(Tuple(U64(1)))
	tm := ts.Borrow()
	defer tm.Release()
	expectViolation(t, errors.KindTypeMismatch, func() { tm.Push(U64(2)) })
}

func TestMut_SetBigIntCopies(t *testing.T) {
	s := NewSlot(BigInt64(1))
	x := big.NewInt(41)

	m := s.Borrow()
	m.SetBigInt(x)
	m.Release()
	x.SetInt64(0)

	v := s.Load()
	defer v.Release()
	if v.AsBigInt().Int64() != 41 {
		t.Errorf("bigint = %v", v)
	}
}

func TestMut_ReleaseParentReleasesChild(t *testing.T) {
	s := NewSlot(List(List(U64(1))))
	m := s.Borrow()
	child := m.At(0)
	m.Release()

	expectViolation(t, errors.KindReleased, func() { child.Get() })
	if _, ok := s.TryBorrow(); !ok {
		t.Error("slot should be free after the root handle is released")
	}
}

func TestSlot_TryBorrow(t *testing.T) {
	s := NewSlot(U64(1))
	m := s.Borrow()
	if _, ok := s.TryBorrow(); ok {
		t.Error("TryBorrow must fail while borrowed")
	}
	m.Release()

	m2, ok := s.TryBorrow()
	if !ok {
		t.Fatal("TryBorrow should succeed on a free slot")
	}
	m2.Release()
}

func TestSlot_StoreReleasesPrevious(t *testing.T) {
	v := List(U64(1))
	keep := v.Clone()
	s := NewSlot(v)
	s.Store(U64(2))

	if keep.RefCount() != 1 {
		t.Errorf("previous value refcount = %d, want 1", keep.RefCount())
	}
}

func TestSlot_ConcurrentReadersAndWriter(t *testing.T) {
	s := NewSlot(FromSlice(make([]uint64, 64), U64))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m := s.Borrow()
				cur := m.Index(0).AsU64()
				m.SetIndex(0, U64(cur+1))
				m.Release()
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				v := s.Load()
				_ = v.Index(0).AsU64()
				v.Release()
			}
		}()
	}
	wg.Wait()

	v := s.Load()
	defer v.Release()
	if got := v.Index(0).AsU64(); got != 400 {
		t.Errorf("counter = %d, want 400", got)
	}
}
