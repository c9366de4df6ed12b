package value

import (
	"math/big"
	"strconv"
	"sync"

	"github.com/wippyai/zksc-ffi/errors"
)

// Slot is an interpreter storage location holding one Value.
// Shared reads and exclusive borrows exclude each other.
type Slot struct {
	val Value
	mu  sync.RWMutex
}

// NewSlot stores v in a fresh slot. The slot takes ownership of v.
func NewSlot(v Value) *Slot {
	return &Slot{val: v}
}

// Load returns a new owner of the stored value.
func (s *Slot) Load() Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val.Clone()
}

// Store replaces the stored value, releasing the previous one.
func (s *Slot) Store(v Value) {
	s.mu.Lock()
	old := s.val
	s.val = v
	s.mu.Unlock()
	old.Release()
}

// Borrow returns the exclusive handle to the stored value, blocking until
// no reader or other borrower holds the slot. The handle must be released.
func (s *Slot) Borrow() *Mut {
	s.mu.Lock()
	return &Mut{v: &s.val, slot: s}
}

// TryBorrow is Borrow without blocking.
func (s *Slot) TryBorrow() (*Mut, bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	return &Mut{v: &s.val, slot: s}, true
}

// Mut is an exclusive-access handle into Value storage. Writes go straight
// to the storage; a shared cell is privately copied first.
//
// At most one child handle (from At) may be live at a time, and the parent
// is frozen until that child is released.
type Mut struct {
	v        *Value
	slot     *Slot
	parent   *Mut
	child    *Mut
	released bool
}

func (m *Mut) check() {
	if m.released {
		errors.Violation(errors.New(errors.PhaseMutate, errors.KindReleased).
			Detail("handle used after release").
			Build())
	}
	if m.child != nil {
		errors.Violation(errors.New(errors.PhaseMutate, errors.KindAliasing).
			Detail("parent handle used while a child handle is live").
			Build())
	}
}

func (m *Mut) boundsCheck(i int) {
	m.v.expectAggregate()
	if n := len(m.v.c.elems); i < 0 || i >= n {
		errors.Violation(errors.OutOfBounds(errors.PhaseMutate, []string{"[" + strconv.Itoa(i) + "]"}, i, n))
	}
}

// Get returns the current value as a borrowed view. Clone it to keep it
// beyond the lifetime of the handle.
func (m *Mut) Get() Value {
	m.check()
	return *m.v
}

// Kind returns the tag of the current value.
func (m *Mut) Kind() Kind {
	m.check()
	return m.v.kind
}

// Set replaces the value, taking ownership of nv and releasing the old value.
func (m *Mut) Set(nv Value) {
	m.check()
	old := *m.v
	*m.v = nv
	old.Release()
}

// SetBigInt replaces a BigInt value with a private copy of x.
func (m *Mut) SetBigInt(x *big.Int) {
	m.check()
	m.v.expect(KindBigInt)
	m.Set(BigInt(new(big.Int).Set(x)))
}

// Len returns the element count of the current list or tuple.
func (m *Mut) Len() int {
	m.check()
	return m.v.Len()
}

// Index returns element i as a borrowed view.
func (m *Mut) Index(i int) Value {
	m.check()
	return m.v.Index(i)
}

// SetIndex replaces element i, taking ownership of nv.
func (m *Mut) SetIndex(i int, nv Value) {
	m.check()
	m.boundsCheck(i)
	m.v.unique()
	old := m.v.c.elems[i]
	m.v.c.elems[i] = nv
	old.Release()
}

// Push appends nv to a list, taking ownership of it.
func (m *Mut) Push(nv Value) {
	m.check()
	m.v.expect(KindList)
	m.v.unique()
	m.v.c.elems = append(m.v.c.elems, nv)
}

// At returns a child handle on element i. The parent may not be used until
// the child is released.
func (m *Mut) At(i int) *Mut {
	m.check()
	m.boundsCheck(i)
	m.v.unique()
	child := &Mut{v: &m.v.c.elems[i], parent: m}
	m.child = child
	return child
}

// Release ends the borrow. Releasing a root handle unlocks its slot.
// Releasing twice is a no-op.
func (m *Mut) Release() {
	if m.released {
		return
	}
	if m.child != nil {
		m.child.Release()
	}
	m.released = true
	if m.parent != nil {
		m.parent.child = nil
	}
	if m.slot != nil {
		m.slot.mu.Unlock()
	}
}

// unique makes v the sole owner of its cell, copying the cell if shared.
func (v *Value) unique() {
	if v.c == nil || v.c.refs.Load() == 1 {
		return
	}
	old := v.c
	nc := newCell()
	if old.num != nil {
		nc.num = new(big.Int).Set(old.num)
	}
	nc.str = old.str
	if old.elems != nil {
		nc.elems = make([]Value, len(old.elems))
		for i, e := range old.elems {
			nc.elems[i] = e.Clone()
		}
	}
	v.c = nc
	Value{c: old}.Release()
	copies.Add(1)
}
