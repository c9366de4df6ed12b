// Package value provides the uniform representation of DSL runtime data at
// the extern boundary.
//
// # Shapes
//
// A Value is a closed tagged union:
//
//	Kind        Payload                 Native form
//	──────────────────────────────────────────────────────
//	unit        none                    struct{}
//	bool        inline                  bool
//	u8..u64     inline                  uint8..uint64
//	u128        inline                  uint128.Uint128
//	bigint      shared cell             *big.Int (read-only)
//	string      shared cell             string
//	list        shared cell             []Value / []T
//	tuple       shared cell             Fields / Go struct
//	unknown     none                    (no native form)
//
// Read conversions (AsU64, AsList, ...) are total for the matching kind.
// Asking for the wrong kind or an out-of-range index is a contract violation
// and panics with an *errors.Error; the extern boundary recovers it.
//
// # Ownership
//
// Clone is O(1) regardless of payload size: it bumps an atomic owner count.
// Nothing is copied until a write reaches a cell that has more than one
// owner (copy-on-write). Copies reports how often that happened.
//
// # Mutation
//
// Values are immutable through shared access. Mutation goes through a Mut
// handle borrowed from a Slot:
//
//	m := slot.Borrow()
//	row := m.At(0)
//	row.SetIndex(1, value.U128(x))
//	row.Release()
//	m.SetIndex(1, value.List())
//	m.Release()
//
// A child handle freezes its parent, so no two live handles ever alias one
// physical aggregate. Slots serialize borrows with shared reads.
package value
