// Package extern binds native Go functions as DSL externs.
//
// An extern is an ordinary Go function of the form
//
//	func(ctx *extern.Context, st *extern.Stack, <type params>, <args>) <results>
//
// Type parameters are domain descriptors and appear first, in declaration
// order: domain.Domain (@D), domain.Stage ($S), *domain.Modulus (N) and
// domain.Qualified (Q). Unqualified type arguments carry no runtime
// information and are dropped at the call site.
//
// Arguments and results use the native forms of Values:
//
//	bool, uint8..uint64     fixed-width scalars
//	uint128.Uint128         u128
//	*big.Int                bigint (a private copy)
//	string                  string
//	struct{}                unit
//	[]T                     list
//	struct{ A T1; B T2 }    tuple, exported fields in order
//	value.Fields            tuple of any arity
//	value.Value             any Value, unconverted
//
// Pointer parameters are passed by reference: *T receives a private copy of
// the slot contents which is written back when the extern returns, so
// **big.Int is the by-reference bigint. *value.Mut is the raw exclusive
// handle.
//
// A value.Value in a result is owned by the result. An extern returning a
// Value it only borrowed, such as an element of an argument, must Clone it
// first, the same rule value.List applies to its elements.
//
// Registration compiles the signature into a binding plan once. Invoke
// converts arguments by that plan and recovers contract violations so that
// a misbehaving extern aborts only the current evaluation.
package extern
