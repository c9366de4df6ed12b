// Package zkscffi is the native extern bridge of a ZK DSL runtime.
//
// DSL programs call native Go functions ("externs") with runtime Values.
// The bridge converts Values to and from native Go types, threads the
// domain descriptors of each call site, handles by-reference arguments
// with exclusive copy-on-write access, and re-encodes field-element
// matrices to signed integers.
//
// # Architecture Overview
//
//	zkscffi/              Runtime: configuration, registry, matrix helpers
//	├── value/            Value tagged union, Slot storage, Mut handles
//	├── domain/           Domain, Stage, Qualified and Modulus descriptors
//	├── extern/           Binding plans and the Invoke boundary
//	├── numcodec/         Domain-aware centered modulus codec
//	├── externs/          Built-in extern catalogue and sample call sites
//	├── wire/             Canonical CBOR serialization of Values
//	├── config/           TOML runtime configuration and matrix fixtures
//	├── errors/           Structured error types
//	└── cmd/zkext/        Command-line front end
//
// # Quick Start
//
//	rt, err := zkscffi.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = rt.Register("cube", func(_ *extern.Context, _ *extern.Stack, d domain.Domain, x uint64) uint64 {
//	    return x * x * x
//	})
//
//	v, err := rt.Call("cube", []extern.TypeArg{extern.DomainArg(domain.Public)},
//	    extern.ByVal(value.U64(12)))
//
// By-reference arguments are passed as slots:
//
//	s := value.NewSlot(value.U64(41))
//	_, err = rt.Call("fmutu64", nil, extern.ByRef(s))
package zkscffi
