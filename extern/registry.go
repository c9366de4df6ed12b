package extern

import (
	"reflect"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

// Registry maps extern names to compiled native functions.
type Registry struct {
	compiler *Compiler
	funcs    map[string]*plan
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		compiler: NewCompiler(),
		funcs:    make(map[string]*plan),
	}
}

// Compiler returns the registry's shape compiler.
func (r *Registry) Compiler() *Compiler {
	return r.compiler
}

// Register compiles the calling convention of fn and binds it to name.
// A name can be registered only once.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseCompile, "extern name cannot be empty")
	}
	p, err := r.compiler.compilePlan(fn)
	if err != nil {
		return errors.Registration(name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.funcs[name]; dup {
		return errors.New(errors.PhaseCompile, errors.KindRegistration).
			Detail("extern %q already registered", name).
			Build()
	}
	r.funcs[name] = p

	Logger().Debug("registered extern",
		zap.String("name", name),
		zap.Stringer("signature", p.signature(name)))
	return nil
}

func (r *Registry) lookup(name string) (*plan, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.funcs[name]
	return p, ok
}

// Lookup reports whether name is registered.
func (r *Registry) Lookup(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Names returns the registered extern names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Describe returns the signature of a registered extern.
func (r *Registry) Describe(name string) (Signature, bool) {
	p, ok := r.lookup(name)
	if !ok {
		return Signature{}, false
	}
	return p.signature(name), true
}

// Invoke calls the extern bound to name. Unqualified type arguments are
// dropped; the rest must match the declared type parameters in order.
//
// The caller keeps ownership of by-value arguments and owns the result.
// By-reference slots are borrowed exclusively for the duration of the call
// and hold the extern's writes when Invoke returns without error.
//
// Contract violations and native panics are recovered and returned as
// *errors.Error; copied by-reference arguments are not written back in that
// case. Writes through a raw *value.Mut handle take effect immediately.
func (r *Registry) Invoke(ctx *Context, st *Stack, name string, targs []TypeArg, args []Arg) (result value.Value, err error) {
	p, ok := r.lookup(name)
	if !ok {
		return value.Value{}, errors.NotFound(errors.PhaseInvoke, "extern", name)
	}
	if ctx == nil {
		return value.Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil context")
	}
	if st == nil {
		st = NewStack()
	}

	defer func() {
		if rec := recover(); rec != nil {
			e := errors.FromPanic(errors.PhaseInvoke, rec)
			if _, violation := errors.AsViolation(rec); !violation {
				e.Path = append([]string{name}, e.Path...)
			}
			Logger().Warn("extern call aborted",
				zap.String("name", name),
				zap.Any("panic", rec))
			result, err = value.Value{}, e
		}
	}()

	Logger().Debug("invoke extern",
		zap.String("name", name),
		zap.Int("type_args", len(targs)),
		zap.Int("args", len(args)))

	in := make([]reflect.Value, 0, 2+len(p.typeParams)+len(p.params))
	in = append(in, reflect.ValueOf(ctx), reflect.ValueOf(st))
	in = p.bindTypeArgs(in, targs)

	if len(args) != len(p.params) {
		errors.Violation(errors.Arity(errors.PhaseInvoke, "arguments", len(p.params), len(args)))
	}
	var (
		refs      []*refArg
		res       value.Value
		committed bool
	)
	defer func() {
		for i := len(refs) - 1; i >= 0; i-- {
			if !committed {
				refs[i].discard()
			}
			refs[i].mut.Release()
		}
		if !committed {
			res.Release()
		}
	}()
	for i, a := range args {
		in = append(in, p.params[i].bind(a, []string{"arg" + strconv.Itoa(i)}, &refs))
	}

	out := p.fn.Call(in)
	res = p.convertResults(out)

	// Stage every write-back before committing any, so a failing conversion
	// leaves all slots untouched.
	for _, ref := range refs {
		if ref.stage != nil {
			ref.staged = ref.stage()
			ref.stage = nil
		}
	}
	committed = true
	for _, ref := range refs {
		if ref.drop != nil {
			ref.mut.Set(ref.staged)
		}
	}
	return res, nil
}

func (p *plan) bindTypeArgs(in []reflect.Value, targs []TypeArg) []reflect.Value {
	n := 0
	for _, ta := range targs {
		if ta.Kind == TypeUnqualified {
			continue
		}
		if n >= len(p.typeParams) {
			errors.Violation(errors.Arity(errors.PhaseInvoke, "type arguments", len(p.typeParams), countQualified(targs)))
		}
		if want := p.typeParams[n]; ta.Kind != want {
			errors.Violation(errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
				Path("targ" + strconv.Itoa(n)).
				Shape(ta.Kind.String()).
				Detail("expected %s type argument", want).
				Build())
		}
		in = append(in, ta.native())
		n++
	}
	if n != len(p.typeParams) {
		errors.Violation(errors.Arity(errors.PhaseInvoke, "type arguments", len(p.typeParams), n))
	}
	return in
}

func countQualified(targs []TypeArg) int {
	n := 0
	for _, ta := range targs {
		if ta.Kind != TypeUnqualified {
			n++
		}
	}
	return n
}

// refArg is a slot borrowed for one call. stage builds the value written
// back on success and drop releases the private copy when nothing is
// written back. Both are nil for raw handles, which write directly.
type refArg struct {
	mut    *value.Mut
	slot   *value.Slot
	stage  func() value.Value
	drop   func()
	staged value.Value
}

func (r *refArg) discard() {
	switch {
	case r.drop == nil:
	case r.stage == nil:
		r.staged.Release()
	default:
		r.drop()
	}
}

// bind converts one argument. Slots borrowed here are appended to held
// before any conversion that may fail, so the caller always releases them.
func (a param) bind(arg Arg, path []string, held *[]*refArg) reflect.Value {
	if a.mode == passValue {
		if arg.IsRef() {
			errors.Violation(errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
				Path(path...).
				Detail("by-value parameter given a reference").
				Build())
		}
		return read(a.shape, arg.Val, path, false)
	}

	if !arg.IsRef() {
		errors.Violation(errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Path(path...).
			Detail("by-reference parameter given a value").
			Build())
	}
	for _, h := range *held {
		if h.slot == arg.Slot {
			errors.Violation(errors.New(errors.PhaseInvoke, errors.KindAliasing).
				Path(path...).
				Detail("slot passed by reference more than once").
				Build())
		}
	}

	m := arg.Slot.Borrow()
	ref := &refArg{mut: m, slot: arg.Slot}
	*held = append(*held, ref)

	switch a.mode {
	case passMut:
		return reflect.ValueOf(m)
	default:
		ptr := reflect.New(a.shape.GoType)
		ptr.Elem().Set(read(a.shape, m.Get(), path, true))
		ref.stage = func() value.Value { return write(a.shape, ptr.Elem(), path) }
		ref.drop = func() { release(a.shape, ptr.Elem()) }
		return ptr
	}
}

func (p *plan) convertResults(out []reflect.Value) value.Value {
	switch len(out) {
	case 0:
		return value.Unit()
	case 1:
		return write(p.results[0], out[0], []string{"result"})
	default:
		elems := make([]value.Value, len(out))
		for i, rv := range out {
			elems[i] = write(p.results[i], rv, []string{"result", strconv.Itoa(i)})
		}
		return value.Tuple(elems...)
	}
}
