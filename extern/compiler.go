package extern

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

var (
	valueType   = reflect.TypeOf(value.Value{})
	fieldsType  = reflect.TypeOf(value.Fields(nil))
	u128Type    = reflect.TypeOf(uint128.Uint128{})
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	mutType     = reflect.TypeOf((*value.Mut)(nil))
	unitType    = reflect.TypeOf(struct{}{})
	contextType = reflect.TypeOf((*Context)(nil))
	stackType   = reflect.TypeOf((*Stack)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Shape is the compiled conversion plan between a Go type and the Value
// shape it accepts or produces.
type Shape struct {
	GoType reflect.Type
	Elem   *Shape
	Fields []*Shape
	Kind   value.Kind
	// Any accepts every Value unchanged (value.Value parameters).
	Any bool
	// Boxed is a tuple of any arity carried as value.Fields.
	Boxed bool
}

func (s *Shape) String() string {
	var b strings.Builder
	s.format(&b)
	return b.String()
}

func (s *Shape) format(b *strings.Builder) {
	switch {
	case s.Any:
		b.WriteString("any")
	case s.Boxed:
		b.WriteString("tuple")
	case s.Kind == value.KindList:
		b.WriteString("list<")
		s.Elem.format(b)
		b.WriteByte('>')
	case s.Kind == value.KindTuple:
		b.WriteByte('(')
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			f.format(b)
		}
		b.WriteByte(')')
	default:
		b.WriteString(s.Kind.String())
	}
}

// Accepts reports whether v has the outer shape s expects.
func (s *Shape) Accepts(v value.Value) bool {
	return s.Any || v.Kind() == s.Kind
}

type passMode uint8

const (
	passValue passMode = iota
	passCell
	passMut
)

type param struct {
	shape *Shape
	mode  passMode
}

// plan is the compiled calling convention of one native function.
type plan struct {
	fn         reflect.Value
	typeParams []TypeParamKind
	params     []param
	results    []*Shape
}

// Compiler builds binding plans from native Go function types.
// Shapes are cached per Go type and shared between plans.
type Compiler struct {
	cache sync.Map // reflect.Type -> *Shape
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Shape returns the cached conversion plan for goType.
func (c *Compiler) Shape(goType reflect.Type) (*Shape, error) {
	if goType == nil {
		return nil, errors.InvalidInput(errors.PhaseCompile, "Go type cannot be nil")
	}
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*Shape), nil
	}
	s, err := c.compile(goType, nil)
	if err != nil {
		return nil, err
	}
	actual, _ := c.cache.LoadOrStore(goType, s)
	return actual.(*Shape), nil
}

func (c *Compiler) compile(t reflect.Type, path []string) (*Shape, error) {
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*Shape), nil
	}
	if _, ok := typeParamKindOf(t); ok {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("descriptor types are only valid as leading type parameters").
			Build()
	}

	switch t {
	case valueType:
		return &Shape{GoType: t, Any: true}, nil
	case fieldsType:
		return &Shape{GoType: t, Kind: value.KindTuple, Boxed: true}, nil
	case u128Type:
		return &Shape{GoType: t, Kind: value.KindU128}, nil
	case bigIntType:
		return &Shape{GoType: t, Kind: value.KindBigInt}, nil
	case unitType:
		return &Shape{GoType: t, Kind: value.KindUnit}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Shape{GoType: t, Kind: value.KindBool}, nil
	case reflect.Uint8:
		return &Shape{GoType: t, Kind: value.KindU8}, nil
	case reflect.Uint16:
		return &Shape{GoType: t, Kind: value.KindU16}, nil
	case reflect.Uint32:
		return &Shape{GoType: t, Kind: value.KindU32}, nil
	case reflect.Uint64:
		return &Shape{GoType: t, Kind: value.KindU64}, nil
	case reflect.String:
		return &Shape{GoType: t, Kind: value.KindString}, nil
	case reflect.Slice:
		return c.compileList(t, path)
	case reflect.Struct:
		return c.compileTuple(t, path)
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("no Value shape for Go kind %s", t.Kind()).
			Build()
	}
}

func (c *Compiler) compileList(t reflect.Type, path []string) (*Shape, error) {
	elem, err := c.compile(t.Elem(), append(path, "[]"))
	if err != nil {
		return nil, err
	}
	return &Shape{GoType: t, Kind: value.KindList, Elem: elem}, nil
}

// compileTuple maps exported struct fields positionally onto tuple components.
func (c *Compiler) compileTuple(t reflect.Type, path []string) (*Shape, error) {
	fields := make([]*Shape, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !isExported(f.Name) {
			return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(append(path, f.Name)...).
				GoType(t.String()).
				Detail("tuple field %s is unexported", f.Name).
				Build()
		}
		fs, err := c.compile(f.Type, append(path, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		fields = append(fields, fs)
	}
	return &Shape{GoType: t, Kind: value.KindTuple, Fields: fields}, nil
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// compilePlan compiles the calling convention of fn. The function must have the
// form func(*Context, *Stack, <type params>, <args>) <results>.
func (c *Compiler) compilePlan(fn any) (*plan, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			GoType(reflectTypeName(rv)).
			Detail("extern must be a function").
			Build()
	}
	ft := rv.Type()
	if ft.IsVariadic() {
		return nil, errors.Unsupported(errors.PhaseCompile, "variadic extern")
	}
	if ft.NumIn() < 2 || ft.In(0) != contextType || ft.In(1) != stackType {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			GoType(ft.String()).
			Detail("extern must take (*extern.Context, *extern.Stack) first").
			Build()
	}

	p := &plan{fn: rv}
	i := 2
	for ; i < ft.NumIn(); i++ {
		k, ok := typeParamKindOf(ft.In(i))
		if !ok {
			break
		}
		p.typeParams = append(p.typeParams, k)
	}
	for ; i < ft.NumIn(); i++ {
		arg, err := c.compileParam(ft.In(i), "arg"+strconv.Itoa(i-2-len(p.typeParams)))
		if err != nil {
			return nil, err
		}
		p.params = append(p.params, arg)
	}
	for j := 0; j < ft.NumOut(); j++ {
		out := ft.Out(j)
		if out == errorType || out.Kind() == reflect.Pointer && out != bigIntType {
			return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				GoType(out.String()).
				Detail("result %d cannot be converted to a Value", j).
				Build()
		}
		s, err := c.Shape(out)
		if err != nil {
			return nil, err
		}
		p.results = append(p.results, s)
	}
	return p, nil
}

func (c *Compiler) compileParam(t reflect.Type, name string) (param, error) {
	switch {
	case t == mutType:
		return param{shape: &Shape{GoType: valueType, Any: true}, mode: passMut}, nil
	case t.Kind() == reflect.Pointer && t != bigIntType:
		s, err := c.withPath(t.Elem(), name)
		if err != nil {
			return param{}, err
		}
		return param{shape: s, mode: passCell}, nil
	default:
		s, err := c.withPath(t, name)
		if err != nil {
			return param{}, err
		}
		return param{shape: s, mode: passValue}, nil
	}
}

func (c *Compiler) withPath(t reflect.Type, name string) (*Shape, error) {
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*Shape), nil
	}
	s, err := c.compile(t, []string{name})
	if err != nil {
		return nil, err
	}
	actual, _ := c.cache.LoadOrStore(t, s)
	return actual.(*Shape), nil
}

func reflectTypeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}

func (p *plan) signature(name string) Signature {
	sig := Signature{
		Name:       name,
		TypeParams: p.typeParams,
		Results:    p.results,
	}
	for _, a := range p.params {
		sig.Params = append(sig.Params, Param{
			Shape: a.shape,
			Ref:   a.mode == passCell || a.mode == passMut,
		})
	}
	return sig
}
