package extern

import (
	"reflect"
	"strings"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

// TypeParamKind classifies a type parameter of an extern call site.
type TypeParamKind uint8

const (
	TypeDomain TypeParamKind = iota
	TypeStage
	TypeNat
	TypeQualified
	TypeUnqualified
)

var typeParamNames = [...]string{
	TypeDomain:      "@D",
	TypeStage:       "$S",
	TypeNat:         "N",
	TypeQualified:   "Q",
	TypeUnqualified: "_",
}

func (k TypeParamKind) String() string {
	if int(k) < len(typeParamNames) {
		return typeParamNames[k]
	}
	return "invalid"
}

// nativeTypeParams maps each kind to the Go type the native function
// receives. Unqualified parameters are erased before the call.
var nativeTypeParams = [...]reflect.Type{
	TypeDomain:      reflect.TypeOf(domain.Domain(0)),
	TypeStage:       reflect.TypeOf(domain.Stage(0)),
	TypeNat:         reflect.TypeOf((*domain.Modulus)(nil)),
	TypeQualified:   reflect.TypeOf(domain.Qualified{}),
	TypeUnqualified: nil,
}

// typeParamKindOf reports whether t is a descriptor type and which kind.
func typeParamKindOf(t reflect.Type) (TypeParamKind, bool) {
	for k, nt := range nativeTypeParams {
		if nt != nil && nt == t {
			return TypeParamKind(k), true
		}
	}
	return 0, false
}

// TypeArg is a resolved type argument at a call site.
type TypeArg struct {
	Modulus   *domain.Modulus
	Qualified domain.Qualified
	Kind      TypeParamKind
	Domain    domain.Domain
	Stage     domain.Stage
}

func DomainArg(d domain.Domain) TypeArg {
	return TypeArg{Kind: TypeDomain, Domain: d}
}

func StageArg(s domain.Stage) TypeArg {
	return TypeArg{Kind: TypeStage, Stage: s}
}

func NatArg(m *domain.Modulus) TypeArg {
	return TypeArg{Kind: TypeNat, Modulus: m}
}

func QualifiedArg(q domain.Qualified) TypeArg {
	return TypeArg{Kind: TypeQualified, Qualified: q}
}

// UnqualifiedArg is a type argument that carries no runtime information.
func UnqualifiedArg() TypeArg {
	return TypeArg{Kind: TypeUnqualified}
}

func (a TypeArg) String() string {
	switch a.Kind {
	case TypeDomain:
		return a.Domain.String()
	case TypeStage:
		return a.Stage.String()
	case TypeNat:
		return a.Modulus.String()
	case TypeQualified:
		return a.Qualified.String()
	default:
		return a.Kind.String()
	}
}

func (a TypeArg) native() reflect.Value {
	switch a.Kind {
	case TypeDomain:
		return reflect.ValueOf(a.Domain)
	case TypeStage:
		return reflect.ValueOf(a.Stage)
	case TypeNat:
		if a.Modulus == nil {
			errors.Violation(errors.InvalidInput(errors.PhaseInvoke, "natural type argument without a modulus"))
		}
		return reflect.ValueOf(a.Modulus)
	case TypeQualified:
		return reflect.ValueOf(a.Qualified)
	default:
		errors.Violation(errors.Unsupported(errors.PhaseInvoke, "type argument kind "+a.Kind.String()))
		return reflect.Value{}
	}
}

// Arg is an extern argument passed either by value or by reference.
type Arg struct {
	Val  value.Value
	Slot *value.Slot
}

// ByVal passes v by value. The caller keeps ownership of v.
func ByVal(v value.Value) Arg {
	return Arg{Val: v}
}

// ByRef passes the storage location s. The extern gets exclusive access to
// it for the duration of the call.
func ByRef(s *value.Slot) Arg {
	return Arg{Slot: s}
}

// IsRef reports whether the argument is passed by reference.
func (a Arg) IsRef() bool {
	return a.Slot != nil
}

// Param describes one value parameter of a registered extern.
type Param struct {
	Shape *Shape
	Ref   bool
}

func (p Param) String() string {
	if p.Ref {
		if p.Shape.Any {
			return "ref"
		}
		return "ref " + p.Shape.String()
	}
	return p.Shape.String()
}

// Signature is the DSL-facing description of a registered extern.
type Signature struct {
	Name       string
	TypeParams []TypeParamKind
	Params     []Param
	Results    []*Shape
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if len(s.TypeParams) > 0 {
		b.WriteByte('[')
		for i, k := range s.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k.String())
		}
		b.WriteByte(']')
	}
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	switch len(s.Results) {
	case 0:
	case 1:
		b.WriteString(" -> ")
		b.WriteString(s.Results[0].String())
	default:
		b.WriteString(" -> (")
		for i, r := range s.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}
