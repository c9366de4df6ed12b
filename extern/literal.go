package extern

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

type litKind uint8

const (
	litInt litKind = iota
	litString
	litBool
	litUnknown
	litList
	litTuple
)

type literal struct {
	num   *big.Int
	width *intSuffix
	text  string
	elems []*literal
	kind  litKind
	truth bool
}

// intSuffix is the width named by a typed integer literal such as 5u64.
type intSuffix struct {
	text   string
	kind   value.Kind
	signed bool
}

var intSuffixes = []*intSuffix{
	{text: "u128", kind: value.KindU128},
	{text: "i128", kind: value.KindU128, signed: true},
	{text: "u64", kind: value.KindU64},
	{text: "u32", kind: value.KindU32},
	{text: "u16", kind: value.KindU16},
	{text: "u8", kind: value.KindU8},
	{text: "big", kind: value.KindBigInt},
}

type litParser struct {
	input string
	pos   int
}

// ParseValue parses a DSL literal such as "[1, 2]", "(7, true)", "\"s\"",
// "()" or "?" into a Value of shape s. Integers take the width s expects;
// u128 also accepts negative integers as i128. A suffix fixes the width
// explicitly: 5u8, 5u16, 5u32, 5u64, 5u128, -1i128 (stored as u128) and
// 5big. Under "any" and boxed tuple shapes a plain integer becomes bigint
// and a suffixed one takes its width.
func ParseValue(s *Shape, text string) (value.Value, error) {
	p := &litParser{input: text}
	lit, err := p.parse()
	if err != nil {
		return value.Value{}, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return value.Value{}, p.errorf("unexpected %q", p.input[p.pos:])
	}
	var v value.Value
	err = guard(func() { v = lit.toValue(s, nil) })
	return v, err
}

func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := errors.AsViolation(r)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	fn()
	return nil
}

func (p *litParser) errorf(format string, args ...any) error {
	return errors.New(errors.PhaseRead, errors.KindInvalidInput).
		Value(p.pos).
		Detail(format, args...).
		Build()
}

func (p *litParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *litParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *litParser) parse() (*literal, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '?':
		p.pos++
		return &literal{kind: litUnknown}, nil
	case c == '[':
		p.pos++
		elems, err := p.parseElems(']')
		return &literal{kind: litList, elems: elems}, err
	case c == '(':
		p.pos++
		elems, err := p.parseElems(')')
		return &literal{kind: litTuple, elems: elems}, err
	case c == '"':
		return p.parseString()
	case c == '-' || c >= '0' && c <= '9':
		return p.parseInt()
	default:
		word := p.word()
		switch word {
		case "true", "false":
			return &literal{kind: litBool, truth: word == "true"}, nil
		}
		return nil, p.errorf("unexpected %q", word)
	}
}

func (p *litParser) parseElems(closing byte) ([]*literal, error) {
	var elems []*literal
	p.skipSpace()
	if p.peek() == closing {
		p.pos++
		return elems, nil
	}
	for {
		e, err := p.parse()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return elems, nil
		default:
			return nil, p.errorf("expected ',' or %q", closing)
		}
	}
}

func (p *litParser) parseString() (*literal, error) {
	end := p.pos + 1
	for end < len(p.input) && p.input[end] != '"' {
		if p.input[end] == '\\' {
			end++
		}
		end++
	}
	if end >= len(p.input) {
		return nil, p.errorf("unterminated string")
	}
	s, err := strconv.Unquote(p.input[p.pos : end+1])
	if err != nil {
		return nil, p.errorf("invalid string: %v", err)
	}
	p.pos = end + 1
	return &literal{kind: litString, text: s}, nil
}

func (p *litParser) word() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ',' || c == ')' || c == ']' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *litParser) parseInt() (*literal, error) {
	start := p.pos
	w := p.word()
	digits, width := w, (*intSuffix)(nil)
	for _, sfx := range intSuffixes {
		if strings.HasSuffix(w, sfx.text) {
			digits, width = strings.TrimSuffix(w, sfx.text), sfx
			break
		}
	}
	n, ok := new(big.Int).SetString(strings.ReplaceAll(digits, "_", ""), 0)
	if !ok {
		p.pos = start
		return nil, p.errorf("invalid integer %q", w)
	}
	return &literal{kind: litInt, num: n, width: width}, nil
}

func (l *literal) mismatch(s *Shape, path []string) {
	errors.Violation(errors.ShapeMismatch(errors.PhaseRead, path, s.String(), l.describe()))
}

func (l *literal) describe() string {
	switch l.kind {
	case litInt:
		if l.width != nil {
			return l.width.text
		}
		return "integer"
	case litString:
		return "string"
	case litBool:
		return "bool"
	case litUnknown:
		return "unknown"
	case litList:
		return "list"
	default:
		return "tuple"
	}
}

func (l *literal) toValue(s *Shape, path []string) value.Value {
	if s.Any {
		return l.infer(path)
	}
	switch s.Kind {
	case value.KindUnit:
		if l.kind != litTuple || len(l.elems) != 0 {
			l.mismatch(s, path)
		}
		return value.Unit()
	case value.KindBool:
		if l.kind != litBool {
			l.mismatch(s, path)
		}
		return value.Bool(l.truth)
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64, value.KindU128, value.KindBigInt:
		if l.kind != litInt || l.width != nil && l.width.kind != s.Kind {
			l.mismatch(s, path)
		}
		return l.integer(s.Kind, path)
	case value.KindString:
		if l.kind != litString {
			l.mismatch(s, path)
		}
		return value.String(l.text)
	case value.KindList:
		if l.kind != litList {
			l.mismatch(s, path)
		}
		elems := make([]value.Value, len(l.elems))
		for i, e := range l.elems {
			elems[i] = e.toValue(s.Elem, elemPath(path, i))
		}
		return value.List(elems...)
	case value.KindTuple:
		if l.kind != litTuple {
			l.mismatch(s, path)
		}
		if s.Boxed {
			elems := make([]value.Value, len(l.elems))
			for i, e := range l.elems {
				elems[i] = e.infer(elemPath(path, i))
			}
			return value.Tuple(elems...)
		}
		if len(l.elems) != len(s.Fields) {
			errors.Violation(errors.Arity(errors.PhaseRead, "tuple components", len(s.Fields), len(l.elems)))
		}
		elems := make([]value.Value, len(l.elems))
		for i, e := range l.elems {
			elems[i] = e.toValue(s.Fields[i], elemPath(path, i))
		}
		return value.Tuple(elems...)
	default:
		l.mismatch(s, path)
		return value.Value{}
	}
}

// integer converts an integer literal to kind k. An untyped negative
// literal for u128 is read as i128.
func (l *literal) integer(k value.Kind, path []string) value.Value {
	x := l.num
	switch k {
	case value.KindBigInt:
		return value.BigInt(x)
	case value.KindU128:
		if l.width == nil && x.Sign() < 0 || l.width != nil && l.width.signed {
			return value.U128(value.SignedU128(x))
		}
		if x.Sign() < 0 || x.BitLen() > 128 {
			errors.Violation(errors.Overflow(errors.PhaseRead, path, x.String(), "u128"))
		}
		return value.U128(uint128.FromBig(new(big.Int).Set(x)))
	default:
		return fixedWidth(k, x, path)
	}
}

func fixedWidth(k value.Kind, x *big.Int, path []string) value.Value {
	if x.Sign() < 0 || x.BitLen() > k.Bits() {
		errors.Violation(errors.Overflow(errors.PhaseRead, path, x.String(), k.String()))
	}
	u := x.Uint64()
	switch k {
	case value.KindU8:
		return value.U8(uint8(u))
	case value.KindU16:
		return value.U16(uint16(u))
	case value.KindU32:
		return value.U32(uint32(u))
	default:
		return value.U64(u)
	}
}

// infer builds a Value without a target shape.
func (l *literal) infer(path []string) value.Value {
	switch l.kind {
	case litInt:
		if l.width != nil {
			return l.integer(l.width.kind, path)
		}
		return value.BigInt(l.num)
	case litString:
		return value.String(l.text)
	case litBool:
		return value.Bool(l.truth)
	case litUnknown:
		return value.Unknown()
	case litList, litTuple:
		elems := make([]value.Value, len(l.elems))
		for i, e := range l.elems {
			elems[i] = e.infer(elemPath(path, i))
		}
		if l.kind == litList {
			return value.List(elems...)
		}
		if len(elems) == 0 {
			return value.Unit()
		}
		return value.Tuple(elems...)
	}
	return value.Value{}
}

// ParseTypeArg parses a type argument of kind k: "@prover", "$pre", a
// modulus such as "17" or "0x11" (or "inf"), "$pre @verifier" and "_".
func ParseTypeArg(k TypeParamKind, text string) (TypeArg, error) {
	text = strings.TrimSpace(text)
	switch k {
	case TypeDomain:
		d, err := domain.ParseDomain(text)
		if err != nil {
			return TypeArg{}, err
		}
		return DomainArg(d), nil
	case TypeStage:
		s, err := domain.ParseStage(text)
		if err != nil {
			return TypeArg{}, err
		}
		return StageArg(s), nil
	case TypeNat:
		if text == "inf" {
			return NatArg(domain.Infinite()), nil
		}
		m, err := domain.ParseModulus(text)
		if err != nil {
			return TypeArg{}, err
		}
		return NatArg(m), nil
	case TypeQualified:
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return TypeArg{}, errors.InvalidInput(errors.PhaseRead, "qualified type argument must be \"$stage @domain\"")
		}
		s, err := domain.ParseStage(fields[0])
		if err != nil {
			return TypeArg{}, err
		}
		d, err := domain.ParseDomain(fields[1])
		if err != nil {
			return TypeArg{}, err
		}
		return QualifiedArg(domain.Qualified{Stage: s, Domain: d}), nil
	default:
		return UnqualifiedArg(), nil
	}
}
