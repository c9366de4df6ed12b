package value

import (
	"strconv"
	"strings"
)

// String renders v in DSL literal syntax. Unknown renders as "?".
func (v Value) String() string {
	var b strings.Builder
	v.format(&b, false)
	return b.String()
}

// Literal renders v like String with every integer suffixed by its width,
// e.g. 5u64 or 7big, so the text reads back into v under any shape.
func (v Value) Literal() string {
	var b strings.Builder
	v.format(&b, true)
	return b.String()
}

func (v Value) format(b *strings.Builder, typed bool) {
	switch v.kind {
	case KindUnit:
		b.WriteString("()")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.bits.Lo != 0))
	case KindU8, KindU16, KindU32, KindU64:
		b.WriteString(strconv.FormatUint(v.bits.Lo, 10))
		if typed {
			b.WriteString(v.kind.String())
		}
	case KindU128:
		b.WriteString(v.bits.String())
		if typed {
			b.WriteString("u128")
		}
	case KindBigInt:
		b.WriteString(v.c.num.String())
		if typed {
			b.WriteString("big")
		}
	case KindString:
		b.WriteString(strconv.Quote(v.c.str))
	case KindList:
		formatElems(b, '[', ']', v.c.elems, typed)
	case KindTuple:
		formatElems(b, '(', ')', v.c.elems, typed)
	case KindUnknown:
		b.WriteByte('?')
	default:
		b.WriteString("<invalid>")
	}
}

func formatElems(b *strings.Builder, open, closing byte, elems []Value, typed bool) {
	b.WriteByte(open)
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		e.format(b, typed)
	}
	b.WriteByte(closing)
}

// Equal reports deep structural equality. Two Unknown values are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUnit, KindUnknown:
		return true
	case KindBool, KindU8, KindU16, KindU32, KindU64, KindU128:
		return a.bits.Equals(b.bits)
	case KindBigInt:
		return a.c.num.Cmp(b.c.num) == 0
	case KindString:
		return a.c.str == b.c.str
	case KindList, KindTuple:
		if a.c == b.c {
			return true
		}
		if len(a.c.elems) != len(b.c.elems) {
			return false
		}
		for i := range a.c.elems {
			if !Equal(a.c.elems[i], b.c.elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
