package value

// Kind is the tag of a Value. The set is closed; adding a shape means
// extending this enumeration and every exhaustive switch over it.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindBigInt
	KindString
	KindList
	KindTuple
	KindUnknown
)

var kindNames = [...]string{
	KindUnit:    "unit",
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindU128:    "u128",
	KindBigInt:  "bigint",
	KindString:  "string",
	KindList:    "list",
	KindTuple:   "tuple",
	KindUnknown: "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsUnsigned reports whether k is one of the fixed-width unsigned integers.
func (k Kind) IsUnsigned() bool {
	return k >= KindU8 && k <= KindU128
}

// IsAggregate reports whether k holds an ordered sequence of Values.
func (k Kind) IsAggregate() bool {
	return k == KindList || k == KindTuple
}

// Bits returns the width of a fixed-width unsigned kind, 0 otherwise.
func (k Kind) Bits() int {
	switch k {
	case KindU8:
		return 8
	case KindU16:
		return 16
	case KindU32:
		return 32
	case KindU64:
		return 64
	case KindU128:
		return 128
	default:
		return 0
	}
}
