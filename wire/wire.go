// Package wire serializes Values to canonical CBOR.
//
// Encoding is deterministic, so equal Values encode to identical bytes and
// encodings can be compared or hashed directly. Big integers are carried as
// sign and big-endian magnitude; u128 as two 64-bit halves.
package wire

import (
	"fmt"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	encMode = em

	dm, err := cbor.DecOptions{MaxNestedLevels: 1024}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR dec mode: %v", err))
	}
	decMode = dm
}

// node is the on-wire form of one Value.
type node struct {
	Kind  value.Kind `cbor:"1,keyasint"`
	Lo    uint64     `cbor:"2,keyasint,omitempty"`
	Hi    uint64     `cbor:"3,keyasint,omitempty"`
	Neg   bool       `cbor:"4,keyasint,omitempty"`
	Mag   []byte     `cbor:"5,keyasint,omitempty"`
	Text  string     `cbor:"6,keyasint,omitempty"`
	Elems []node     `cbor:"7,keyasint,omitempty"`
}

// Marshal serializes v to CBOR bytes.
func Marshal(v value.Value) ([]byte, error) {
	data, err := encMode.Marshal(toNode(v))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseWire, errors.KindInvalidData, err, "marshal value")
	}
	return data, nil
}

// Unmarshal deserializes a Value from CBOR bytes. The caller owns the result.
func Unmarshal(data []byte) (value.Value, error) {
	var n node
	if err := decMode.Unmarshal(data, &n); err != nil {
		return value.Value{}, errors.Wrap(errors.PhaseWire, errors.KindInvalidData, err, "unmarshal value")
	}
	return fromNode(&n, nil)
}

func toNode(v value.Value) node {
	n := node{Kind: v.Kind()}
	switch v.Kind() {
	case value.KindBool:
		if v.AsBool() {
			n.Lo = 1
		}
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		n.Lo = v.AsUnsigned().Uint64()
	case value.KindU128:
		u := v.AsU128()
		n.Lo, n.Hi = u.Lo, u.Hi
	case value.KindBigInt:
		x := v.AsBigInt()
		n.Neg = x.Sign() < 0
		n.Mag = x.Bytes()
	case value.KindString:
		n.Text = v.AsString()
	case value.KindList, value.KindTuple:
		var elems []value.Value
		if v.Kind() == value.KindList {
			elems = v.AsList()
		} else {
			elems = v.AsTuple()
		}
		n.Elems = make([]node, len(elems))
		for i, e := range elems {
			n.Elems[i] = toNode(e)
		}
	}
	return n
}

func invalid(path []string, format string, args ...any) error {
	return errors.New(errors.PhaseWire, errors.KindInvalidData).
		Path(path...).
		Detail(format, args...).
		Build()
}

func fromNode(n *node, path []string) (value.Value, error) {
	if n.Kind != value.KindU128 && n.Hi != 0 {
		return value.Value{}, invalid(path, "high bits set on %s", n.Kind)
	}
	if !n.Kind.IsAggregate() && len(n.Elems) > 0 {
		return value.Value{}, invalid(path, "elements on %s", n.Kind)
	}

	switch n.Kind {
	case value.KindUnit:
		return value.Unit(), nil
	case value.KindUnknown:
		return value.Unknown(), nil
	case value.KindBool:
		if n.Lo > 1 {
			return value.Value{}, invalid(path, "bool payload %d", n.Lo)
		}
		return value.Bool(n.Lo == 1), nil
	case value.KindU8:
		if n.Lo > math.MaxUint8 {
			return value.Value{}, invalid(path, "u8 payload %d", n.Lo)
		}
		return value.U8(uint8(n.Lo)), nil
	case value.KindU16:
		if n.Lo > math.MaxUint16 {
			return value.Value{}, invalid(path, "u16 payload %d", n.Lo)
		}
		return value.U16(uint16(n.Lo)), nil
	case value.KindU32:
		if n.Lo > math.MaxUint32 {
			return value.Value{}, invalid(path, "u32 payload %d", n.Lo)
		}
		return value.U32(uint32(n.Lo)), nil
	case value.KindU64:
		return value.U64(n.Lo), nil
	case value.KindU128:
		return value.U128(uint128.New(n.Lo, n.Hi)), nil
	case value.KindBigInt:
		x := new(big.Int).SetBytes(n.Mag)
		if n.Neg {
			if x.Sign() == 0 {
				return value.Value{}, invalid(path, "negative zero")
			}
			x.Neg(x)
		}
		return value.BigInt(x), nil
	case value.KindString:
		return value.String(n.Text), nil
	case value.KindList, value.KindTuple:
		elems := make([]value.Value, len(n.Elems))
		for i := range n.Elems {
			e, err := fromNode(&n.Elems[i], append(path, fmt.Sprintf("[%d]", i)))
			if err != nil {
				for _, done := range elems[:i] {
					done.Release()
				}
				return value.Value{}, err
			}
			elems[i] = e
		}
		if n.Kind == value.KindList {
			return value.List(elems...), nil
		}
		return value.Tuple(elems...), nil
	default:
		return value.Value{}, invalid(path, "unknown kind %d", uint8(n.Kind))
	}
}
