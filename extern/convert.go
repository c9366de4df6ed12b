package extern

import (
	"math/big"
	"reflect"
	"strconv"

	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/errors"
	"github.com/wippyai/zksc-ffi/value"
)

func elemPath(path []string, i int) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, "["+strconv.Itoa(i)+"]")
}

// read converts v into a native Go value of s.GoType. Embedded Values are
// borrowed views unless private is set, in which case the native value
// owns a clone of each. Big integers are always copied, since natives may
// write through them.
func read(s *Shape, v value.Value, path []string, private bool) reflect.Value {
	if !s.Accepts(v) {
		errors.Violation(errors.ShapeMismatch(errors.PhaseRead, path, s.String(), v.Kind().String()))
	}
	out := reflect.New(s.GoType).Elem()
	switch {
	case s.Any:
		if private {
			v = v.Clone()
		}
		out.Set(reflect.ValueOf(v))
		return out
	case s.Boxed:
		fs := v.AsTuple()
		if private {
			fs = cloneAll(fs)
		}
		out.Set(reflect.ValueOf(fs))
		return out
	}

	switch s.Kind {
	case value.KindUnit:
	case value.KindBool:
		out.SetBool(v.AsBool())
	case value.KindU8:
		out.SetUint(uint64(v.AsU8()))
	case value.KindU16:
		out.SetUint(uint64(v.AsU16()))
	case value.KindU32:
		out.SetUint(uint64(v.AsU32()))
	case value.KindU64:
		out.SetUint(v.AsU64())
	case value.KindU128:
		out.Set(reflect.ValueOf(v.AsU128()))
	case value.KindBigInt:
		out.Set(reflect.ValueOf(new(big.Int).Set(v.AsBigInt())))
	case value.KindString:
		out.SetString(v.AsString())
	case value.KindList:
		elems := v.AsList()
		if s.Elem.Any && !private {
			out.Set(reflect.ValueOf(elems).Convert(s.GoType))
			return out
		}
		sl := reflect.MakeSlice(s.GoType, len(elems), len(elems))
		for i, e := range elems {
			sl.Index(i).Set(read(s.Elem, e, elemPath(path, i), private))
		}
		out.Set(sl)
	case value.KindTuple:
		fs := v.AsTuple()
		if len(fs) != len(s.Fields) {
			errors.Violation(errors.New(errors.PhaseRead, errors.KindArity).
				Path(path...).
				GoType(s.GoType.String()).
				Shape(v.Kind().String()).
				Detail("expected %d tuple components, got %d", len(s.Fields), len(fs)).
				Build())
		}
		for i, f := range fs {
			out.Field(i).Set(read(s.Fields[i], f, elemPath(path, i), private))
		}
	}
	return out
}

// write converts a native Go value into a new Value the caller owns.
// Ownership of embedded Values moves into the result; big integers are
// copied.
func write(s *Shape, rv reflect.Value, path []string) value.Value {
	switch {
	case s.Any:
		return rv.Interface().(value.Value)
	case s.Boxed:
		return value.Tuple(append([]value.Value(nil), rv.Interface().(value.Fields)...)...)
	}

	switch s.Kind {
	case value.KindUnit:
		return value.Unit()
	case value.KindBool:
		return value.Bool(rv.Bool())
	case value.KindU8:
		return value.U8(uint8(rv.Uint()))
	case value.KindU16:
		return value.U16(uint16(rv.Uint()))
	case value.KindU32:
		return value.U32(uint32(rv.Uint()))
	case value.KindU64:
		return value.U64(rv.Uint())
	case value.KindU128:
		return value.U128(rv.Interface().(uint128.Uint128))
	case value.KindBigInt:
		x := rv.Interface().(*big.Int)
		if x == nil {
			errors.Violation(errors.New(errors.PhaseWrite, errors.KindInvalidInput).
				Path(path...).
				GoType(s.GoType.String()).
				Detail("nil *big.Int").
				Build())
		}
		return value.BigInt(new(big.Int).Set(x))
	case value.KindString:
		return value.String(rv.String())
	case value.KindList:
		n := rv.Len()
		elems := make([]value.Value, n)
		for i := 0; i < n; i++ {
			elems[i] = write(s.Elem, rv.Index(i), elemPath(path, i))
		}
		return value.List(elems...)
	case value.KindTuple:
		elems := make([]value.Value, len(s.Fields))
		for i, f := range s.Fields {
			elems[i] = write(f, rv.Field(i), elemPath(path, i))
		}
		return value.Tuple(elems...)
	default:
		errors.Violation(errors.Unsupported(errors.PhaseWrite, s.Kind.String()))
		return value.Value{}
	}
}

func cloneAll(vs []value.Value) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

// release drops the Values owned by a native value built by a private read.
func release(s *Shape, rv reflect.Value) {
	switch {
	case s.Any:
		rv.Interface().(value.Value).Release()
		return
	case s.Boxed:
		for _, v := range rv.Interface().(value.Fields) {
			v.Release()
		}
		return
	}
	switch s.Kind {
	case value.KindList:
		for i := 0; i < rv.Len(); i++ {
			release(s.Elem, rv.Index(i))
		}
	case value.KindTuple:
		for i, f := range s.Fields {
			release(f, rv.Field(i))
		}
	}
}

// Read converts v into a native value of type T, using c's cached plans.
// Shape mismatches are contract violations.
func Read[T any](c *Compiler, v value.Value) T {
	s, err := c.Shape(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		errors.Violation(err.(*errors.Error))
	}
	return read(s, v, nil, false).Interface().(T)
}

// Write converts x into a Value owned by the caller. Values embedded in x
// move into the result.
func Write[T any](c *Compiler, x T) value.Value {
	s, err := c.Shape(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		errors.Violation(err.(*errors.Error))
	}
	return write(s, reflect.ValueOf(&x).Elem(), nil)
}
