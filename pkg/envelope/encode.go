package envelope

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// Encode converts a raw Go value into a Value.
//
// Supported inputs are nil, bool, every integer and float type, string,
// json.Number, Value, slices and arrays of supported values, maps with string
// keys, and pointers to any of those. Functions, channels, byte slices,
// structs, NaN/Inf floats and cyclic graphs fail with ErrUnsupportedType.
// The result shares no memory with raw.
func Encode(raw any) (Value, error) {
	e := encoder{path: make(map[ref]struct{})}
	return e.encode(raw, "$")
}

// MustEncode is Encode for values known to be supported. It panics on error.
func MustEncode(raw any) Value {
	v, err := Encode(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// encoder tracks the reference-typed containers on the current descent path.
// Shared, non-cyclic references are allowed; only revisiting an ancestor fails.
type encoder struct {
	path map[ref]struct{}
}

// ref identifies a container. Slices include their length so a sub-slice of
// an ancestor's backing array is not mistaken for the ancestor itself.
type ref struct {
	ptr uintptr
	n   int
}

func refOf(ptr uintptr) ref { return ref{ptr: ptr, n: -1} }

func (e *encoder) encode(raw any, at string) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return Null(), nil
		}
		return *x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return fromFloat(float64(x), at)
	case float64:
		return fromFloat(x, at)
	case json.Number:
		return fromNumber(x, at)
	case []byte:
		return Value{}, errors.Wrapf(ErrUnsupportedType, "binary data at %s", at)
	case []any:
		if x == nil {
			return Null(), nil
		}
		return e.encodeList(reflect.ValueOf(x), at)
	case map[string]any:
		if x == nil {
			return Null(), nil
		}
		return e.encodeMap(reflect.ValueOf(x), at)
	}

	return e.encodeReflect(reflect.ValueOf(raw), at)
}

func (e *encoder) encodeReflect(rv reflect.Value, at string) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Kind() == reflect.Pointer {
			r := refOf(rv.Pointer())
			if err := e.enter(r, at); err != nil {
				return Value{}, err
			}
			defer e.leave(r)
		}
		return e.encode(rv.Elem().Interface(), at)
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Value{}, errors.Wrapf(ErrUnsupportedType, "binary data at %s", at)
		}
		return e.encodeList(rv, at)
	case reflect.Array:
		return e.encodeList(rv, at)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.Interface {
			return e.encodeAnyKeyMap(rv, at)
		}
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, errors.Wrapf(ErrUnsupportedType, "map key %s at %s", rv.Type().Key(), at)
		}
		if rv.IsNil() {
			return Null(), nil
		}
		return e.encodeMap(rv, at)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float(), at)
	case reflect.Invalid:
		return Null(), nil
	}

	return Value{}, errors.Wrapf(ErrUnsupportedType, "%s at %s", rv.Type(), at)
}

func (e *encoder) encodeList(rv reflect.Value, at string) (Value, error) {
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		r := ref{ptr: rv.Pointer(), n: rv.Len()}
		if err := e.enter(r, at); err != nil {
			return Value{}, err
		}
		defer e.leave(r)
	}

	items := make([]Value, rv.Len())
	for i := range items {
		item, err := e.encode(rv.Index(i).Interface(), at+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return Value{}, err
		}
		items[i] = item
	}
	return Value{kind: KindList, list: items}, nil
}

func (e *encoder) encodeMap(rv reflect.Value, at string) (Value, error) {
	r := refOf(rv.Pointer())
	if err := e.enter(r, at); err != nil {
		return Value{}, err
	}
	defer e.leave(r)

	fields := make(map[string]Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		field, err := e.encode(iter.Value().Interface(), at+"."+key)
		if err != nil {
			return Value{}, err
		}
		fields[key] = field
	}
	return Value{kind: KindMap, m: fields}, nil
}

// encodeAnyKeyMap accepts interface-keyed maps as long as every key is a string.
// Some decoders (msgpack, yaml) produce them.
func (e *encoder) encodeAnyKeyMap(rv reflect.Value, at string) (Value, error) {
	if rv.IsNil() {
		return Null(), nil
	}
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := iter.Key().Interface().(string)
		if !ok {
			return Value{}, errors.Wrapf(ErrUnsupportedType, "map key %T at %s", iter.Key().Interface(), at)
		}
		fields[key] = iter.Value().Interface()
	}

	r := refOf(rv.Pointer())
	if err := e.enter(r, at); err != nil {
		return Value{}, err
	}
	defer e.leave(r)
	return e.encodeMap(reflect.ValueOf(fields), at)
}

func (e *encoder) enter(r ref, at string) error {
	if _, ok := e.path[r]; ok {
		return errors.Wrapf(ErrCyclicValue, "at %s", at)
	}
	e.path[r] = struct{}{}
	return nil
}

func (e *encoder) leave(r ref) {
	delete(e.path, r)
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func fromFloat(f float64, at string) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, errors.Wrapf(ErrUnsupportedType, "non-finite number at %s", at)
	}
	return Float(f), nil
}

// fromNumber keeps integer literals as integers and everything else as floats.
func fromNumber(n json.Number, at string) (Value, error) {
	s := n.String()
	if isIntLiteral(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, errors.Wrapf(ErrUnsupportedType, "malformed number %q at %s", s, at)
	}
	return fromFloat(f, at)
}

func isIntLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return true
}

// Decode converts v back into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. Every call allocates fresh containers.
func Decode(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = Decode(item)
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, field := range v.m {
			out[k] = Decode(field)
		}
		return out
	default:
		return nil
	}
}
