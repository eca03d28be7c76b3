package bencode

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// Marshaler is implemented by types that know their own bencode form.
type Marshaler interface {
	MarshalBencode() (Value, error)
}

// From converts plain Go data into a Value, for callers that do not build
// Values directly:
//
//   - string, []byte: Text, Bytes
//   - signed and unsigned integers: Integer (IntegerOf)
//   - float32, float64: Integer, truncated toward zero (IntegerFromFloat)
//   - bool, fmt.Stringer, encoding.TextMarshaler: Text
//   - slices and arrays: List
//   - maps: *Dict; keys must be strings, integers, floats, bools,
//     fmt.Stringer or encoding.TextMarshaler, otherwise ErrInvalidKeyType
//
// A nil at any depth (nil interface, pointer, map or non-byte slice) fails
// with ErrNullValue; a nil []byte is an empty byte string. Values and
// Marshalers are taken as they are.
func From(x any) (Value, error) {
	if x == nil {
		return nil, ErrNullValue
	}
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, ErrNullValue
	}

	switch x := x.(type) {
	case Value:
		return x, nil
	case Marshaler:
		return x.MarshalBencode()
	case string:
		return Text(x), nil
	case []byte:
		return Bytes(x), nil
	case bool:
		return Text(strconv.FormatBool(x)), nil
	case int:
		return Integer(x), nil
	case int64:
		return Integer(x), nil
	case float64:
		return IntegerFromFloat(x)
	case fmt.Stringer:
		return Text(x.String()), nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return nil, err
		}
		return Text(text), nil
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, ErrNullValue
		}
		return From(rv.Elem().Interface())
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Text(strconv.FormatBool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return IntegerOf(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return IntegerFromFloat(rv.Float())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		return fromSequence(rv)
	case reflect.Array:
		return fromSequence(rv)
	case reflect.Map:
		return fromMap(rv)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

func fromSequence(rv reflect.Value) (Value, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, ErrNullValue
	}
	list := make(List, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := From(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		list = append(list, v)
	}
	return list, nil
}

func fromMap(rv reflect.Value) (Value, error) {
	if rv.IsNil() {
		return nil, ErrNullValue
	}
	dict := NewDict(rv.Len())
	it := rv.MapRange()
	for it.Next() {
		key, err := keyText(it.Key())
		if err != nil {
			return nil, err
		}
		v, err := From(it.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("dictionary key %q: %w", key, err)
		}
		dict.Set(key, v)
	}
	return dict, nil
}

// keyText renders a map key as dictionary key text. Scalar keys use their
// plain text form; containers and structs have none.
func keyText(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", ErrNullValue
		}
		k = k.Elem()
	}
	if k.CanInterface() {
		switch key := k.Interface().(type) {
		case fmt.Stringer:
			return key.String(), nil
		case encoding.TextMarshaler:
			text, err := key.MarshalText()
			if err != nil {
				return "", err
			}
			return string(text), nil
		}
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidKeyType, k.Type())
}
