package bencode

import (
	"bytes"
	"iter"
	"slices"
)

// Value is a decoded bencode value. The set of implementations is closed:
// Text, Bytes, Integer, List and *Dict.
type Value interface {
	// Type returns the wire type the value encodes as.
	Type() Type
	isValue()
}

type (
	// Text is a byte string materialized as text. It must hold valid UTF-8;
	// binary bodies belong in Bytes.
	Text string
	// Bytes is a byte string kept as raw bytes.
	Bytes []byte
	// Integer is a bencode integer.
	Integer int64
	// List is an ordered, heterogeneous sequence of values.
	List []Value
)

// Statically ensure the variants implement Value.
var (
	_ Value = Text("")
	_ Value = Bytes(nil)
	_ Value = Integer(0)
	_ Value = List(nil)
	_ Value = (*Dict)(nil)
)

func (Text) Type() Type    { return TypeString }
func (Bytes) Type() Type   { return TypeString }
func (Integer) Type() Type { return TypeNumber }
func (List) Type() Type    { return TypeList }
func (*Dict) Type() Type   { return TypeDictionary }

func (Text) isValue()    {}
func (Bytes) isValue()   {}
func (Integer) isValue() {}
func (List) isValue()    {}
func (*Dict) isValue()   {}

// Dict is a bencode dictionary. It remembers the order keys were first
// inserted in; the encoder ignores that order and always sorts.
type Dict struct {
	keys   []string
	values map[string]Value
}

// NewDict allocates a Dict with room for n entries.
func NewDict(n int) *Dict {
	return &Dict{
		keys:   make([]string, 0, n),
		values: make(map[string]Value, n),
	}
}

// Set stores v under key. Setting an existing key replaces its value and
// keeps its original position.
func (d *Dict) Set(key string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Delete removes key, if present.
func (d *Dict) Delete(key string) {
	if d == nil {
		return
	}
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// All iterates over the entries in insertion order.
func (d *Dict) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}

// Equal reports whether a and b hold the same data. Dictionary key order is
// not significant, and Text and Bytes with identical bytes are equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Text:
		switch y := b.(type) {
		case Text:
			return x == y
		case Bytes:
			return string(y) == string(x)
		}
	case Bytes:
		switch y := b.(type) {
		case Text:
			return string(x) == string(y)
		case Bytes:
			return bytes.Equal(x, y)
		}
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for k, v := range x.All() {
			w, ok := y.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}
