package bencode

import (
	"bytes"

	"golang.org/x/text/encoding"
)

// Codec decodes and encodes complete values held in memory. It only holds
// its configuration, which never changes after New, so one Codec may be
// shared between goroutines; every call works on its own Decoder or
// Encoder.
//
// Every error a Codec method returns for bad input or a failing value is a
// *CodecError wrapping the cause.
type Codec struct {
	opts Options
}

var defaultCodec = New(nil)

// New creates a Codec. A nil opts, or a nil opts.Encoding, selects UTF-8.
func New(opts *Options) *Codec {
	c := &Codec{}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.Encoding == nil {
		c.opts.Encoding = DefaultEncoding()
	}
	return c
}

// Encoding returns the text encoding the Codec was created with.
func (c *Codec) Encoding() encoding.Encoding { return c.opts.Encoding }

// UseBytes reports whether decoded string values are returned as Bytes.
func (c *Codec) UseBytes() bool { return c.opts.UseBytes }

// DetectType returns the type of the first value in data.
func (c *Codec) DetectType(data []byte) (Type, error) {
	d, err := NewDecoder(NewBytesReader(data), &c.opts)
	if err != nil {
		return TypeUnknown, err
	}
	t, err := d.PeekType()
	if err != nil {
		return TypeUnknown, wrapOp("detect", err)
	}
	return t, nil
}

// Decode decodes the value at the start of data as type t. Trailing bytes
// after the value are ignored. Asking for TypeUnknown fails with
// ErrUnknownType before data is looked at.
func (c *Codec) Decode(data []byte, t Type) (Value, error) {
	return decodeBytes(data, t, &c.opts)
}

// DecodeWithEncoding is Decode with a different text encoding for this
// call only.
func (c *Codec) DecodeWithEncoding(data []byte, t Type, enc encoding.Encoding) (Value, error) {
	if enc == nil {
		return nil, ErrNilEncoding
	}
	opts := c.opts
	opts.Encoding = enc
	return decodeBytes(data, t, &opts)
}

// Unmarshal decodes the value at the start of data, whatever its type.
func (c *Codec) Unmarshal(data []byte) (Value, error) {
	d, err := NewDecoder(NewBytesReader(data), &c.opts)
	if err != nil {
		return nil, err
	}
	v, err := d.ReadValue()
	if err != nil {
		return nil, wrapOp("decode", err)
	}
	return v, nil
}

func decodeBytes(data []byte, t Type, opts *Options) (Value, error) {
	if t == TypeUnknown || t > TypeDictionary {
		return nil, ErrUnknownType
	}
	d, err := NewDecoder(NewBytesReader(data), opts)
	if err != nil {
		return nil, err
	}
	v, err := d.Decode(t)
	if err != nil {
		return nil, wrapOp("decode", err)
	}
	return v, nil
}

// EncodeString encodes s as a byte string in the Codec's text encoding.
func (c *Codec) EncodeString(s string) ([]byte, error) {
	return c.encode(func(e *Encoder) error { return e.WriteString(s) })
}

// EncodeBytes encodes b as a byte string.
func (c *Codec) EncodeBytes(b []byte) ([]byte, error) {
	return c.encode(func(e *Encoder) error { return e.WriteBytes(b) })
}

// EncodeNumber encodes n as an integer. Use IntegerFromFloat to get an
// integer out of a floating point number first.
func (c *Codec) EncodeNumber(n int64) ([]byte, error) {
	return c.encode(func(e *Encoder) error { return e.WriteNumber(n) })
}

// EncodeList encodes l.
func (c *Codec) EncodeList(l List) ([]byte, error) {
	return c.encode(func(e *Encoder) error { return e.WriteList(l) })
}

// EncodeDictionary encodes m with its keys sorted.
func (c *Codec) EncodeDictionary(m *Dict) ([]byte, error) {
	return c.encode(func(e *Encoder) error { return e.WriteDictionary(m) })
}

// Encode encodes any Value.
func (c *Codec) Encode(v Value) ([]byte, error) {
	return c.encode(func(e *Encoder) error { return e.WriteValue(v) })
}

// Marshal converts x with From and encodes the result.
func (c *Codec) Marshal(x any) ([]byte, error) {
	v, err := From(x)
	if err != nil {
		return nil, wrapOp("encode", err)
	}
	return c.Encode(v)
}

// EncodeTo encodes v into dst and returns the number of bytes written. If
// dst is too small it fails with io.ErrShortWrite and dst is not modified.
func (c *Codec) EncodeTo(dst []byte, v Value) (int, error) {
	w := NewBytesWriter(dst)
	e, err := NewEncoder(w, &c.opts)
	if err != nil {
		return 0, err
	}
	if err := e.WriteValue(v); err != nil {
		return 0, wrapOp("encode", err)
	}
	return w.Len(), nil
}

func (c *Codec) encode(write func(e *Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, &c.opts)
	if err != nil {
		return nil, err
	}
	if err := write(e); err != nil {
		return nil, wrapOp("encode", err)
	}
	return buf.Bytes(), nil
}

// DetectType returns the type of the first value in data, using UTF-8.
func DetectType(data []byte) (Type, error) { return defaultCodec.DetectType(data) }

// Decode decodes the value at the start of data as type t, using UTF-8.
func Decode(data []byte, t Type) (Value, error) { return defaultCodec.Decode(data, t) }

// DecodeWithEncoding decodes the value at the start of data as type t,
// converting byte strings to text with enc.
func DecodeWithEncoding(data []byte, t Type, enc encoding.Encoding) (Value, error) {
	return defaultCodec.DecodeWithEncoding(data, t, enc)
}

// Unmarshal decodes the value at the start of data, using UTF-8.
func Unmarshal(data []byte) (Value, error) { return defaultCodec.Unmarshal(data) }

// Encode encodes v, using UTF-8.
func Encode(v Value) ([]byte, error) { return defaultCodec.Encode(v) }

// Marshal converts x with From and encodes it, using UTF-8.
func Marshal(x any) ([]byte, error) { return defaultCodec.Marshal(x) }
