package bencode

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Encoder writes bencoded values to a sink.
//
// Each Write call assembles its complete value in memory and hands it to
// the sink in a single Write, so a value that fails to encode (a nil
// element, an unencodable character) leaves the sink untouched. A
// *BytesWriter without room for the whole value is not written to either.
// Partial writes reported by any other sink are not rolled back.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	w     io.Writer
	text  textCodec
	count int64 // bytes accepted by w
}

// NewEncoder creates an Encoder writing to w. A nil opts selects UTF-8.
func NewEncoder(w io.Writer, opts *Options) (*Encoder, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	return &Encoder{w: w, text: newTextCodec(opts.encoding())}, nil
}

// Count returns the total number of bytes written to the sink.
func (e *Encoder) Count() int64 { return e.count }

// WriteString writes s as a byte string. The length prefix counts the
// bytes of s in the configured encoding, not its characters.
func (e *Encoder) WriteString(s string) error {
	return e.emit(func(dst []byte) ([]byte, error) { return e.appendText(dst, s) })
}

// WriteBytes writes b as a byte string without any text conversion.
func (e *Encoder) WriteBytes(b []byte) error {
	return e.emit(func(dst []byte) ([]byte, error) { return appendBytes(dst, b), nil })
}

// WriteNumber writes n as an integer.
func (e *Encoder) WriteNumber(n int64) error {
	return e.emit(func(dst []byte) ([]byte, error) { return appendInteger(dst, n), nil })
}

// WriteList writes l and everything nested in it.
func (e *Encoder) WriteList(l List) error {
	return e.emit(func(dst []byte) ([]byte, error) { return e.appendList(dst, l) })
}

// WriteDictionary writes m with its keys in ascending byte order, whatever
// order they were inserted in.
func (e *Encoder) WriteDictionary(m *Dict) error {
	return e.emit(func(dst []byte) ([]byte, error) { return e.appendDict(dst, m) })
}

// WriteValue writes any Value.
func (e *Encoder) WriteValue(v Value) error {
	return e.emit(func(dst []byte) ([]byte, error) { return e.appendValue(dst, v) })
}

// emit runs build against a pooled buffer and flushes the result to the
// sink in one call.
func (e *Encoder) emit(build func(dst []byte) ([]byte, error)) error {
	buf := getBuffer()
	defer putBuffer(buf)

	out, err := build(buf.AvailableBuffer())
	if err != nil {
		return err
	}

	if bw, ok := e.w.(*BytesWriter); ok && bw.Available() < len(out) {
		return fmt.Errorf("%w: need %d bytes, have %d", io.ErrShortWrite, len(out), bw.Available())
	}

	n, err := e.w.Write(out)
	if n < 0 || n > len(out) {
		return fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(out))
	}
	e.count += int64(n)
	if err != nil {
		return err
	}
	if n < len(out) {
		return io.ErrShortWrite
	}
	return nil
}

// appendValue is the type-directed encoder: one case per Value variant.
func (e *Encoder) appendValue(dst []byte, v Value) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return dst, ErrNullValue
	case Text:
		return e.appendText(dst, string(v))
	case Bytes:
		return appendBytes(dst, v), nil
	case Integer:
		return appendInteger(dst, int64(v)), nil
	case List:
		return e.appendList(dst, v)
	case *Dict:
		return e.appendDict(dst, v)
	default:
		return dst, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func (e *Encoder) appendText(dst []byte, s string) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	body, err := e.text.appendEncoded(buf.AvailableBuffer(), s)
	if err != nil {
		return dst, fmt.Errorf("bencode: encode string %q: %w", s, err)
	}
	return appendBytes(dst, body), nil
}

func (e *Encoder) appendList(dst []byte, l List) ([]byte, error) {
	dst = append(dst, ListMarker)
	for i, item := range l {
		var err error
		if dst, err = e.appendValue(dst, item); err != nil {
			return dst, fmt.Errorf("list item %d: %w", i, err)
		}
	}
	return append(dst, Terminator), nil
}

// dictEntry is a dictionary entry with its key already encoded, the form
// canonical ordering is defined on.
type dictEntry struct {
	key   []byte
	value Value
}

func (e *Encoder) appendDict(dst []byte, m *Dict) ([]byte, error) {
	if m == nil {
		return dst, ErrNullValue
	}

	entries := make([]dictEntry, 0, m.Len())
	for k, v := range m.All() {
		key, err := e.text.appendEncoded(nil, k)
		if err != nil {
			return dst, fmt.Errorf("bencode: encode key %q: %w", k, err)
		}
		entries = append(entries, dictEntry{key: key, value: v})
	}
	slices.SortFunc(entries, func(a, b dictEntry) int { return bytes.Compare(a.key, b.key) })

	dst = append(dst, DictionaryMarker)
	for _, entry := range entries {
		dst = appendBytes(dst, entry.key)
		var err error
		if dst, err = e.appendValue(dst, entry.value); err != nil {
			return dst, fmt.Errorf("dictionary key %q: %w", entry.key, err)
		}
	}
	return append(dst, Terminator), nil
}

func appendBytes(dst, b []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, Separator)
	return append(dst, b...)
}

func appendInteger(dst []byte, n int64) []byte {
	dst = append(dst, NumberMarker)
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, Terminator)
}
