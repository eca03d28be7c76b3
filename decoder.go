package bencode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Decoder reads bencoded values from a byte source. It looks at most one
// byte ahead: every value's type is fixed by its first byte, so parsing is
// plain recursive descent with no backtracking.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	r        io.Reader
	br       io.ByteReader // r itself, when it can read single bytes
	text     textCodec
	useBytes bool

	next    byte // lookahead byte, valid when hasNext is set
	hasNext bool
	offset  int64 // bytes consumed, not counting the lookahead
	one     [1]byte
}

// NewDecoder creates a Decoder reading from r. A nil opts selects UTF-8
// text and text materialization of byte strings.
//
// The Decoder does not buffer beyond its single lookahead byte, so r is
// left positioned right after the last value read (plus one byte at most
// after a PeekType).
func NewDecoder(r io.Reader, opts *Options) (*Decoder, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	d := &Decoder{
		r:        r,
		text:     newTextCodec(opts.encoding()),
		useBytes: opts.useBytes(),
	}
	if br, ok := r.(io.ByteReader); ok {
		d.br = br
	}
	return d, nil
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.offset }

// Available returns the number of bytes not yet consumed. The source's
// remainder is known for *BytesReader and anything with a Len() int method
// (*bytes.Reader, *bytes.Buffer, *strings.Reader); for other sources only
// the lookahead byte is counted.
func (d *Decoder) Available() int {
	n := 0
	if d.hasNext {
		n++
	}
	switch s := d.r.(type) {
	case *BytesReader:
		n += s.Available()
	case interface{ Len() int }:
		n += s.Len()
	}
	return n
}

// PeekType reports the type of the next value without consuming it.
func (d *Decoder) PeekType() (Type, error) {
	b, err := d.peekByte()
	if err != nil {
		return TypeUnknown, err
	}
	return Classify(b), nil
}

// Decode reads the next value, which must be of type t.
func (d *Decoder) Decode(t Type) (Value, error) {
	switch t {
	case TypeString:
		return d.readStringValue()
	case TypeNumber:
		n, err := d.ReadNumber()
		if err != nil {
			return nil, err
		}
		return Integer(n), nil
	case TypeList:
		l, err := d.ReadList()
		if err != nil {
			return nil, err
		}
		return l, nil
	case TypeDictionary:
		m, err := d.ReadDictionary()
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, ErrUnknownType
	}
}

// ReadValue reads the next value, whatever its type.
func (d *Decoder) ReadValue() (Value, error) {
	b, err := d.peekByte()
	if err != nil {
		return nil, err
	}
	t := Classify(b)
	if t == TypeUnknown {
		return nil, d.unexpected(b)
	}
	return d.Decode(t)
}

// ReadString reads a byte string and converts it to text with the
// configured encoding.
func (d *Decoder) ReadString() (string, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := d.readStringInto(buf); err != nil {
		return "", err
	}
	return d.text.decode(buf.Bytes())
}

// ReadStringBytes reads a byte string and returns its raw body.
func (d *Decoder) ReadStringBytes() ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := d.readStringInto(buf); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// ReadNumber reads an integer. Decimal and exponent forms are tolerated and
// truncated toward zero.
func (d *Decoder) ReadNumber() (int64, error) {
	if _, err := d.expect(TypeNumber); err != nil {
		return 0, err
	}
	start := d.offset

	var run []byte
	for {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		if b == Terminator {
			break
		}
		run = append(run, b)
	}

	n, err := parseNumber(string(run))
	if err != nil {
		return 0, fmt.Errorf("%w (offset %d)", err, start)
	}
	return n, nil
}

// ReadList reads a list and every value nested in it.
func (d *Decoder) ReadList() (List, error) {
	if _, err := d.expect(TypeList); err != nil {
		return nil, err
	}

	list := List{}
	for {
		end, err := d.atTerminator()
		if err != nil {
			return nil, err
		}
		if end {
			return list, nil
		}
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

// ReadDictionary reads a dictionary and every value nested in it. Keys are
// always text. Entries keep their wire order; a repeated key keeps its
// first position and takes the last value.
func (d *Decoder) ReadDictionary() (*Dict, error) {
	if _, err := d.expect(TypeDictionary); err != nil {
		return nil, err
	}

	dict := NewDict(0)
	for {
		end, err := d.atTerminator()
		if err != nil {
			return nil, err
		}
		if end {
			return dict, nil
		}
		key, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		dict.Set(key, v)
	}
}

func (d *Decoder) readStringValue() (Value, error) {
	if d.useBytes {
		b, err := d.ReadStringBytes()
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil
	}
	s, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return Text(s), nil
}

// readStringInto reads "<length>:<body>" and writes the body to buf.
func (d *Decoder) readStringInto(buf *bytes.Buffer) error {
	first, err := d.expect(TypeString)
	if err != nil {
		return err
	}
	start := d.offset - 1
	digits := []byte{first}

	for {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		if b == Separator {
			break
		}
		if !isDigit(b) {
			d.unreadByte(b)
			return d.unexpected(b)
		}
		digits = append(digits, b)
	}

	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: string length %q at offset %d", ErrMalformedNumber, digits, start)
	}
	return d.copyN(buf, n)
}

// copyN moves exactly n body bytes into buf. The body is streamed rather
// than allocated up front, so a bogus length fails with ErrEndOfInput
// instead of exhausting memory.
func (d *Decoder) copyN(buf *bytes.Buffer, n int64) error {
	if n == 0 {
		return nil
	}
	if d.hasNext {
		buf.WriteByte(d.next)
		d.hasNext = false
		d.offset++
		n--
	}
	if n <= maxPooledBuffer || int64(d.Available()) >= n {
		buf.Grow(int(n))
	}

	written, err := io.CopyN(buf, d.r, n)
	d.offset += written
	if err != nil {
		return d.ioError(err)
	}
	return nil
}

// atTerminator reports whether the next byte ends the current container,
// consuming it if so.
func (d *Decoder) atTerminator() (bool, error) {
	b, err := d.peekByte()
	if err != nil {
		return false, err
	}
	if b != Terminator {
		return false, nil
	}
	d.hasNext = false
	d.offset++
	return true, nil
}

// expect consumes the first byte of a token of type t. On a mismatch the
// byte is left unread.
func (d *Decoder) expect(t Type) (byte, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if !t.Validate(b) {
		d.unreadByte(b)
		return 0, d.unexpected(b)
	}
	return b, nil
}

func (d *Decoder) peekByte() (byte, error) {
	if !d.hasNext {
		b, err := d.fetch()
		if err != nil {
			return 0, err
		}
		d.next = b
		d.hasNext = true
	}
	return d.next, nil
}

func (d *Decoder) readByte() (byte, error) {
	if d.hasNext {
		d.hasNext = false
		d.offset++
		return d.next, nil
	}
	b, err := d.fetch()
	if err != nil {
		return 0, err
	}
	d.offset++
	return b, nil
}

func (d *Decoder) unreadByte(b byte) {
	d.next = b
	d.hasNext = true
	d.offset--
}

// fetch pulls one byte from the source, bypassing the lookahead.
func (d *Decoder) fetch() (byte, error) {
	if d.br != nil {
		b, err := d.br.ReadByte()
		if err != nil {
			return 0, d.ioError(err)
		}
		return b, nil
	}
	if _, err := io.ReadFull(d.r, d.one[:]); err != nil {
		return 0, d.ioError(err)
	}
	return d.one[0], nil
}

// ioError maps a clean or partial end of stream to ErrEndOfInput; any
// other source error is returned untouched.
func (d *Decoder) ioError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w at offset %d", ErrEndOfInput, d.offset)
	}
	return err
}

func (d *Decoder) unexpected(b byte) error {
	return fmt.Errorf("%w %q at offset %d", ErrUnexpectedToken, b, d.offset)
}
