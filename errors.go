package bencode

import "errors"

var (
	// ErrNilIO indicates that NewDecoder/NewEncoder was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("bencode: NewDecoder/NewEncoder called with a nil io.Reader/io.Writer")

	// ErrNilEncoding indicates that a nil text encoding was passed where one is required.
	ErrNilEncoding = errors.New("bencode: nil text encoding")

	// ErrUnknownType indicates a decode was requested for TypeUnknown.
	ErrUnknownType = errors.New("bencode: cannot decode as Unknown type")

	// ErrEndOfInput indicates the source was exhausted before a token completed.
	ErrEndOfInput = errors.New("bencode: unexpected end of input")

	// ErrUnexpectedToken indicates a byte that matches no grammar production at its position.
	ErrUnexpectedToken = errors.New("bencode: unexpected token")

	// ErrMalformedNumber indicates a digit run that could not be parsed as an integer.
	ErrMalformedNumber = errors.New("bencode: malformed number")

	// ErrNumberOverflow indicates a Go number that does not fit into a 64-bit signed integer.
	ErrNumberOverflow = errors.New("bencode: number out of int64 range")

	// ErrNullValue indicates an encode input where a value was required but none was supplied.
	ErrNullValue = errors.New("bencode: nil value")

	// ErrInvalidKeyType indicates a dictionary key that cannot be rendered as text.
	ErrInvalidKeyType = errors.New("bencode: invalid dictionary key type")

	// ErrUnsupportedType indicates a Go value with no bencode representation.
	ErrUnsupportedType = errors.New("bencode: unsupported type")

	// ErrInvalidText indicates Text that is not valid UTF-8 and so has no encoded form.
	ErrInvalidText = errors.New("bencode: text is not valid UTF-8")

	// ErrUnsupportedEncoding indicates a text encoding name that could not be resolved.
	ErrUnsupportedEncoding = errors.New("bencode: unsupported text encoding")
)

// CodecError is returned by the Codec facade. It wraps whatever failed
// beneath it, so errors.Is and errors.As still reach the original cause.
type CodecError struct {
	Op  string // "detect", "decode" or "encode"
	Err error
}

func (e *CodecError) Error() string {
	return "bencode: " + e.Op + " failed: " + e.Err.Error()
}

func (e *CodecError) Unwrap() error { return e.Err }

func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CodecError{Op: op, Err: err}
}
