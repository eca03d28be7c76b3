package bencode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Options configures a Codec, Decoder or Encoder. A nil *Options, or a nil
// Encoding, means UTF-8 text and text materialization of byte strings.
type Options struct {
	// Encoding converts byte string bodies to and from Go text.
	Encoding encoding.Encoding
	// UseBytes makes the decoder return string values (but never
	// dictionary keys) as Bytes instead of Text.
	UseBytes bool
}

// DefaultEncoding returns the text encoding used when Options leaves it
// unset: UTF-8.
func DefaultEncoding() encoding.Encoding { return unicode.UTF8 }

func (o *Options) encoding() encoding.Encoding {
	if o == nil || o.Encoding == nil {
		return DefaultEncoding()
	}
	return o.Encoding
}

func (o *Options) useBytes() bool { return o != nil && o.UseBytes }

// encodingCache memoizes name lookups; index lookups normalise and scan
// tables on every call.
var encodingCache = xsync.NewMap[string, encoding.Encoding]()

// LookupEncoding resolves a charset name such as "UTF-8", "ISO-8859-1" or
// "windows-1251". IANA names are tried first, then WHATWG labels.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := encodingCache.Load(key); ok {
		return enc, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(key)
	}
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}

	encodingCache.Store(key, enc)
	return enc, nil
}

// textCodec converts between Go text and byte string bodies.
type textCodec struct {
	enc  encoding.Encoding
	utf8 bool
}

func newTextCodec(enc encoding.Encoding) textCodec {
	return textCodec{enc: enc, utf8: enc == unicode.UTF8}
}

// decode turns a byte string body into text. Valid UTF-8 under the UTF-8
// encoding is returned as is; everything else goes through the transformer.
func (c textCodec) decode(b []byte) (string, error) {
	if c.utf8 && utf8.Valid(b) {
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// appendEncoded appends the encoded form of s to dst. Text that is not
// valid UTF-8 fails with ErrInvalidText instead of being replaced.
func (c textCodec) appendEncoded(dst []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return dst, ErrInvalidText
	}
	if c.utf8 {
		return append(dst, s...), nil
	}
	out, err := c.enc.NewEncoder().String(s)
	if err != nil {
		return dst, err
	}
	return append(dst, out...), nil
}
