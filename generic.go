package bencode

// DecodeAs decodes the value at the start of data into the Value variant T.
// Text and Bytes pick the byte string representation regardless of the
// Codec's UseBytes setting; T = Value decodes whatever comes first.
// A nil c uses the default UTF-8 codec.
//
//	info, err := bencode.DecodeAs[*bencode.Dict](nil, torrent)
func DecodeAs[T Value](c *Codec, data []byte) (T, error) {
	var zero T
	if c == nil {
		c = defaultCodec
	}
	d, err := NewDecoder(NewBytesReader(data), &c.opts)
	if err != nil {
		return zero, err
	}

	var v Value
	switch any(zero).(type) {
	case nil:
		v, err = d.ReadValue()
	case Text:
		var s string
		s, err = d.ReadString()
		v = Text(s)
	case Bytes:
		var b []byte
		b, err = d.ReadStringBytes()
		v = Bytes(b)
	default:
		v, err = d.Decode(zero.Type())
	}
	if err != nil {
		return zero, wrapOp("decode", err)
	}
	return v.(T), nil
}
