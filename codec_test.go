package bencode

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/encoding/charmap"
)

// --- Codec Test Suite ---

type CodecTestSuite struct {
	suite.Suite
	c *Codec
}

func (s *CodecTestSuite) SetupTest() {
	s.c = New(nil)
}

func (s *CodecTestSuite) TestDefaults() {
	s.Assert().Equal(DefaultEncoding(), s.c.Encoding())
	s.Assert().False(s.c.UseBytes())

	c := New(&Options{Encoding: charmap.ISO8859_1, UseBytes: true})
	s.Assert().Equal(charmap.ISO8859_1, c.Encoding())
	s.Assert().True(c.UseBytes())
}

func (s *CodecTestSuite) TestDetectType() {
	cases := []struct {
		input string
		want  Type
	}{
		{"7", TypeString},
		{"i1", TypeNumber},
		{"l123", TypeList},
		{"dtesting", TypeDictionary},
		{"unknown", TypeUnknown},
	}
	for _, tc := range cases {
		s.Run(tc.input, func() {
			got, err := s.c.DetectType([]byte(tc.input))
			s.Require().NoError(err)
			s.Assert().Equal(tc.want, got)
		})
	}

	s.Run("EmptyInput", func() {
		_, err := s.c.DetectType(nil)
		s.Assert().ErrorIs(err, ErrEndOfInput)
		var ce *CodecError
		s.Require().ErrorAs(err, &ce)
		s.Assert().Equal("detect", ce.Op)
	})
}

func (s *CodecTestSuite) TestDecode() {
	s.Run("String", func() {
		v, err := s.c.Decode([]byte("12:Hello World!123"), TypeString)
		s.Require().NoError(err)
		s.Assert().Equal(Text("Hello World!"), v)
	})

	s.Run("Number", func() {
		v, err := s.c.Decode([]byte("i-2.9155148901435E+18e"), TypeNumber)
		s.Require().NoError(err)
		s.Assert().Equal(Integer(-2915514890143500000), v)
	})

	s.Run("List", func() {
		v, err := s.c.Decode([]byte("l5:Hello6:World!li123ei456eeetesting"), TypeList)
		s.Require().NoError(err)
		s.Assert().Equal(List{Text("Hello"), Text("World!"), List{Integer(123), Integer(456)}}, v)
	})

	s.Run("Dictionary", func() {
		v, err := s.c.Decode([]byte(sampleEncoded), TypeDictionary)
		s.Require().NoError(err)
		s.Assert().True(Equal(sampleDict(), v))
	})

	s.Run("UnknownType", func() {
		_, err := s.c.Decode([]byte("i1e"), TypeUnknown)
		s.Assert().ErrorIs(err, ErrUnknownType)
		var ce *CodecError
		s.Assert().False(errors.As(err, &ce), "a bad request is not a decode failure")
	})

	s.Run("WrongType", func() {
		_, err := s.c.Decode([]byte("i1e"), TypeString)
		s.Assert().ErrorIs(err, ErrUnexpectedToken)
		var ce *CodecError
		s.Require().ErrorAs(err, &ce)
		s.Assert().Equal("decode", ce.Op)
		s.Assert().Contains(ce.Error(), "bencode: decode failed")
	})

	s.Run("UseBytes", func() {
		c := New(&Options{UseBytes: true})
		v, err := c.Decode([]byte("d3:key5:valuee"), TypeDictionary)
		s.Require().NoError(err)
		got, _ := v.(*Dict).Get("key")
		s.Assert().Equal(Bytes("value"), got)
	})
}

func (s *CodecTestSuite) TestDecodeWithEncoding() {
	v, err := s.c.DecodeWithEncoding([]byte("1:\xe9"), TypeString, charmap.ISO8859_1)
	s.Require().NoError(err)
	s.Assert().Equal(Text("é"), v)

	// the codec's own encoding is unchanged
	s.Assert().Equal(DefaultEncoding(), s.c.Encoding())

	_, err = s.c.DecodeWithEncoding([]byte("1:a"), TypeString, nil)
	s.Assert().ErrorIs(err, ErrNilEncoding)
}

func (s *CodecTestSuite) TestEncode() {
	s.Run("Scalars", func() {
		b, err := s.c.EncodeString("Hello World!")
		s.Require().NoError(err)
		s.Assert().Equal("12:Hello World!", string(b))

		b, err = s.c.EncodeBytes([]byte("raw"))
		s.Require().NoError(err)
		s.Assert().Equal("3:raw", string(b))

		b, err = s.c.EncodeNumber(-42)
		s.Require().NoError(err)
		s.Assert().Equal("i-42e", string(b))
	})

	s.Run("Containers", func() {
		b, err := s.c.EncodeList(List{Integer(1), Text("a")})
		s.Require().NoError(err)
		s.Assert().Equal("li1e1:ae", string(b))

		b, err = s.c.EncodeDictionary(sampleDict())
		s.Require().NoError(err)
		s.Assert().Equal(sampleEncoded, string(b))
	})

	s.Run("NullValue", func() {
		_, err := s.c.Encode(List{nil})
		s.Assert().ErrorIs(err, ErrNullValue)
		var ce *CodecError
		s.Require().ErrorAs(err, &ce)
		s.Assert().Equal("encode", ce.Op)
	})

	s.Run("InvalidText", func() {
		_, err := s.c.Encode(Text("\xff"))
		s.Assert().ErrorIs(err, ErrInvalidText)

		b, err := s.c.Encode(Bytes("\xff"))
		s.Require().NoError(err)
		s.Assert().Equal([]byte("1:\xff"), b)
	})

	s.Run("ConfiguredEncoding", func() {
		c := New(&Options{Encoding: charmap.ISO8859_1})
		b, err := c.EncodeString("é")
		s.Require().NoError(err)
		s.Assert().Equal([]byte("1:\xe9"), b)
	})
}

func (s *CodecTestSuite) TestMarshal() {
	b, err := s.c.Marshal(map[string]any{
		"string": "value",
		"number": 123456,
		"list":   []string{"list-item-1", "list-item-2"},
		"dict":   map[int]string{123: "test", 456: "thing"},
	})
	s.Require().NoError(err)
	s.Assert().Equal(sampleEncoded, string(b))

	_, err = s.c.Marshal(map[string]any{"bad": nil})
	s.Assert().ErrorIs(err, ErrNullValue)
}

func (s *CodecTestSuite) TestEncodeTo() {
	s.Run("Fits", func() {
		dst := make([]byte, 32)
		n, err := s.c.EncodeTo(dst, List{Integer(1)})
		s.Require().NoError(err)
		s.Assert().Equal("li1ee", string(dst[:n]))
	})

	s.Run("ShortBuffer", func() {
		dst := []byte("xxxx")
		n, err := s.c.EncodeTo(dst, Text("hello"))
		s.Assert().ErrorIs(err, io.ErrShortWrite)
		s.Assert().Zero(n)
		s.Assert().Equal("xxxx", string(dst))
	})
}

func (s *CodecTestSuite) TestRoundTrip() {
	values := []Value{
		Text(""),
		Text("Hello World!"),
		Integer(0),
		Integer(-9223372036854775808),
		List{},
		List{Text("a"), List{Integer(1), NewDict(0)}},
		sampleDict(),
	}
	for _, v := range values {
		b, err := s.c.Encode(v)
		s.Require().NoError(err)
		got, err := s.c.Decode(b, v.Type())
		s.Require().NoError(err)
		s.Assert().True(Equal(v, got), "round trip of %s", b)

		again, err := s.c.Encode(got)
		s.Require().NoError(err)
		s.Assert().Equal(b, again, "encoding is canonical")
	}
}

// TestCodec runs the CodecTestSuite.
func TestCodec(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}

// --- Standalone Facade Tests ---

func TestPackageLevelFunctions(t *testing.T) {
	typ, err := DetectType([]byte("li1ee"))
	require.NoError(t, err)
	assert.Equal(t, TypeList, typ)

	v, err := Decode([]byte("i7e"), TypeNumber)
	require.NoError(t, err)
	assert.Equal(t, Integer(7), v)

	v, err = DecodeWithEncoding([]byte("1:\xe9"), TypeString, charmap.ISO8859_1)
	require.NoError(t, err)
	assert.Equal(t, Text("é"), v)

	v, err = Unmarshal([]byte("d1:ai1ee"))
	require.NoError(t, err)
	assert.Equal(t, TypeDictionary, v.Type())

	b, err := Encode(Text("x"))
	require.NoError(t, err)
	assert.Equal(t, "1:x", string(b))

	b, err = Marshal([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "li1ei2ee", string(b))
}

func TestDecodeAs(t *testing.T) {
	t.Run("Dictionary", func(t *testing.T) {
		d, err := DecodeAs[*Dict](nil, []byte(sampleEncoded))
		require.NoError(t, err)
		assert.Equal(t, 4, d.Len())
	})

	t.Run("TextAndBytes", func(t *testing.T) {
		text, err := DecodeAs[Text](New(&Options{UseBytes: true}), []byte("3:abc"))
		require.NoError(t, err)
		assert.Equal(t, Text("abc"), text)

		raw, err := DecodeAs[Bytes](nil, []byte("3:abc"))
		require.NoError(t, err)
		assert.Equal(t, Bytes("abc"), raw)
	})

	t.Run("AnyValue", func(t *testing.T) {
		v, err := DecodeAs[Value](nil, []byte("li1ee"))
		require.NoError(t, err)
		assert.Equal(t, List{Integer(1)}, v)
	})

	t.Run("WrongType", func(t *testing.T) {
		_, err := DecodeAs[Integer](nil, []byte("3:abc"))
		assert.ErrorIs(t, err, ErrUnexpectedToken)
	})
}

func TestCodecError(t *testing.T) {
	err := wrapOp("decode", ErrEndOfInput)
	assert.ErrorIs(t, err, ErrEndOfInput)
	assert.Equal(t, "bencode: decode failed: "+ErrEndOfInput.Error(), err.Error())

	assert.NoError(t, wrapOp("decode", nil))
}
