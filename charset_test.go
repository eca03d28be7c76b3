package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf-8", " ISO-8859-1 ", "windows-1251", "latin1"} {
		t.Run(name, func(t *testing.T) {
			enc, err := LookupEncoding(name)
			require.NoError(t, err)
			require.NotNil(t, enc)
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		_, err := LookupEncoding("klingon")
		assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	})

	t.Run("Cached", func(t *testing.T) {
		first, err := LookupEncoding("ISO-8859-5")
		require.NoError(t, err)
		_, ok := encodingCache.Load("iso-8859-5")
		assert.True(t, ok)
		second, err := LookupEncoding("iso-8859-5")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestLookupEncoding_Codec(t *testing.T) {
	enc, err := LookupEncoding("windows-1251")
	require.NoError(t, err)

	c := New(&Options{Encoding: enc})
	b, err := c.EncodeString("привет")
	require.NoError(t, err)
	assert.Equal(t, "6:\xef\xf0\xe8\xe2\xe5\xf2", string(b))

	v, err := c.Decode(b, TypeString)
	require.NoError(t, err)
	assert.Equal(t, Text("привет"), v)
}

func TestTextCodec(t *testing.T) {
	utf := newTextCodec(DefaultEncoding())
	assert.True(t, utf.utf8)

	s, err := utf.decode([]byte("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	latin := newTextCodec(charmap.ISO8859_1)
	assert.False(t, latin.utf8)

	out, err := latin.appendEncoded([]byte("x"), "é")
	require.NoError(t, err)
	assert.Equal(t, []byte("x\xe9"), out)

	s, err = latin.decode([]byte{0xe9})
	require.NoError(t, err)
	assert.Equal(t, "é", s)
}
