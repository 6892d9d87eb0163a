package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharsetUTF8Passthrough(t *testing.T) {
	charset, err := NewCharset("")
	assert.Nil(t, err)
	assert.Equal(t, "UTF-8", charset.Name())
	assert.Equal(t, []byte("你好"), charset.Encode("你好"))
	assert.Equal(t, "你好", charset.Decode([]byte("你好")))
}

func TestCharsetLatin1(t *testing.T) {
	charset, err := NewCharset("ISO-8859-1")
	assert.Nil(t, err)
	encoded := charset.Encode("café")
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, encoded)
	assert.Equal(t, "café", charset.Decode(encoded))
}

func TestCharsetUnknown(t *testing.T) {
	_, err := NewCharset("definitely-not-a-charset")
	assert.NotNil(t, err)
}
