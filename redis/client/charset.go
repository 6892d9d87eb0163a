package client

import (
	"fmt"
	"strings"

	"goredis/redis/protocol"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Charset 连接级文本编码 所有string<->bytes转换都经过它 二进制变体除外
type Charset struct {
	name string
	enc  encoding.Encoding // nil表示UTF-8直通
}

// NewCharset 按IANA名称查找编码 空名称与UTF-8走直通路径
func NewCharset(name string) (*Charset, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.EqualFold(trimmed, "UTF-8") || strings.EqualFold(trimmed, "UTF8") {
		return &Charset{name: "UTF-8"}, nil
	}
	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown charset '%s'", protocol.ErrIllegalArgument, name)
	}
	return &Charset{name: trimmed, enc: enc}, nil
}

func (c *Charset) Name() string {
	return c.name
}

// Encode 把字符串编码为上线字节
func (c *Charset) Encode(s string) []byte {
	if c.enc == nil {
		return []byte(s)
	}
	encoded, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return encoded
}

// Decode 把响应字节解码为字符串
func (c *Charset) Decode(b []byte) string {
	if c.enc == nil {
		return string(b)
	}
	decoded, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
