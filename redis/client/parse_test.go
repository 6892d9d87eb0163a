package client

import (
	"errors"
	"testing"

	"goredis/interface/redis"
	"goredis/redis/protocol"

	"github.com/stretchr/testify/assert"
)

func testCharsetConn(t *testing.T) *Connection {
	charset, err := NewCharset("UTF-8")
	if err != nil {
		t.Fatal(err)
	}
	return &Connection{charset: charset}
}

// allReplyShapes 每种RESP形态各取一个代表
func allReplyShapes() []redis.Reply {
	return []redis.Reply{
		protocol.NewStatusReply("OK"),
		protocol.NewStatusReply("QUEUED"),
		protocol.NewErrReply("ERR something went wrong"),
		protocol.NewIntReply(0),
		protocol.NewIntReply(1),
		protocol.NewIntReply(42),
		protocol.NewBulkReply([]byte("value")),
		protocol.NewBulkReply([]byte("3.14")),
		protocol.NewNullBulkReply(),
		protocol.NewMultiBulkReply([][]byte{[]byte("a"), []byte("b")}),
		protocol.NewMultiRawReply([]redis.Reply{protocol.NewIntReply(1), protocol.NewBulkReply([]byte("x"))}),
		protocol.NewEmptyMultiBulkReply(),
		protocol.NewNullMultiBulkReply(),
	}
}

// TestParserTotality 所有解析器对所有形态要么成功要么返回具名错误 绝不panic
func TestParserTotality(t *testing.T) {
	c := testCharsetConn(t)
	parsers := []func(redis.Reply) error{
		func(r redis.Reply) error { _, err := parseInteger(r); return err },
		func(r redis.Reply) error { _, err := parseNullableInteger(r); return err },
		func(r redis.Reply) error { _, err := parseBoolean(r); return err },
		func(r redis.Reply) error { _, err := parseSimpleString(r); return err },
		func(r redis.Reply) error { _, err := parseExpectOk(r); return err },
		func(r redis.Reply) error { _, err := parseBulk(r); return err },
		func(r redis.Reply) error { _, err := c.parseBulkString(r); return err },
		func(r redis.Reply) error { _, err := c.parseString(r); return err },
		func(r redis.Reply) error { _, err := c.parseDouble(r); return err },
		func(r redis.Reply) error { _, err := c.parseNullableDouble(r); return err },
		func(r redis.Reply) error { _, err := c.parseStrings(r); return err },
		func(r redis.Reply) error { _, err := c.parseStringsAsSet(r); return err },
		func(r redis.Reply) error { _, err := parseBytesList(r); return err },
		func(r redis.Reply) error { _, err := parseNullableBytesList(r); return err },
		func(r redis.Reply) error { _, err := c.parseMapString(r); return err },
		func(r redis.Reply) error { _, err := c.parseMapWithScores(r); return err },
		func(r redis.Reply) error { _, err := c.parseScanResult(r); return err },
		func(r redis.Reply) error { _, err := c.parseListPopResult(r); return err },
		func(r redis.Reply) error { _, err := c.parseSetBlockingPopResult(r); return err },
		func(r redis.Reply) error { _, err := c.parseSetPopResults(r); return err },
		func(r redis.Reply) error { _, err := c.parseCoordinates(r); return err },
		func(r redis.Reply) error { _, err := c.parseGeoradiusResults(r, true, true, true); return err },
		func(r redis.Reply) error { _, err := c.parseType(r); return err },
		func(r redis.Reply) error { _, err := c.parseEncoding(r); return err },
	}
	for _, p := range parsers {
		for _, reply := range allReplyShapes() {
			_ = p(reply) // 只要不panic 错误即合法结果
		}
	}
}

func TestParseInteger(t *testing.T) {
	value, err := parseInteger(protocol.NewIntReply(7))
	assert.Nil(t, err)
	assert.Equal(t, int64(7), value)

	_, err = parseInteger(protocol.NewStatusReply("OK"))
	var unexpected *protocol.UnexpectedResponseError
	assert.True(t, errors.As(err, &unexpected))

	_, err = parseInteger(protocol.NewErrReply("ERR oops"))
	var serverErr *protocol.ServerError
	assert.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "ERR", serverErr.Code)
}

func TestParseBoolean(t *testing.T) {
	value, err := parseBoolean(protocol.NewIntReply(1))
	assert.Nil(t, err)
	assert.True(t, value)
	value, err = parseBoolean(protocol.NewIntReply(0))
	assert.Nil(t, err)
	assert.False(t, value)
	_, err = parseBoolean(protocol.NewIntReply(2))
	assert.NotNil(t, err)
}

func TestParseExpectOk(t *testing.T) {
	_, err := parseExpectOk(protocol.NewStatusReply("OK"))
	assert.Nil(t, err)
	_, err = parseExpectOk(protocol.NewStatusReply("QUEUED"))
	assert.NotNil(t, err)
	_, err = parseExpectOk(protocol.NewBulkReply([]byte("OK")))
	assert.NotNil(t, err)
}

func TestParseStringAcceptsBothShapes(t *testing.T) {
	c := testCharsetConn(t)
	s, err := c.parseString(protocol.NewStatusReply("OK"))
	assert.Nil(t, err)
	assert.Equal(t, "OK", *s)
	s, err = c.parseString(protocol.NewBulkReply([]byte("value")))
	assert.Nil(t, err)
	assert.Equal(t, "value", *s)
	s, err = c.parseString(protocol.NewNullBulkReply())
	assert.Nil(t, err)
	assert.Nil(t, s)
}

func TestParseSetMergesDuplicates(t *testing.T) {
	c := testCharsetConn(t)
	set, err := c.parseStringsAsSet(protocol.NewMultiBulkReply([][]byte{
		[]byte("a"), []byte("b"), []byte("a"),
	}))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(set))
}

func TestParseMap(t *testing.T) {
	c := testCharsetConn(t)
	m, err := c.parseMapString(protocol.NewMultiBulkReply([][]byte{
		[]byte("f1"), []byte("v1"),
		[]byte("f2"), []byte("v2"),
	}))
	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"f1": "v1", "f2": "v2"}, m)

	// 奇数长度
	_, err = c.parseMapString(protocol.NewMultiBulkReply([][]byte{[]byte("f1")}))
	var unexpected *protocol.UnexpectedResponseError
	assert.True(t, errors.As(err, &unexpected))

	// 重复field
	_, err = c.parseMapString(protocol.NewMultiBulkReply([][]byte{
		[]byte("f1"), []byte("v1"),
		[]byte("f1"), []byte("v2"),
	}))
	var duplicate *protocol.DuplicateFieldError
	assert.True(t, errors.As(err, &duplicate))
	assert.Equal(t, "f1", duplicate.Field)
}

func TestParseDouble(t *testing.T) {
	c := testCharsetConn(t)
	value, err := c.parseDouble(protocol.NewBulkReply([]byte("3.5")))
	assert.Nil(t, err)
	assert.Equal(t, 3.5, value)
	_, err = c.parseDouble(protocol.NewBulkReply([]byte("abc")))
	assert.NotNil(t, err)
	_, err = c.parseDouble(protocol.NewNullBulkReply())
	assert.NotNil(t, err)
}

func TestParseScanResult(t *testing.T) {
	c := testCharsetConn(t)
	reply := protocol.NewMultiRawReply([]redis.Reply{
		protocol.NewBulkReply([]byte("17")),
		protocol.NewMultiBulkReply([][]byte{[]byte("k1"), []byte("k2")}),
	})
	result, err := c.parseScanResult(reply)
	assert.Nil(t, err)
	assert.Equal(t, "17", result.Cursor)
	assert.False(t, result.Finished())
	assert.Equal(t, []string{"k1", "k2"}, result.StringElements())

	// 非十进制游标
	bad := protocol.NewMultiRawReply([]redis.Reply{
		protocol.NewBulkReply([]byte("abc")),
		protocol.NewEmptyMultiBulkReply(),
	})
	_, err = c.parseScanResult(bad)
	assert.NotNil(t, err)
}

func TestParseSetPopResults(t *testing.T) {
	c := testCharsetConn(t)
	reply := protocol.NewMultiBulkReply([][]byte{
		[]byte("one"), []byte("1"),
		[]byte("two"), []byte("2"),
	})
	results, err := c.parseSetPopResults(reply)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, "one", results[0].StringValue())
	assert.Equal(t, 1.0, results[0].Score)
}

func TestParseGeoradiusResults(t *testing.T) {
	c := testCharsetConn(t)
	reply := protocol.NewMultiRawReply([]redis.Reply{
		protocol.NewMultiRawReply([]redis.Reply{
			protocol.NewBulkReply([]byte("Palermo")),
			protocol.NewBulkReply([]byte("190.4424")),
			protocol.NewMultiBulkReply([][]byte{[]byte("13.36"), []byte("38.11")}),
		}),
	})
	results, err := c.parseGeoradiusResults(reply, true, true, false)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(results))
	assert.Equal(t, "Palermo", results[0].StringMember())
	assert.Equal(t, 190.4424, *results[0].Dist)
	assert.Equal(t, 13.36, results[0].Coord.Longitude)
	assert.Nil(t, results[0].Hash)
}
