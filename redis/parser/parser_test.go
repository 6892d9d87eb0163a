package parser

import (
	"bytes"
	"io"
	"testing"

	"goredis/interface/redis"
	"goredis/redis/command"
	"goredis/redis/protocol"
	"goredis/utils"

	"github.com/stretchr/testify/assert"
)

func TestParseStream(t *testing.T) {
	replies := []redis.Reply{
		protocol.NewIntReply(1),
		protocol.NewStatusReply("OK"),
		protocol.NewErrReply("ERR unknown"),
		protocol.NewBulkReply([]byte("a\r\nb")), // test binary safe
		protocol.NewNullBulkReply(),
		protocol.NewMultiBulkReply([][]byte{
			[]byte("a"),
			[]byte("\r\n"),
		}),
		protocol.NewEmptyMultiBulkReply(),
		protocol.NewNullMultiBulkReply(),
	}
	reqs := bytes.Buffer{}
	for _, re := range replies {
		reqs.Write(re.ToBytes())
	}

	ch := ParseStream(bytes.NewReader(reqs.Bytes()))
	i := 0
	for payload := range ch {
		if payload.Err != nil {
			if payload.Err == io.EOF {
				return
			}
			t.Error(payload.Err)
			return
		}
		if payload.Data == nil {
			t.Error("empty data")
			return
		}
		exp := replies[i]
		i++
		assert.Equal(t, exp.ToBytes(), payload.Data.ToBytes())
	}
}

func TestParseNestedArray(t *testing.T) {
	// EXEC响应形态 *2内嵌状态与整数
	data := []byte("*2\r\n+OK\r\n:2\r\n")
	reply, err := ParseOne(data)
	assert.Nil(t, err)
	elems, ok := protocol.AsArray(reply)
	assert.True(t, ok)
	assert.Equal(t, 2, len(elems))
	status, ok := elems[0].(*protocol.StatusReply)
	assert.True(t, ok)
	assert.Equal(t, "OK", status.Status)
	num, err := protocol.ElemInt(elems, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), num)

	// 两层嵌套 GEOPOS形态
	data = []byte("*1\r\n*2\r\n$4\r\n13.4\r\n$4\r\n52.5\r\n")
	reply, err = ParseOne(data)
	assert.Nil(t, err)
	elems, ok = protocol.AsArray(reply)
	assert.True(t, ok)
	sub, err := protocol.ElemArray(elems, 0)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(sub))
	lon, err := protocol.ElemBytes(sub, 0)
	assert.Nil(t, err)
	assert.Equal(t, []byte("13.4"), lon)
}

func TestParseErrorReply(t *testing.T) {
	reply, err := ParseOne([]byte("-WRONGTYPE Operation against a key holding the wrong kind of value\r\n"))
	assert.Nil(t, err)
	errReply, ok := reply.(*protocol.StandardErrReply)
	assert.True(t, ok)
	assert.Equal(t, "WRONGTYPE", errReply.Code)
	assert.Equal(t, "Operation against a key holding the wrong kind of value", errReply.Msg)
}

func TestParseProtocolError(t *testing.T) {
	malformed := [][]byte{
		[]byte("?what\r\n"),
		[]byte(":notanumber\r\n"),
		[]byte("$-5\r\n"),
		[]byte("*-5\r\n"),
		[]byte("$abc\r\n"),
		[]byte("+OK\n"), // LF without CR
	}
	for _, data := range malformed {
		_, err := ParseOne(data)
		assert.NotNil(t, err, "expected protocol error for %q", data)
	}
}

func TestParseStreamStopsOnProtocolError(t *testing.T) {
	// 协议错误是致命的 channel应当在上报后关闭
	ch := ParseStream(bytes.NewReader([]byte("+OK\r\n?bad\r\n+OK\r\n")))
	first := <-ch
	assert.Nil(t, first.Err)
	second := <-ch
	assert.NotNil(t, second.Err)
	_, more := <-ch
	assert.False(t, more)
}

func TestCommandRoundTrip(t *testing.T) {
	// 命令编码后可被解码回同样的参数序列
	cmd := command.New(command.Set, []byte("key"), []byte("va\r\nlue"))
	reply, err := ParseOne(cmd.ToBytes())
	assert.Nil(t, err)
	elems, ok := protocol.AsArray(reply)
	assert.True(t, ok)
	assert.Equal(t, 3, len(elems))
	name, _ := protocol.ElemBytes(elems, 0)
	assert.Equal(t, []byte("SET"), name)
	arg, _ := protocol.ElemBytes(elems, 2)
	assert.Equal(t, []byte("va\r\nlue"), arg)

	// 多词命令的空格是参数边界
	cmd = command.New(command.ClientSetname, []byte("conn-1"))
	reply, err = ParseOne(cmd.ToBytes())
	assert.Nil(t, err)
	elems, _ = protocol.AsArray(reply)
	assert.Equal(t, 3, len(elems))
	first, _ := protocol.ElemBytes(elems, 0)
	second, _ := protocol.ElemBytes(elems, 1)
	assert.Equal(t, []byte("CLIENT"), first)
	assert.Equal(t, []byte("SETNAME"), second)
}

func TestParseBytes(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(protocol.NewStatusReply("PONG").ToBytes())
	buf.Write(protocol.NewIntReply(42).ToBytes())
	buf.Write(protocol.NewMultiBulkReply(utils.ToCmdLine2("SET", "key", "value")).ToBytes())
	replies, err := ParseBytes(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, 3, len(replies))
	assert.Equal(t, protocol.NewMultiBulkReply(utils.ToCmdLine("SET", "key", "value")).ToBytes(), replies[2].ToBytes())
}
