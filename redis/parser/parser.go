package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"runtime/debug"
	"strconv"

	"goredis/interface/redis"
	"goredis/redis/protocol"

	"go.uber.org/zap"
)

var ErrNoReply = errors.New("no reply could be decoded")

const (
	CR       = '\r'
	LF       = '\n'
	CRLF     = "\r\n"
	Star     = '*'
	Dollar   = '$'
	Positive = '+'
	Negative = '-'
	Colon    = ':'
	// NullHeader $-1与*-1的长度值 表示空回复
	NullHeader = -1
)

type Payload struct {
	Data redis.Reply
	Err  error
}

// ParseStream 通过 io.Reader 读取数据并将结果通过 channel 将结果返回给调用者
// 任何协议错误都是致命的 发出带Err的Payload后channel被关闭
func ParseStream(reader io.Reader) <-chan *Payload {
	ch := make(chan *Payload)
	go parseInternal(reader, ch)
	return ch
}

// ParseBytes 从字节数组中读取全部数据并返回
func ParseBytes(data []byte) (result []redis.Reply, err error) {
	ch := ParseStream(bytes.NewReader(data))
	for payload := range ch {
		if payload == nil {
			return nil, ErrNoReply
		}
		if payload.Err != nil {
			if payload.Err == io.EOF {
				return result, nil
			}
			return nil, payload.Err
		}
		result = append(result, payload.Data)
	}
	return result, nil
}

// ParseOne 从字节数组中读取一条数据并返回
func ParseOne(data []byte) (result redis.Reply, err error) {
	ch := ParseStream(bytes.NewReader(data))
	payload := <-ch
	if payload == nil {
		return nil, ErrNoReply
	}
	if payload.Err != nil {
		return nil, payload.Err
	}
	return payload.Data, nil
}

// parseInternal 从流中解析数据，并通过channel发送 该函数在子协程中调用
func parseInternal(reader io.Reader, ch chan<- *Payload) {
	// recover
	defer func() {
		if err := recover(); err != nil {
			zap.L().Error("parser panic", zap.Any("err", err), zap.String("stack", string(debug.Stack())))
		}
	}()
	var bufReader = bufio.NewReader(reader)
	for {
		reply, err := parseReply(bufReader)
		if err != nil {
			ch <- &Payload{
				Data: nil,
				Err:  err,
			}
			close(ch)
			return
		}
		ch <- &Payload{
			Data: reply,
		}
	}
}

// parseReply 解析单个回复 数组元素递归解析 每个返回值都不引用读缓冲区
func parseReply(reader *bufio.Reader) (redis.Reply, error) {
	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	switch line[0] {
	case Positive:
		// +OK
		return protocol.NewStatusReply(string(line[1:])), nil
	case Negative:
		// -ERR unknown command
		return protocol.NewErrReply(string(line[1:])), nil
	case Colon:
		// :1
		num, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return nil, protocol.NewProtocolError("illegal integer '" + string(line[1:]) + "'")
		}
		return protocol.NewIntReply(num), nil
	case Dollar:
		return parseBulk(reader, line)
	case Star:
		return parseMultiBulk(reader, line)
	default:
		// 客户端侧不接受inline回复
		return nil, protocol.NewProtocolError("illegal reply header '" + string(line) + "'")
	}
}

// parseBulk 解析$开头的二进制安全字符串 line是已读出的首行
func parseBulk(reader *bufio.Reader, line []byte) (redis.Reply, error) {
	bulkLen, err := strconv.ParseInt(string(line[1:]), 10, 64)
	if err != nil {
		return nil, protocol.NewProtocolError("illegal bulk length '" + string(line[1:]) + "'")
	}
	if bulkLen == NullHeader {
		return protocol.NewNullBulkReply(), nil
	}
	if bulkLen < 0 {
		return nil, protocol.NewProtocolError("illegal bulk length '" + string(line[1:]) + "'")
	}
	// 正文是二进制安全的 不能按行读 必须带上结尾的CRLF一起读满
	body := make([]byte, bulkLen+int64(len(CRLF)))
	if _, err = io.ReadFull(reader, body); err != nil {
		return nil, err
	}
	if body[len(body)-2] != CR || body[len(body)-1] != LF {
		return nil, protocol.NewProtocolError("bulk string is not terminated by CRLF")
	}
	return protocol.NewBulkReply(body[:bulkLen]), nil
}

// parseMultiBulk 解析*开头的数组 元素可以是任意RESP类型 包括嵌套数组
func parseMultiBulk(reader *bufio.Reader, line []byte) (redis.Reply, error) {
	count, err := strconv.ParseInt(string(line[1:]), 10, 64)
	if err != nil {
		return nil, protocol.NewProtocolError("illegal array length '" + string(line[1:]) + "'")
	}
	if count == NullHeader {
		return protocol.NewNullMultiBulkReply(), nil
	}
	if count < 0 {
		return nil, protocol.NewProtocolError("illegal array length '" + string(line[1:]) + "'")
	}
	if count == 0 {
		return protocol.NewEmptyMultiBulkReply(), nil
	}
	elems := make([]redis.Reply, 0, count)
	for i := int64(0); i < count; i++ {
		elem, err := parseReply(reader)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return protocol.NewMultiRawReply(elems), nil
}

// readLine 读取一行并校验CRLF结尾 返回值不含CRLF
func readLine(reader *bufio.Reader) ([]byte, error) {
	msg, err := reader.ReadBytes(LF)
	if err != nil {
		return nil, err
	}
	if len(msg) < len(CRLF)+1 || msg[len(msg)-len(CRLF)] != CR {
		return nil, protocol.NewProtocolError("line is not terminated by CRLF")
	}
	return msg[:len(msg)-len(CRLF)], nil
}
