package protocol

import (
	"bytes"
	"goredis/interface/redis"
	"strconv"
)

var CRLF = "\r\n"

// BulkReply 二进制安全字符串
type BulkReply struct {
	Arg []byte
}

// NewBulkReply 根据字节数组创建BulkReply
func NewBulkReply(arg []byte) *BulkReply {
	return &BulkReply{
		Arg: arg,
	}
}

// ToBytes 序列化
func (r *BulkReply) ToBytes() []byte {
	return []byte("$" + strconv.Itoa(len(r.Arg)) + CRLF + string(r.Arg) + CRLF)
}

// MultiBulkReply 存储Bulk String数组 编码侧的扁平形式
type MultiBulkReply struct {
	Args [][]byte
}

// NewMultiBulkReply 创建一个MultiBulkReply实例
func NewMultiBulkReply(args [][]byte) *MultiBulkReply {
	return &MultiBulkReply{
		Args: args,
	}
}

// ToBytes 序列化
func (r *MultiBulkReply) ToBytes() []byte {
	argLen := len(r.Args)
	var buf bytes.Buffer
	buf.WriteString("*" + strconv.Itoa(argLen) + CRLF)
	for _, arg := range r.Args {
		if arg == nil {
			buf.WriteString("$-1" + CRLF)
		} else {
			buf.WriteString("$" + strconv.Itoa(len(arg)) + CRLF + string(arg) + CRLF)
		}
	}
	return buf.Bytes()
}

// MultiRawReply 存储元素本身仍为Reply的数组 解码侧的通用形式 支持嵌套数组
type MultiRawReply struct {
	Replies []redis.Reply
}

// NewMultiRawReply 创建一个MultiRawReply实例
func NewMultiRawReply(replies []redis.Reply) *MultiRawReply {
	return &MultiRawReply{
		Replies: replies,
	}
}

// ToBytes 序列化
func (r *MultiRawReply) ToBytes() []byte {
	argLen := len(r.Replies)
	var buf bytes.Buffer
	buf.WriteString("*" + strconv.Itoa(argLen) + CRLF)
	for _, arg := range r.Replies {
		buf.Write(arg.ToBytes())
	}
	return buf.Bytes()
}

// StatusReply 存储简单的状态字符串 如OK QUEUED
type StatusReply struct {
	Status string
}

// NewStatusReply 创建一个StatusReply实例
func NewStatusReply(status string) *StatusReply {
	return &StatusReply{
		Status: status,
	}
}

// ToBytes 序列化
func (r *StatusReply) ToBytes() []byte {
	return []byte("+" + r.Status + CRLF)
}

// IsOKReply 当给定的reply为+OK时返回true
func IsOKReply(reply redis.Reply) bool {
	status, ok := reply.(*StatusReply)
	return ok && status.Status == OK
}

// IntReply 存储int64
type IntReply struct {
	Code int64
}

// NewIntReply 创建一个IntReply实例
func NewIntReply(code int64) *IntReply {
	return &IntReply{
		Code: code,
	}
}

// ToBytes 序列化
func (r *IntReply) ToBytes() []byte {
	return []byte(":" + strconv.FormatInt(r.Code, 10) + CRLF)
}

// StandardErrReply 表示一个服务器错误 如-ERR unknown command
// Code是错误行第一个空格前的部分 Msg是其余部分
type StandardErrReply struct {
	Code string
	Msg  string
}

// NewErrReply 根据完整的错误行创建一个StandardErrReply实例
func NewErrReply(status string) *StandardErrReply {
	code, msg := status, ""
	for i := 0; i < len(status); i++ {
		if status[i] == ' ' {
			code, msg = status[:i], status[i+1:]
			break
		}
	}
	return &StandardErrReply{
		Code: code,
		Msg:  msg,
	}
}

// IsErrorReply 当给定的reply是错误时返回true
func IsErrorReply(reply redis.Reply) bool {
	_, ok := reply.(redis.ErrorReply)
	return ok
}

// ToBytes 序列化
func (r *StandardErrReply) ToBytes() []byte {
	if r.Msg == "" {
		return []byte("-" + r.Code + CRLF)
	}
	return []byte("-" + r.Code + " " + r.Msg + CRLF)
}

func (r *StandardErrReply) Error() string {
	if r.Msg == "" {
		return r.Code
	}
	return r.Code + " " + r.Msg
}
