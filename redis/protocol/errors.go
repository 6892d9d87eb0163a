package protocol

import (
	"errors"
	"fmt"
)

// 连接生命周期错误 属于调用方误用 在提交前同步返回
var (
	ErrConnectionClosed   = errors.New("redis connection has been closed")
	ErrConnectionInPool   = errors.New("redis connection is in pool")
	ErrCannotReturnToPool = errors.New("cannot return to pool, there are ongoing commands")
	ErrClientShutdown     = errors.New("redis client has been shut down")
	ErrIllegalArgument    = errors.New("illegal argument")
	ErrQuitCalled         = errors.New("QUIT has been called on the connection")
)

// expectedError 标记命令级错误 该类错误不会触发连接关闭
type expectedError interface {
	expectedRedisError()
}

// IsExpected 命令级错误返回true 其余错误对连接是致命的
func IsExpected(err error) bool {
	var expected expectedError
	return errors.As(err, &expected)
}

// ServerError 服务器以-开头的错误行回复 如-ERR ... -WRONGTYPE ...
type ServerError struct {
	Code    string
	Message string
}

func NewServerError(errReply *StandardErrReply) *ServerError {
	return &ServerError{
		Code:    errReply.Code,
		Message: errReply.Msg,
	}
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + " " + e.Message
}

func (e *ServerError) expectedRedisError() {}

// UnexpectedResponseError 服务器回复的RESP形态与解析器预期不符
type UnexpectedResponseError struct {
	Msg string
}

func NewUnexpectedResponseError(msg string) *UnexpectedResponseError {
	return &UnexpectedResponseError{Msg: msg}
}

func (e *UnexpectedResponseError) Error() string {
	return "unexpected response: " + e.Msg
}

func (e *UnexpectedResponseError) expectedRedisError() {}

// DuplicateFieldError map响应中出现了重复的field
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return "duplicate field in map response: '" + e.Field + "'"
}

func (e *DuplicateFieldError) expectedRedisError() {}

// TransactionFailedError EXEC收到*-1 WATCH的key被修改
type TransactionFailedError struct{}

func (e *TransactionFailedError) Error() string {
	return "transaction has failed, WATCH condition was not met"
}

func (e *TransactionFailedError) expectedRedisError() {}

// TransactionDiscardedError 事务被显式DISCARD
type TransactionDiscardedError struct{}

func (e *TransactionDiscardedError) Error() string {
	return "transaction has been discarded"
}

func (e *TransactionDiscardedError) expectedRedisError() {}

// TransactionAbortedError 入队阶段出错 事务后续命令与EXEC均以原始错误失败
type TransactionAbortedError struct {
	Cause error
}

func (e *TransactionAbortedError) Error() string {
	return "transaction has been aborted: " + e.Cause.Error()
}

func (e *TransactionAbortedError) Unwrap() error {
	return e.Cause
}

func (e *TransactionAbortedError) expectedRedisError() {}

// FramingMismatchError EXEC返回的结果数量与入队的命令数量不一致
// 此时无法再确定响应与命令的对应关系 对连接是致命的
type FramingMismatchError struct {
	Expected int
	Actual   int
}

func (e *FramingMismatchError) Error() string {
	return fmt.Sprintf("number of responses in transaction (%d) does not match number of pending commands (%d)", e.Actual, e.Expected)
}

// ProtocolError 无法解析的字节流 对连接是致命的
type ProtocolError struct {
	Msg string
}

func NewProtocolError(msg string) *ProtocolError {
	return &ProtocolError{Msg: msg}
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Msg
}
