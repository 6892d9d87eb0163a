package client

import (
	"fmt"

	"goredis/interface/redis"
	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// list命令

// BLPop 阻塞弹出队首 所有key都为空且超时后返回nil
func (c *Connection) BLPop(timeoutSeconds float64, key string, otherKeys ...string) *promise.Promise[*ListPopResult] {
	args := append(c.argsN(key, otherKeys), c.bs(f64(timeoutSeconds)))
	return sendCmd(c, command.New(command.BLPop, args...), c.parseListPopResult)
}

// BRPop 阻塞弹出队尾
func (c *Connection) BRPop(timeoutSeconds float64, key string, otherKeys ...string) *promise.Promise[*ListPopResult] {
	args := append(c.argsN(key, otherKeys), c.bs(f64(timeoutSeconds)))
	return sendCmd(c, command.New(command.BRPop, args...), c.parseListPopResult)
}

// BRPopLPush 阻塞地从source尾弹出并推入target头
func (c *Connection) BRPopLPush(source, target string, timeoutSeconds float64) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.BRPopLPush, c.bs(source), c.bs(target), c.bs(f64(timeoutSeconds))), c.parseBulkString)
}

func (c *Connection) BRPopLPushAsBinary(source, target string, timeoutSeconds float64) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.BRPopLPush, c.bs(source), c.bs(target), c.bs(f64(timeoutSeconds))), parseBulk)
}

// LIndex 下标越界时为nil
func (c *Connection) LIndex(key string, index int64) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.LIndex, c.bs(key), c.bs(i64(index))), c.parseBulkString)
}

func (c *Connection) LIndexAsBinary(key string, index int64) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.LIndex, c.bs(key), c.bs(i64(index))), parseBulk)
}

// LInsert 在pivot前/后插入 返回新长度 pivot不存在时-1
func (c *Connection) LInsert(key string, position InsertPosition, pivot, element string) *promise.Promise[int64] {
	return c.LInsertBinary(key, position, c.bs(pivot), c.bs(element))
}

func (c *Connection) LInsertBinary(key string, position InsertPosition, pivot, element []byte) *promise.Promise[int64] {
	if position != InsertBefore && position != InsertAfter {
		return promise.Failed[int64](fmt.Errorf("%w: illegal insert position", protocol.ErrIllegalArgument))
	}
	return sendCmd(c, command.New(command.LInsert, c.bs(key), c.bs(string(position)), pivot, element), parseInteger)
}

// LLen 长度
func (c *Connection) LLen(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.LLen, c.bs(key)), parseInteger)
}

// LPop 弹出队首 空list为nil
func (c *Connection) LPop(key string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.LPop, c.bs(key)), c.parseBulkString)
}

func (c *Connection) LPopAsBinary(key string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.LPop, c.bs(key)), parseBulk)
}

// LPos element首次出现的下标 不存在时nil
func (c *Connection) LPos(key, element string, modifiers ...command.LposModifier) *promise.Promise[*int64] {
	return c.LPosBinary(key, c.bs(element), modifiers...)
}

func (c *Connection) LPosBinary(key string, element []byte, modifiers ...command.LposModifier) *promise.Promise[*int64] {
	if err := command.CheckLposModifiers(modifiers); err != nil {
		return promise.Failed[*int64](err)
	}
	args := [][]byte{c.bs(key), element}
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return sendCmd(c, command.New(command.LPos, args...), parseNullableInteger)
}

// LPosCount COUNT形态 返回最多count个下标 count为0表示全部
func (c *Connection) LPosCount(key, element string, count int64, modifiers ...command.LposModifier) *promise.Promise[[]int64] {
	return c.LPosCountBinary(key, c.bs(element), count, modifiers...)
}

func (c *Connection) LPosCountBinary(key string, element []byte, count int64, modifiers ...command.LposModifier) *promise.Promise[[]int64] {
	if count < 0 {
		return promise.Failed[[]int64](fmt.Errorf("%w: COUNT cannot be negative", protocol.ErrIllegalArgument))
	}
	if err := command.CheckLposModifiers(modifiers); err != nil {
		return promise.Failed[[]int64](err)
	}
	args := [][]byte{c.bs(key), element, c.bs("COUNT"), c.bs(i64(count))}
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return sendCmd(c, command.New(command.LPos, args...), func(reply redis.Reply) ([]int64, error) {
		return arrayOf(reply, func(e redis.Reply) (int64, error) {
			if intReply, ok := e.(*protocol.IntReply); ok {
				return intReply.Code, nil
			}
			return 0, protocol.NewUnexpectedResponseError("expected all array items to be integers")
		})
	})
}

// LPush 推入队首 返回新长度
func (c *Connection) LPush(key, element string, otherElements ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, element), otherElements)
	return sendCmd(c, command.New(command.LPush, args...), parseInteger)
}

func (c *Connection) LPushBinary(key string, element []byte, otherElements ...[]byte) *promise.Promise[int64] {
	args := append([][]byte{c.bs(key), element}, otherElements...)
	return sendCmd(c, command.New(command.LPush, args...), parseInteger)
}

// LPushX 仅当list已存在时推入
func (c *Connection) LPushX(key, element string, otherElements ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, element), otherElements)
	return sendCmd(c, command.New(command.LPushX, args...), parseInteger)
}

// LRange [start, stop]闭区间
func (c *Connection) LRange(key string, start, stop int64) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.LRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), c.parseStrings)
}

func (c *Connection) LRangeAsBinary(key string, start, stop int64) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.LRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), parseBytesList)
}

// LRem 删除count个等于element的元素
func (c *Connection) LRem(key string, count int64, element string) *promise.Promise[int64] {
	return c.LRemBinary(key, count, c.bs(element))
}

func (c *Connection) LRemBinary(key string, count int64, element []byte) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.LRem, c.bs(key), c.bs(i64(count)), element), parseInteger)
}

// LSet 覆写下标处的元素
func (c *Connection) LSet(key string, index int64, element string) *promise.Promise[Void] {
	return c.LSetBinary(key, index, c.bs(element))
}

func (c *Connection) LSetBinary(key string, index int64, element []byte) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.LSet, c.bs(key), c.bs(i64(index)), element), parseExpectOk)
}

// LTrim 裁剪到[start, stop]
func (c *Connection) LTrim(key string, start, stop int64) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.LTrim, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), parseExpectOk)
}

// RPop 弹出队尾 空list为nil
func (c *Connection) RPop(key string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.RPop, c.bs(key)), c.parseBulkString)
}

func (c *Connection) RPopAsBinary(key string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.RPop, c.bs(key)), parseBulk)
}

// RPopLPush 从source尾弹出并推入destination头
func (c *Connection) RPopLPush(source, destination string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.RPopLPush, c.bs(source), c.bs(destination)), c.parseBulkString)
}

func (c *Connection) RPopLPushAsBinary(source, destination string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.RPopLPush, c.bs(source), c.bs(destination)), parseBulk)
}

// RPush 推入队尾 返回新长度
func (c *Connection) RPush(key, element string, otherElements ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, element), otherElements)
	return sendCmd(c, command.New(command.RPush, args...), parseInteger)
}

func (c *Connection) RPushBinary(key string, element []byte, otherElements ...[]byte) *promise.Promise[int64] {
	args := append([][]byte{c.bs(key), element}, otherElements...)
	return sendCmd(c, command.New(command.RPush, args...), parseInteger)
}

// RPushX 仅当list已存在时推入
func (c *Connection) RPushX(key, element string, otherElements ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, element), otherElements)
	return sendCmd(c, command.New(command.RPushX, args...), parseInteger)
}
