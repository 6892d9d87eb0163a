package client

import (
	"fmt"

	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// hash命令

// HDel 删除field 返回实际删除的数量
func (c *Connection) HDel(key, field string, otherFields ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, field), otherFields)
	return sendCmd(c, command.New(command.HDel, args...), parseInteger)
}

// HExists field是否存在
func (c *Connection) HExists(key, field string) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.HExists, c.bs(key), c.bs(field)), parseBoolean)
}

// HGet field不存在时为nil
func (c *Connection) HGet(key, field string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.HGet, c.bs(key), c.bs(field)), c.parseBulkString)
}

func (c *Connection) HGetAsBinary(key, field string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.HGet, c.bs(key), c.bs(field)), parseBulk)
}

// HGetAll 整个hash 重复field以DuplicateFieldError失败 连接保持打开
func (c *Connection) HGetAll(key string) *promise.Promise[map[string]string] {
	return sendCmd(c, command.New(command.HGetAll, c.bs(key)), c.parseMapString)
}

func (c *Connection) HGetAllAsBinary(key string) *promise.Promise[map[string][]byte] {
	return sendCmd(c, command.New(command.HGetAll, c.bs(key)), c.parseMapBinary)
}

// HIncrBy field自增
func (c *Connection) HIncrBy(key, field string, incrByValue int64) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.HIncrBy, c.bs(key), c.bs(field), c.bs(i64(incrByValue))), parseInteger)
}

// HIncrByFloat field浮点自增
func (c *Connection) HIncrByFloat(key, field string, incrByValue float64) *promise.Promise[float64] {
	return sendCmd(c, command.New(command.HIncrByFloat, c.bs(key), c.bs(field), c.bs(f64(incrByValue))), c.parseDouble)
}

// HKeys 所有field
func (c *Connection) HKeys(key string) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.HKeys, c.bs(key)), c.parseStringsAsSet)
}

// HLen field数量
func (c *Connection) HLen(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.HLen, c.bs(key)), parseInteger)
}

// HMGet 不存在的field对应nil元素
func (c *Connection) HMGet(key, field string, otherFields ...string) *promise.Promise[[]*string] {
	args := c.appendStrings(c.args(key, field), otherFields)
	return sendCmd(c, command.New(command.HMGet, args...), c.parseNullableStrings)
}

func (c *Connection) HMGetAsBinary(key, field string, otherFields ...string) *promise.Promise[[][]byte] {
	args := c.appendStrings(c.args(key, field), otherFields)
	return sendCmd(c, command.New(command.HMGet, args...), parseNullableBytesList)
}

// HMSet 批量写入field
func (c *Connection) HMSet(key string, entries map[string][]byte) *promise.Promise[Void] {
	if len(entries) == 0 {
		return promise.Failed[Void](fmt.Errorf("%w: no entry to set", protocol.ErrIllegalArgument))
	}
	args := make([][]byte, 0, len(entries)*2+1)
	args = append(args, c.bs(key))
	for field, value := range entries {
		args = append(args, c.bs(field), value)
	}
	return sendCmd(c, command.New(command.HMSet, args...), parseExpectOk)
}

// HMSetStrings 变长字符串形态 field value交替
func (c *Connection) HMSetStrings(key, field, value string, otherFieldsAndValues ...string) *promise.Promise[Void] {
	if len(otherFieldsAndValues)%2 != 0 {
		return promise.Failed[Void](fmt.Errorf("%w: number of fields should equal number of values", protocol.ErrIllegalArgument))
	}
	args := c.appendStrings(c.args(key, field, value), otherFieldsAndValues)
	return sendCmd(c, command.New(command.HMSet, args...), parseExpectOk)
}

// HScan 遍历hash的一页
func (c *Connection) HScan(key, cursor string, modifiers ...command.ScanModifier) *promise.Promise[*ScanResult] {
	return c.doScan(command.HScan, key, cursor, "", modifiers)
}

// HSet 写入field 返回新建的field数量
func (c *Connection) HSet(key string, entries map[string][]byte) *promise.Promise[int64] {
	if len(entries) == 0 {
		return promise.Failed[int64](fmt.Errorf("%w: no entry to set", protocol.ErrIllegalArgument))
	}
	args := make([][]byte, 0, len(entries)*2+1)
	args = append(args, c.bs(key))
	for field, value := range entries {
		args = append(args, c.bs(field), value)
	}
	return sendCmd(c, command.New(command.HSet, args...), parseInteger)
}

// HSetStrings 变长字符串形态
func (c *Connection) HSetStrings(key, field, value string, otherFieldsAndValues ...string) *promise.Promise[int64] {
	if len(otherFieldsAndValues)%2 != 0 {
		return promise.Failed[int64](fmt.Errorf("%w: number of fields should equal number of values", protocol.ErrIllegalArgument))
	}
	args := c.appendStrings(c.args(key, field, value), otherFieldsAndValues)
	return sendCmd(c, command.New(command.HSet, args...), parseInteger)
}

// HSetNx 仅当field不存在时写入
func (c *Connection) HSetNx(key, field, value string) *promise.Promise[bool] {
	return c.HSetNxBinary(key, field, c.bs(value))
}

func (c *Connection) HSetNxBinary(key, field string, value []byte) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.HSetNx, c.bs(key), c.bs(field), value), parseBoolean)
}

// HStrLen field值的长度
func (c *Connection) HStrLen(key, field string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.HStrLen, c.bs(key), c.bs(field)), parseInteger)
}

// HVals 所有value
func (c *Connection) HVals(key string) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.HVals, c.bs(key)), c.parseStrings)
}

func (c *Connection) HValsAsBinary(key string) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.HVals, c.bs(key)), parseBytesList)
}
