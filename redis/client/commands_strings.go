package client

import (
	"fmt"

	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// string命令

// Append 追加并返回新长度
func (c *Connection) Append(key, value string) *promise.Promise[int64] {
	return c.AppendBinary(key, c.bs(value))
}

func (c *Connection) AppendBinary(key string, value []byte) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.Append, c.bs(key), value), parseInteger)
}

// BitCount 整个value的置位数
func (c *Connection) BitCount(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.BitCount, c.bs(key)), parseInteger)
}

// BitCountRange 字节区间内的置位数
func (c *Connection) BitCountRange(key string, start, end int) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.BitCount, c.bs(key), c.bs(i64(int64(start))), c.bs(i64(int64(end)))), parseInteger)
}

// BitOp 位运算并写入destKey NOT只接受单个源key
func (c *Connection) BitOp(operator command.BitOperator, destKey, sourceKey string, otherSourceKeys ...string) *promise.Promise[int64] {
	if operator == command.BitNot && len(otherSourceKeys) > 0 {
		return promise.Failed[int64](fmt.Errorf("%w: BITOP NOT must be called with a single source key", protocol.ErrIllegalArgument))
	}
	args := c.appendStrings(c.args(string(operator), destKey, sourceKey), otherSourceKeys)
	return sendCmd(c, command.New(command.BitOp, args...), parseInteger)
}

// BitPos 第一个值为bit的位置
func (c *Connection) BitPos(key string, bitIsSet bool) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.BitPos, c.bs(key), c.bs(bitArg(bitIsSet))), parseInteger)
}

func (c *Connection) BitPosFrom(key string, bitIsSet bool, start int) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.BitPos, c.bs(key), c.bs(bitArg(bitIsSet)), c.bs(i64(int64(start)))), parseInteger)
}

func (c *Connection) BitPosRange(key string, bitIsSet bool, start, end int) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.BitPos, c.bs(key), c.bs(bitArg(bitIsSet)), c.bs(i64(int64(start))), c.bs(i64(int64(end)))), parseInteger)
}

func bitArg(bitIsSet bool) string {
	if bitIsSet {
		return "1"
	}
	return "0"
}

// Decr 自减1
func (c *Connection) Decr(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.Decr, c.bs(key)), parseInteger)
}

// DecrBy 自减decrByValue
func (c *Connection) DecrBy(key string, decrByValue int64) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.DecrBy, c.bs(key), c.bs(i64(decrByValue))), parseInteger)
}

// Get key不存在时为nil
func (c *Connection) Get(key string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.Get, c.bs(key)), c.parseBulkString)
}

// GetAsBinary 原始字节形态的GET
func (c *Connection) GetAsBinary(key string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.Get, c.bs(key)), parseBulk)
}

// GetBit 读取offset处的bit
func (c *Connection) GetBit(key string, offset int) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.GetBit, c.bs(key), c.bs(i64(int64(offset)))), parseBoolean)
}

// GetRange 子串
func (c *Connection) GetRange(key string, start, end int) *promise.Promise[string] {
	return sendCmd(c, command.New(command.GetRange, c.bs(key), c.bs(i64(int64(start))), c.bs(i64(int64(end)))), c.parseNonNullBulkString)
}

func (c *Connection) GetRangeAsBinary(key string, start, end int) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.GetRange, c.bs(key), c.bs(i64(int64(start))), c.bs(i64(int64(end)))), parseBulk)
}

// GetSet 写入新值并返回旧值
func (c *Connection) GetSet(key, value string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.GetSet, c.bs(key), c.bs(value)), c.parseBulkString)
}

func (c *Connection) GetSetBinary(key string, value []byte) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.GetSet, c.bs(key), value), parseBulk)
}

// Incr 自增1
func (c *Connection) Incr(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.Incr, c.bs(key)), parseInteger)
}

// IncrBy 自增incrByValue
func (c *Connection) IncrBy(key string, incrByValue int64) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.IncrBy, c.bs(key), c.bs(i64(incrByValue))), parseInteger)
}

// IncrByFloat 浮点自增
func (c *Connection) IncrByFloat(key string, incrByFloatValue float64) *promise.Promise[float64] {
	return sendCmd(c, command.New(command.IncrByFloat, c.bs(key), c.bs(f64(incrByFloatValue))), c.parseDouble)
}

// MGet 不存在的key对应nil元素
func (c *Connection) MGet(key string, otherKeys ...string) *promise.Promise[[]*string] {
	return sendCmd(c, command.New(command.MGet, c.argsN(key, otherKeys)...), c.parseNullableStrings)
}

func (c *Connection) MGetAsBinary(key string, otherKeys ...string) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.MGet, c.argsN(key, otherKeys)...), parseNullableBytesList)
}

// MSet 批量写入
func (c *Connection) MSet(entries map[string][]byte) *promise.Promise[Void] {
	if len(entries) == 0 {
		return promise.Failed[Void](fmt.Errorf("%w: no entry to set", protocol.ErrIllegalArgument))
	}
	args := make([][]byte, 0, len(entries)*2)
	for key, value := range entries {
		args = append(args, c.bs(key), value)
	}
	return sendCmd(c, command.New(command.MSet, args...), parseExpectOk)
}

// MSetStrings 变长字符串形态 key value交替
func (c *Connection) MSetStrings(key, value string, otherKeysAndValues ...string) *promise.Promise[Void] {
	if len(otherKeysAndValues)%2 != 0 {
		return promise.Failed[Void](fmt.Errorf("%w: number of keys should equal number of values", protocol.ErrIllegalArgument))
	}
	args := c.appendStrings(c.args(key, value), otherKeysAndValues)
	return sendCmd(c, command.New(command.MSet, args...), parseExpectOk)
}

// MSetNx 所有key都不存在时才写入
func (c *Connection) MSetNx(entries map[string][]byte) *promise.Promise[bool] {
	if len(entries) == 0 {
		return promise.Failed[bool](fmt.Errorf("%w: no entry to set", protocol.ErrIllegalArgument))
	}
	args := make([][]byte, 0, len(entries)*2)
	for key, value := range entries {
		args = append(args, c.bs(key), value)
	}
	return sendCmd(c, command.New(command.MSetNx, args...), parseBoolean)
}

// PSetEx 写入并设置毫秒级过期
func (c *Connection) PSetEx(key string, millis int64, value string) *promise.Promise[Void] {
	return c.PSetExBinary(key, millis, c.bs(value))
}

func (c *Connection) PSetExBinary(key string, millis int64, value []byte) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.PSetEx, c.bs(key), c.bs(i64(millis)), value), parseExpectOk)
}

// Set 带NX/XX修饰符时未写入返回nil
func (c *Connection) Set(key, value string, modifiers ...command.SetModifier) *promise.Promise[*string] {
	return c.SetBinary(key, c.bs(value), modifiers...)
}

func (c *Connection) SetBinary(key string, value []byte, modifiers ...command.SetModifier) *promise.Promise[*string] {
	if err := command.CheckSetModifiers(modifiers); err != nil {
		return promise.Failed[*string](err)
	}
	args := [][]byte{c.bs(key), value}
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return sendCmd(c, command.New(command.Set, args...), c.parseString)
}

// SetBit 写入offset处的bit 返回旧值
func (c *Connection) SetBit(key string, offset int, value bool) *promise.Promise[bool] {
	if offset < 0 {
		return promise.Failed[bool](fmt.Errorf("%w: offset must not be less than 0", protocol.ErrIllegalArgument))
	}
	return sendCmd(c, command.New(command.SetBit, c.bs(key), c.bs(i64(int64(offset))), c.bs(bitArg(value))), parseBoolean)
}

// SetEx 写入并设置秒级过期
func (c *Connection) SetEx(key string, seconds int64, value string) *promise.Promise[Void] {
	return c.SetExBinary(key, seconds, c.bs(value))
}

func (c *Connection) SetExBinary(key string, seconds int64, value []byte) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.SetEx, c.bs(key), c.bs(i64(seconds)), value), parseExpectOk)
}

// SetNx 仅当key不存在时写入
func (c *Connection) SetNx(key, value string) *promise.Promise[bool] {
	return c.SetNxBinary(key, c.bs(value))
}

func (c *Connection) SetNxBinary(key string, value []byte) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.SetNx, c.bs(key), value), parseBoolean)
}

// SetRange 覆写子串 返回新长度
func (c *Connection) SetRange(key string, offset int, value string) *promise.Promise[int64] {
	return c.SetRangeBinary(key, offset, c.bs(value))
}

func (c *Connection) SetRangeBinary(key string, offset int, value []byte) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.SetRange, c.bs(key), c.bs(i64(int64(offset))), value), parseInteger)
}

// StrLen 值长度
func (c *Connection) StrLen(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.StrLen, c.bs(key)), parseInteger)
}
