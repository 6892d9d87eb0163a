package client

import (
	"fmt"
	"strings"

	"goredis/interface/redis"
	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// key空间命令

// Del 删除key 返回被删除的数量
func (c *Connection) Del(key string, otherKeys ...string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.Del, c.argsN(key, otherKeys)...), parseInteger)
}

// Dump 导出key的序列化形式
func (c *Connection) Dump(key string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.Dump, c.bs(key)), parseBulk)
}

// Exists key是否存在
func (c *Connection) Exists(key string) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.Exists, c.bs(key)), parseBoolean)
}

// ExistsCount 多key形态 返回存在的数量 同一key出现多次会被重复计数
func (c *Connection) ExistsCount(firstKey, secondKey string, otherKeys ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(firstKey, secondKey), otherKeys)
	return sendCmd(c, command.New(command.Exists, args...), parseInteger)
}

// Expire 设置过期时间(秒)
func (c *Connection) Expire(key string, ttlSeconds int64) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.Expire, c.bs(key), c.bs(i64(ttlSeconds))), parseBoolean)
}

// ExpireAt 设置过期时间点(unix秒)
func (c *Connection) ExpireAt(key string, unixTimestampSeconds int64) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.ExpireAt, c.bs(key), c.bs(i64(unixTimestampSeconds))), parseBoolean)
}

// Keys 匹配pattern的所有key
func (c *Connection) Keys(pattern string) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.Keys, c.bs(pattern)), c.parseStringsAsSet)
}

// Migrate 把key迁移到另一个实例 返回true表示迁移成功 +NOKEY表示源端没有该key
func (c *Connection) Migrate(host string, port int, key string, destinationDb int, timeoutMillis int64, modifiers ...command.MigrateModifier) *promise.Promise[bool] {
	if destinationDb < 0 {
		return promise.Failed[bool](fmt.Errorf("%w: negative destination DB index", protocol.ErrIllegalArgument))
	}
	if err := command.CheckMigrateModifiers(key == "", modifiers); err != nil {
		return promise.Failed[bool](err)
	}
	args := c.args(host, i64(int64(port)), key, i64(int64(destinationDb)), i64(timeoutMillis))
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return sendCmd(c, command.New(command.Migrate, args...), func(reply redis.Reply) (bool, error) {
		status, err := parseSimpleString(reply)
		if err != nil {
			return false, err
		}
		switch status {
		case protocol.OK:
			return true, nil
		case protocol.NoKey:
			return false, nil
		default:
			return false, protocol.NewUnexpectedResponseError("server responded with '" + status + "'")
		}
	})
}

// Move 把key移动到另一个数据库
func (c *Connection) Move(key string, dbIndex int) *promise.Promise[bool] {
	if dbIndex < 0 {
		return promise.Failed[bool](fmt.Errorf("%w: negative DB index", protocol.ErrIllegalArgument))
	}
	return sendCmd(c, command.New(command.Move, c.bs(key), c.bs(i64(int64(dbIndex)))), parseBoolean)
}

// ObjectEncoding key的内部编码 key不存在时为nil
func (c *Connection) ObjectEncoding(key string) *promise.Promise[*RedisEncoding] {
	return sendCmd(c, command.New(command.ObjectEncoding, c.bs(key)), c.parseEncoding)
}

// ObjectFreq LFU访问频率
func (c *Connection) ObjectFreq(key string) *promise.Promise[*int64] {
	return sendCmd(c, command.New(command.ObjectFreq, c.bs(key)), parseNullableInteger)
}

// ObjectHelp OBJECT子命令帮助文本
func (c *Connection) ObjectHelp() *promise.Promise[string] {
	return sendCmd(c, command.New(command.ObjectHelp), func(reply redis.Reply) (string, error) {
		lines, err := c.parseStrings(reply)
		if err != nil {
			return "", err
		}
		return strings.Join(lines, "\n"), nil
	})
}

// ObjectIdletime 空闲秒数
func (c *Connection) ObjectIdletime(key string) *promise.Promise[*int64] {
	return sendCmd(c, command.New(command.ObjectIdletime, c.bs(key)), parseNullableInteger)
}

// ObjectRefcount 引用计数
func (c *Connection) ObjectRefcount(key string) *promise.Promise[*int64] {
	return sendCmd(c, command.New(command.ObjectRefcount, c.bs(key)), parseNullableInteger)
}

// Persist 移除过期时间
func (c *Connection) Persist(key string) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.Persist, c.bs(key)), parseBoolean)
}

// PExpire 设置过期时间(毫秒)
func (c *Connection) PExpire(key string, ttlMillis int64) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.PExpire, c.bs(key), c.bs(i64(ttlMillis))), parseBoolean)
}

// PExpireAt 设置过期时间点(unix毫秒)
func (c *Connection) PExpireAt(key string, unixTimestampMillis int64) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.PExpireAt, c.bs(key), c.bs(i64(unixTimestampMillis))), parseBoolean)
}

// PTTL 剩余毫秒 -1无过期 -2不存在
func (c *Connection) PTTL(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.PTTL, c.bs(key)), parseInteger)
}

// RandomKey 随机key 库为空时nil
func (c *Connection) RandomKey() *promise.Promise[*string] {
	return sendCmd(c, command.New(command.RandomKey), c.parseBulkString)
}

// Rename 重命名key
func (c *Connection) Rename(key, newKey string) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.Rename, c.bs(key), c.bs(newKey)), parseExpectOk)
}

// RenameNx 仅当newKey不存在时重命名
func (c *Connection) RenameNx(key, newKey string) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.RenameNx, c.bs(key), c.bs(newKey)), parseBoolean)
}

// Restore 用DUMP的序列化形式重建key
func (c *Connection) Restore(key string, ttlMillis int64, dump []byte, modifiers ...command.RestoreModifier) *promise.Promise[Void] {
	if err := command.CheckRestoreModifiers(modifiers); err != nil {
		return promise.Failed[Void](err)
	}
	args := [][]byte{c.bs(key), c.bs(i64(ttlMillis)), dump}
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return sendCmd(c, command.New(command.Restore, args...), parseExpectOk)
}

// Scan 遍历key空间的一页
func (c *Connection) Scan(cursor string, modifiers ...command.ScanModifier) *promise.Promise[*ScanResult] {
	return c.doScan(command.Scan, "", cursor, "", modifiers)
}

// ScanOfType 带TYPE过滤的SCAN
func (c *Connection) ScanOfType(cursor string, keyType RedisType, modifiers ...command.ScanModifier) *promise.Promise[*ScanResult] {
	return c.doScan(command.Scan, "", cursor, keyType, modifiers)
}

// doScan SCAN族共用的构造 key为空表示全库SCAN
func (c *Connection) doScan(cmd command.Command, key, cursor string, keyType RedisType, modifiers []command.ScanModifier) *promise.Promise[*ScanResult] {
	if err := checkCursor(cursor); err != nil {
		return promise.Failed[*ScanResult](fmt.Errorf("%w: illegal cursor '%s'", protocol.ErrIllegalArgument, cursor))
	}
	if err := command.CheckScanModifiers(modifiers); err != nil {
		return promise.Failed[*ScanResult](err)
	}
	var args [][]byte
	if key != "" {
		args = append(args, c.bs(key))
	}
	args = append(args, c.bs(cursor))
	if keyType != "" {
		args = append(args, c.bs("TYPE"), c.bs(string(keyType)))
	}
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return sendCmd(c, command.New(cmd, args...), c.parseScanResult)
}

// Sort 排序结果按字符集解码
func (c *Connection) Sort(key string, modifiers ...command.SortModifier) *promise.Promise[[]string] {
	if err := command.CheckSortModifiers(modifiers); err != nil {
		return promise.Failed[[]string](err)
	}
	return sendCmd(c, command.New(command.Sort, c.sortArgs(key, modifiers)...), c.parseStrings)
}

// SortAsBinary 排序结果按原始字节返回
func (c *Connection) SortAsBinary(key string, modifiers ...command.SortModifier) *promise.Promise[[][]byte] {
	if err := command.CheckSortModifiers(modifiers); err != nil {
		return promise.Failed[[][]byte](err)
	}
	return sendCmd(c, command.New(command.Sort, c.sortArgs(key, modifiers)...), parseBytesList)
}

// SortStore 排序并写入destination 返回结果长度
func (c *Connection) SortStore(key, destination string, modifiers ...command.SortModifier) *promise.Promise[int64] {
	if err := command.CheckSortModifiers(modifiers); err != nil {
		return promise.Failed[int64](err)
	}
	args := append(c.sortArgs(key, modifiers), c.bs("STORE"), c.bs(destination))
	return sendCmd(c, command.New(command.Sort, args...), parseInteger)
}

func (c *Connection) sortArgs(key string, modifiers []command.SortModifier) [][]byte {
	args := [][]byte{c.bs(key)}
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return args
}

// Touch 更新访问时间 返回存在的key数量
func (c *Connection) Touch(key string, otherKeys ...string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.Touch, c.argsN(key, otherKeys)...), parseInteger)
}

// TTL 剩余秒数 -1无过期 -2不存在
func (c *Connection) TTL(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.TTL, c.bs(key)), parseInteger)
}

// Type key的值类型
func (c *Connection) Type(key string) *promise.Promise[RedisType] {
	return sendCmd(c, command.New(command.Type, c.bs(key)), c.parseType)
}

// Unlink 异步删除
func (c *Connection) Unlink(key string, otherKeys ...string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.Unlink, c.argsN(key, otherKeys)...), parseInteger)
}

// Wait 等待写命令同步到副本 返回确认的副本数
func (c *Connection) Wait(numberOfReplicas int, timeoutMillis int64) *promise.Promise[int64] {
	if numberOfReplicas < 0 || timeoutMillis < 0 {
		return promise.Failed[int64](fmt.Errorf("%w: WAIT arguments must not be negative", protocol.ErrIllegalArgument))
	}
	return sendCmd(c, command.New(command.Wait, c.bs(i64(int64(numberOfReplicas))), c.bs(i64(timeoutMillis))), parseInteger)
}
