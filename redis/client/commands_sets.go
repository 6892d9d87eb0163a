package client

import (
	"goredis/lib/sync/promise"
	"goredis/redis/command"
)

// set命令

// SAdd 添加member 返回实际新增的数量
func (c *Connection) SAdd(key, member string, otherMembers ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, member), otherMembers)
	return sendCmd(c, command.New(command.SAdd, args...), parseInteger)
}

func (c *Connection) SAddBinary(key string, member []byte, otherMembers ...[]byte) *promise.Promise[int64] {
	args := append([][]byte{c.bs(key), member}, otherMembers...)
	return sendCmd(c, command.New(command.SAdd, args...), parseInteger)
}

// SCard 集合大小
func (c *Connection) SCard(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.SCard, c.bs(key)), parseInteger)
}

// SDiff 差集
func (c *Connection) SDiff(key string, otherKeys ...string) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.SDiff, c.argsN(key, otherKeys)...), c.parseStringsAsSet)
}

func (c *Connection) SDiffAsBinary(key string, otherKeys ...string) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.SDiff, c.argsN(key, otherKeys)...), parseBytesList)
}

// SDiffStore 差集写入destination 返回结果大小
func (c *Connection) SDiffStore(destination, key string, otherKeys ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(destination, key), otherKeys)
	return sendCmd(c, command.New(command.SDiffStore, args...), parseInteger)
}

// SInter 交集
func (c *Connection) SInter(key string, otherKeys ...string) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.SInter, c.argsN(key, otherKeys)...), c.parseStringsAsSet)
}

func (c *Connection) SInterAsBinary(key string, otherKeys ...string) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.SInter, c.argsN(key, otherKeys)...), parseBytesList)
}

// SInterStore 交集写入destination
func (c *Connection) SInterStore(destination, key string, otherKeys ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(destination, key), otherKeys)
	return sendCmd(c, command.New(command.SInterStore, args...), parseInteger)
}

// SIsMember member是否在集合中
func (c *Connection) SIsMember(key, member string) *promise.Promise[bool] {
	return c.SIsMemberBinary(key, c.bs(member))
}

func (c *Connection) SIsMemberBinary(key string, member []byte) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.SIsMember, c.bs(key), member), parseBoolean)
}

// SMembers 全部member
func (c *Connection) SMembers(key string) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.SMembers, c.bs(key)), c.parseStringsAsSet)
}

func (c *Connection) SMembersAsBinary(key string) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.SMembers, c.bs(key)), parseBytesList)
}

// SMove 把member从source移到destination
func (c *Connection) SMove(source, destination, member string) *promise.Promise[bool] {
	return c.SMoveBinary(source, destination, c.bs(member))
}

func (c *Connection) SMoveBinary(source, destination string, member []byte) *promise.Promise[bool] {
	return sendCmd(c, command.New(command.SMove, c.bs(source), c.bs(destination), member), parseBoolean)
}

// SPop 随机弹出一个member 空集合为nil
func (c *Connection) SPop(key string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.SPop, c.bs(key)), c.parseBulkString)
}

func (c *Connection) SPopAsBinary(key string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.SPop, c.bs(key)), parseBulk)
}

// SPopCount 随机弹出count个member
func (c *Connection) SPopCount(key string, count int64) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.SPop, c.bs(key), c.bs(i64(count))), c.parseStringsAsSet)
}

func (c *Connection) SPopCountAsBinary(key string, count int64) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.SPop, c.bs(key), c.bs(i64(count))), parseBytesList)
}

// SRandMember 随机取一个member 不弹出
func (c *Connection) SRandMember(key string) *promise.Promise[*string] {
	return sendCmd(c, command.New(command.SRandMember, c.bs(key)), c.parseBulkString)
}

func (c *Connection) SRandMemberAsBinary(key string) *promise.Promise[[]byte] {
	return sendCmd(c, command.New(command.SRandMember, c.bs(key)), parseBulk)
}

// SRandMemberCount count为负时可能返回重复元素 因此结果是list
func (c *Connection) SRandMemberCount(key string, count int64) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.SRandMember, c.bs(key), c.bs(i64(count))), c.parseStrings)
}

func (c *Connection) SRandMemberCountAsBinary(key string, count int64) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.SRandMember, c.bs(key), c.bs(i64(count))), parseBytesList)
}

// SRem 删除member 返回实际删除的数量
func (c *Connection) SRem(key, member string, otherMembers ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, member), otherMembers)
	return sendCmd(c, command.New(command.SRem, args...), parseInteger)
}

func (c *Connection) SRemBinary(key string, member []byte, otherMembers ...[]byte) *promise.Promise[int64] {
	args := append([][]byte{c.bs(key), member}, otherMembers...)
	return sendCmd(c, command.New(command.SRem, args...), parseInteger)
}

// SScan 遍历集合的一页
func (c *Connection) SScan(key, cursor string, modifiers ...command.ScanModifier) *promise.Promise[*ScanResult] {
	return c.doScan(command.SScan, key, cursor, "", modifiers)
}

// SUnion 并集
func (c *Connection) SUnion(key string, otherKeys ...string) *promise.Promise[map[string]struct{}] {
	return sendCmd(c, command.New(command.SUnion, c.argsN(key, otherKeys)...), c.parseStringsAsSet)
}

func (c *Connection) SUnionAsBinary(key string, otherKeys ...string) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.SUnion, c.argsN(key, otherKeys)...), parseBytesList)
}

// SUnionStore 并集写入destination
func (c *Connection) SUnionStore(destination, key string, otherKeys ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(destination, key), otherKeys)
	return sendCmd(c, command.New(command.SUnionStore, args...), parseInteger)
}
