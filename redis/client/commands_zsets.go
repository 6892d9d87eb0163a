package client

import (
	"fmt"

	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// sorted set命令

// BZPopMin 阻塞弹出最小score 超时后nil
func (c *Connection) BZPopMin(timeoutSeconds float64, key string, otherKeys ...string) *promise.Promise[*SetBlockingPopResult] {
	args := append(c.argsN(key, otherKeys), c.bs(f64(timeoutSeconds)))
	return sendCmd(c, command.New(command.BZPopMin, args...), c.parseSetBlockingPopResult)
}

// BZPopMax 阻塞弹出最大score
func (c *Connection) BZPopMax(timeoutSeconds float64, key string, otherKeys ...string) *promise.Promise[*SetBlockingPopResult] {
	args := append(c.argsN(key, otherKeys), c.bs(f64(timeoutSeconds)))
	return sendCmd(c, command.New(command.BZPopMax, args...), c.parseSetBlockingPopResult)
}

// ZAdd 写入member及score 返回新增的数量
// RESP参数顺序是score member 与map的键值相反
func (c *Connection) ZAdd(key string, entries map[string]float64, modifiers ...command.ZaddModifier) *promise.Promise[int64] {
	if len(entries) == 0 {
		return promise.Failed[int64](fmt.Errorf("%w: no entry to add", protocol.ErrIllegalArgument))
	}
	if err := command.CheckZaddModifiers(modifiers); err != nil {
		return promise.Failed[int64](err)
	}
	args := make([][]byte, 0, len(entries)*2+len(modifiers)+1)
	args = append(args, c.bs(key))
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	for member, score := range entries {
		args = append(args, c.bs(f64(score)), c.bs(member))
	}
	return sendCmd(c, command.New(command.ZAdd, args...), parseInteger)
}

// ZAddIncr INCR形态 行为等同ZINCRBY 返回新score
func (c *Connection) ZAddIncr(key string, score float64, member string, modifiers ...command.ZaddModifier) *promise.Promise[*float64] {
	if err := command.CheckZaddModifiers(modifiers); err != nil {
		return promise.Failed[*float64](err)
	}
	args := make([][]byte, 0, len(modifiers)+4)
	args = append(args, c.bs(key))
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	args = append(args, c.bs("INCR"), c.bs(f64(score)), c.bs(member))
	return sendCmd(c, command.New(command.ZAdd, args...), c.parseNullableDouble)
}

// ZCard 集合大小
func (c *Connection) ZCard(key string) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.ZCard, c.bs(key)), parseInteger)
}

// ZCount score区间内的member数量
func (c *Connection) ZCount(key string, interval Interval) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.ZCount, c.bs(key), c.bs(interval.Min), c.bs(interval.Max)), parseInteger)
}

// ZIncrBy member的score自增
func (c *Connection) ZIncrBy(key string, increment float64, member string) *promise.Promise[float64] {
	return sendCmd(c, command.New(command.ZIncrBy, c.bs(key), c.bs(f64(increment)), c.bs(member)), c.parseDouble)
}

// ZInterStore 交集写入destination
func (c *Connection) ZInterStore(destination string, key string, otherKeys ...string) *promise.Promise[int64] {
	return c.doZStore(command.ZInterStore, destination, "", c.argsN(key, otherKeys), nil)
}

// ZInterStoreWeighted 带权重与聚合方式的交集 aggregate为空表示SUM
func (c *Connection) ZInterStoreWeighted(destination string, entries map[string]float64, aggregate Aggregate) *promise.Promise[int64] {
	if len(entries) == 0 {
		return promise.Failed[int64](fmt.Errorf("%w: no key specified", protocol.ErrIllegalArgument))
	}
	keys, weights := c.splitWeighted(entries)
	return c.doZStore(command.ZInterStore, destination, aggregate, keys, weights)
}

// ZUnionStore 并集写入destination
func (c *Connection) ZUnionStore(destination string, key string, otherKeys ...string) *promise.Promise[int64] {
	return c.doZStore(command.ZUnionStore, destination, "", c.argsN(key, otherKeys), nil)
}

// ZUnionStoreWeighted 带权重与聚合方式的并集
func (c *Connection) ZUnionStoreWeighted(destination string, entries map[string]float64, aggregate Aggregate) *promise.Promise[int64] {
	if len(entries) == 0 {
		return promise.Failed[int64](fmt.Errorf("%w: no key specified", protocol.ErrIllegalArgument))
	}
	keys, weights := c.splitWeighted(entries)
	return c.doZStore(command.ZUnionStore, destination, aggregate, keys, weights)
}

func (c *Connection) splitWeighted(entries map[string]float64) (keys, weights [][]byte) {
	for key, weight := range entries {
		keys = append(keys, c.bs(key))
		weights = append(weights, c.bs(f64(weight)))
	}
	return keys, weights
}

func (c *Connection) doZStore(cmd command.Command, destination string, aggregate Aggregate, keys, weights [][]byte) *promise.Promise[int64] {
	args := make([][]byte, 0, len(keys)+len(weights)+5)
	args = append(args, c.bs(destination), c.bs(i64(int64(len(keys)))))
	args = append(args, keys...)
	if len(weights) > 0 {
		args = append(args, c.bs("WEIGHTS"))
		args = append(args, weights...)
	}
	if aggregate != "" {
		args = append(args, c.bs("AGGREGATE"), c.bs(string(aggregate)))
	}
	return sendCmd(c, command.New(cmd, args...), parseInteger)
}

// ZLexCount lex区间内的member数量
func (c *Connection) ZLexCount(key string, interval Interval) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.ZLexCount, c.bs(key), c.bs(interval.Min), c.bs(interval.Max)), parseInteger)
}

// ZPopMax 弹出count个最大score的member
func (c *Connection) ZPopMax(key string, count int64) *promise.Promise[[]*SetPopResult] {
	if count == 1 {
		return sendCmd(c, command.New(command.ZPopMax, c.bs(key)), c.parseSetPopResults)
	}
	return sendCmd(c, command.New(command.ZPopMax, c.bs(key), c.bs(i64(count))), c.parseSetPopResults)
}

// ZPopMin 弹出count个最小score的member
func (c *Connection) ZPopMin(key string, count int64) *promise.Promise[[]*SetPopResult] {
	if count == 1 {
		return sendCmd(c, command.New(command.ZPopMin, c.bs(key)), c.parseSetPopResults)
	}
	return sendCmd(c, command.New(command.ZPopMin, c.bs(key), c.bs(i64(count))), c.parseSetPopResults)
}

// ZRange 按下标区间取member score升序
func (c *Connection) ZRange(key string, start, stop int64) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.ZRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), c.parseStrings)
}

func (c *Connection) ZRangeAsBinary(key string, start, stop int64) *promise.Promise[[][]byte] {
	return sendCmd(c, command.New(command.ZRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), parseBytesList)
}

// ZRangeWithScores 带score的下标区间
func (c *Connection) ZRangeWithScores(key string, start, stop int64) *promise.Promise[map[string]float64] {
	return sendCmd(c, command.New(command.ZRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop)), c.bs("WITHSCORES")), c.parseMapWithScores)
}

// ZRangeByLex lex区间
func (c *Connection) ZRangeByLex(key string, interval Interval) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.ZRangeByLex, c.bs(key), c.bs(interval.Min), c.bs(interval.Max)), c.parseStrings)
}

// ZRangeByLexLimit 带LIMIT的lex区间
func (c *Connection) ZRangeByLexLimit(key string, interval Interval, offset, count int64) *promise.Promise[[]string] {
	args := c.args(key, interval.Min, interval.Max, "LIMIT", i64(offset), i64(count))
	return sendCmd(c, command.New(command.ZRangeByLex, args...), c.parseStrings)
}

// ZRangeByScore score区间
func (c *Connection) ZRangeByScore(key string, interval Interval) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.ZRangeByScore, c.bs(key), c.bs(interval.Min), c.bs(interval.Max)), c.parseStrings)
}

// ZRangeByScoreLimit 带LIMIT的score区间
func (c *Connection) ZRangeByScoreLimit(key string, interval Interval, offset, count int64) *promise.Promise[[]string] {
	args := c.args(key, interval.Min, interval.Max, "LIMIT", i64(offset), i64(count))
	return sendCmd(c, command.New(command.ZRangeByScore, args...), c.parseStrings)
}

// ZRangeByScoreWithScores 带score的score区间
func (c *Connection) ZRangeByScoreWithScores(key string, interval Interval) *promise.Promise[map[string]float64] {
	args := c.args(key, interval.Min, interval.Max, "WITHSCORES")
	return sendCmd(c, command.New(command.ZRangeByScore, args...), c.parseMapWithScores)
}

// ZRank member的升序排名 不存在时nil
func (c *Connection) ZRank(key, member string) *promise.Promise[*int64] {
	return sendCmd(c, command.New(command.ZRank, c.bs(key), c.bs(member)), parseNullableInteger)
}

// ZRem 删除member 返回实际删除的数量
func (c *Connection) ZRem(key, member string, otherMembers ...string) *promise.Promise[int64] {
	args := c.appendStrings(c.args(key, member), otherMembers)
	return sendCmd(c, command.New(command.ZRem, args...), parseInteger)
}

// ZRemRangeByLex 删除lex区间
func (c *Connection) ZRemRangeByLex(key string, interval Interval) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.ZRemRangeByLex, c.bs(key), c.bs(interval.Min), c.bs(interval.Max)), parseInteger)
}

// ZRemRangeByRank 删除下标区间
func (c *Connection) ZRemRangeByRank(key string, start, stop int64) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.ZRemRangeByRank, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), parseInteger)
}

// ZRemRangeByScore 删除score区间
func (c *Connection) ZRemRangeByScore(key string, interval Interval) *promise.Promise[int64] {
	return sendCmd(c, command.New(command.ZRemRangeByScore, c.bs(key), c.bs(interval.Min), c.bs(interval.Max)), parseInteger)
}

// ZRevRange 按下标区间取member score降序
func (c *Connection) ZRevRange(key string, start, stop int64) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.ZRevRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop))), c.parseStrings)
}

// ZRevRangeWithScores 带score的降序下标区间
func (c *Connection) ZRevRangeWithScores(key string, start, stop int64) *promise.Promise[map[string]float64] {
	return sendCmd(c, command.New(command.ZRevRange, c.bs(key), c.bs(i64(start)), c.bs(i64(stop)), c.bs("WITHSCORES")), c.parseMapWithScores)
}

// ZRevRangeByLex 降序lex区间 注意端点顺序是max min
func (c *Connection) ZRevRangeByLex(key string, interval Interval) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.ZRevRangeByLex, c.bs(key), c.bs(interval.Max), c.bs(interval.Min)), c.parseStrings)
}

// ZRevRangeByScore 降序score区间 注意端点顺序是max min
func (c *Connection) ZRevRangeByScore(key string, interval Interval) *promise.Promise[[]string] {
	return sendCmd(c, command.New(command.ZRevRangeByScore, c.bs(key), c.bs(interval.Max), c.bs(interval.Min)), c.parseStrings)
}

// ZRevRank member的降序排名 不存在时nil
func (c *Connection) ZRevRank(key, member string) *promise.Promise[*int64] {
	return sendCmd(c, command.New(command.ZRevRank, c.bs(key), c.bs(member)), parseNullableInteger)
}

// ZScan 遍历sorted set的一页
func (c *Connection) ZScan(key, cursor string, modifiers ...command.ScanModifier) *promise.Promise[*ScanResult] {
	return c.doScan(command.ZScan, key, cursor, "", modifiers)
}

// ZScore member的score 不存在时nil
func (c *Connection) ZScore(key, member string) *promise.Promise[*float64] {
	return sendCmd(c, command.New(command.ZScore, c.bs(key), c.bs(member)), c.parseNullableDouble)
}
