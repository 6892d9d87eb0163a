package client

import (
	"strconv"
)

// 命令包装层的参数构造辅助 字符串参数统一经过连接字符集

func (c *Connection) bs(s string) []byte {
	return c.charset.Encode(s)
}

func (c *Connection) args(strs ...string) [][]byte {
	result := make([][]byte, len(strs))
	for i, s := range strs {
		result[i] = c.bs(s)
	}
	return result
}

// argsN 首参数+变长参数的常见形态
func (c *Connection) argsN(first string, rest []string) [][]byte {
	result := make([][]byte, 0, len(rest)+1)
	result = append(result, c.bs(first))
	for _, s := range rest {
		result = append(result, c.bs(s))
	}
	return result
}

// appendStrings 把若干字符串追加为参数
func (c *Connection) appendStrings(args [][]byte, strs []string) [][]byte {
	for _, s := range strs {
		args = append(args, c.bs(s))
	}
	return args
}

func i64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func f64(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Interval ZRANGEBYSCORE/ZRANGEBYLEX等命令的区间端点
// 端点按Redis区间语法书写 如"1.5" "(1.5" "-inf" "[a" "-" "+"
type Interval struct {
	Min string
	Max string
}

// ScoreRange 闭区间[min, max]
func ScoreRange(min, max float64) Interval {
	return Interval{Min: f64(min), Max: f64(max)}
}

// ScoreRangeAll (-inf, +inf)
func ScoreRangeAll() Interval {
	return Interval{Min: "-inf", Max: "+inf"}
}

// Aggregate ZINTERSTORE/ZUNIONSTORE的聚合方式
type Aggregate string

const (
	AggregateSum Aggregate = "SUM"
	AggregateMin Aggregate = "MIN"
	AggregateMax Aggregate = "MAX"
)

// InsertPosition LINSERT的插入位置
type InsertPosition string

const (
	InsertBefore InsertPosition = "BEFORE"
	InsertAfter  InsertPosition = "AFTER"
)
