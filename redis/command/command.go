package command

import (
	"bytes"
	"strconv"
	"strings"

	"goredis/redis/protocol"
)

// Command 命令操作码 以大写ASCII名称上线
// 多词命令(如CLIENT SETNAME)中的空格是参数边界 编码时拆为多个bulk string
type Command string

const (
	Auth          Command = "AUTH"
	ClientGetname Command = "CLIENT GETNAME"
	ClientPause   Command = "CLIENT PAUSE"
	ClientSetname Command = "CLIENT SETNAME"
	Echo          Command = "ECHO"
	Ping          Command = "PING"
	Quit          Command = "QUIT"
	Select        Command = "SELECT"

	DBSize   Command = "DBSIZE"
	FlushAll Command = "FLUSHALL"

	Del            Command = "DEL"
	Dump           Command = "DUMP"
	Exists         Command = "EXISTS"
	Expire         Command = "EXPIRE"
	ExpireAt       Command = "EXPIREAT"
	Keys           Command = "KEYS"
	Migrate        Command = "MIGRATE"
	Move           Command = "MOVE"
	ObjectEncoding Command = "OBJECT ENCODING"
	ObjectFreq     Command = "OBJECT FREQ"
	ObjectHelp     Command = "OBJECT HELP"
	ObjectIdletime Command = "OBJECT IDLETIME"
	ObjectRefcount Command = "OBJECT REFCOUNT"
	Persist        Command = "PERSIST"
	PExpire        Command = "PEXPIRE"
	PExpireAt      Command = "PEXPIREAT"
	PTTL           Command = "PTTL"
	RandomKey      Command = "RANDOMKEY"
	Rename         Command = "RENAME"
	RenameNx       Command = "RENAMENX"
	Restore        Command = "RESTORE"
	Scan           Command = "SCAN"
	Sort           Command = "SORT"
	Touch          Command = "TOUCH"
	TTL            Command = "TTL"
	Type           Command = "TYPE"
	Unlink         Command = "UNLINK"
	Wait           Command = "WAIT"

	Append      Command = "APPEND"
	BitCount    Command = "BITCOUNT"
	BitOp       Command = "BITOP"
	BitPos      Command = "BITPOS"
	Decr        Command = "DECR"
	DecrBy      Command = "DECRBY"
	Get         Command = "GET"
	GetBit      Command = "GETBIT"
	GetRange    Command = "GETRANGE"
	GetSet      Command = "GETSET"
	Incr        Command = "INCR"
	IncrBy      Command = "INCRBY"
	IncrByFloat Command = "INCRBYFLOAT"
	MGet        Command = "MGET"
	MSet        Command = "MSET"
	MSetNx      Command = "MSETNX"
	PSetEx      Command = "PSETEX"
	Set         Command = "SET"
	SetBit      Command = "SETBIT"
	SetEx       Command = "SETEX"
	SetNx       Command = "SETNX"
	SetRange    Command = "SETRANGE"
	StrLen      Command = "STRLEN"

	BLPop      Command = "BLPOP"
	BRPop      Command = "BRPOP"
	BRPopLPush Command = "BRPOPLPUSH"
	LIndex     Command = "LINDEX"
	LInsert    Command = "LINSERT"
	LLen       Command = "LLEN"
	LPop       Command = "LPOP"
	LPos       Command = "LPOS"
	LPush      Command = "LPUSH"
	LPushX     Command = "LPUSHX"
	LRange     Command = "LRANGE"
	LRem       Command = "LREM"
	LSet       Command = "LSET"
	LTrim      Command = "LTRIM"
	RPop       Command = "RPOP"
	RPopLPush  Command = "RPOPLPUSH"
	RPush      Command = "RPUSH"
	RPushX     Command = "RPUSHX"

	HDel         Command = "HDEL"
	HExists      Command = "HEXISTS"
	HGet         Command = "HGET"
	HGetAll      Command = "HGETALL"
	HIncrBy      Command = "HINCRBY"
	HIncrByFloat Command = "HINCRBYFLOAT"
	HKeys        Command = "HKEYS"
	HLen         Command = "HLEN"
	HMGet        Command = "HMGET"
	HMSet        Command = "HMSET"
	HScan        Command = "HSCAN"
	HSet         Command = "HSET"
	HSetNx       Command = "HSETNX"
	HStrLen      Command = "HSTRLEN"
	HVals        Command = "HVALS"

	SAdd        Command = "SADD"
	SCard       Command = "SCARD"
	SDiff       Command = "SDIFF"
	SDiffStore  Command = "SDIFFSTORE"
	SInter      Command = "SINTER"
	SInterStore Command = "SINTERSTORE"
	SIsMember   Command = "SISMEMBER"
	SMembers    Command = "SMEMBERS"
	SMove       Command = "SMOVE"
	SPop        Command = "SPOP"
	SRandMember Command = "SRANDMEMBER"
	SRem        Command = "SREM"
	SScan       Command = "SSCAN"
	SUnion      Command = "SUNION"
	SUnionStore Command = "SUNIONSTORE"

	BZPopMax         Command = "BZPOPMAX"
	BZPopMin         Command = "BZPOPMIN"
	ZAdd             Command = "ZADD"
	ZCard            Command = "ZCARD"
	ZCount           Command = "ZCOUNT"
	ZIncrBy          Command = "ZINCRBY"
	ZInterStore      Command = "ZINTERSTORE"
	ZLexCount        Command = "ZLEXCOUNT"
	ZPopMax          Command = "ZPOPMAX"
	ZPopMin          Command = "ZPOPMIN"
	ZRange           Command = "ZRANGE"
	ZRangeByLex      Command = "ZRANGEBYLEX"
	ZRangeByScore    Command = "ZRANGEBYSCORE"
	ZRank            Command = "ZRANK"
	ZRem             Command = "ZREM"
	ZRemRangeByLex   Command = "ZREMRANGEBYLEX"
	ZRemRangeByRank  Command = "ZREMRANGEBYRANK"
	ZRemRangeByScore Command = "ZREMRANGEBYSCORE"
	ZRevRange        Command = "ZREVRANGE"
	ZRevRangeByLex   Command = "ZREVRANGEBYLEX"
	ZRevRangeByScore Command = "ZREVRANGEBYSCORE"
	ZRevRank         Command = "ZREVRANK"
	ZScan            Command = "ZSCAN"
	ZScore           Command = "ZSCORE"
	ZUnionStore      Command = "ZUNIONSTORE"

	GeoAdd            Command = "GEOADD"
	GeoDist           Command = "GEODIST"
	GeoHash           Command = "GEOHASH"
	GeoPos            Command = "GEOPOS"
	GeoRadius         Command = "GEORADIUS"
	GeoRadiusByMember Command = "GEORADIUSBYMEMBER"

	Multi   Command = "MULTI"
	Exec    Command = "EXEC"
	Discard Command = "DISCARD"
	Watch   Command = "WATCH"
	Unwatch Command = "UNWATCH"
)

// minArity 每个命令的最小参数个数(不含操作码) 提交前的保底校验
// 参数上限不做限制 变长命令由各自的包装方法负责
var minArity = map[Command]int{
	Auth: 1, ClientGetname: 0, ClientPause: 1, ClientSetname: 1,
	Echo: 1, Ping: 0, Quit: 0, Select: 1,
	DBSize: 0, FlushAll: 0,
	Del: 1, Dump: 1, Exists: 1, Expire: 2, ExpireAt: 2, Keys: 1,
	Migrate: 5, Move: 2, ObjectEncoding: 1, ObjectFreq: 1, ObjectHelp: 0,
	ObjectIdletime: 1, ObjectRefcount: 1, Persist: 1, PExpire: 2, PExpireAt: 2,
	PTTL: 1, RandomKey: 0, Rename: 2, RenameNx: 2, Restore: 3, Scan: 1,
	Sort: 1, Touch: 1, TTL: 1, Type: 1, Unlink: 1, Wait: 2,
	Append: 2, BitCount: 1, BitOp: 3, BitPos: 2, Decr: 1, DecrBy: 2,
	Get: 1, GetBit: 2, GetRange: 3, GetSet: 2, Incr: 1, IncrBy: 2,
	IncrByFloat: 2, MGet: 1, MSet: 2, MSetNx: 2, PSetEx: 3, Set: 2,
	SetBit: 3, SetEx: 3, SetNx: 2, SetRange: 3, StrLen: 1,
	BLPop: 2, BRPop: 2, BRPopLPush: 3, LIndex: 2, LInsert: 4, LLen: 1,
	LPop: 1, LPos: 2, LPush: 2, LPushX: 2, LRange: 3, LRem: 3, LSet: 3,
	LTrim: 3, RPop: 1, RPopLPush: 2, RPush: 2, RPushX: 2,
	HDel: 2, HExists: 2, HGet: 2, HGetAll: 1, HIncrBy: 3, HIncrByFloat: 3,
	HKeys: 1, HLen: 1, HMGet: 2, HMSet: 3, HScan: 2, HSet: 3, HSetNx: 3,
	HStrLen: 2, HVals: 1,
	SAdd: 2, SCard: 1, SDiff: 1, SDiffStore: 2, SInter: 1, SInterStore: 2,
	SIsMember: 2, SMembers: 1, SMove: 3, SPop: 1, SRandMember: 1, SRem: 2,
	SScan: 2, SUnion: 1, SUnionStore: 2,
	BZPopMax: 2, BZPopMin: 2, ZAdd: 3, ZCard: 1, ZCount: 3, ZIncrBy: 3,
	ZInterStore: 3, ZLexCount: 3, ZPopMax: 1, ZPopMin: 1, ZRange: 3,
	ZRangeByLex: 3, ZRangeByScore: 3, ZRank: 2, ZRem: 2, ZRemRangeByLex: 3,
	ZRemRangeByRank: 3, ZRemRangeByScore: 3, ZRevRange: 3, ZRevRangeByLex: 3,
	ZRevRangeByScore: 3, ZRevRank: 2, ZScan: 2, ZScore: 2, ZUnionStore: 3,
	GeoAdd: 4, GeoDist: 3, GeoHash: 2, GeoPos: 2, GeoRadius: 5,
	GeoRadiusByMember: 4,
	Multi: 0, Exec: 0, Discard: 0, Watch: 1, Unwatch: 0,
}

// RedisCommand 一条待发送的命令 构造后不可变
type RedisCommand struct {
	name Command
	args [][]byte
}

// New 创建一条命令 参数按原始二进制发送 编码器不会再做转换
func New(name Command, args ...[]byte) *RedisCommand {
	return &RedisCommand{
		name: name,
		args: args,
	}
}

func (c *RedisCommand) Name() Command {
	return c.name
}

func (c *RedisCommand) Args() [][]byte {
	return c.args
}

// Validate 按命令表做最小参数个数校验
func (c *RedisCommand) Validate() error {
	min, ok := minArity[c.name]
	if !ok {
		return nil
	}
	if len(c.args) < min {
		return protocol.ErrIllegalArgument
	}
	return nil
}

// ToBytes 编码为*<N>\r\n$<len>\r\n<bytes>\r\n...的数组形式
// 操作码的每个单词都是一个独立的参数
func (c *RedisCommand) ToBytes() []byte {
	words := strings.Split(string(c.name), " ")
	var buf bytes.Buffer
	buf.WriteString("*" + strconv.Itoa(len(words)+len(c.args)) + protocol.CRLF)
	for _, word := range words {
		buf.WriteString("$" + strconv.Itoa(len(word)) + protocol.CRLF + word + protocol.CRLF)
	}
	for _, arg := range c.args {
		buf.WriteString("$" + strconv.Itoa(len(arg)) + protocol.CRLF)
		buf.Write(arg)
		buf.WriteString(protocol.CRLF)
	}
	return buf.Bytes()
}

// String 用于日志 不输出参数内容 参数可能是二进制
func (c *RedisCommand) String() string {
	return string(c.name) + "(" + strconv.Itoa(len(c.args)) + " args)"
}
