package client

import (
	"fmt"
	"strings"

	"goredis/redis/protocol"
)

// RedisType TYPE命令返回的值类型
type RedisType string

const (
	TypeString RedisType = "string"
	TypeList   RedisType = "list"
	TypeSet    RedisType = "set"
	TypeZSet   RedisType = "zset"
	TypeHash   RedisType = "hash"
	TypeStream RedisType = "stream"
	TypeNone   RedisType = "none"
)

func parseTypeName(name string) (RedisType, error) {
	switch RedisType(strings.ToLower(name)) {
	case TypeString, TypeList, TypeSet, TypeZSet, TypeHash, TypeStream, TypeNone:
		return RedisType(strings.ToLower(name)), nil
	default:
		return "", protocol.NewUnexpectedResponseError("type '" + name + "' is not known")
	}
}

// RedisEncoding OBJECT ENCODING返回的内部编码
type RedisEncoding string

const (
	EncodingRaw       RedisEncoding = "raw"
	EncodingInt       RedisEncoding = "int"
	EncodingEmbstr    RedisEncoding = "embstr"
	EncodingZiplist   RedisEncoding = "ziplist"
	EncodingListpack  RedisEncoding = "listpack"
	EncodingQuicklist RedisEncoding = "quicklist"
	EncodingIntset    RedisEncoding = "intset"
	EncodingHashtable RedisEncoding = "hashtable"
	EncodingSkiplist  RedisEncoding = "skiplist"
)

func parseEncodingName(name string) (RedisEncoding, error) {
	switch RedisEncoding(strings.ToLower(name)) {
	case EncodingRaw, EncodingInt, EncodingEmbstr, EncodingZiplist, EncodingListpack,
		EncodingQuicklist, EncodingIntset, EncodingHashtable, EncodingSkiplist:
		return RedisEncoding(strings.ToLower(name)), nil
	default:
		return "", protocol.NewUnexpectedResponseError("encoding '" + name + "' is not known")
	}
}

// DistanceUnit GEO族命令的距离单位
type DistanceUnit string

const (
	Meters     DistanceUnit = "m"
	Kilometers DistanceUnit = "km"
	Miles      DistanceUnit = "mi"
	Feet       DistanceUnit = "ft"
)

// Coordinate 经纬度
type Coordinate struct {
	Longitude float64
	Latitude  float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v)", c.Longitude, c.Latitude)
}

// ScanResult SCAN族命令的一页结果 Cursor为0表示遍历结束
type ScanResult struct {
	Cursor   string
	Elements [][]byte
	charset  *Charset
}

// StringElements 按连接字符集解码的元素
func (r *ScanResult) StringElements() []string {
	elems := make([]string, len(r.Elements))
	for i, e := range r.Elements {
		elems[i] = r.charset.Decode(e)
	}
	return elems
}

// Finished 游标是否已经走完
func (r *ScanResult) Finished() bool {
	return r.Cursor == "0"
}

// ListPopResult BLPOP/BRPOP的结果 记录命中的key与弹出的值
type ListPopResult struct {
	Key     string
	Value   []byte
	charset *Charset
}

func (r *ListPopResult) StringValue() string {
	return r.charset.Decode(r.Value)
}

// SetBlockingPopResult BZPOPMIN/BZPOPMAX的结果
type SetBlockingPopResult struct {
	Key     string
	Value   []byte
	Score   float64
	charset *Charset
}

func (r *SetBlockingPopResult) StringValue() string {
	return r.charset.Decode(r.Value)
}

// SetPopResult ZPOPMIN/ZPOPMAX的单个元素
type SetPopResult struct {
	Value   []byte
	Score   float64
	charset *Charset
}

func (r *SetPopResult) StringValue() string {
	return r.charset.Decode(r.Value)
}

// GeoradiusResult GEORADIUS只读形态的单个元素 WITH族修饰符决定哪些字段非nil
type GeoradiusResult struct {
	Member  []byte
	Coord   *Coordinate
	Dist    *float64
	Hash    *int64
	charset *Charset
}

func (r *GeoradiusResult) StringMember() string {
	return r.charset.Decode(r.Member)
}
