package client

import (
	"fmt"
	"strconv"

	"goredis/interface/redis"
	"goredis/redis/protocol"
)

// 类型化解析器 每个都是RedisResponse到结果的全函数
// 接受集合之外的形态返回具名错误 绝不panic

// replyError 服务器错误行转为ServerError 其余形态视为解析失配
func replyError(reply redis.Reply) error {
	if errReply, ok := reply.(*protocol.StandardErrReply); ok {
		return protocol.NewServerError(errReply)
	}
	return protocol.NewUnexpectedResponseError(fmt.Sprintf("reply type %T was not expected", reply))
}

func parseInteger(reply redis.Reply) (int64, error) {
	if intReply, ok := reply.(*protocol.IntReply); ok {
		return intReply.Code, nil
	}
	return 0, replyError(reply)
}

func parseNullableInteger(reply redis.Reply) (*int64, error) {
	if protocol.IsNullReply(reply) {
		return nil, nil
	}
	if intReply, ok := reply.(*protocol.IntReply); ok {
		return &intReply.Code, nil
	}
	return nil, replyError(reply)
}

func parseBoolean(reply redis.Reply) (bool, error) {
	intReply, ok := reply.(*protocol.IntReply)
	if !ok {
		return false, replyError(reply)
	}
	switch intReply.Code {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, protocol.NewUnexpectedResponseError("invalid boolean value, should be either 1 or 0")
	}
}

func parseSimpleString(reply redis.Reply) (string, error) {
	if status, ok := reply.(*protocol.StatusReply); ok {
		return status.Status, nil
	}
	return "", replyError(reply)
}

func parseExpectOk(reply redis.Reply) (Void, error) {
	status, err := parseSimpleString(reply)
	if err != nil {
		return Void{}, err
	}
	if status != protocol.OK {
		return Void{}, protocol.NewUnexpectedResponseError("expected result to be 'OK', was: " + status)
	}
	return Void{}, nil
}

// parseBulk $-1解析为nil
func parseBulk(reply redis.Reply) ([]byte, error) {
	switch r := reply.(type) {
	case *protocol.BulkReply:
		return r.Arg, nil
	case *protocol.NullBulkReply:
		return nil, nil
	default:
		return nil, replyError(reply)
	}
}

// parseBulkString 按连接字符集解码 nil表示$-1
func (c *Connection) parseBulkString(reply redis.Reply) (*string, error) {
	bulk, err := parseBulk(reply)
	if err != nil || bulk == nil {
		return nil, err
	}
	decoded := c.charset.Decode(bulk)
	return &decoded, nil
}

// parseNonNullBulkString $-1被拒绝
func (c *Connection) parseNonNullBulkString(reply redis.Reply) (string, error) {
	s, err := c.parseBulkString(reply)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
	}
	return *s, nil
}

// parseString 同时接受+与$ SET带NX时可能返回$-1
func (c *Connection) parseString(reply redis.Reply) (*string, error) {
	if status, ok := reply.(*protocol.StatusReply); ok {
		return &status.Status, nil
	}
	return c.parseBulkString(reply)
}

func (c *Connection) parseDouble(reply redis.Reply) (float64, error) {
	bulk, err := parseBulk(reply)
	if err != nil {
		return 0, err
	}
	if bulk == nil {
		return 0, protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
	}
	return parseDoubleBytes(c.charset, bulk)
}

func (c *Connection) parseNullableDouble(reply redis.Reply) (*float64, error) {
	bulk, err := parseBulk(reply)
	if err != nil || bulk == nil {
		return nil, err
	}
	value, err := parseDoubleBytes(c.charset, bulk)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseDoubleBytes(charset *Charset, bulk []byte) (float64, error) {
	value, err := strconv.ParseFloat(charset.Decode(bulk), 64)
	if err != nil {
		return 0, protocol.NewUnexpectedResponseError("could not parse result as double: " + charset.Decode(bulk))
	}
	return value, nil
}

// parseElems 数组转元素slice *-1返回(nil, true, nil)
func parseElems(reply redis.Reply) ([]redis.Reply, bool, error) {
	if protocol.IsNullArrayReply(reply) {
		return nil, true, nil
	}
	if elems, ok := protocol.AsArray(reply); ok {
		return elems, false, nil
	}
	return nil, false, replyError(reply)
}

// arrayOf 数组的每个元素经elem解析 *-1被拒绝
func arrayOf[T any](reply redis.Reply, elem func(redis.Reply) (T, error)) ([]T, error) {
	elems, null, err := parseElems(reply)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
	}
	result := make([]T, 0, len(elems))
	for _, e := range elems {
		value, err := elem(e)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

// elemBytes 数组元素按字节读取 $-1元素解析为nil
func elemBytes(e redis.Reply) ([]byte, error) {
	switch r := e.(type) {
	case *protocol.BulkReply:
		return r.Arg, nil
	case *protocol.NullBulkReply:
		return nil, nil
	default:
		return nil, protocol.NewUnexpectedResponseError("expected all array items to be bulk strings, but some elements were not")
	}
}

// elemNonNullBytes 数组元素按字节读取 不允许空元素
func elemNonNullBytes(e redis.Reply) ([]byte, error) {
	bulk, err := elemBytes(e)
	if err != nil {
		return nil, err
	}
	if bulk == nil {
		return nil, protocol.NewUnexpectedResponseError("expected all array items to be non-null")
	}
	return bulk, nil
}

func parseBytesList(reply redis.Reply) ([][]byte, error) {
	return arrayOf(reply, elemNonNullBytes)
}

// parseNullableBytesList 元素可以为nil 如MGET
func parseNullableBytesList(reply redis.Reply) ([][]byte, error) {
	return arrayOf(reply, elemBytes)
}

func (c *Connection) parseStrings(reply redis.Reply) ([]string, error) {
	return arrayOf(reply, func(e redis.Reply) (string, error) {
		bulk, err := elemNonNullBytes(e)
		if err != nil {
			return "", err
		}
		return c.charset.Decode(bulk), nil
	})
}

// parseNullableStrings 元素可以为nil 解码为*string
func (c *Connection) parseNullableStrings(reply redis.Reply) ([]*string, error) {
	return arrayOf(reply, func(e redis.Reply) (*string, error) {
		bulk, err := elemBytes(e)
		if err != nil || bulk == nil {
			return nil, err
		}
		decoded := c.charset.Decode(bulk)
		return &decoded, nil
	})
}

// parseStringsAsSet 重复元素被静默合并
func (c *Connection) parseStringsAsSet(reply redis.Reply) (map[string]struct{}, error) {
	strs, err := c.parseStrings(reply)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		set[s] = struct{}{}
	}
	return set, nil
}

// parseMap 偶数长度的数组按(field, value)配对 重复field是具名错误
func parseMap[T any](c *Connection, reply redis.Reply, valueFn func(redis.Reply) (T, error)) (map[string]T, error) {
	elems, null, err := parseElems(reply)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
	}
	if len(elems)%2 != 0 {
		return nil, protocol.NewUnexpectedResponseError("map response has an odd number of elements")
	}
	result := make(map[string]T, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		fieldBytes, err := elemNonNullBytes(elems[i])
		if err != nil {
			return nil, err
		}
		field := c.charset.Decode(fieldBytes)
		if _, exists := result[field]; exists {
			return nil, &protocol.DuplicateFieldError{Field: field}
		}
		value, err := valueFn(elems[i+1])
		if err != nil {
			return nil, err
		}
		result[field] = value
	}
	return result, nil
}

func (c *Connection) parseMapString(reply redis.Reply) (map[string]string, error) {
	return parseMap(c, reply, func(e redis.Reply) (string, error) {
		bulk, err := elemNonNullBytes(e)
		if err != nil {
			return "", err
		}
		return c.charset.Decode(bulk), nil
	})
}

func (c *Connection) parseMapBinary(reply redis.Reply) (map[string][]byte, error) {
	return parseMap(c, reply, elemNonNullBytes)
}

func (c *Connection) parseMapWithScores(reply redis.Reply) (map[string]float64, error) {
	return parseMap(c, reply, func(e redis.Reply) (float64, error) {
		bulk, err := elemNonNullBytes(e)
		if err != nil {
			return 0, err
		}
		return parseDoubleBytes(c.charset, bulk)
	})
}

// checkCursor 游标必须是十进制数字串
func checkCursor(cursor string) error {
	if len(cursor) == 0 {
		return protocol.NewUnexpectedResponseError("received an empty cursor")
	}
	for i := 0; i < len(cursor); i++ {
		if cursor[i] < '0' || cursor[i] > '9' {
			return protocol.NewUnexpectedResponseError("received illegal cursor: '" + cursor + "'")
		}
	}
	return nil
}

// parseScanResult [cursor, elements]
func (c *Connection) parseScanResult(reply redis.Reply) (*ScanResult, error) {
	elems, null, err := parseElems(reply)
	if err != nil {
		return nil, err
	}
	if null || len(elems) != 2 {
		return nil, protocol.NewUnexpectedResponseError("received array of unexpected size")
	}
	cursorBytes, err := elemNonNullBytes(elems[0])
	if err != nil {
		return nil, err
	}
	cursor := string(cursorBytes)
	if err := checkCursor(cursor); err != nil {
		return nil, err
	}
	sub, err := protocol.ElemArray(elems, 1)
	if err != nil {
		return nil, err
	}
	elements := make([][]byte, 0, len(sub))
	for _, e := range sub {
		bulk, err := elemNonNullBytes(e)
		if err != nil {
			return nil, err
		}
		elements = append(elements, bulk)
	}
	return &ScanResult{Cursor: cursor, Elements: elements, charset: c.charset}, nil
}

// parseListPopResult *-1解析为nil 否则是[key, value]
func (c *Connection) parseListPopResult(reply redis.Reply) (*ListPopResult, error) {
	elems, null, err := parseElems(reply)
	if err != nil || null {
		return nil, err
	}
	if len(elems) != 2 {
		return nil, protocol.NewUnexpectedResponseError("received array of unexpected size")
	}
	key, err := elemNonNullBytes(elems[0])
	if err != nil {
		return nil, err
	}
	value, err := elemNonNullBytes(elems[1])
	if err != nil {
		return nil, err
	}
	return &ListPopResult{Key: c.charset.Decode(key), Value: value, charset: c.charset}, nil
}

// parseSetBlockingPopResult *-1解析为nil 否则是[key, value, score]
func (c *Connection) parseSetBlockingPopResult(reply redis.Reply) (*SetBlockingPopResult, error) {
	elems, null, err := parseElems(reply)
	if err != nil || null {
		return nil, err
	}
	if len(elems) != 3 {
		return nil, protocol.NewUnexpectedResponseError("received array of unexpected size")
	}
	key, err := elemNonNullBytes(elems[0])
	if err != nil {
		return nil, err
	}
	value, err := elemNonNullBytes(elems[1])
	if err != nil {
		return nil, err
	}
	scoreBytes, err := elemNonNullBytes(elems[2])
	if err != nil {
		return nil, err
	}
	score, err := parseDoubleBytes(c.charset, scoreBytes)
	if err != nil {
		return nil, err
	}
	return &SetBlockingPopResult{Key: c.charset.Decode(key), Value: value, Score: score, charset: c.charset}, nil
}

// parseSetPopResults *-1解析为nil 否则是[value, score, value, score, ...]
func (c *Connection) parseSetPopResults(reply redis.Reply) ([]*SetPopResult, error) {
	elems, null, err := parseElems(reply)
	if err != nil || null {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, protocol.NewUnexpectedResponseError("received array of unexpected size")
	}
	results := make([]*SetPopResult, 0, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		value, err := elemNonNullBytes(elems[i])
		if err != nil {
			return nil, err
		}
		scoreBytes, err := elemNonNullBytes(elems[i+1])
		if err != nil {
			return nil, err
		}
		score, err := parseDoubleBytes(c.charset, scoreBytes)
		if err != nil {
			return nil, err
		}
		results = append(results, &SetPopResult{Value: value, Score: score, charset: c.charset})
	}
	return results, nil
}

// parseCoordinate [longitude, latitude]
func (c *Connection) parseCoordinate(e redis.Reply) (*Coordinate, error) {
	sub, ok := protocol.AsArray(e)
	if !ok {
		return nil, protocol.NewUnexpectedResponseError("expected a coordinate array element")
	}
	if len(sub) != 2 {
		return nil, protocol.NewUnexpectedResponseError("received array of unexpected size")
	}
	lonBytes, err := elemNonNullBytes(sub[0])
	if err != nil {
		return nil, err
	}
	latBytes, err := elemNonNullBytes(sub[1])
	if err != nil {
		return nil, err
	}
	lon, err := parseDoubleBytes(c.charset, lonBytes)
	if err != nil {
		return nil, err
	}
	lat, err := parseDoubleBytes(c.charset, latBytes)
	if err != nil {
		return nil, err
	}
	return &Coordinate{Longitude: lon, Latitude: lat}, nil
}

// parseCoordinates GEOPOS的结果 未知member对应nil元素
func (c *Connection) parseCoordinates(reply redis.Reply) ([]*Coordinate, error) {
	return arrayOf(reply, func(e redis.Reply) (*Coordinate, error) {
		if protocol.IsNullReply(e) || protocol.IsNullArrayReply(e) {
			return nil, nil
		}
		return c.parseCoordinate(e)
	})
}

// parseGeoradiusResults WITH族修饰符决定子数组的结构
func (c *Connection) parseGeoradiusResults(reply redis.Reply, withCoord, withDist, withHash bool) ([]*GeoradiusResult, error) {
	if !withCoord && !withDist && !withHash {
		// 无修饰符时元素是裸的member
		return arrayOf(reply, func(e redis.Reply) (*GeoradiusResult, error) {
			member, err := elemNonNullBytes(e)
			if err != nil {
				return nil, err
			}
			return &GeoradiusResult{Member: member, charset: c.charset}, nil
		})
	}
	expectedLen := 1
	if withCoord {
		expectedLen++
	}
	if withDist {
		expectedLen++
	}
	if withHash {
		expectedLen++
	}
	return arrayOf(reply, func(e redis.Reply) (*GeoradiusResult, error) {
		sub, ok := protocol.AsArray(e)
		if !ok {
			return nil, protocol.NewUnexpectedResponseError("expected an array element")
		}
		if len(sub) != expectedLen {
			return nil, protocol.NewUnexpectedResponseError("received array of unexpected size")
		}
		member, err := elemNonNullBytes(sub[0])
		if err != nil {
			return nil, err
		}
		result := &GeoradiusResult{Member: member, charset: c.charset}
		index := 1
		if withDist {
			distBytes, err := elemNonNullBytes(sub[index])
			if err != nil {
				return nil, err
			}
			dist, err := parseDoubleBytes(c.charset, distBytes)
			if err != nil {
				return nil, err
			}
			result.Dist = &dist
			index++
		}
		if withHash {
			hash, err := protocol.ElemInt(sub, index)
			if err != nil {
				return nil, err
			}
			result.Hash = &hash
			index++
		}
		if withCoord {
			coord, err := c.parseCoordinate(sub[index])
			if err != nil {
				return nil, err
			}
			result.Coord = coord
		}
		return result, nil
	})
}

func (c *Connection) parseType(reply redis.Reply) (RedisType, error) {
	name, err := parseSimpleString(reply)
	if err != nil {
		return "", err
	}
	return parseTypeName(name)
}

func (c *Connection) parseEncoding(reply redis.Reply) (*RedisEncoding, error) {
	bulkString, err := c.parseBulkString(reply)
	if err != nil || bulkString == nil {
		return nil, err
	}
	encoding, err := parseEncodingName(*bulkString)
	if err != nil {
		return nil, err
	}
	return &encoding, nil
}
