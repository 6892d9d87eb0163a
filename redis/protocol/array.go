package protocol

import (
	"goredis/interface/redis"
)

// IsNullReply 当reply为$-1时返回true
func IsNullReply(reply redis.Reply) bool {
	_, ok := reply.(*NullBulkReply)
	return ok
}

// IsNullArrayReply 当reply为*-1时返回true
func IsNullArrayReply(reply redis.Reply) bool {
	_, ok := reply.(*NullMultiBulkReply)
	return ok
}

// AsArray 将数组reply统一转换为元素slice
// 解码侧的MultiRawReply与编码侧的MultiBulkReply都能被接受 *-1不属于数组
func AsArray(reply redis.Reply) ([]redis.Reply, bool) {
	switch r := reply.(type) {
	case *MultiRawReply:
		return r.Replies, true
	case *MultiBulkReply:
		elems := make([]redis.Reply, len(r.Args))
		for i, arg := range r.Args {
			if arg == nil {
				elems[i] = NewNullBulkReply()
			} else {
				elems[i] = NewBulkReply(arg)
			}
		}
		return elems, true
	case *EmptyMultiBulkReply:
		return []redis.Reply{}, true
	default:
		return nil, false
	}
}

// ElemBytes 按字节序列读取数组的第i个元素 空元素返回nil
func ElemBytes(elems []redis.Reply, i int) ([]byte, error) {
	switch e := elems[i].(type) {
	case *BulkReply:
		return e.Arg, nil
	case *NullBulkReply:
		return nil, nil
	case *StatusReply:
		return []byte(e.Status), nil
	default:
		return nil, NewUnexpectedResponseError("expected a bulk string element")
	}
}

// ElemInt 按整数读取数组的第i个元素
func ElemInt(elems []redis.Reply, i int) (int64, error) {
	if e, ok := elems[i].(*IntReply); ok {
		return e.Code, nil
	}
	return 0, NewUnexpectedResponseError("expected an integer element")
}

// ElemArray 按数组读取数组的第i个元素
func ElemArray(elems []redis.Reply, i int) ([]redis.Reply, error) {
	if sub, ok := AsArray(elems[i]); ok {
		return sub, nil
	}
	return nil, NewUnexpectedResponseError("expected an array element")
}
