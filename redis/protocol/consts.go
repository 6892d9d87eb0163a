package protocol

// 具有特殊语义的状态字符串
const (
	OK     = "OK"
	Pong   = "PONG"
	Queued = "QUEUED"
	NoKey  = "NOKEY" // MIGRATE未找到key
)

var (
	okBytes             = []byte("+OK\r\n")
	pongBytes           = []byte("+PONG\r\n")
	queuedBytes         = []byte("+QUEUED\r\n")
	nullBulkBytes       = []byte("$-1\r\n")
	nullMultiBulkBytes  = []byte("*-1\r\n")
	emptyMultiBulkBytes = []byte("*0\r\n")
)

var (
	theOkReply             = &OkReply{}
	thePongReply           = &PongReply{}
	theQueuedReply         = &QueuedReply{}
	theNullBulkReply       = &NullBulkReply{}
	theNullMultiBulkReply  = &NullMultiBulkReply{}
	theEmptyMultiBulkReply = &EmptyMultiBulkReply{}
)

// OkReply is +OK
type OkReply struct{}

// ToBytes 序列化
func (r *OkReply) ToBytes() []byte {
	return okBytes
}

// NewOkReply 返回一个OKReply
func NewOkReply() *OkReply {
	return theOkReply
}

// PongReply +PONG
type PongReply struct{}

// ToBytes 序列化
func (r *PongReply) ToBytes() []byte {
	return pongBytes
}

func NewPongReply() *PongReply {
	return thePongReply
}

// QueuedReply is +QUEUED
type QueuedReply struct{}

// ToBytes 序列化
func (r *QueuedReply) ToBytes() []byte {
	return queuedBytes
}

// NewQueuedReply 返回一个QueuedReply实例
func NewQueuedReply() *QueuedReply {
	return theQueuedReply
}

// NullBulkReply 空的二进制安全字符串 $-1
type NullBulkReply struct{}

// ToBytes 序列化
func (r *NullBulkReply) ToBytes() []byte {
	return nullBulkBytes
}

// NewNullBulkReply 创建一个NullBulkReply实例 并返回其指针
func NewNullBulkReply() *NullBulkReply {
	return theNullBulkReply
}

// NullMultiBulkReply 空数组 *-1 事务EXEC失败时返回
type NullMultiBulkReply struct{}

// ToBytes 序列化
func (r *NullMultiBulkReply) ToBytes() []byte {
	return nullMultiBulkBytes
}

// NewNullMultiBulkReply 创建一个空NullMultiBulkReply实例 并返回其指针
func NewNullMultiBulkReply() *NullMultiBulkReply {
	return theNullMultiBulkReply
}

// EmptyMultiBulkReply 空list *0
type EmptyMultiBulkReply struct{}

// ToBytes 序列化
func (r *EmptyMultiBulkReply) ToBytes() []byte {
	return emptyMultiBulkBytes
}

// NewEmptyMultiBulkReply 创建一个EmptyMultiBulkReply实例
func NewEmptyMultiBulkReply() *EmptyMultiBulkReply {
	return theEmptyMultiBulkReply
}
