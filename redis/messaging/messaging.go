package messaging

import (
	"net"
	"sync"

	"goredis/interface/redis"
	"goredis/redis/command"
	"goredis/redis/parser"
	"goredis/redis/protocol"
)

// Messaging 把编解码器适配到一条双工字节流上
// 写侧单生产者(连接状态机) 读侧单消费者 不感知流水线与事务
type Messaging struct {
	conn     net.Conn
	payloads <-chan *parser.Payload

	mu         sync.Mutex
	closed     bool
	closeCause error
}

func New(conn net.Conn) *Messaging {
	return &Messaging{
		conn:     conn,
		payloads: parser.ParseStream(conn),
	}
}

// Send 编码并写入一条完整命令 返回时字节已交给内核缓冲区
// 持锁写入保证命令的完整性 不会有半条命令夹在两条命令之间
func (m *Messaging) Send(cmd *command.RedisCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return m.closeCause
	}
	encoded := cmd.ToBytes()
	for len(encoded) > 0 {
		n, err := m.conn.Write(encoded)
		if err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

// Receive 阻塞等待下一条完整解析的回复
func (m *Messaging) Receive() (redis.Reply, error) {
	payload, ok := <-m.payloads
	if !ok || payload == nil {
		return nil, m.cause()
	}
	if payload.Err != nil {
		if m.IsClosed() {
			// 读错误来自Close关掉的底层连接 以关闭原因失败
			return nil, m.cause()
		}
		return nil, payload.Err
	}
	return payload.Data, nil
}

// SendEndOfStream 半关闭写方向 通知服务端不会再有命令
func (m *Messaging) SendEndOfStream() error {
	if tcpConn, ok := m.conn.(*net.TCPConn); ok {
		return tcpConn.CloseWrite()
	}
	return nil
}

// Close 双向中止 未完成的Receive以cause失败
func (m *Messaging) Close(cause error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.closeCause = cause
	m.mu.Unlock()
	_ = m.conn.Close()
}

func (m *Messaging) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Messaging) cause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closeCause != nil {
		return m.closeCause
	}
	return protocol.ErrConnectionClosed
}
