package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"goredis/config"
	"goredis/lib/sync/wait"
	"goredis/redis/messaging"
	"goredis/redis/protocol"
	"goredis/tcp"

	"go.uber.org/zap"
)

// RedisClient 持有配置与有界连接池
// 池中连接空闲可复用 借出的连接用完通过ReturnToPool归还
type RedisClient struct {
	cfg     *config.ClientConfig
	charset *Charset

	mu        sync.Mutex
	idle      []*Connection
	total     int
	acquirers []chan acquireResult
	shutdown  bool

	closing wait.Wait // 关闭时等待所有连接退场
}

type acquireResult struct {
	conn *Connection
	err  error
}

// NewClient 校验配置并创建客户端 不会立刻建立连接
func NewClient(cfg *config.ClientConfig) (*RedisClient, error) {
	if cfg == nil || cfg.ServerAddress == "" {
		return nil, fmt.Errorf("%w: server address is required", protocol.ErrIllegalArgument)
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 10
	}
	charset, err := NewCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}
	return &RedisClient{
		cfg:     cfg,
		charset: charset,
	}, nil
}

// GetConnection 借出一条连接 空闲优先 池未满时新建 否则排队等待归还
func (cl *RedisClient) GetConnection(ctx context.Context) (*Connection, error) {
	cl.mu.Lock()
	if cl.shutdown {
		cl.mu.Unlock()
		return nil, protocol.ErrClientShutdown
	}
	if n := len(cl.idle); n > 0 {
		conn := cl.idle[n-1]
		cl.idle = cl.idle[:n-1]
		cl.mu.Unlock()
		conn.setInPool(false)
		zap.L().Debug("connection lent from pool", zap.String("conn", conn.id))
		return conn, nil
	}
	if cl.total < cl.cfg.MaxConnections {
		cl.total++
		cl.closing.Add(1)
		cl.mu.Unlock()
		return cl.openConnection(ctx)
	}
	// 池已满 排队等待归还
	ch := make(chan acquireResult, 1)
	cl.acquirers = append(cl.acquirers, ch)
	cl.mu.Unlock()
	select {
	case result := <-ch:
		return result.conn, result.err
	case <-ctx.Done():
		cl.removeAcquirer(ch)
		// 取消与交付可能竞争 已交付的连接要放回池里
		select {
		case result := <-ch:
			if result.conn != nil {
				cl.returnConnection(result.conn)
			}
		default:
		}
		return nil, ctx.Err()
	}
}

func (cl *RedisClient) removeAcquirer(ch chan acquireResult) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for i, acquirer := range cl.acquirers {
		if acquirer == ch {
			cl.acquirers = append(cl.acquirers[:i], cl.acquirers[i+1:]...)
			return
		}
	}
}

// openConnection 建连并按配置做AUTH/SELECT
// 调用前total与closing已登记 任何失败路径都会注销这份登记:
// 拨号失败在此直接回退 建连后的失败经由closeWithCause->onConnectionClose回退
func (cl *RedisClient) openConnection(ctx context.Context) (*Connection, error) {
	netConn, err := tcp.Dial(&tcp.Config{
		Address: cl.cfg.ServerAddress,
		TimeOut: cl.cfg.ConnectTimeout,
	})
	if err != nil {
		cl.mu.Lock()
		cl.total--
		cl.mu.Unlock()
		cl.closing.Done()
		return nil, err
	}
	conn := newConnection(cl, messaging.New(netConn), cl.charset)
	if err := cl.setupConnection(ctx, conn); err != nil {
		conn.closeWithCause(err)
		return nil, err
	}
	zap.L().Debug("connection established", zap.String("conn", conn.id), zap.String("address", cl.cfg.ServerAddress))
	return conn, nil
}

func (cl *RedisClient) setupConnection(ctx context.Context, conn *Connection) error {
	if deadline := cl.cfg.RequestTimeout; deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}
	if cl.cfg.Password != "" {
		var err error
		if cl.cfg.Username != "" {
			_, err = conn.AuthUser(cl.cfg.Username, cl.cfg.Password).Await(ctx)
		} else {
			_, err = conn.Auth(cl.cfg.Password).Await(ctx)
		}
		if err != nil {
			return err
		}
	}
	if cl.cfg.DatabaseIndex > 0 {
		if _, err := conn.Select(cl.cfg.DatabaseIndex).Await(ctx); err != nil {
			return err
		}
	}
	return nil
}

// returnConnection 连接健康时回到池中 有排队者则直接移交
// inPool必须在连接进入idle列表前置位 否则归还与借出并发时标志会被覆盖
func (cl *RedisClient) returnConnection(conn *Connection) {
	conn.setInPool(true)
	cl.mu.Lock()
	if cl.shutdown {
		cl.mu.Unlock()
		conn.setInPool(false)
		_ = conn.Close()
		return
	}
	if len(cl.acquirers) > 0 {
		ch := cl.acquirers[0]
		cl.acquirers = cl.acquirers[1:]
		cl.mu.Unlock()
		conn.setInPool(false)
		ch <- acquireResult{conn: conn}
		return
	}
	cl.idle = append(cl.idle, conn)
	cl.mu.Unlock()
	zap.L().Debug("connection returned to pool", zap.String("conn", conn.id))
}

// onConnectionClose 连接关闭后让出容量 有排队者则为其补建连接
func (cl *RedisClient) onConnectionClose(conn *Connection) {
	cl.mu.Lock()
	cl.total--
	for i, idleConn := range cl.idle {
		if idleConn == conn {
			cl.idle = append(cl.idle[:i], cl.idle[i+1:]...)
			break
		}
	}
	var pending chan acquireResult
	if !cl.shutdown && len(cl.acquirers) > 0 && cl.total < cl.cfg.MaxConnections {
		pending = cl.acquirers[0]
		cl.acquirers = cl.acquirers[1:]
		cl.total++
		cl.closing.Add(1)
	}
	cl.mu.Unlock()
	cl.closing.Done()
	if pending != nil {
		go func() {
			newConn, err := cl.openConnection(context.Background())
			pending <- acquireResult{conn: newConn, err: err}
		}()
	}
}

// Shutdown 关闭所有空闲连接并拒绝后续借出
func (cl *RedisClient) Shutdown() {
	cl.mu.Lock()
	if cl.shutdown {
		cl.mu.Unlock()
		return
	}
	cl.shutdown = true
	idle := cl.idle
	cl.idle = nil
	acquirers := cl.acquirers
	cl.acquirers = nil
	cl.mu.Unlock()

	for _, ch := range acquirers {
		ch <- acquireResult{err: protocol.ErrClientShutdown}
	}
	for _, conn := range idle {
		conn.setInPool(false)
		_ = conn.Close()
	}
	zap.L().Debug("client shut down", zap.Int("closedIdle", len(idle)))
}

// ShutdownAndWait 关闭并等待所有连接退场 返回true表示超时
func (cl *RedisClient) ShutdownAndWait(timeout time.Duration) bool {
	cl.Shutdown()
	if timeout <= 0 {
		cl.closing.Wait()
		return false
	}
	return cl.closing.WaitWithTimeout(timeout)
}

// ActiveConnections 当前打开的连接数
func (cl *RedisClient) ActiveConnections() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.total
}

// IdleConnections 当前空闲的连接数
func (cl *RedisClient) IdleConnections() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.idle)
}
