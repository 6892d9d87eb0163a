package client

import (
	"fmt"
	"sync"

	"goredis/interface/redis"
	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/messaging"
	"goredis/redis/protocol"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Void 无结果命令的完成值
type Void = struct{}

// completion waiter的一次性完成目标
// 返回解析后的值 事务收尾时用它把结果累积进EXEC的结果列表
type completion func(reply redis.Reply, err error) (interface{}, error)

// waiter 一个待响应的槽位 gen是它所属的事务代 0表示不在事务中
type waiter struct {
	complete completion
	gen      uint64
}

// connOwner 连接的归属方 连接通过它回到池中或在关闭时被剔除
type connOwner interface {
	returnConnection(conn *Connection)
	onConnectionClose(conn *Connection)
}

// Connection 单条Redis连接上的流水线状态机
//
// 不变式:
//   - receiveQueue的长度等于尚未到达的协议级响应数 第i条命令由第i条响应完成
//   - transactions >= completedTransactions 差值为未收尾的事务数
//   - txResult != nil 当且仅当MULTI已被接受且EXEC/DISCARD尚未完成
//   - closed后两个队列都(将)以close原因清空
type Connection struct {
	id        string
	owner     connOwner
	messaging *messaging.Messaging
	charset   *Charset

	mu                    sync.Mutex
	receiveQueue          []*waiter
	transactionQueue      []*waiter
	transactions          uint64
	completedTransactions uint64
	txResult              *[]interface{}
	txDoomed              error
	closed                bool
	closeCause            error
	inPool                bool
}

func newConnection(owner connOwner, msg *messaging.Messaging, charset *Charset) *Connection {
	c := &Connection{
		id:        uuid.NewString(),
		owner:     owner,
		messaging: msg,
		charset:   charset,
	}
	go c.receiveLoop()
	return c
}

// receiveLoop 持续接收循环 每条到达的响应完成队首waiter
// 读取错误对连接是致命的 传播给所有未完成的waiter
func (c *Connection) receiveLoop() {
	for {
		reply, err := c.messaging.Receive()
		if err != nil {
			c.closeWithCause(err)
			return
		}
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		if len(c.receiveQueue) == 0 {
			c.mu.Unlock()
			c.closeWithCause(protocol.NewProtocolError("received a response without a pending command"))
			return
		}
		w := c.receiveQueue[0]
		c.receiveQueue = c.receiveQueue[1:]
		c.mu.Unlock()
		w.complete(reply, nil)
	}
}

// submit 提交一条命令 complete会在响应到达(或连接失败)时被调用一次
// 事务中会注册两个waiter: 收+QUEUED的入队waiter和等EXEC分发的结果waiter
func (c *Connection) submit(cmd *command.RedisCommand, complete completion) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return protocol.ErrConnectionClosed
	}
	if c.inPool {
		c.mu.Unlock()
		return protocol.ErrConnectionInPool
	}
	if c.txResult == nil {
		sendErr := c.submitLocked(cmd, complete)
		c.mu.Unlock()
		if sendErr != nil {
			c.closeWithCause(fmt.Errorf("failed to send command %s: %w", cmd, sendErr))
		}
		return nil
	}

	gen := c.transactions
	if c.txDoomed != nil {
		// 入队阶段已经出错 本代后续命令直接以原始错误失败
		cause := c.txDoomed
		c.mu.Unlock()
		complete(nil, &protocol.TransactionAbortedError{Cause: cause})
		return nil
	}
	c.receiveQueue = append(c.receiveQueue, &waiter{complete: c.queuedValidator(gen), gen: gen})
	c.transactionQueue = append(c.transactionQueue, &waiter{complete: complete, gen: gen})
	sendErr := c.messaging.Send(cmd)
	c.mu.Unlock()
	if sendErr != nil {
		c.closeWithCause(fmt.Errorf("failed to send command %s: %w", cmd, sendErr))
	}
	return nil
}

// submitLocked 追加普通waiter并写出命令 要求持有c.mu
// 持锁跨越写出保证提交顺序即上线顺序
func (c *Connection) submitLocked(cmd *command.RedisCommand, complete completion) error {
	c.receiveQueue = append(c.receiveQueue, &waiter{complete: complete})
	return c.messaging.Send(cmd)
}

// queuedValidator 事务入队waiter 接受+QUEUED 其它响应使本事务代夭折
func (c *Connection) queuedValidator(gen uint64) completion {
	return func(reply redis.Reply, err error) (interface{}, error) {
		if err == nil {
			if errReply, ok := reply.(*protocol.StandardErrReply); ok {
				err = protocol.NewServerError(errReply)
			} else if status, ok := reply.(*protocol.StatusReply); !ok || status.Status != protocol.Queued {
				err = protocol.NewUnexpectedResponseError("expected server to respond with 'QUEUED'")
			}
		}
		if err != nil {
			c.doomTransaction(gen, err)
			return nil, err
		}
		return nil, nil
	}
}

// doomTransaction 入队失败后使该事务代夭折 该代已注册的结果waiter立即失败
func (c *Connection) doomTransaction(gen uint64, cause error) {
	c.mu.Lock()
	if c.closed || gen <= c.completedTransactions {
		c.mu.Unlock()
		return
	}
	if c.txDoomed == nil && c.txResult != nil && gen == c.transactions {
		c.txDoomed = cause
	}
	pending := c.popTxWaitersLocked(gen)
	c.mu.Unlock()
	zap.L().Debug("transaction doomed", zap.String("conn", c.id), zap.Uint64("generation", gen), zap.Error(cause))
	aborted := &protocol.TransactionAbortedError{Cause: cause}
	for _, w := range pending {
		w.complete(nil, aborted)
	}
}

// abortTransaction 以cause使gen代的所有结果waiter失败
func (c *Connection) abortTransaction(gen uint64, cause error) {
	c.mu.Lock()
	pending := c.popTxWaitersLocked(gen)
	c.mu.Unlock()
	if len(pending) > 0 {
		zap.L().Debug("aborting transaction", zap.String("conn", c.id), zap.Uint64("generation", gen), zap.Error(cause))
	}
	for _, w := range pending {
		w.complete(nil, cause)
	}
}

// popTxWaitersLocked 弹出队首所有属于gen代的结果waiter 要求持有c.mu
func (c *Connection) popTxWaitersLocked(gen uint64) []*waiter {
	var pending []*waiter
	for len(c.transactionQueue) > 0 && c.transactionQueue[0].gen == gen {
		pending = append(pending, c.transactionQueue[0])
		c.transactionQueue = c.transactionQueue[1:]
	}
	return pending
}

// Multi 开启事务 后续命令进入入队/结果双waiter模式 直到EXEC或DISCARD
func (c *Connection) Multi() *promise.Promise[Void] {
	p := promise.New[Void]()
	c.mu.Lock()
	if err := c.gateLocked(); err != nil {
		c.mu.Unlock()
		return promise.Failed[Void](err)
	}
	if c.txResult != nil {
		c.mu.Unlock()
		return promise.Failed[Void](fmt.Errorf("%w: nested MULTI call", protocol.ErrIllegalArgument))
	}
	sendErr := c.submitLocked(command.New(command.Multi), expectOkCompletion(p))
	if sendErr == nil {
		c.txResult = &[]interface{}{}
		c.transactions++
	}
	c.mu.Unlock()
	zap.L().Debug("transaction started", zap.String("conn", c.id))
	if sendErr != nil {
		c.closeWithCause(sendErr)
	}
	return p
}

// Exec 收尾事务 服务器的响应数组按序分发给本代的结果waiter
func (c *Connection) Exec() *promise.Promise[[]interface{}] {
	p := promise.New[[]interface{}]()
	c.mu.Lock()
	if err := c.gateLocked(); err != nil {
		c.mu.Unlock()
		return promise.Failed[[]interface{}](err)
	}
	if c.txResult == nil {
		c.mu.Unlock()
		return promise.Failed[[]interface{}](fmt.Errorf("%w: EXEC without MULTI", protocol.ErrIllegalArgument))
	}
	results := c.txResult
	doomed := c.txDoomed
	c.txResult = nil
	c.txDoomed = nil
	c.completedTransactions++
	gen := c.completedTransactions
	sendErr := c.submitLocked(command.New(command.Exec), func(reply redis.Reply, err error) (interface{}, error) {
		c.completeTransaction(reply, err, gen, results, doomed, p)
		return nil, nil
	})
	c.mu.Unlock()
	if sendErr != nil {
		c.closeWithCause(sendErr)
	}
	return p
}

// Discard 放弃事务 本代所有结果waiter以TransactionDiscarded失败
func (c *Connection) Discard() *promise.Promise[Void] {
	p := promise.New[Void]()
	c.mu.Lock()
	if err := c.gateLocked(); err != nil {
		c.mu.Unlock()
		return promise.Failed[Void](err)
	}
	if c.txResult == nil {
		c.mu.Unlock()
		return promise.Failed[Void](fmt.Errorf("%w: DISCARD without MULTI", protocol.ErrIllegalArgument))
	}
	c.txResult = nil
	c.txDoomed = nil
	c.completedTransactions++
	gen := c.completedTransactions
	okCompletion := expectOkCompletion(p)
	sendErr := c.submitLocked(command.New(command.Discard), func(reply redis.Reply, err error) (interface{}, error) {
		c.abortTransaction(gen, &protocol.TransactionDiscardedError{})
		return okCompletion(reply, err)
	})
	c.mu.Unlock()
	if sendErr != nil {
		c.closeWithCause(sendErr)
	}
	return p
}

// completeTransaction EXEC响应的四种结局: 错误 *-1 数量不符 正常分发
func (c *Connection) completeTransaction(reply redis.Reply, err error, gen uint64, results *[]interface{}, doomed error, p *promise.Promise[[]interface{}]) {
	if err != nil {
		c.abortTransaction(gen, err)
		p.Fail(err)
		return
	}
	if doomed != nil {
		aborted := &protocol.TransactionAbortedError{Cause: doomed}
		c.abortTransaction(gen, aborted)
		p.Fail(aborted)
		return
	}
	if errReply, ok := reply.(*protocol.StandardErrReply); ok {
		serverErr := protocol.NewServerError(errReply)
		c.abortTransaction(gen, serverErr)
		p.Fail(serverErr)
		return
	}
	if protocol.IsNullArrayReply(reply) {
		// WATCH条件未满足 事务内命令失败 EXEC自身以nil完成
		c.abortTransaction(gen, &protocol.TransactionFailedError{})
		p.Complete(nil)
		return
	}
	elems, ok := protocol.AsArray(reply)
	if !ok {
		unexpected := protocol.NewUnexpectedResponseError("EXEC replied with a non-array response")
		c.abortTransaction(gen, unexpected)
		p.Fail(unexpected)
		return
	}
	c.mu.Lock()
	pending := c.popTxWaitersLocked(gen)
	c.mu.Unlock()
	if len(elems) != len(pending) {
		// 响应与命令已无法对应 连接必须关闭
		mismatch := &protocol.FramingMismatchError{Expected: len(pending), Actual: len(elems)}
		for _, w := range pending {
			w.complete(nil, mismatch)
		}
		p.Fail(mismatch)
		c.closeWithCause(mismatch)
		return
	}
	zap.L().Debug("completing transaction", zap.String("conn", c.id), zap.Uint64("generation", gen), zap.Int("pending", len(pending)))
	for i, w := range pending {
		if value, perr := w.complete(elems[i], nil); perr == nil {
			*results = append(*results, value)
		}
	}
	p.Complete(*results)
}

// Quit 中止所有未收尾的事务代 发送QUIT 半关闭写方向后关闭连接
func (c *Connection) Quit() *promise.Promise[Void] {
	p := promise.New[Void]()
	c.mu.Lock()
	if err := c.gateLocked(); err != nil {
		c.mu.Unlock()
		return promise.Failed[Void](err)
	}
	var abandoned []*waiter
	for c.completedTransactions < c.transactions {
		c.completedTransactions++
		abandoned = append(abandoned, c.popTxWaitersLocked(c.completedTransactions)...)
	}
	c.txResult = nil
	c.txDoomed = nil
	sendErr := c.submitLocked(command.New(command.Quit), func(reply redis.Reply, err error) (interface{}, error) {
		if err != nil {
			p.Fail(err)
			c.closeWithCause(err)
			return nil, err
		}
		if _, perr := parseExpectOk(reply); perr != nil {
			p.Fail(perr)
		} else {
			_ = c.messaging.SendEndOfStream()
			p.Complete(Void{})
		}
		c.Close()
		return nil, nil
	})
	c.mu.Unlock()
	for _, w := range abandoned {
		w.complete(nil, protocol.ErrQuitCalled)
	}
	if sendErr != nil {
		c.closeWithCause(sendErr)
	}
	return p
}

// gateLocked 提交门 关闭或在池中的连接拒绝任何提交 要求持有c.mu
func (c *Connection) gateLocked() error {
	if c.closed {
		return protocol.ErrConnectionClosed
	}
	if c.inPool {
		return protocol.ErrConnectionInPool
	}
	return nil
}

// InTransaction MULTI已被接受且尚未EXEC/DISCARD
func (c *Connection) InTransaction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txResult != nil
}

// IsClosed 连接是否已关闭
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Outstanding 尚未收到响应的命令数
func (c *Connection) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.receiveQueue)
}

// Charset 本连接的文本编码
func (c *Connection) Charset() *Charset {
	return c.charset
}

// Close 幂等关闭 所有未完成的waiter以关闭原因失败
func (c *Connection) Close() error {
	c.closeWithCause(protocol.ErrConnectionClosed)
	return nil
}

func (c *Connection) closeWithCause(cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closeCause = cause
	receivePending := c.receiveQueue
	txPending := c.transactionQueue
	c.receiveQueue = nil
	c.transactionQueue = nil
	c.txResult = nil
	c.txDoomed = nil
	c.mu.Unlock()

	if cause == protocol.ErrConnectionClosed {
		zap.L().Debug("closing connection", zap.String("conn", c.id))
	} else {
		zap.L().Warn("closing connection because of error", zap.String("conn", c.id), zap.Error(cause))
	}
	for _, w := range receivePending {
		w.complete(nil, cause)
	}
	for _, w := range txPending {
		w.complete(nil, cause)
	}
	c.messaging.Close(cause)
	if c.owner != nil {
		c.owner.onConnectionClose(c)
	}
}

// ReturnToPool 归还连接 还有在途命令或处于事务中的连接不允许归还
func (c *Connection) ReturnToPool() error {
	c.mu.Lock()
	if len(c.receiveQueue) > 0 || c.txResult != nil {
		c.mu.Unlock()
		return protocol.ErrCannotReturnToPool
	}
	if c.closed {
		c.mu.Unlock()
		return protocol.ErrConnectionClosed
	}
	if c.inPool {
		c.mu.Unlock()
		return protocol.ErrConnectionInPool
	}
	c.mu.Unlock()
	if c.owner == nil {
		return protocol.ErrCannotReturnToPool
	}
	c.owner.returnConnection(c)
	return nil
}

// setInPool 由连接池在借出/归还时切换
func (c *Connection) setInPool(inPool bool) {
	c.mu.Lock()
	c.inPool = inPool
	c.mu.Unlock()
}

// sendCmd 构建waiter完成目标: 解析响应 完成类型化promise 累积事务结果
// 服务器错误与解析失配是命令级错误 其余解析失败不会出现在此路径
func sendCmd[T any](c *Connection, cmd *command.RedisCommand, parse func(redis.Reply) (T, error)) *promise.Promise[T] {
	if err := cmd.Validate(); err != nil {
		return promise.Failed[T](err)
	}
	p := promise.New[T]()
	err := c.submit(cmd, func(reply redis.Reply, err error) (interface{}, error) {
		if err != nil {
			p.Fail(err)
			return nil, err
		}
		value, parseErr := parse(reply)
		if parseErr != nil {
			p.Fail(parseErr)
			if !protocol.IsExpected(parseErr) {
				c.closeWithCause(parseErr)
			}
			return nil, parseErr
		}
		p.Complete(value)
		return value, nil
	})
	if err != nil {
		return promise.Failed[T](err)
	}
	return p
}

// expectOkCompletion 只接受+OK的完成目标
func expectOkCompletion(p *promise.Promise[Void]) completion {
	return func(reply redis.Reply, err error) (interface{}, error) {
		if err != nil {
			p.Fail(err)
			return nil, err
		}
		value, perr := parseExpectOk(reply)
		if perr != nil {
			p.Fail(perr)
			return nil, perr
		}
		p.Complete(value)
		return value, nil
	}
}

// String 用于日志
func (c *Connection) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Connection{id=%s, charset=%s, transactions=%d, completed=%d, receiveQueue=%d, transactionQueue=%d, closed=%v, inPool=%v}",
		c.id, c.charset.Name(), c.transactions, c.completedTransactions, len(c.receiveQueue), len(c.transactionQueue), c.closed, c.inPool)
}
