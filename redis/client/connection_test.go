package client

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"goredis/lib/sync/promise"
	"goredis/redis/messaging"
	"goredis/redis/parser"
	"goredis/redis/protocol"

	"github.com/stretchr/testify/assert"
)

const awaitTimeout = 5 * time.Second

// testServer 真实tcp socket上的脚本化RESP服务端
type testServer struct {
	t     *testing.T
	ln    net.Listener
	conns chan net.Conn
}

func startTestServer(t *testing.T) *testServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := &testServer{t: t, ln: ln, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.conns <- conn
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
	})
	return s
}

func (s *testServer) addr() string {
	return s.ln.Addr().String()
}

func (s *testServer) accept() *serverConn {
	select {
	case conn := <-s.conns:
		return &serverConn{t: s.t, conn: conn, payloads: parser.ParseStream(conn)}
	case <-time.After(awaitTimeout):
		s.t.Fatal("no connection accepted")
		return nil
	}
}

// serverConn 服务端侧的一条连接 用解析器读客户端的命令
type serverConn struct {
	t        *testing.T
	conn     net.Conn
	payloads <-chan *parser.Payload
}

// expect 读取一条命令并断言操作码 返回其参数
func (sc *serverConn) expect(name string) [][]byte {
	select {
	case payload := <-sc.payloads:
		if payload.Err != nil {
			sc.t.Fatalf("server read failed: %v", payload.Err)
		}
		elems, ok := protocol.AsArray(payload.Data)
		if !ok {
			sc.t.Fatalf("expected a command array, got %T", payload.Data)
		}
		args := make([][]byte, 0, len(elems))
		for i := range elems {
			arg, err := protocol.ElemBytes(elems, i)
			if err != nil {
				sc.t.Fatal(err)
			}
			args = append(args, arg)
		}
		assert.Equal(sc.t, name, string(args[0]))
		return args[1:]
	case <-time.After(awaitTimeout):
		sc.t.Fatalf("no %s command received", name)
		return nil
	}
}

func (sc *serverConn) write(data string) {
	if _, err := sc.conn.Write([]byte(data)); err != nil {
		sc.t.Fatal(err)
	}
}

func (sc *serverConn) close() {
	_ = sc.conn.Close()
}

func dialTestConnection(t *testing.T, s *testServer) (*Connection, *serverConn) {
	netConn, err := net.Dial("tcp", s.addr())
	if err != nil {
		t.Fatal(err)
	}
	charset, err := NewCharset("UTF-8")
	if err != nil {
		t.Fatal(err)
	}
	conn := newConnection(nil, messaging.New(netConn), charset)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn, s.accept()
}

func await[T any](t *testing.T, p *promise.Promise[T]) (T, error) {
	value, err := p.AwaitTimeout(awaitTimeout)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("future was not completed in time")
	}
	return value, err
}

func TestPing(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	p := conn.Ping()
	sc.expect("PING")
	sc.write("+PONG\r\n")

	pong, err := await(t, p)
	assert.Nil(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestGetMissingKey(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	p := conn.Get("missing")
	sc.expect("GET")
	sc.write("$-1\r\n")

	value, err := await(t, p)
	assert.Nil(t, err)
	assert.Nil(t, value)
}

func TestPipelining(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	// 三条命令先后上线 响应到达前都不等待
	setPromise := conn.Set("k", "v")
	getPromise := conn.Get("k")
	delPromise := conn.Del("k")

	sc.expect("SET")
	sc.expect("GET")
	sc.expect("DEL")
	sc.write("+OK\r\n$1\r\nv\r\n:1\r\n")

	set, err := await(t, setPromise)
	assert.Nil(t, err)
	assert.Equal(t, "OK", *set)
	get, err := await(t, getPromise)
	assert.Nil(t, err)
	assert.Equal(t, "v", *get)
	del, err := await(t, delPromise)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), del)
}

func TestFIFOPairing(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	const n = 10
	promises := make([]*promise.Promise[int64], n)
	for i := 0; i < n; i++ {
		promises[i] = conn.Incr("counter")
	}
	for i := 0; i < n; i++ {
		sc.expect("INCR")
	}
	for i := 0; i < n; i++ {
		sc.write(":" + strconv.Itoa(i+1) + "\r\n")
	}

	for i := 0; i < n; i++ {
		value, err := await(t, promises[i])
		assert.Nil(t, err)
		assert.Equal(t, int64(i+1), value)
	}
}

func TestServerErrorKeepsConnectionOpen(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	p := conn.Get("k")
	sc.expect("GET")
	sc.write("-WRONGTYPE Operation against a key holding the wrong kind of value\r\n")

	_, err := await(t, p)
	var serverErr *protocol.ServerError
	assert.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "WRONGTYPE", serverErr.Code)
	assert.False(t, conn.IsClosed())

	// 连接仍然可用
	pingPromise := conn.Ping()
	sc.expect("PING")
	sc.write("+PONG\r\n")
	pong, err := await(t, pingPromise)
	assert.Nil(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestParseMismatchKeepsConnectionOpen(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	p := conn.Incr("k")
	sc.expect("INCR")
	sc.write("+OK\r\n") // INCR期望整数

	_, err := await(t, p)
	var unexpected *protocol.UnexpectedResponseError
	assert.True(t, errors.As(err, &unexpected))
	assert.False(t, conn.IsClosed())
}

func TestTransactionSuccess(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	multiPromise := conn.Multi()
	sc.expect("MULTI")
	sc.write("+OK\r\n")
	_, err := await(t, multiPromise)
	assert.Nil(t, err)

	setPromise := conn.Set("k", "1")
	sc.expect("SET")
	sc.write("+QUEUED\r\n")
	incrPromise := conn.Incr("k")
	sc.expect("INCR")
	sc.write("+QUEUED\r\n")

	// 事务内命令的future只会在EXEC之后完成
	time.Sleep(50 * time.Millisecond)
	assert.False(t, setPromise.IsComplete())
	assert.False(t, incrPromise.IsComplete())

	execPromise := conn.Exec()
	sc.expect("EXEC")
	sc.write("*2\r\n+OK\r\n:2\r\n")

	set, err := await(t, setPromise)
	assert.Nil(t, err)
	assert.Equal(t, "OK", *set)
	incr, err := await(t, incrPromise)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), incr)
	results, err := await(t, execPromise)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, int64(2), results[1])
	assert.False(t, conn.InTransaction())
}

func TestTransactionWatchFailure(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	multiPromise := conn.Multi()
	sc.expect("MULTI")
	sc.write("+OK\r\n")
	_, err := await(t, multiPromise)
	assert.Nil(t, err)

	setPromise := conn.Set("k", "v")
	sc.expect("SET")
	sc.write("+QUEUED\r\n")

	execPromise := conn.Exec()
	sc.expect("EXEC")
	sc.write("*-1\r\n")

	_, err = await(t, setPromise)
	var failed *protocol.TransactionFailedError
	assert.True(t, errors.As(err, &failed))

	results, err := await(t, execPromise)
	assert.Nil(t, err)
	assert.Nil(t, results)
	assert.False(t, conn.IsClosed())
}

func TestTransactionErrorWhileQueueing(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	multiPromise := conn.Multi()
	sc.expect("MULTI")
	sc.write("+OK\r\n")
	_, err := await(t, multiPromise)
	assert.Nil(t, err)

	firstPromise := conn.Set("k", "v")
	sc.expect("SET")
	sc.write("-ERR some error\r\n")

	_, err = await(t, firstPromise)
	var aborted *protocol.TransactionAbortedError
	assert.True(t, errors.As(err, &aborted))
	var serverErr *protocol.ServerError
	assert.True(t, errors.As(aborted.Cause, &serverErr))

	// 后续命令立即以同样的原因失败 不再上线
	secondPromise := conn.Incr("k")
	_, err = await(t, secondPromise)
	assert.True(t, errors.As(err, &aborted))

	execPromise := conn.Exec()
	sc.expect("EXEC")
	sc.write("-EXECABORT Transaction discarded because of previous errors.\r\n")
	_, err = await(t, execPromise)
	assert.True(t, errors.As(err, &aborted))

	// 连接保持打开
	pingPromise := conn.Ping()
	sc.expect("PING")
	sc.write("+PONG\r\n")
	_, err = await(t, pingPromise)
	assert.Nil(t, err)
}

func TestTransactionDiscard(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	multiPromise := conn.Multi()
	sc.expect("MULTI")
	sc.write("+OK\r\n")
	_, err := await(t, multiPromise)
	assert.Nil(t, err)

	setPromise := conn.Set("k", "v")
	sc.expect("SET")
	sc.write("+QUEUED\r\n")

	discardPromise := conn.Discard()
	sc.expect("DISCARD")
	sc.write("+OK\r\n")

	_, err = await(t, discardPromise)
	assert.Nil(t, err)
	_, err = await(t, setPromise)
	var discarded *protocol.TransactionDiscardedError
	assert.True(t, errors.As(err, &discarded))
	assert.False(t, conn.InTransaction())
	assert.False(t, conn.IsClosed())
}

func TestTransactionFramingMismatchClosesConnection(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	multiPromise := conn.Multi()
	sc.expect("MULTI")
	sc.write("+OK\r\n")
	_, err := await(t, multiPromise)
	assert.Nil(t, err)

	setPromise := conn.Set("k", "v")
	sc.expect("SET")
	sc.write("+QUEUED\r\n")

	execPromise := conn.Exec()
	sc.expect("EXEC")
	sc.write("*2\r\n+OK\r\n:5\r\n") // 入队1条 返回2条

	_, err = await(t, setPromise)
	var mismatch *protocol.FramingMismatchError
	assert.True(t, errors.As(err, &mismatch))
	_, err = await(t, execPromise)
	assert.True(t, errors.As(err, &mismatch))
	assert.True(t, conn.IsClosed())
}

func TestTransportErrorFailsAllOutstanding(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	firstPromise := conn.Get("a")
	secondPromise := conn.Get("b")
	sc.expect("GET")
	sc.expect("GET")
	sc.write("$5\r\nhe") // 半条响应后断开
	sc.close()

	_, err := await(t, firstPromise)
	assert.NotNil(t, err)
	_, err = await(t, secondPromise)
	assert.NotNil(t, err)
	assert.True(t, conn.IsClosed())
}

func TestCloseFailsOutstandingWaiters(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	promises := []*promise.Promise[*string]{
		conn.Get("a"),
		conn.Get("b"),
		conn.Get("c"),
	}
	sc.expect("GET")
	sc.expect("GET")
	sc.expect("GET")

	assert.Nil(t, conn.Close())
	for _, p := range promises {
		_, err := p.AwaitTimeout(awaitTimeout)
		assert.True(t, errors.Is(err, protocol.ErrConnectionClosed))
	}
}

func TestSubmissionGate(t *testing.T) {
	s := startTestServer(t)
	conn, _ := dialTestConnection(t, s)

	assert.Nil(t, conn.Close())
	_, err := conn.Ping().AwaitTimeout(awaitTimeout)
	assert.True(t, errors.Is(err, protocol.ErrConnectionClosed))

	conn2, _ := dialTestConnection(t, s)
	conn2.setInPool(true)
	_, err = conn2.Ping().AwaitTimeout(awaitTimeout)
	assert.True(t, errors.Is(err, protocol.ErrConnectionInPool))
	conn2.setInPool(false)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := startTestServer(t)
	conn, _ := dialTestConnection(t, s)

	assert.Nil(t, conn.Close())
	assert.Nil(t, conn.Close())
	assert.True(t, conn.IsClosed())
}

func TestQuit(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	quitPromise := conn.Quit()
	sc.expect("QUIT")
	sc.write("+OK\r\n")

	_, err := await(t, quitPromise)
	assert.Nil(t, err)
	deadline := time.Now().Add(awaitTimeout)
	for !conn.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.True(t, conn.IsClosed())
}

func TestUnexpectedResponseClosesConnection(t *testing.T) {
	s := startTestServer(t)
	conn, sc := dialTestConnection(t, s)

	// 没有在途命令时到达的响应是协议错误
	sc.write("+OK\r\n")
	deadline := time.Now().Add(awaitTimeout)
	for !conn.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.True(t, conn.IsClosed())
}
