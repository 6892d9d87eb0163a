package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"goredis/config"
	"goredis/redis/protocol"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, s *testServer, maxConnections int) *RedisClient {
	cfg := config.Default(s.addr())
	cfg.MaxConnections = maxConnections
	cfg.ConnectTimeout = awaitTimeout
	cl, err := NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cl.Shutdown)
	return cl
}

func TestPoolReusesIdleConnection(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 2)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	s.accept()
	assert.Equal(t, 1, cl.ActiveConnections())

	assert.Nil(t, conn.ReturnToPool())
	assert.Equal(t, 1, cl.IdleConnections())

	again, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	assert.Same(t, conn, again)
	assert.Equal(t, 0, cl.IdleConnections())
}

func TestPoolBoundAndQueueing(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 1)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	s.accept()

	// 池已满 第二个借出方排队
	acquired := make(chan *Connection, 1)
	go func() {
		second, err := cl.GetConnection(context.Background())
		assert.Nil(t, err)
		acquired <- second
	}()

	select {
	case <-acquired:
		t.Fatal("acquired beyond the pool bound")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, cl.ActiveConnections())

	assert.Nil(t, conn.ReturnToPool())
	select {
	case second := <-acquired:
		assert.Same(t, conn, second)
	case <-time.After(awaitTimeout):
		t.Fatal("queued acquirer was not served")
	}
}

func TestPoolAcquireCancellation(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 1)

	_, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	s.accept()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = cl.GetConnection(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCannotReturnWithOutstandingCommands(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 1)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	sc := s.accept()

	p := conn.Ping()
	sc.expect("PING")
	assert.True(t, errors.Is(conn.ReturnToPool(), protocol.ErrCannotReturnToPool))

	sc.write("+PONG\r\n")
	_, err = await(t, p)
	assert.Nil(t, err)
	assert.Nil(t, conn.ReturnToPool())
}

func TestCannotReturnInTransaction(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 1)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	sc := s.accept()

	multiPromise := conn.Multi()
	sc.expect("MULTI")
	sc.write("+OK\r\n")
	_, err = await(t, multiPromise)
	assert.Nil(t, err)
	assert.True(t, errors.Is(conn.ReturnToPool(), protocol.ErrCannotReturnToPool))
}

func TestPooledConnectionRejectsSubmission(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 1)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	s.accept()
	assert.Nil(t, conn.ReturnToPool())

	_, err = conn.Ping().AwaitTimeout(awaitTimeout)
	assert.True(t, errors.Is(err, protocol.ErrConnectionInPool))
}

func TestClosedConnectionLeavesPool(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 1)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	s.accept()
	assert.Nil(t, conn.ReturnToPool())
	assert.Equal(t, 1, cl.IdleConnections())

	conn.setInPool(false)
	assert.Nil(t, conn.Close())
	assert.Equal(t, 0, cl.ActiveConnections())
	assert.Equal(t, 0, cl.IdleConnections())
}

func TestShutdown(t *testing.T) {
	s := startTestServer(t)
	cl := newTestClient(t, s, 2)

	conn, err := cl.GetConnection(context.Background())
	assert.Nil(t, err)
	s.accept()
	assert.Nil(t, conn.ReturnToPool())

	cl.Shutdown()
	assert.True(t, conn.IsClosed())
	_, err = cl.GetConnection(context.Background())
	assert.True(t, errors.Is(err, protocol.ErrClientShutdown))
	assert.False(t, cl.ShutdownAndWait(awaitTimeout))
}

func TestRejectsUnknownCharset(t *testing.T) {
	cfg := config.Default("127.0.0.1:6379")
	cfg.Charset = "no-such-charset"
	_, err := NewClient(cfg)
	assert.True(t, errors.Is(err, protocol.ErrIllegalArgument))
}
