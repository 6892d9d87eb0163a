package messaging

import (
	"errors"
	"net"
	"testing"
	"time"

	"goredis/redis/command"
	"goredis/redis/parser"
	"goredis/redis/protocol"
	"goredis/utils"

	"github.com/stretchr/testify/assert"
)

func TestReceive(t *testing.T) {
	clientEnd, serverEnd := net.Pipe()
	defer clientEnd.Close()
	m := New(clientEnd)

	go func() {
		_, _ = serverEnd.Write(protocol.NewStatusReply("PONG").ToBytes())
		_, _ = serverEnd.Write(protocol.NewIntReply(3).ToBytes())
	}()

	reply, err := m.Receive()
	assert.Nil(t, err)
	status, ok := reply.(*protocol.StatusReply)
	assert.True(t, ok)
	assert.Equal(t, "PONG", status.Status)

	reply, err = m.Receive()
	assert.Nil(t, err)
	assert.Equal(t, []byte(":3\r\n"), reply.ToBytes())
}

func TestSendWritesWholeCommand(t *testing.T) {
	clientEnd, serverEnd := net.Pipe()
	defer clientEnd.Close()
	m := New(clientEnd)

	payloads := parser.ParseStream(serverEnd)
	go func() {
		assert.Nil(t, m.Send(command.New(command.Set, utils.ToCmdLine("k", "v")...)))
	}()

	select {
	case payload := <-payloads:
		assert.Nil(t, payload.Err)
		elems, ok := protocol.AsArray(payload.Data)
		assert.True(t, ok)
		assert.Equal(t, 3, len(elems))
		name, _ := protocol.ElemBytes(elems, 0)
		assert.Equal(t, []byte("SET"), name)
	case <-time.After(5 * time.Second):
		t.Fatal("no command received")
	}
}

func TestCloseFailsPendingReceive(t *testing.T) {
	clientEnd, serverEnd := net.Pipe()
	defer serverEnd.Close()
	m := New(clientEnd)

	cause := errors.New("shutting down")
	done := make(chan error, 1)
	go func() {
		_, err := m.Receive()
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	m.Close(cause)

	select {
	case err := <-done:
		assert.NotNil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pending receive was not failed")
	}
	assert.True(t, m.IsClosed())

	// 关闭后Send直接拒绝
	err := m.Send(command.New(command.Ping))
	assert.NotNil(t, err)

	// 后续Receive拿到关闭原因或io错误
	_, err = m.Receive()
	assert.NotNil(t, err)
}
