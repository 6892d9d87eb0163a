package client

import (
	"fmt"

	"goredis/interface/redis"
	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// 连接与服务器相关命令

// Auth 密码认证
func (c *Connection) Auth(password string) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.Auth, c.bs(password)), parseExpectOk)
}

// AuthUser ACL形态的认证
func (c *Connection) AuthUser(username, password string) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.Auth, c.bs(username), c.bs(password)), parseExpectOk)
}

// ClientGetname 连接名 未设置时为nil
func (c *Connection) ClientGetname() *promise.Promise[*string] {
	return sendCmd(c, command.New(command.ClientGetname), c.parseBulkString)
}

// ClientSetname 设置连接名
func (c *Connection) ClientSetname(connectionName string) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.ClientSetname, c.bs(connectionName)), parseExpectOk)
}

// ClientPause 暂停服务器处理命令
func (c *Connection) ClientPause(pauseMillis int64) *promise.Promise[Void] {
	return sendCmd(c, command.New(command.ClientPause, c.bs(i64(pauseMillis))), parseExpectOk)
}

// Echo 原样返回message
func (c *Connection) Echo(message string) *promise.Promise[string] {
	return sendCmd(c, command.New(command.Echo, c.bs(message)), func(reply redis.Reply) (string, error) {
		s, err := c.parseBulkString(reply)
		if err != nil {
			return "", err
		}
		if s == nil {
			return "", protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
		}
		return *s, nil
	})
}

// Ping 返回PONG
func (c *Connection) Ping() *promise.Promise[string] {
	return sendCmd(c, command.New(command.Ping), func(reply redis.Reply) (string, error) {
		s, err := c.parseString(reply)
		if err != nil {
			return "", err
		}
		if s == nil {
			return "", protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
		}
		return *s, nil
	})
}

// PingMessage 带消息的PING 服务器以bulk string回显
func (c *Connection) PingMessage(message string) *promise.Promise[string] {
	return sendCmd(c, command.New(command.Ping, c.bs(message)), func(reply redis.Reply) (string, error) {
		s, err := c.parseString(reply)
		if err != nil {
			return "", err
		}
		if s == nil {
			return "", protocol.NewUnexpectedResponseError("received unexpected 'NIL' response")
		}
		return *s, nil
	})
}

// Select 切换数据库
func (c *Connection) Select(dbIndex int) *promise.Promise[Void] {
	if dbIndex < 0 {
		return promise.Failed[Void](fmt.Errorf("%w: negative DB index", protocol.ErrIllegalArgument))
	}
	return sendCmd(c, command.New(command.Select, c.bs(i64(int64(dbIndex)))), parseExpectOk)
}

// DBSize 当前数据库的key数量
func (c *Connection) DBSize() *promise.Promise[int64] {
	return sendCmd(c, command.New(command.DBSize), parseInteger)
}

// FlushAll 清空所有数据库
func (c *Connection) FlushAll(async bool) *promise.Promise[Void] {
	if async {
		return sendCmd(c, command.New(command.FlushAll, c.bs("ASYNC")), parseExpectOk)
	}
	return sendCmd(c, command.New(command.FlushAll), parseExpectOk)
}

// Watch 对key做乐观锁 被修改时EXEC返回*-1
func (c *Connection) Watch(key string, otherKeys ...string) *promise.Promise[Void] {
	if c.InTransaction() {
		return promise.Failed[Void](fmt.Errorf("%w: WATCH inside MULTI", protocol.ErrIllegalArgument))
	}
	return sendCmd(c, command.New(command.Watch, c.argsN(key, otherKeys)...), parseExpectOk)
}

// Unwatch 取消全部WATCH
func (c *Connection) Unwatch() *promise.Promise[Void] {
	return sendCmd(c, command.New(command.Unwatch), parseExpectOk)
}
