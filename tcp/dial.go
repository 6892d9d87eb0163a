package tcp

import (
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const defaultDialTimeout = 10 * time.Second

type Config struct {
	Address string
	TimeOut time.Duration
}

// Dial 建立到服务端的tcp连接 单次失败按指数退避重试 直到超出总超时
func Dial(cfg *Config) (net.Conn, error) {
	timeout := cfg.TimeOut
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxElapsedTime = timeout

	var conn net.Conn
	err := backoff.Retry(func() error {
		var dialErr error
		conn, dialErr = net.DialTimeout("tcp", cfg.Address, timeout)
		if dialErr != nil {
			zap.L().Debug("dial failed, retrying", zap.String("address", cfg.Address), zap.Error(dialErr))
		}
		return dialErr
	}, policy)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
