package redis

import (
	"github.com/pkg/errors"

	"github.com/huynhanx03/xk6-queue/pkg/settings"
)

var (
	ErrConnectionFailed = errors.New("redis: connection failed")
	ErrPingFailed       = errors.New("redis: ping failed")
)

// NewConnection creates a Redis engine and verifies it with a ping.
func NewConnection(cfg settings.Redis) (*RedisEngine, error) {
	engine := &RedisEngine{
		config: cfg,
	}

	if err := engine.connect(); err != nil {
		return nil, errors.Wrap(ErrConnectionFailed, err.Error())
	}

	return engine, nil
}
