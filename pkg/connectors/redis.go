package connectors

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/configs"
)

// RedisConnector hands out the shared redis client.
type RedisConnector interface {
	Client() *redis.Client
	Ping(ctx context.Context) error
}

type redisConnector struct {
	client *redis.Client
	logger commons.Logger
}

// NewRedisConnector opens the cache connection.
func NewRedisConnector(cfg configs.RedisConfig, logger commons.Logger) RedisConnector {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Db,
	})
	logger.Infof("redis configured: host=%s db=%d", cfg.Host, cfg.Db)
	return &redisConnector{client: client, logger: logger}
}

// NewRedisConnectorWithClient wraps an existing client. Used by tests with
// redismock.
func NewRedisConnectorWithClient(client *redis.Client, logger commons.Logger) RedisConnector {
	return &redisConnector{client: client, logger: logger}
}

func (r *redisConnector) Client() *redis.Client {
	return r.client
}

func (r *redisConnector) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
