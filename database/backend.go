package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qc-registry/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when an entry has never been written.
var ErrNotFound = errors.New("state entry not found")

// Backend persists the serialized state entries by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend selected by STORE_DRIVER.
func Open(ctx context.Context, log *zap.Logger) (Backend, error) {
	switch strings.ToLower(config.StoreDriver) {
	case "", "memory":
		log.Warn("using in-memory state store, data is lost on restart")
		return NewMemoryBackend(), nil
	case "database":
		if err := EnsureDatabaseExists(config.DBName); err != nil {
			log.Warn("could not ensure database exists", zap.String("db", config.DBName), zap.Error(err))
		}
		db, err := OpenDatabaseConnection(config.DBName)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		backend, err := NewGormBackend(db, config.StorePrefix)
		if err != nil {
			return nil, err
		}
		log.Info("connected to database", zap.String("driver", config.DBDriver), zap.String("db", config.DBName))
		return backend, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("connected to redis", zap.String("addr", config.RedisAddr))
		return NewRedisBackend(client, config.StorePrefix), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER: %s", config.StoreDriver)
	}
}
