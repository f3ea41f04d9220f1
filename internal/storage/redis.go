package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/domain"
	"emberdelve-server/pkg/logger"
)

const (
	redisLogKeyPrefix = "emberdelve:log:"
	redisGamesKey     = "emberdelve:games"
)

// RedisStore хранит журналы партий в Redis: журнал - строка JSON по
// ключу партии, плюс общий set идентификаторов для листинга.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore подключается к Redis и проверяет связь.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "redis_store",
		"addr":      addr,
	}).Info("Connected to Redis.")
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, gameLog *domain.GameLog) error {
	data, err := json.Marshal(gameLog)
	if err != nil {
		return fmt.Errorf("marshal game log: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisLogKeyPrefix+gameLog.Meta.GameID, data, 0)
	pipe.SAdd(ctx, redisGamesKey, gameLog.Meta.GameID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save game log: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, gameID string) (*domain.GameLog, error) {
	data, err := s.client.Get(ctx, redisLogKeyPrefix+gameID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game log: %w", err)
	}

	var gameLog domain.GameLog
	if err := json.Unmarshal(data, &gameLog); err != nil {
		return nil, fmt.Errorf("parse game log %s: %w", gameID, err)
	}
	return &gameLog, nil
}

func (s *RedisStore) List(ctx context.Context) ([]domain.LogMeta, error) {
	ids, err := s.client.SMembers(ctx, redisGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	var metas []domain.LogMeta
	for _, id := range ids {
		gameLog, err := s.Load(ctx, id)
		if err == ErrNotFound {
			// Осиротевший ID в индексе - подчищаем
			s.client.SRem(ctx, redisGamesKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		metas = append(metas, gameLog.Meta)
	}
	return metas, nil
}

func (s *RedisStore) Delete(ctx context.Context, gameID string) error {
	removed, err := s.client.Del(ctx, redisLogKeyPrefix+gameID).Result()
	if err != nil {
		return fmt.Errorf("delete game log: %w", err)
	}
	s.client.SRem(ctx, redisGamesKey, gameID)
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
