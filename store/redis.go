package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements RecordStore using Redis.
// The snapshot lives in a single hash keyed by user ID, with each field
// holding the record encoded as JSON. Save replaces the hash inside a
// transactional pipeline so readers never observe a half-written snapshot.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedis creates a new Redis record store from a Redis client and a hash
// key. An empty key falls back to "whereabouts:records".
func NewRedis(client *redis.Client, key string) (*RedisStore, error) {
	if key == "" {
		key = "whereabouts:records"
	}
	return &RedisStore{
		client: client,
		key:    key,
	}, nil
}

// RedisConfig contains configuration options for Redis.
type RedisConfig struct {
	// Addr is the Redis server address (e.g., "localhost:6379")
	Addr string

	// Password is the Redis password (empty for no auth)
	Password string

	// DB is the Redis database number (0-15)
	DB int

	// Key is the hash key holding the snapshot (default: "whereabouts:records")
	Key string
}

// NewRedisFromConfig creates a new Redis record store and verifies the
// connection.
func NewRedisFromConfig(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: failed to connect: %w", err)
	}

	return NewRedis(client, cfg.Key)
}

// Load reads the whole snapshot hash.
func (s *RedisStore) Load() (map[string]Record, error) {
	ctx := context.Background()

	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read snapshot: %w: %w", ErrStorageRead, err)
	}

	records := make(map[string]Record, len(fields))
	for userID, value := range fields {
		var r recordJSON
		if err := json.Unmarshal([]byte(value), &r); err != nil {
			return nil, fmt.Errorf("redis: decode record for %s: %w: %w", userID, ErrStorageRead, err)
		}
		records[userID] = Record{
			UserID:    userID,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
	}
	return records, nil
}

// Save replaces the snapshot hash with the given records.
func (s *RedisStore) Save(records map[string]Record) error {
	ctx := context.Background()

	fields := make(map[string]interface{}, len(records))
	for userID, rec := range records {
		value, err := json.Marshal(recordJSON{Latitude: rec.Latitude, Longitude: rec.Longitude})
		if err != nil {
			return fmt.Errorf("redis: encode record for %s: %w: %w", userID, ErrStorageWrite, err)
		}
		fields[userID] = string(value)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(fields) > 0 {
		pipe.HSet(ctx, s.key, fields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: write snapshot: %w: %w", ErrStorageWrite, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
