package services

import (
	"context"
	"encoding/json"
	"time"

	"marciaknow-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis cache service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheAssistantContext(kioskID, prompt string, expiration time.Duration) error
	GetAssistantContext(kioskID string) (string, error)
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheAssistantContext caches the assembled campus context prompt for a kiosk
func (s *RedisService) CacheAssistantContext(kioskID, prompt string, expiration time.Duration) error {
	key := "assistant_context:" + kioskID
	return s.Client.Set(s.Ctx, key, prompt, expiration).Err()
}

// GetAssistantContext gets the cached campus context prompt for a kiosk
func (s *RedisService) GetAssistantContext(kioskID string) (string, error) {
	key := "assistant_context:" + kioskID
	return s.Client.Get(s.Ctx, key).Result()
}
