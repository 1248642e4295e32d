package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// Префикс ключей клиентов
	customerKeyPrefix = "customer:"

	// DefaultCacheTTL TTL для кэша
	DefaultCacheTTL = 15 * time.Minute
)

// CustomerCache stores single customers by id. A miss is (nil, nil).
type CustomerCache interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Set(ctx context.Context, customer domain.Customer) error
	Delete(ctx context.Context, id string) error
}

// RedisCustomerCache реализует кеширование клиентов с использованием Redis
type RedisCustomerCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", addr)
	return client, nil
}

// NewRedisCustomerCache wraps an established client. A non-positive ttl
// falls back to DefaultCacheTTL.
func NewRedisCustomerCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCustomerCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCustomerCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Close закрывает соединение с Redis
func (r *RedisCustomerCache) Close() error {
	return r.client.Close()
}

// Set кеширует клиента в Redis
func (r *RedisCustomerCache) Set(ctx context.Context, customer domain.Customer) error {
	key := customerKeyPrefix + customer.ID

	data, err := json.Marshal(customer)
	if err != nil {
		r.log.Errorw("Failed to marshal customer for caching", "error", err, "customerID", customer.ID)
		return fmt.Errorf("failed to marshal customer: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.log.Errorw("Failed to cache customer in Redis", "error", err, "customerID", customer.ID)
		return fmt.Errorf("failed to cache customer: %w", err)
	}

	r.log.Debugw("Customer cached successfully", "customerID", customer.ID)
	return nil
}

// Get получает клиента из кеша
func (r *RedisCustomerCache) Get(ctx context.Context, id string) (*domain.Customer, error) {
	data, err := r.client.Get(ctx, customerKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.log.Debugw("Customer not found in cache", "customerID", id)
			return nil, nil
		}
		r.log.Errorw("Error getting customer from Redis", "error", err, "customerID", id)
		return nil, fmt.Errorf("failed to get customer from cache: %w", err)
	}

	var customer domain.Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		r.log.Errorw("Failed to unmarshal cached customer", "error", err, "customerID", id)
		return nil, fmt.Errorf("failed to unmarshal cached customer: %w", err)
	}

	r.log.Debugw("Customer retrieved from cache", "customerID", id)
	return &customer, nil
}

// Delete удаляет клиента из кеша
func (r *RedisCustomerCache) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, customerKeyPrefix+id).Err(); err != nil {
		r.log.Errorw("Failed to delete customer from cache", "error", err, "customerID", id)
		return fmt.Errorf("failed to delete customer from cache: %w", err)
	}

	r.log.Debugw("Customer deleted from cache", "customerID", id)
	return nil
}
