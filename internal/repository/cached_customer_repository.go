package repository

import (
	"context"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/pkg/logger"
)

// CachedCustomerRepository реализует CustomerRepository с кешированием.
// Only single-customer reads by id go through the cache; list and search
// queries always hit the underlying store. Cache failures are logged and
// never fail the call.
type CachedCustomerRepository struct {
	CustomerRepository
	cache CustomerCache
	log   *logger.Logger
}

// NewCachedCustomerRepository создает новый репозиторий с кешированием
func NewCachedCustomerRepository(repo CustomerRepository, cache CustomerCache, log *logger.Logger) *CachedCustomerRepository {
	return &CachedCustomerRepository{
		CustomerRepository: repo,
		cache:              cache,
		log:                log,
	}
}

// Create сохраняет клиента в БД и кеширует его
func (r *CachedCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	created, err := r.CustomerRepository.Create(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := r.cache.Set(ctx, created); err != nil {
		r.log.Warnw("Failed to cache customer after creation", "error", err, "customerID", created.ID)
	}

	return created, nil
}

// GetByID получает клиента по ID (сначала из кеша, потом из БД)
func (r *CachedCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	cached, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warnw("Error getting customer from cache", "error", err, "customerID", id)
	}
	if cached != nil {
		return *cached, nil
	}

	customer, err := r.CustomerRepository.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := r.cache.Set(ctx, customer); err != nil {
		r.log.Warnw("Failed to cache customer after fetching", "error", err, "customerID", id)
	}

	return customer, nil
}

// invalidate drops id from the cache, logging failures
func (r *CachedCustomerRepository) invalidate(ctx context.Context, id, after string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warnw("Failed to invalidate customer cache", "error", err, "customerID", id, "after", after)
	}
}

// Update обновляет клиента в БД и инвалидирует кеш.
// The key is dropped before and after the write, so a read-through that
// re-caches the old row during the write is cleared again. A read whose Set
// lands after the second delete stays stale until the TTL expires.
func (r *CachedCustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.invalidate(ctx, customer.ID, "update start")

	updated, err := r.CustomerRepository.Update(ctx, customer)

	// the stored row may differ from the cached one whatever the outcome
	r.invalidate(ctx, customer.ID, "update")

	if err != nil {
		return domain.Customer{}, err
	}
	return updated, nil
}

// Delete удаляет клиента из БД и кеша
func (r *CachedCustomerRepository) Delete(ctx context.Context, id string) error {
	r.invalidate(ctx, id, "delete start")

	err := r.CustomerRepository.Delete(ctx, id)

	r.invalidate(ctx, id, "delete")
	return err
}

// ExistsByID answers from the cache when it holds the customer
func (r *CachedCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if cached, err := r.cache.Get(ctx, id); err == nil && cached != nil {
		return true, nil
	}
	return r.CustomerRepository.ExistsByID(ctx, id)
}
