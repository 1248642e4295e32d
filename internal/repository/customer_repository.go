package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Dhoini/customer-service/internal/domain"
)

// CustomerRepository is the persistence collaborator of the customer service.
//
// Implementations enforce a unique index on domain.EmailKey(email) and report
// a violation as ErrDuplicate. Paged queries order by CreatedAt descending,
// then by ID descending.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcludingID(ctx context.Context, email, id string) (bool, error)
	FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Customer], error)
	FindByStatus(ctx context.Context, status domain.CustomerStatus, page domain.PageRequest) (domain.Page[domain.Customer], error)
	SearchByName(ctx context.Context, term string, page domain.PageRequest) (domain.Page[domain.Customer], error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// InMemoryCustomerRepository реализация репозитория в памяти
type InMemoryCustomerRepository struct {
	customers map[string]domain.Customer
	emails    map[string]string // email key -> customer id
	mutex     sync.RWMutex
}

// NewInMemoryCustomerRepository создает новый репозиторий клиентов в памяти
func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: make(map[string]domain.Customer),
		emails:    make(map[string]string),
	}
}

// Create stores a new customer
func (r *InMemoryCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.customers[customer.ID]; exists {
		return domain.Customer{}, ErrDuplicate
	}
	key := domain.EmailKey(customer.Email)
	if _, taken := r.emails[key]; taken {
		return domain.Customer{}, ErrDuplicate
	}

	r.customers[customer.ID] = customer
	r.emails[key] = customer.ID

	return customer, nil
}

// Update replaces an existing customer
func (r *InMemoryCustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.customers[customer.ID]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	newKey := domain.EmailKey(customer.Email)
	if owner, taken := r.emails[newKey]; taken && owner != customer.ID {
		return domain.Customer{}, ErrDuplicate
	}

	delete(r.emails, domain.EmailKey(existing.Email))
	r.emails[newKey] = customer.ID

	customer.CreatedAt = existing.CreatedAt
	r.customers[customer.ID] = customer

	return customer, nil
}

// GetByID возвращает клиента по ID
func (r *InMemoryCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	return customer, nil
}

func (r *InMemoryCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.emails[domain.EmailKey(email)]
	if !ok {
		return domain.Customer{}, ErrNotFound
	}
	return r.customers[id], nil
}

func (r *InMemoryCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.customers[id]
	return exists, nil
}

func (r *InMemoryCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.emails[domain.EmailKey(email)]
	return exists, nil
}

func (r *InMemoryCustomerRepository) ExistsByEmailExcludingID(ctx context.Context, email, id string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	owner, exists := r.emails[domain.EmailKey(email)]
	return exists && owner != id, nil
}

// FindAll returns one page of all customers, newest first
func (r *InMemoryCustomerRepository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.find(page, func(domain.Customer) bool { return true }), nil
}

func (r *InMemoryCustomerRepository) FindByStatus(ctx context.Context, status domain.CustomerStatus, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.find(page, func(c domain.Customer) bool { return c.Status == status }), nil
}

// SearchByName matches term as a case-insensitive substring of either name
func (r *InMemoryCustomerRepository) SearchByName(ctx context.Context, term string, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	needle := strings.ToLower(term)
	return r.find(page, func(c domain.Customer) bool {
		return strings.Contains(strings.ToLower(c.FirstName), needle) ||
			strings.Contains(strings.ToLower(c.LastName), needle)
	}), nil
}

func (r *InMemoryCustomerRepository) find(page domain.PageRequest, match func(domain.Customer) bool) domain.Page[domain.Customer] {
	r.mutex.RLock()
	matched := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if match(c) {
			matched = append(matched, c)
		}
	}
	r.mutex.RUnlock()

	SortNewestFirst(matched)

	start, end := domain.Window(len(matched), page)
	items := make([]domain.Customer, end-start)
	copy(items, matched[start:end])

	return domain.NewPage(items, page, int64(len(matched)))
}

// Delete удаляет клиента
func (r *InMemoryCustomerRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.customers[id]
	if !exists {
		return ErrNotFound
	}

	delete(r.emails, domain.EmailKey(existing.Email))
	delete(r.customers, id)

	return nil
}

// Ping always succeeds for the in-memory store
func (r *InMemoryCustomerRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Count returns the number of stored customers
func (r *InMemoryCustomerRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.customers)
}

// SortNewestFirst orders customers by CreatedAt descending, then ID descending
func SortNewestFirst(customers []domain.Customer) {
	sort.SliceStable(customers, func(i, j int) bool {
		if !customers[i].CreatedAt.Equal(customers[j].CreatedAt) {
			return customers[i].CreatedAt.After(customers[j].CreatedAt)
		}
		return customers[i].ID > customers[j].ID
	})
}
