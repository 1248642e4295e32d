package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/mapper"
	"github.com/Dhoini/customer-service/internal/metrics"
	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/internal/validation"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/google/uuid"
)

// CustomerService интерфейс сервиса для работы с клиентами
type CustomerService interface {
	Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.CustomerResponse, error)
	GetByID(ctx context.Context, id string) (domain.CustomerResponse, error)
	GetByEmail(ctx context.Context, email string) (domain.CustomerResponse, error)
	List(ctx context.Context, page, size int, status *domain.CustomerStatus) (domain.CustomerListResponse, error)
	Update(ctx context.Context, id string, req domain.UpdateCustomerRequest) (domain.CustomerResponse, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, name string, page, size int) (domain.CustomerListResponse, error)
}

// Validator checks a request payload and returns domain.ValidationErrors
type Validator interface {
	Validate(payload any) error
}

// Option настраивает сервис
type Option func(*customerService)

// WithClock replaces time.Now as the source of audit timestamps
func WithClock(now func() time.Time) Option {
	return func(s *customerService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString as the source of customer ids
func WithIDGenerator(newID func() string) Option {
	return func(s *customerService) { s.newID = newID }
}

type customerService struct {
	repo      repository.CustomerRepository
	validator Validator
	metrics   metrics.CustomerMetrics
	log       *logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewCustomerService создает новый сервис для работы с клиентами
func NewCustomerService(
	repo repository.CustomerRepository,
	validator Validator,
	m metrics.CustomerMetrics,
	log *logger.Logger,
	opts ...Option,
) CustomerService {
	if m == nil {
		m = metrics.NopCustomerMetrics{}
	}
	s := &customerService{
		repo:      repo,
		validator: validator,
		metrics:   m,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe records the outcome of one operation; use as
// defer s.observe("op", time.Now(), &err)
func (s *customerService) observe(operation string, start time.Time, errp *error) {
	s.metrics.ObserveOperation(operation, outcome(*errp), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.OutcomeValidationError
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return metrics.OutcomeDuplicateEmail
	default:
		return metrics.OutcomeError
	}
}

func (s *customerService) Create(ctx context.Context, req domain.CreateCustomerRequest) (resp domain.CustomerResponse, err error) {
	defer s.observe("create", time.Now(), &err)
	s.log.Debugw("Creating customer", "email", req.Email)

	if err := s.validator.Validate(req); err != nil {
		s.log.Debugw("Create request rejected", "error", err)
		return domain.CustomerResponse{}, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return domain.CustomerResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.log.Infow("Customer email already taken", "email", req.Email)
		return domain.CustomerResponse{}, domain.NewDuplicateEmailError(req.Email)
	}

	customer := mapper.ToEntity(req, s.now())
	customer.ID = s.newID()

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent create for the same email
			s.log.Infow("Customer email taken concurrently", "email", req.Email)
			return domain.CustomerResponse{}, domain.NewDuplicateEmailError(req.Email)
		}
		s.log.Errorw("Failed to create customer", "error", err)
		return domain.CustomerResponse{}, fmt.Errorf("create customer: %w", err)
	}

	s.log.Infow("Customer created", "customerID", created.ID)
	return mapper.ToResponse(created), nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (resp domain.CustomerResponse, err error) {
	defer s.observe("get", time.Now(), &err)
	s.log.Debugw("Getting customer", "customerID", id)

	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CustomerResponse{}, domain.NewCustomerNotFoundError(id)
		}
		s.log.Errorw("Failed to get customer", "error", err, "customerID", id)
		return domain.CustomerResponse{}, fmt.Errorf("get customer: %w", err)
	}

	return mapper.ToResponse(customer), nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (resp domain.CustomerResponse, err error) {
	defer s.observe("get_by_email", time.Now(), &err)

	customer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CustomerResponse{}, &domain.NotFoundError{Entity: "Customer", Field: "email", ID: email}
		}
		s.log.Errorw("Failed to get customer by email", "error", err)
		return domain.CustomerResponse{}, fmt.Errorf("get customer by email: %w", err)
	}

	return mapper.ToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, page, size int, status *domain.CustomerStatus) (resp domain.CustomerListResponse, err error) {
	defer s.observe("list", time.Now(), &err)

	req := domain.NewPageRequest(page, size)

	var result domain.Page[domain.Customer]
	if status != nil {
		if !status.IsValid() {
			return domain.CustomerListResponse{}, validation.InvalidStatus()
		}
		result, err = s.repo.FindByStatus(ctx, *status, req)
	} else {
		result, err = s.repo.FindAll(ctx, req)
	}
	if err != nil {
		s.log.Errorw("Failed to list customers", "error", err)
		return domain.CustomerListResponse{}, fmt.Errorf("list customers: %w", err)
	}

	return mapper.ToListResponse(result), nil
}

func (s *customerService) Update(ctx context.Context, id string, req domain.UpdateCustomerRequest) (resp domain.CustomerResponse, err error) {
	defer s.observe("update", time.Now(), &err)
	s.log.Debugw("Updating customer", "customerID", id)

	if err := s.validator.Validate(req); err != nil {
		s.log.Debugw("Update request rejected", "error", err, "customerID", id)
		return domain.CustomerResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CustomerResponse{}, domain.NewCustomerNotFoundError(id)
		}
		return domain.CustomerResponse{}, fmt.Errorf("get customer: %w", err)
	}

	if req.Email != nil && *req.Email != existing.Email {
		taken, err := s.repo.ExistsByEmailExcludingID(ctx, *req.Email, id)
		if err != nil {
			return domain.CustomerResponse{}, fmt.Errorf("check email: %w", err)
		}
		if taken {
			s.log.Infow("Customer email already taken", "email", *req.Email, "customerID", id)
			return domain.CustomerResponse{}, domain.NewDuplicateEmailError(*req.Email)
		}
	}

	updated, err := s.repo.Update(ctx, mapper.ApplyUpdate(existing, req, s.now()))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			email := existing.Email
			if req.Email != nil {
				email = *req.Email
			}
			return domain.CustomerResponse{}, domain.NewDuplicateEmailError(email)
		case errors.Is(err, repository.ErrNotFound):
			// deleted between read and write
			return domain.CustomerResponse{}, domain.NewCustomerNotFoundError(id)
		}
		s.log.Errorw("Failed to update customer", "error", err, "customerID", id)
		return domain.CustomerResponse{}, fmt.Errorf("update customer: %w", err)
	}

	s.log.Infow("Customer updated", "customerID", id)
	return mapper.ToResponse(updated), nil
}

func (s *customerService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)
	s.log.Debugw("Deleting customer", "customerID", id)

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return domain.NewCustomerNotFoundError(id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewCustomerNotFoundError(id)
		}
		s.log.Errorw("Failed to delete customer", "error", err, "customerID", id)
		return fmt.Errorf("delete customer: %w", err)
	}

	s.log.Infow("Customer deleted", "customerID", id)
	return nil
}

func (s *customerService) Search(ctx context.Context, name string, page, size int) (resp domain.CustomerListResponse, err error) {
	defer s.observe("search", time.Now(), &err)

	req := domain.NewPageRequest(page, size)
	if strings.TrimSpace(name) == "" {
		return mapper.ToListResponse(domain.NewPage[domain.Customer](nil, req, 0)), nil
	}

	result, err := s.repo.SearchByName(ctx, name, req)
	if err != nil {
		s.log.Errorw("Failed to search customers", "error", err)
		return domain.CustomerListResponse{}, fmt.Errorf("search customers: %w", err)
	}

	return mapper.ToListResponse(result), nil
}
