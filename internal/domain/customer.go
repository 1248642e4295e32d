package domain

import (
	"strings"
	"time"
)

// CustomerStatus is the lifecycle state of a customer account
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// CustomerStatuses lists every valid status in declaration order
var CustomerStatuses = []CustomerStatus{
	CustomerStatusActive,
	CustomerStatusInactive,
	CustomerStatusSuspended,
}

// IsValid reports whether s is one of the defined statuses
func (s CustomerStatus) IsValid() bool {
	for _, st := range CustomerStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseCustomerStatus parses a status name, ignoring case and surrounding spaces
func ParseCustomerStatus(s string) (CustomerStatus, bool) {
	st := CustomerStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", false
	}
	return st, true
}

// Customer is the persisted customer record
type Customer struct {
	ID          string         `json:"customerId"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     *string        `json:"address"`
	DateOfBirth *Date          `json:"dateOfBirth"`
	Status      CustomerStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// HasID reports whether an identifier has been assigned
func (c Customer) HasID() bool {
	return c.ID != ""
}

// Equal compares two records by identity. A record without an assigned id
// has no identity yet and is not equal to any record, itself included.
func (c Customer) Equal(other Customer) bool {
	if !c.HasID() || !other.HasID() {
		return false
	}
	return c.ID == other.ID
}

// EmailKey returns the value email uniqueness is enforced on
func EmailKey(email string) string {
	return strings.ToLower(email)
}

// CreateCustomerRequest is the payload for creating a customer
type CreateCustomerRequest struct {
	FirstName   string          `json:"firstName" validate:"notblank,max=50"`
	LastName    string          `json:"lastName" validate:"notblank,max=50"`
	Email       string          `json:"email" validate:"notblank,email"`
	Phone       string          `json:"phone" validate:"notblank,phone"`
	Address     *string         `json:"address,omitempty" validate:"omitnil,max=200"`
	DateOfBirth *Date           `json:"dateOfBirth,omitempty"`
	Status      *CustomerStatus `json:"status,omitempty" validate:"omitnil,customer_status"`
}

// UpdateCustomerRequest is a partial update: nil fields are left untouched
type UpdateCustomerRequest struct {
	FirstName   *string         `json:"firstName,omitempty" validate:"omitnil,notblank,max=50"`
	LastName    *string         `json:"lastName,omitempty" validate:"omitnil,notblank,max=50"`
	Email       *string         `json:"email,omitempty" validate:"omitnil,notblank,email"`
	Phone       *string         `json:"phone,omitempty" validate:"omitnil,notblank,phone"`
	Address     *string         `json:"address,omitempty" validate:"omitnil,max=200"`
	DateOfBirth *Date           `json:"dateOfBirth,omitempty"`
	Status      *CustomerStatus `json:"status,omitempty" validate:"omitnil,customer_status"`
}

// CustomerResponse is the full customer representation returned to callers
type CustomerResponse struct {
	CustomerID  string         `json:"customerId"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     *string        `json:"address"`
	DateOfBirth *Date          `json:"dateOfBirth"`
	Status      CustomerStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CustomerSummary is the reduced projection used in list and search results
type CustomerSummary struct {
	CustomerID string         `json:"customerId"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Email      string         `json:"email"`
	Status     CustomerStatus `json:"status"`
}

// CustomerListResponse is one page of customer summaries plus navigation data
type CustomerListResponse struct {
	Customers     []CustomerSummary `json:"customers"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	HasNext       bool              `json:"hasNext"`
	HasPrevious   bool              `json:"hasPrevious"`
}
