// Package mapper converts between customer requests, the stored entity and
// response projections.
package mapper

import (
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
)

// Timestamp normalizes t to the precision every storage driver keeps
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// ToEntity builds a new, not yet identified customer from a create request
func ToEntity(req domain.CreateCustomerRequest, now time.Time) domain.Customer {
	status := domain.CustomerStatusActive
	if req.Status != nil {
		status = *req.Status
	}

	ts := Timestamp(now)
	return domain.Customer{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     cloneString(req.Address),
		DateOfBirth: cloneDate(req.DateOfBirth),
		Status:      status,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// ApplyUpdate overwrites every field present in req and bumps UpdatedAt.
// UpdatedAt moves forward even when req carries no field at all, and always
// ends up strictly after its previous value.
func ApplyUpdate(c domain.Customer, req domain.UpdateCustomerRequest, now time.Time) domain.Customer {
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = cloneString(req.Address)
	}
	if req.DateOfBirth != nil {
		c.DateOfBirth = cloneDate(req.DateOfBirth)
	}
	if req.Status != nil {
		c.Status = *req.Status
	}

	ts := Timestamp(now)
	if !ts.After(c.UpdatedAt) {
		ts = c.UpdatedAt.Add(time.Microsecond)
	}
	c.UpdatedAt = ts
	return c
}

// ToResponse copies every field of c
func ToResponse(c domain.Customer) domain.CustomerResponse {
	return domain.CustomerResponse{
		CustomerID:  c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     cloneString(c.Address),
		DateOfBirth: cloneDate(c.DateOfBirth),
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToSummary keeps only id, names, email and status
func ToSummary(c domain.Customer) domain.CustomerSummary {
	return domain.CustomerSummary{
		CustomerID: c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Status:     c.Status,
	}
}

// ToListResponse maps a page of customers to summaries with navigation data
func ToListResponse(page domain.Page[domain.Customer]) domain.CustomerListResponse {
	summaries := make([]domain.CustomerSummary, 0, len(page.Items))
	for _, c := range page.Items {
		summaries = append(summaries, ToSummary(c))
	}

	return domain.CustomerListResponse{
		Customers:     summaries,
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
		HasNext:       page.HasNext(),
		HasPrevious:   page.HasPrevious(),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDate(d *domain.Date) *domain.Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
