package mapper

import (
	"testing"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
)

func strPtr(s string) *string { return &s }

var baseTime = time.Date(2024, time.March, 1, 10, 0, 0, 123456789, time.UTC)

func TestToEntityDefaultsStatusAndStampsTimes(t *testing.T) {
	dob := domain.NewDate(1990, time.January, 2)
	req := domain.CreateCustomerRequest{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@x.com",
		Phone:       "+1234567890",
		Address:     strPtr("1 Main St"),
		DateOfBirth: &dob,
	}

	c := ToEntity(req, baseTime)

	if c.HasID() {
		t.Error("ToEntity must not assign an id")
	}
	if c.Status != domain.CustomerStatusActive {
		t.Errorf("status = %s, want ACTIVE", c.Status)
	}
	want := baseTime.Truncate(time.Microsecond)
	if !c.CreatedAt.Equal(want) || !c.UpdatedAt.Equal(want) {
		t.Errorf("timestamps = %v/%v, want %v", c.CreatedAt, c.UpdatedAt, want)
	}
	if *c.Address != "1 Main St" || !c.DateOfBirth.Equal(dob) {
		t.Errorf("optional fields not copied: %+v", c)
	}

	*req.Address = "changed"
	if *c.Address != "1 Main St" {
		t.Error("entity must not share the request's address pointer")
	}
}

func TestToEntityKeepsExplicitStatus(t *testing.T) {
	status := domain.CustomerStatusInactive
	c := ToEntity(domain.CreateCustomerRequest{Status: &status}, baseTime)
	if c.Status != domain.CustomerStatusInactive {
		t.Errorf("status = %s, want INACTIVE", c.Status)
	}
}

func TestApplyUpdateOnlyTouchesPresentFields(t *testing.T) {
	existing := domain.Customer{
		ID:        "c-1",
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Phone:     "+1234567890",
		Address:   strPtr("1 Main St"),
		Status:    domain.CustomerStatusActive,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}

	updated := ApplyUpdate(existing, domain.UpdateCustomerRequest{LastName: strPtr("Smith")}, baseTime.Add(time.Minute))

	if updated.LastName != "Smith" {
		t.Errorf("lastName = %q, want Smith", updated.LastName)
	}
	if updated.FirstName != "John" || updated.Email != "john@x.com" || updated.Phone != "+1234567890" {
		t.Errorf("unset fields changed: %+v", updated)
	}
	if *updated.Address != "1 Main St" || updated.Status != domain.CustomerStatusActive {
		t.Errorf("unset optional fields changed: %+v", updated)
	}
	if updated.ID != existing.ID || !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Error("id and createdAt are immutable")
	}
	if !updated.UpdatedAt.After(existing.UpdatedAt) {
		t.Error("updatedAt must advance")
	}
}

func TestApplyUpdateEmptyRequestStillBumpsUpdatedAt(t *testing.T) {
	existing := domain.Customer{ID: "c-1", UpdatedAt: baseTime.Truncate(time.Microsecond)}

	// a clock that did not move still yields a strictly later stamp
	updated := ApplyUpdate(existing, domain.UpdateCustomerRequest{}, existing.UpdatedAt)
	if !updated.UpdatedAt.After(existing.UpdatedAt) {
		t.Fatalf("updatedAt = %v, want after %v", updated.UpdatedAt, existing.UpdatedAt)
	}

	// and so does a clock that went backwards
	updated = ApplyUpdate(existing, domain.UpdateCustomerRequest{}, baseTime.Add(-time.Hour))
	if !updated.UpdatedAt.After(existing.UpdatedAt) {
		t.Fatalf("updatedAt = %v, want after %v", updated.UpdatedAt, existing.UpdatedAt)
	}
}

func TestApplyUpdateOverwritesEveryField(t *testing.T) {
	dob := domain.NewDate(1985, time.December, 31)
	status := domain.CustomerStatusSuspended
	req := domain.UpdateCustomerRequest{
		FirstName:   strPtr("Jane"),
		LastName:    strPtr("Roe"),
		Email:       strPtr("jane@x.com"),
		Phone:       strPtr("0987654321"),
		Address:     strPtr("2 Side St"),
		DateOfBirth: &dob,
		Status:      &status,
	}

	c := ApplyUpdate(domain.Customer{ID: "c-1"}, req, baseTime)

	if c.FirstName != "Jane" || c.LastName != "Roe" || c.Email != "jane@x.com" || c.Phone != "0987654321" {
		t.Errorf("required fields not overwritten: %+v", c)
	}
	if *c.Address != "2 Side St" || !c.DateOfBirth.Equal(dob) || c.Status != status {
		t.Errorf("optional fields not overwritten: %+v", c)
	}
}

func TestSummaryAndListResponse(t *testing.T) {
	c := domain.Customer{
		ID: "c-1", FirstName: "John", LastName: "Doe", Email: "john@x.com",
		Phone: "+1234567890", Status: domain.CustomerStatusActive,
	}

	s := ToSummary(c)
	if s.CustomerID != "c-1" || s.Email != "john@x.com" || s.Status != domain.CustomerStatusActive {
		t.Errorf("unexpected summary %+v", s)
	}

	page := domain.NewPage([]domain.Customer{c, c, c}, domain.PageRequest{Page: 0, Size: 10}, 3)
	list := ToListResponse(page)
	if len(list.Customers) != 3 || list.TotalElements != 3 || list.TotalPages != 1 || list.HasNext || list.HasPrevious {
		t.Errorf("unexpected list response %+v", list)
	}

	empty := ToListResponse(domain.NewPage[domain.Customer](nil, domain.PageRequest{Page: 5, Size: 10}, 3))
	if empty.Customers == nil || len(empty.Customers) != 0 {
		t.Error("customers must be an empty, non-nil slice")
	}
	if empty.HasNext || !empty.HasPrevious || empty.Page != 5 {
		t.Errorf("unexpected out-of-range metadata %+v", empty)
	}
}

func TestToResponseCopiesEverything(t *testing.T) {
	dob := domain.NewDate(2000, time.July, 4)
	c := domain.Customer{
		ID: "c-9", FirstName: "A", LastName: "B", Email: "a@b.co", Phone: "1234567890",
		Address: strPtr("x"), DateOfBirth: &dob, Status: domain.CustomerStatusInactive,
		CreatedAt: baseTime, UpdatedAt: baseTime.Add(time.Second),
	}
	r := ToResponse(c)
	if r.CustomerID != c.ID || r.Phone != c.Phone || *r.Address != "x" || !r.DateOfBirth.Equal(dob) ||
		r.Status != c.Status || !r.CreatedAt.Equal(c.CreatedAt) || !r.UpdatedAt.Equal(c.UpdatedAt) {
		t.Errorf("response %+v does not match entity %+v", r, c)
	}
}
