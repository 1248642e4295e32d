package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/Dhoini/customer-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func validCreate() domain.CreateCustomerRequest {
	return domain.CreateCustomerRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Phone:     "+1234567890",
	}
}

func validationMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	return verrs.Map()
}

func TestValidateCreateAcceptsValidRequest(t *testing.T) {
	v := New()
	req := validCreate()
	req.Address = strPtr(strings.Repeat("a", 200))
	status := domain.CustomerStatusSuspended
	req.Status = &status

	if err := v.Validate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreateCollectsAllViolations(t *testing.T) {
	v := New()
	req := domain.CreateCustomerRequest{
		FirstName: "   ",
		LastName:  strings.Repeat("x", 51),
		Email:     "not-an-email",
		Phone:     "123-456",
		Address:   strPtr(strings.Repeat("a", 201)),
	}

	got := validationMap(t, v.Validate(req))
	want := map[string]string{
		"firstName": "First name is required",
		"lastName":  "Last name must not exceed 50 characters",
		"email":     "Email must be valid",
		"phone":     "Phone number must be in international format",
		"address":   "Address must not exceed 200 characters",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d violations %v, want %d", len(got), got, len(want))
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidateCreateRequiredFields(t *testing.T) {
	got := validationMap(t, New().Validate(domain.CreateCustomerRequest{}))
	want := map[string]string{
		"firstName": "First name is required",
		"lastName":  "Last name is required",
		"email":     "Email is required",
		"phone":     "Phone number is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
	if _, ok := got["address"]; ok {
		t.Error("address is optional")
	}
}

func TestValidatePhonePattern(t *testing.T) {
	v := New()
	tests := []struct {
		phone string
		ok    bool
	}{
		{"1234567890", true},
		{"+123456789012345", true},
		{"123456789", false},
		{"+1234567890123456", false},
		{"+1 234 567 890", false},
		{"++1234567890", false},
	}
	for _, tt := range tests {
		req := validCreate()
		req.Phone = tt.phone
		err := v.Validate(req)
		if (err == nil) != tt.ok {
			t.Errorf("phone %q: err=%v, want ok=%v", tt.phone, err, tt.ok)
		}
	}
}

func TestValidateNamesCountCharacters(t *testing.T) {
	req := validCreate()
	req.FirstName = strings.Repeat("é", 50)
	if err := New().Validate(req); err != nil {
		t.Fatalf("50 multi-byte characters must be accepted: %v", err)
	}
}

func TestValidateUpdate(t *testing.T) {
	v := New()

	if err := v.Validate(domain.UpdateCustomerRequest{}); err != nil {
		t.Fatalf("an empty update is valid: %v", err)
	}
	if err := v.Validate(domain.UpdateCustomerRequest{LastName: strPtr("Smith")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := domain.UpdateCustomerRequest{
		FirstName: strPtr(strings.Repeat("x", 51)),
		Email:     strPtr("nope"),
		Phone:     strPtr(""),
	}
	got := validationMap(t, v.Validate(bad))
	if got["firstName"] != "First name must not exceed 50 characters" {
		t.Errorf("firstName: %q", got["firstName"])
	}
	if got["email"] != "Email must be valid" {
		t.Errorf("email: %q", got["email"])
	}
	if got["phone"] != "Phone number is required" {
		t.Errorf("phone: %q", got["phone"])
	}
}

// A present field may not be blanked out, so a stored customer always keeps
// a name, an email and a phone number.
func TestValidateUpdateRejectsBlankFields(t *testing.T) {
	got := validationMap(t, New().Validate(domain.UpdateCustomerRequest{
		FirstName: strPtr("   "),
		Email:     strPtr(""),
	}))
	if got["firstName"] != "First name is required" {
		t.Errorf("firstName: %q", got["firstName"])
	}
	if got["email"] != "Email is required" {
		t.Errorf("email: %q", got["email"])
	}
}

func TestValidateStatus(t *testing.T) {
	bogus := domain.CustomerStatus("DELETED")
	got := validationMap(t, New().Validate(domain.UpdateCustomerRequest{Status: &bogus}))
	if got["status"] != "Status must be one of ACTIVE, INACTIVE, SUSPENDED" {
		t.Errorf("status: %q", got["status"])
	}
}

func TestInvalidStatus(t *testing.T) {
	got := validationMap(t, InvalidStatus())
	if got["status"] != "Status must be one of ACTIVE, INACTIVE, SUSPENDED" || len(got) != 1 {
		t.Errorf("unexpected %v", got)
	}
}
