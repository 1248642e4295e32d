package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCustomerEqual(t *testing.T) {
	a := Customer{ID: "c-1", FirstName: "John"}
	b := Customer{ID: "c-1", FirstName: "Jane"}
	c := Customer{ID: "c-2", FirstName: "John"}

	if !a.Equal(b) {
		t.Error("records with the same id must be equal")
	}
	if a.Equal(c) {
		t.Error("records with different ids must not be equal")
	}

	var unsetA, unsetB Customer
	if unsetA.Equal(unsetB) {
		t.Error("records without ids must not be equal")
	}
	if unsetA.Equal(a) || a.Equal(unsetA) {
		t.Error("a record without id is not equal to an identified one")
	}
}

func TestParseCustomerStatus(t *testing.T) {
	for _, in := range []string{"ACTIVE", "active", " Suspended ", "INACTIVE"} {
		if _, ok := ParseCustomerStatus(in); !ok {
			t.Errorf("ParseCustomerStatus(%q) rejected a valid status", in)
		}
	}
	if _, ok := ParseCustomerStatus("DELETED"); ok {
		t.Error("ParseCustomerStatus accepted an unknown status")
	}
}

func TestDateJSON(t *testing.T) {
	var req CreateCustomerRequest
	if err := json.Unmarshal([]byte(`{"dateOfBirth":"1990-05-17"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.DateOfBirth == nil || !req.DateOfBirth.Equal(NewDate(1990, time.May, 17)) {
		t.Fatalf("dateOfBirth = %v, want 1990-05-17", req.DateOfBirth)
	}

	out, err := json.Marshal(Customer{DateOfBirth: req.DateOfBirth})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["dateOfBirth"] != "1990-05-17" {
		t.Fatalf("dateOfBirth encoded as %v", decoded["dateOfBirth"])
	}

	if err := json.Unmarshal([]byte(`{"dateOfBirth":"17/05/1990"}`), &req); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	nf := NewCustomerNotFoundError("abc")
	if !errors.Is(nf, ErrNotFound) {
		t.Error("NotFoundError must match ErrNotFound")
	}
	if nf.Error() != "Customer not found with ID: abc" {
		t.Errorf("unexpected message %q", nf.Error())
	}

	dup := NewDuplicateEmailError("john@x.com")
	if !errors.Is(dup, ErrDuplicate) {
		t.Error("DuplicateError must match ErrDuplicate")
	}
	if dup.Error() != "Customer with email 'john@x.com' already exists" {
		t.Errorf("unexpected message %q", dup.Error())
	}

	var verrs ValidationErrors
	verrs.Add("email", "Email is required")
	verrs.Add("email", "Email must be valid")
	verrs.Add("phone", "Phone number is required")
	if got := verrs.Map()["email"]; got != "Email is required" {
		t.Errorf("first message must win, got %q", got)
	}
	if len(verrs) != 2 || !errors.Is(verrs, ErrInvalidInput) {
		t.Errorf("unexpected validation errors %v", verrs)
	}
}
