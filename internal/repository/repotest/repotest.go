// Package repotest holds the behavioural contract every
// repository.CustomerRepository implementation must satisfy.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/repository"
)

// Factory returns an empty repository. Cleanup is registered on t.
type Factory func(t *testing.T) repository.CustomerRepository

var base = time.Date(2024, time.January, 15, 9, 30, 0, 123456000, time.UTC)

func strPtr(s string) *string { return &s }

// Customer builds a valid record created minutesAgo minutes before a fixed base time
func Customer(id, first, last, email string, minutesAgo int) domain.Customer {
	ts := base.Add(-time.Duration(minutesAgo) * time.Minute)
	return domain.Customer{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     "+1234567890",
		Status:    domain.CustomerStatusActive,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Run executes the full contract against repositories built by newRepo
func Run(t *testing.T, newRepo Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo repository.CustomerRepository)
	}{
		{"CreateAndGetRoundTrip", testCreateAndGet},
		{"CreateDuplicateEmail", testCreateDuplicateEmail},
		{"GetMissing", testGetMissing},
		{"GetByEmail", testGetByEmail},
		{"Exists", testExists},
		{"Update", testUpdate},
		{"UpdateEmailFreesOldKey", testUpdateEmailFreesOldKey},
		{"UpdateDuplicateEmail", testUpdateDuplicateEmail},
		{"UpdateMissing", testUpdateMissing},
		{"Delete", testDelete},
		{"FindAllOrderAndPaging", testFindAll},
		{"HugePageIsEmpty", testHugePageIsEmpty},
		{"FindByStatus", testFindByStatus},
		{"SearchByName", testSearchByName},
		{"SearchEscapesWildcards", testSearchEscapesWildcards},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newRepo(t))
		})
	}
}

func mustCreate(t *testing.T, repo repository.CustomerRepository, c domain.Customer) domain.Customer {
	t.Helper()
	created, err := repo.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create(%s): %v", c.ID, err)
	}
	return created
}

func assertSameCustomer(t *testing.T, got, want domain.Customer) {
	t.Helper()
	if got.ID != want.ID || got.FirstName != want.FirstName || got.LastName != want.LastName ||
		got.Email != want.Email || got.Phone != want.Phone || got.Status != want.Status {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
	if (got.Address == nil) != (want.Address == nil) || (got.Address != nil && *got.Address != *want.Address) {
		t.Errorf("address %v, want %v", got.Address, want.Address)
	}
	if (got.DateOfBirth == nil) != (want.DateOfBirth == nil) ||
		(got.DateOfBirth != nil && !got.DateOfBirth.Equal(*want.DateOfBirth)) {
		t.Errorf("dateOfBirth %v, want %v", got.DateOfBirth, want.DateOfBirth)
	}
}

func ids(customers []domain.Customer) []string {
	out := make([]string, len(customers))
	for i, c := range customers {
		out[i] = c.ID
	}
	return out
}

func assertIDs(t *testing.T, got []domain.Customer, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if fmt.Sprint(gotIDs) != fmt.Sprint(want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
}

func testCreateAndGet(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()

	full := Customer("11111111-1111-4111-8111-111111111111", "John", "Doe", "John@X.com", 0)
	full.Address = strPtr("1 Main St")
	dob := domain.NewDate(1990, time.May, 17)
	full.DateOfBirth = &dob
	full.Status = domain.CustomerStatusSuspended
	mustCreate(t, repo, full)

	bare := Customer("22222222-2222-4222-8222-222222222222", "Jane", "Roe", "jane@x.com", 1)
	mustCreate(t, repo, bare)

	got, err := repo.GetByID(ctx, full.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	assertSameCustomer(t, got, full)

	got, err = repo.GetByID(ctx, bare.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	assertSameCustomer(t, got, bare)
}

func testCreateDuplicateEmail(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	mustCreate(t, repo, Customer("a1", "John", "Doe", "john@x.com", 0))

	_, err := repo.Create(ctx, Customer("a2", "Johnny", "Doe", "JOHN@x.com", 0))
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("Create with the same email: got %v, want ErrDuplicate", err)
	}

	page, err := repo.FindAll(ctx, domain.NewPageRequest(0, 10))
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("count = %d after rejected duplicate, want 1", page.TotalElements)
	}
}

func testGetMissing(t *testing.T, repo repository.CustomerRepository) {
	_, err := repo.GetByID(context.Background(), "does-not-exist")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func testGetByEmail(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	want := mustCreate(t, repo, Customer("e1", "John", "Doe", "John.Doe@X.com", 0))

	got, err := repo.GetByEmail(ctx, "john.doe@x.COM")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != want.ID || got.Email != "John.Doe@X.com" {
		t.Errorf("got %+v", got)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@x.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing email: got %v, want ErrNotFound", err)
	}
}

func testExists(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	mustCreate(t, repo, Customer("x1", "John", "Doe", "john@x.com", 0))

	check := func(name string, got bool, err error, want bool) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	ok, err := repo.ExistsByID(ctx, "x1")
	check("ExistsByID(x1)", ok, err, true)
	ok, err = repo.ExistsByID(ctx, "x2")
	check("ExistsByID(x2)", ok, err, false)
	ok, err = repo.ExistsByEmail(ctx, "JOHN@X.COM")
	check("ExistsByEmail(upper)", ok, err, true)
	ok, err = repo.ExistsByEmail(ctx, "jane@x.com")
	check("ExistsByEmail(other)", ok, err, false)
	ok, err = repo.ExistsByEmailExcludingID(ctx, "john@x.com", "x1")
	check("ExistsByEmailExcludingID(owner)", ok, err, false)
	ok, err = repo.ExistsByEmailExcludingID(ctx, "john@x.com", "x2")
	check("ExistsByEmailExcludingID(other)", ok, err, true)
}

func testUpdate(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	original := mustCreate(t, repo, Customer("u1", "John", "Doe", "john@x.com", 0))

	changed := original
	changed.LastName = "Smith"
	changed.Address = strPtr("2 Side St")
	changed.Status = domain.CustomerStatusInactive
	changed.UpdatedAt = original.UpdatedAt.Add(time.Second)

	if _, err := repo.Update(ctx, changed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	assertSameCustomer(t, got, changed)
}

func testUpdateEmailFreesOldKey(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	c := mustCreate(t, repo, Customer("m1", "John", "Doe", "old@x.com", 0))

	c.Email = "new@x.com"
	if _, err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update: %v", err)
	}

	mustCreate(t, repo, Customer("m2", "Jane", "Roe", "old@x.com", 0))

	if ok, _ := repo.ExistsByEmail(ctx, "new@x.com"); !ok {
		t.Error("new email must be indexed")
	}
}

func testUpdateDuplicateEmail(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	mustCreate(t, repo, Customer("d1", "John", "Doe", "john@x.com", 0))
	jane := mustCreate(t, repo, Customer("d2", "Jane", "Roe", "jane@x.com", 0))

	jane.Email = "John@X.com"
	if _, err := repo.Update(ctx, jane); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}

	got, err := repo.GetByID(ctx, "d2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "jane@x.com" {
		t.Errorf("email = %q after rejected update, want jane@x.com", got.Email)
	}
}

func testUpdateMissing(t *testing.T, repo repository.CustomerRepository) {
	_, err := repo.Update(context.Background(), Customer("ghost", "No", "One", "ghost@x.com", 0))
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func testDelete(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	mustCreate(t, repo, Customer("r1", "John", "Doe", "john@x.com", 0))

	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "r1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "r1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}

	// the email is free again
	mustCreate(t, repo, Customer("r2", "John", "Doe", "john@x.com", 0))
}

func testFindAll(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	// c3 is newest; c2a and c2b share a timestamp and tie-break by id desc
	mustCreate(t, repo, Customer("c1", "A", "One", "c1@x.com", 30))
	mustCreate(t, repo, Customer("c2a", "B", "Two", "c2a@x.com", 20))
	mustCreate(t, repo, Customer("c2b", "C", "Two", "c2b@x.com", 20))
	mustCreate(t, repo, Customer("c3", "D", "Three", "c3@x.com", 10))
	mustCreate(t, repo, Customer("c0", "E", "Zero", "c0@x.com", 40))

	page, err := repo.FindAll(ctx, domain.NewPageRequest(0, 2))
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	assertIDs(t, page.Items, "c3", "c2b")
	if page.TotalElements != 5 || page.TotalPages() != 3 || !page.HasNext() || page.HasPrevious() {
		t.Errorf("unexpected metadata %+v", page)
	}

	page, _ = repo.FindAll(ctx, domain.NewPageRequest(1, 2))
	assertIDs(t, page.Items, "c2a", "c1")

	page, _ = repo.FindAll(ctx, domain.NewPageRequest(2, 2))
	assertIDs(t, page.Items, "c0")
	if page.HasNext() || !page.HasPrevious() {
		t.Errorf("last page metadata %+v", page)
	}

	page, err = repo.FindAll(ctx, domain.NewPageRequest(7, 2))
	if err != nil {
		t.Fatalf("FindAll out of range: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("out of range page items = %v, want empty", page.Items)
	}
	if page.TotalElements != 5 || page.HasNext() {
		t.Errorf("out of range metadata %+v", page)
	}
}

func testHugePageIsEmpty(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		mustCreate(t, repo, Customer(fmt.Sprintf("h%d", i), "Huge", "Page", fmt.Sprintf("h%d@x.com", i), i))
	}

	req := domain.NewPageRequest(1_000_000_000_000_000_000, 10)
	queries := map[string]func() (domain.Page[domain.Customer], error){
		"FindAll":      func() (domain.Page[domain.Customer], error) { return repo.FindAll(ctx, req) },
		"FindByStatus": func() (domain.Page[domain.Customer], error) { return repo.FindByStatus(ctx, domain.CustomerStatusActive, req) },
		"SearchByName": func() (domain.Page[domain.Customer], error) { return repo.SearchByName(ctx, "huge", req) },
	}
	for name, query := range queries {
		page, err := query()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(page.Items) != 0 || page.TotalElements != 3 || page.Number != req.Page {
			t.Errorf("%s: items=%d total=%d number=%d, want an empty page %d of 3",
				name, len(page.Items), page.TotalElements, page.Number, req.Page)
		}
		if page.HasNext() {
			t.Errorf("%s: HasNext on a page past the end", name)
		}
	}
}

func testFindByStatus(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	s1 := Customer("s1", "A", "A", "s1@x.com", 3)
	s2 := Customer("s2", "B", "B", "s2@x.com", 2)
	s2.Status = domain.CustomerStatusSuspended
	s3 := Customer("s3", "C", "C", "s3@x.com", 1)
	for _, c := range []domain.Customer{s1, s2, s3} {
		mustCreate(t, repo, c)
	}

	page, err := repo.FindByStatus(ctx, domain.CustomerStatusActive, domain.NewPageRequest(0, 10))
	if err != nil {
		t.Fatalf("FindByStatus: %v", err)
	}
	assertIDs(t, page.Items, "s3", "s1")
	if page.TotalElements != 2 {
		t.Errorf("total = %d, want 2", page.TotalElements)
	}

	page, _ = repo.FindByStatus(ctx, domain.CustomerStatusInactive, domain.NewPageRequest(0, 10))
	if len(page.Items) != 0 || page.TotalElements != 0 || page.TotalPages() != 0 {
		t.Errorf("inactive page %+v, want empty", page)
	}
}

func testSearchByName(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	mustCreate(t, repo, Customer("n1", "John", "Doe", "n1@x.com", 4))
	mustCreate(t, repo, Customer("n2", "Jane", "Johnson", "n2@x.com", 3))
	mustCreate(t, repo, Customer("n3", "Alice", "Smith", "n3@x.com", 2))
	mustCreate(t, repo, Customer("n4", "Bob", "Marley", "n4@x.com", 1))

	page, err := repo.SearchByName(ctx, "JOH", domain.NewPageRequest(0, 10))
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	assertIDs(t, page.Items, "n2", "n1")

	page, _ = repo.SearchByName(ctx, "Mar", domain.NewPageRequest(0, 10))
	assertIDs(t, page.Items, "n4")

	page, _ = repo.SearchByName(ctx, "zzz", domain.NewPageRequest(0, 10))
	if len(page.Items) != 0 || page.TotalElements != 0 || page.HasNext() {
		t.Errorf("no-match page %+v, want empty", page)
	}
}

func testSearchEscapesWildcards(t *testing.T, repo repository.CustomerRepository) {
	ctx := context.Background()
	mustCreate(t, repo, Customer("w1", "Ann", "Lee", "w1@x.com", 2))
	mustCreate(t, repo, Customer("w2", "100%", "Real_Name", "w2@x.com", 1))

	for _, term := range []string{"%", "_", ".*"} {
		page, err := repo.SearchByName(ctx, term, domain.NewPageRequest(0, 10))
		if err != nil {
			t.Fatalf("SearchByName(%q): %v", term, err)
		}
		switch term {
		case ".*":
			assertIDs(t, page.Items)
		default:
			assertIDs(t, page.Items, "w2")
		}
	}
}

func testPing(t *testing.T, repo repository.CustomerRepository) {
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
