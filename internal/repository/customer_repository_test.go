package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/internal/repository/repotest"
)

func TestInMemoryCustomerRepositoryContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.CustomerRepository {
		return repository.NewInMemoryCustomerRepository()
	})
}

func TestInMemoryConcurrentDuplicateCreate(t *testing.T) {
	repo := repository.NewInMemoryCustomerRepository()

	const workers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := repotest.Customer(fmt.Sprintf("id-%d", i), "John", "Doe", "race@x.com", 0)
			_, err := repo.Create(context.Background(), c)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, repository.ErrDuplicate):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if created != 1 || duplicates != workers-1 {
		t.Fatalf("created=%d duplicates=%d, want 1/%d", created, duplicates, workers-1)
	}
	if repo.Count() != 1 {
		t.Fatalf("count = %d, want 1", repo.Count())
	}
}

func TestInMemoryCreateHonoursCancelledContext(t *testing.T) {
	repo := repository.NewInMemoryCustomerRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, repotest.Customer("c1", "A", "B", "a@b.co", 0))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if repo.Count() != 0 {
		t.Fatal("nothing must be stored")
	}
}

func TestSortNewestFirst(t *testing.T) {
	cs := []domain.Customer{
		repotest.Customer("b", "", "", "", 5),
		repotest.Customer("a", "", "", "", 1),
		repotest.Customer("c", "", "", "", 5),
	}
	repository.SortNewestFirst(cs)
	if cs[0].ID != "a" || cs[1].ID != "c" || cs[2].ID != "b" {
		t.Fatalf("order = %s %s %s, want a c b", cs[0].ID, cs[1].ID, cs[2].ID)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"john":      "john",
		"100%":      `100\%`,
		"real_name": `real\_name`,
		`back\sl`:   `back\\sl`,
	}
	for in, want := range tests {
		if got := repository.EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
