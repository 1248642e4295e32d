package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/internal/repository/repotest"
	"github.com/Dhoini/customer-service/pkg/logger"
)

func TestDocumentRoundTrip(t *testing.T) {
	addr := "1 Main St"
	dob := domain.NewDate(1990, time.May, 17)
	c := domain.Customer{
		ID:          "c1",
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "John@X.com",
		Phone:       "+1234567890",
		Address:     &addr,
		DateOfBirth: &dob,
		Status:      domain.CustomerStatusInactive,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 123456000, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 654321000, time.UTC),
	}

	doc := toDocument(c)
	if doc.EmailKey != "john@x.com" {
		t.Errorf("emailKey = %q", doc.EmailKey)
	}
	if *doc.DateOfBirth != "1990-05-17" {
		t.Errorf("dateOfBirth = %q", *doc.DateOfBirth)
	}

	back, err := doc.toDomain()
	if err != nil {
		t.Fatal(err)
	}
	if !back.CreatedAt.Equal(c.CreatedAt) || !back.UpdatedAt.Equal(c.UpdatedAt) {
		t.Errorf("microsecond timestamps lost: %v %v", back.CreatedAt, back.UpdatedAt)
	}
	if back.Email != c.Email || *back.Address != addr || !back.DateOfBirth.Equal(dob) || back.Status != c.Status {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

// TestMongoCustomerRepositoryContract needs a disposable server in TEST_MONGO_URI
func TestMongoCustomerRepositoryContract(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	log := logger.NewNop()

	client, err := Connect(ctx, uri, 10*time.Second, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	n := 0
	repotest.Run(t, func(t *testing.T) repository.CustomerRepository {
		n++
		repo := NewMongoCustomerRepository(client, fmt.Sprintf("customer_service_test_%d_%d", time.Now().Unix(), n), log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			t.Fatalf("indexes: %v", err)
		}
		t.Cleanup(func() { _ = repo.Drop(context.Background()) })
		return repo
	})
}
