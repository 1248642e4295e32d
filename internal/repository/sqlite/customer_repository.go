// Package sqlite is a gorm-backed customer store for local runs and tests.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

type customerRecord struct {
	CustomerID  string  `gorm:"column:customer_id;primaryKey;size:36"`
	FirstName   string  `gorm:"size:50;not null"`
	LastName    string  `gorm:"size:50;not null"`
	Email       string  `gorm:"size:255;not null"`
	EmailKey    string  `gorm:"size:255;not null;uniqueIndex:idx_customers_email_key"`
	Phone       string  `gorm:"size:16;not null"`
	Address     *string `gorm:"size:200"`
	DateOfBirth *string `gorm:"size:10"`
	Status      string  `gorm:"size:16;not null;index:idx_customers_status_created,priority:1"`
	// lower() in SQLite folds ASCII only, so name search runs on keys folded in Go
	FirstNameKey string `gorm:"not null;default:''"`
	LastNameKey  string `gorm:"not null;default:''"`
	// unix microseconds, so ordering never depends on text formatting
	Created int64 `gorm:"column:created_at;not null;index:idx_customers_status_created,priority:2;index:idx_customers_created_at"`
	Updated int64 `gorm:"column:updated_at;not null"`
}

func (customerRecord) TableName() string { return "customers" }

func toRecord(c domain.Customer) customerRecord {
	rec := customerRecord{
		CustomerID:   c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		EmailKey:     domain.EmailKey(c.Email),
		Phone:        c.Phone,
		Address:      c.Address,
		Status:       string(c.Status),
		FirstNameKey: strings.ToLower(c.FirstName),
		LastNameKey:  strings.ToLower(c.LastName),
		Created:      c.CreatedAt.UnixMicro(),
		Updated:      c.UpdatedAt.UnixMicro(),
	}
	if c.DateOfBirth != nil {
		s := c.DateOfBirth.String()
		rec.DateOfBirth = &s
	}
	return rec
}

func (r customerRecord) toDomain() (domain.Customer, error) {
	c := domain.Customer{
		ID:        r.CustomerID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		Status:    domain.CustomerStatus(r.Status),
		CreatedAt: time.UnixMicro(r.Created).UTC(),
		UpdatedAt: time.UnixMicro(r.Updated).UTC(),
	}
	if r.DateOfBirth != nil {
		dob, err := domain.ParseDate(*r.DateOfBirth)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", r.CustomerID, err)
		}
		c.DateOfBirth = &dob
	}
	return c, nil
}

// SQLiteCustomerRepository реализация репозитория клиентов через SQLite (gorm)
type SQLiteCustomerRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open opens dsn and migrates the customers table. An in-memory database is
// limited to one connection, since every connection would see its own copy.
func Open(dsn string, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if dsn == MemoryDSN || strings.Contains(dsn, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&customerRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate customers table: %w", err)
	}

	log.Infow("SQLite customer store ready", "dsn", dsn)
	return db, nil
}

// NewSQLiteCustomerRepository создает новый репозиторий клиентов через SQLite
func NewSQLiteCustomerRepository(db *gorm.DB, log *logger.Logger) *SQLiteCustomerRepository {
	return &SQLiteCustomerRepository{db: db, log: log}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLiteCustomerRepository) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	rec := toRecord(c)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return domain.Customer{}, repository.ErrDuplicate
		}
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	r.log.Debugw("Customer inserted", "customerID", c.ID)
	return c, nil
}

func (r *SQLiteCustomerRepository) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	rec := toRecord(c)
	result := r.db.WithContext(ctx).Model(&customerRecord{}).
		Where("customer_id = ?", c.ID).
		Updates(map[string]any{
			"first_name":     rec.FirstName,
			"last_name":      rec.LastName,
			"first_name_key": rec.FirstNameKey,
			"last_name_key":  rec.LastNameKey,
			"email":          rec.Email,
			"email_key":      rec.EmailKey,
			"phone":          rec.Phone,
			"address":        rec.Address,
			"date_of_birth":  rec.DateOfBirth,
			"status":         rec.Status,
			"updated_at":     rec.Updated,
		})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return domain.Customer{}, repository.ErrDuplicate
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Customer{}, repository.ErrNotFound
	}
	return r.GetByID(ctx, c.ID)
}

func (r *SQLiteCustomerRepository) first(ctx context.Context, query string, args ...any) (domain.Customer, error) {
	var rec customerRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return rec.toDomain()
}

func (r *SQLiteCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	return r.first(ctx, "customer_id = ?", id)
}

func (r *SQLiteCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.first(ctx, "email_key = ?", domain.EmailKey(email))
}

func (r *SQLiteCustomerRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&customerRecord{}).Where(query, args...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

func (r *SQLiteCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := r.count(ctx, "customer_id = ?", id)
	return n > 0, err
}

func (r *SQLiteCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.count(ctx, "email_key = ?", domain.EmailKey(email))
	return n > 0, err
}

func (r *SQLiteCustomerRepository) ExistsByEmailExcludingID(ctx context.Context, email, id string) (bool, error) {
	n, err := r.count(ctx, "email_key = ? AND customer_id <> ?", domain.EmailKey(email), id)
	return n > 0, err
}

func (r *SQLiteCustomerRepository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.findPage(ctx, page, "1 = 1")
}

func (r *SQLiteCustomerRepository) FindByStatus(ctx context.Context, status domain.CustomerStatus, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.findPage(ctx, page, "status = ?", string(status))
}

func (r *SQLiteCustomerRepository) SearchByName(ctx context.Context, term string, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	pattern := "%" + strings.ToLower(repository.EscapeLike(term)) + "%"
	return r.findPage(ctx, page,
		`(first_name_key LIKE ? ESCAPE '\' OR last_name_key LIKE ? ESCAPE '\')`,
		pattern, pattern)
}

func (r *SQLiteCustomerRepository) findPage(ctx context.Context, page domain.PageRequest, query string, args ...any) (domain.Page[domain.Customer], error) {
	total, err := r.count(ctx, query, args...)
	if err != nil {
		return domain.Page[domain.Customer]{}, err
	}
	if total == 0 || int64(page.Offset()) >= total {
		return domain.NewPage[domain.Customer](nil, page, total), nil
	}

	var recs []customerRecord
	err = r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC, customer_id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&recs).Error
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to query customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(recs))
	for _, rec := range recs {
		c, err := rec.toDomain()
		if err != nil {
			return domain.Page[domain.Customer]{}, err
		}
		customers = append(customers, c)
	}
	return domain.NewPage(customers, page, total), nil
}

func (r *SQLiteCustomerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("customer_id = ?", id).Delete(&customerRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteCustomerRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (r *SQLiteCustomerRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
