package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const customerColumns = `customer_id, first_name, last_name, email, phone, address, date_of_birth, status, created_at, updated_at`

// PostgresCustomerRepository реализация репозитория клиентов через PostgreSQL
type PostgresCustomerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCustomerRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresCustomerRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var (
		c      domain.Customer
		dob    *time.Time
		status string
	)
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Address,
		&dob,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Customer{}, err
	}

	if dob != nil {
		d := domain.DateOf(*dob)
		c.DateOfBirth = &d
	}
	c.Status = domain.CustomerStatus(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func dateArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create создает нового клиента
func (r *PostgresCustomerRepository) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		dateArg(c.DateOfBirth), string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, repository.ErrDuplicate
		}
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	r.log.Debugw("Customer inserted", "customerID", c.ID)
	return c, nil
}

// Update обновляет данные клиента
func (r *PostgresCustomerRepository) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
			date_of_birth = $7, status = $8, updated_at = $9
		WHERE customer_id = $1
		RETURNING ` + customerColumns

	updated, err := scanCustomer(r.db.QueryRow(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		dateArg(c.DateOfBirth), string(c.Status), c.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.Customer{}, repository.ErrDuplicate
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return updated, nil
}

// GetByID возвращает клиента по ID
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`

	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// GetByEmail возвращает клиента по email
func (r *PostgresCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = $1`

	c, err := scanCustomer(r.db.QueryRow(ctx, query, domain.EmailKey(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return c, nil
}

func (r *PostgresCustomerRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE `+where+`)`, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `customer_id = $1`, id)
}

func (r *PostgresCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `lower(email) = $1`, domain.EmailKey(email))
}

func (r *PostgresCustomerRepository) ExistsByEmailExcludingID(ctx context.Context, email, id string) (bool, error) {
	return r.exists(ctx, `lower(email) = $1 AND customer_id <> $2`, domain.EmailKey(email), id)
}

// FindAll возвращает страницу клиентов, новые первыми
func (r *PostgresCustomerRepository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.findPage(ctx, page, "TRUE")
}

func (r *PostgresCustomerRepository) FindByStatus(ctx context.Context, status domain.CustomerStatus, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	return r.findPage(ctx, page, "status = $1", string(status))
}

func (r *PostgresCustomerRepository) SearchByName(ctx context.Context, term string, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	pattern := "%" + repository.EscapeLike(term) + "%"
	return r.findPage(ctx, page, `(first_name ILIKE $1 ESCAPE '\' OR last_name ILIKE $1 ESCAPE '\')`, pattern)
}

// findPage runs a filtered count and one ordered window. where may only
// reference placeholders $1..$len(args).
func (r *PostgresCustomerRepository) findPage(ctx context.Context, page domain.PageRequest, where string, args ...any) (domain.Page[domain.Customer], error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM customers WHERE `+where, args...).Scan(&total); err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to count customers: %w", err)
	}

	if total == 0 || int64(page.Offset()) >= total {
		return domain.NewPage[domain.Customer](nil, page, total), nil
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE %s
		ORDER BY created_at DESC, customer_id DESC
		LIMIT $%d OFFSET $%d
	`, customerColumns, where, n+1, n+2)

	rows, err := r.db.Query(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, page.Size)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return domain.Page[domain.Customer]{}, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("error iterating customers: %w", err)
	}

	return domain.NewPage(customers, page, total), nil
}

// Delete удаляет клиента
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ping проверяет соединение с базой
func (r *PostgresCustomerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
