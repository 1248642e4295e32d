package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	customer_id   TEXT PRIMARY KEY,
	first_name    VARCHAR(50)  NOT NULL,
	last_name     VARCHAR(50)  NOT NULL,
	email         TEXT         NOT NULL,
	phone         VARCHAR(16)  NOT NULL,
	address       VARCHAR(200),
	date_of_birth DATE,
	status        VARCHAR(16)  NOT NULL DEFAULT 'ACTIVE',
	created_at    TIMESTAMPTZ  NOT NULL,
	updated_at    TIMESTAMPTZ  NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS customers_email_key ON customers (lower(email));
CREATE INDEX IF NOT EXISTS customers_status_created_at_idx ON customers (status, created_at);
CREATE INDEX IF NOT EXISTS customers_created_at_idx ON customers (created_at);
`

// Migrate создает таблицу и индексы клиентов, если их еще нет
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply customers schema: %w", err)
	}
	return nil
}
