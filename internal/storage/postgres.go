package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"debarment_service/internal/models"
)

type PostgresStorage struct {
	db    *pgxpool.Pool
	table string
}

func NewPostgresStorage(ctx context.Context, dbURL, table string) (*PostgresStorage, error) {
	const op = "storage.NewPostgresStorage"

	conn, err := pgxpool.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PostgresStorage{
		db:    conn,
		table: pgx.Identifier{table}.Sanitize(),
	}, nil
}

func (p *PostgresStorage) Migrate(ctx context.Context) error {
	const op = "storage.Migrate"

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		tenant_id     TEXT NOT NULL,
		username      TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		PRIMARY KEY (tenant_id, username)
	)`, p.table)

	if _, err := p.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"

	query := fmt.Sprintf(`INSERT INTO %s(tenant_id, username, password_hash) VALUES ($1, $2, $3)
	ON CONFLICT (tenant_id, username) DO NOTHING`, p.table)

	tag, err := p.db.Exec(ctx, query, user.TenantID, user.Username, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	return nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, tenantID, username string) (models.User, error) {
	const op = "storage.GetUser"

	var user models.User
	query := fmt.Sprintf("SELECT tenant_id, username, password_hash FROM %s WHERE tenant_id=$1 AND username=$2", p.table)

	err := p.db.QueryRow(ctx, query, tenantID, username).Scan(&user.TenantID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (p *PostgresStorage) Close() {
	p.db.Close()
}
