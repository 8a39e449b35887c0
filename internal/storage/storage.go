package storage

import (
	"context"
	"errors"
	"fmt"

	"debarment_service/internal/config"
	"debarment_service/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Storage keeps users keyed by (tenant_id, username).
type Storage interface {
	// CreateUser must reject an existing key atomically on the backend,
	// returning ErrUserExists.
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, tenantID, username string) (models.User, error)

	Close()
}

// New opens the backend named by cfg.Driver.
func New(ctx context.Context, cfg config.DB) (Storage, error) {
	const op = "storage.New"

	switch cfg.Driver {
	case config.DriverDynamoDB:
		dyn, err := NewDynamoStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cfg.CreateTable {
			if err := dyn.EnsureTable(ctx); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		return dyn, nil
	case config.DriverPostgres:
		pg, err := NewPostgresStorage(ctx, cfg.DbURL, cfg.TableName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cfg.CreateTable {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		return pg, nil
	case config.DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}
