package storage

import (
	"context"
	"fmt"
	"sync"

	"debarment_service/internal/models"
)

type userKey struct {
	tenantID string
	username string
}

// MemoryStorage backs the local server and tests.
type MemoryStorage struct {
	mu    sync.Mutex
	users map[userKey]models.User
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{users: make(map[userKey]models.User)}
}

func (m *MemoryStorage) CreateUser(_ context.Context, user models.User) error {
	const op = "storage.CreateUser"

	m.mu.Lock()
	defer m.mu.Unlock()

	key := userKey{tenantID: user.TenantID, username: user.Username}
	if _, ok := m.users[key]; ok {
		return fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	m.users[key] = user

	return nil
}

func (m *MemoryStorage) GetUser(_ context.Context, tenantID, username string) (models.User, error) {
	const op = "storage.GetUser"

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userKey{tenantID: tenantID, username: username}]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	return user, nil
}

func (m *MemoryStorage) Close() {}
