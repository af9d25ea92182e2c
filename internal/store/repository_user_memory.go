package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/models"
)

// memoryUserRepository keeps users in process memory. Every index is
// maintained under one lock, so uniqueness checks and writes are atomic.
type memoryUserRepository struct {
	mu        sync.RWMutex
	nextID    int64
	byID      map[int64]models.User
	byEmail   map[string]int64
	bySession map[string]int64
	logger    *logger.Logger
}

// NewMemoryUserRepository constructs an empty in-memory [UserRepository].
func NewMemoryUserRepository(logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating in-memory user repository")
	return &memoryUserRepository{
		byID:      make(map[int64]models.User),
		byEmail:   make(map[string]int64),
		bySession: make(map[string]int64),
		logger:    logger,
	}
}

// AddUser inserts the user if the email is free. The check and the insert
// happen under the same write lock.
func (m *memoryUserRepository) AddUser(ctx context.Context, email, hashedPassword string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[email]; taken {
		return models.User{}, ErrDuplicateEmail
	}

	m.nextID++
	user := models.User{
		UserID:         m.nextID,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	m.byID[user.UserID] = user
	m.byEmail[email] = user.UserID

	return user, nil
}

func (m *memoryUserRepository) FindUser(ctx context.Context, criteria Criteria) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if !criteria.Valid() {
		return models.User{}, ErrInvalidCriteria
	}
	if criteria.matchesNothing() {
		return models.User{}, ErrUserNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		id int64
		ok bool
	)
	switch criteria.kind {
	case criteriaEmail:
		id, ok = m.byEmail[criteria.value]
	case criteriaSessionID:
		id, ok = m.bySession[criteria.value]
	case criteriaID:
		id, ok = criteria.id, true
	}
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	user, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser validates the whole update against the indexes before touching
// anything, so a rejected update leaves no trace.
func (m *memoryUserRepository) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if update.IsEmpty() {
		return ErrInvalidField
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	updated := update.Apply(current)

	if updated.Email != current.Email {
		if owner, taken := m.byEmail[updated.Email]; taken && owner != id {
			return ErrDuplicateEmail
		}
	}
	if updated.SessionID.Valid && updated.SessionID != current.SessionID {
		if owner, taken := m.bySession[updated.SessionID.String]; taken && owner != id {
			return ErrDuplicateSession
		}
	}

	if updated.Email != current.Email {
		delete(m.byEmail, current.Email)
		m.byEmail[updated.Email] = id
	}
	if current.SessionID.Valid {
		delete(m.bySession, current.SessionID.String)
	}
	if updated.SessionID.Valid {
		m.bySession[updated.SessionID.String] = id
	}
	m.byID[id] = updated

	return nil
}

func (m *memoryUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	users := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		users = append(users, u)
	}
	m.mu.RUnlock()

	slices.SortFunc(users, func(a, b models.User) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
	return users, nil
}

func (m *memoryUserRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *memoryUserRepository) Close() error {
	return nil
}
