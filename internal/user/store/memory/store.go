// Package memory provides the in-memory Store used in development and tests.
package memory

import (
	"context"
	"sync"

	"roster/internal/user/models"
	id "roster/pkg/domain"
	"roster/pkg/platform/sentinel"
)

// Store keeps user records in a map guarded by an RWMutex. FindAll and the
// range query return records in insertion order.
type Store struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
	order []id.UserID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users: make(map[id.UserID]models.User),
	}
}

// Insert assigns a fresh ID and persists the record.
func (s *Store) Insert(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = id.NewUserID()
	s.users[user.ID] = user
	s.order = append(s.order, user.ID)
	return user, nil
}

// FindByID returns the record or sentinel.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, sentinel.ErrNotFound
	}
	return user, nil
}

// FindAll returns every record in insertion order.
func (s *Store) FindAll(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.order))
	for _, userID := range s.order {
		users = append(users, s.users[userID])
	}
	return users, nil
}

// FindByBirthDateRange returns records with birth dates in [from, to]
// inclusive, in insertion order.
func (s *Store) FindByBirthDateRange(ctx context.Context, from, to models.Date) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, userID := range s.order {
		user := s.users[userID]
		if user.BirthDate.Before(from) || user.BirthDate.After(to) {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// Replace overwrites an existing record, keyed by its ID.
func (s *Store) Replace(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

// DeleteByID removes the record. Deleting an absent ID is a no-op.
func (s *Store) DeleteByID(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil
	}
	delete(s.users, userID)
	for i, ordered := range s.order {
		if ordered == userID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
