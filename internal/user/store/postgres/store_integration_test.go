//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"roster/internal/user/models"
	"roster/internal/user/store/postgres"
	id "roster/pkg/domain"
	"roster/pkg/platform/sentinel"
	"roster/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "users")
	s.Require().NoError(err)
}

func newTestUser(email string, birthDate models.Date) models.User {
	return models.User{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		BirthDate: birthDate,
	}
}

func (s *PostgresStoreSuite) TestInsertAssignsIDAndRoundTrips() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, models.User{
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		BirthDate:   models.NewDate(1990, 6, 15),
		Address:     "12 Analytical Way",
		PhoneNumber: "+44 20 7946 0000",
	})
	s.Require().NoError(err)
	s.False(created.ID.IsZero())

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, found)
}

func (s *PostgresStoreSuite) TestOptionalFieldsSurviveNull() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, newTestUser("bare@example.com", models.NewDate(1990, 1, 1)))
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Empty(found.Address)
	s.Empty(found.PhoneNumber)
}

func (s *PostgresStoreSuite) TestFindAllPreservesInsertionOrder() {
	ctx := context.Background()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		_, err := s.store.Insert(ctx, newTestUser(email, models.NewDate(1990, 1, 1)))
		s.Require().NoError(err)
	}

	users, err := s.store.FindAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(users, len(emails))
	for i, email := range emails {
		s.Equal(email, users[i].Email)
	}
}

func (s *PostgresStoreSuite) TestBirthDateRangeIsInclusive() {
	ctx := context.Background()

	dates := map[string]models.Date{
		"before@example.com": models.NewDate(1989, 12, 31),
		"lower@example.com":  models.NewDate(1990, 1, 1),
		"middle@example.com": models.NewDate(1991, 6, 15),
		"upper@example.com":  models.NewDate(1992, 12, 31),
		"after@example.com":  models.NewDate(1993, 1, 1),
	}
	for email, date := range dates {
		_, err := s.store.Insert(ctx, newTestUser(email, date))
		s.Require().NoError(err)
	}

	users, err := s.store.FindByBirthDateRange(ctx,
		models.NewDate(1990, 1, 1), models.NewDate(1992, 12, 31))
	s.Require().NoError(err)
	s.Len(users, 3)
	for _, u := range users {
		s.NotEqual("before@example.com", u.Email)
		s.NotEqual("after@example.com", u.Email)
	}
}

func (s *PostgresStoreSuite) TestReplaceOverwritesRecord() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, newTestUser("old@example.com", models.NewDate(1990, 1, 1)))
	s.Require().NoError(err)

	created.Email = "new@example.com"
	created.Address = "1 New Street"
	s.Require().NoError(s.store.Replace(ctx, created))

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("new@example.com", found.Email)
	s.Equal("1 New Street", found.Address)
}

func (s *PostgresStoreSuite) TestNotFoundError() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.UserID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)

	ghost := newTestUser("ghost@example.com", models.NewDate(1990, 1, 1))
	ghost.ID = id.UserID(uuid.New())
	s.ErrorIs(s.store.Replace(ctx, ghost), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, newTestUser("gone@example.com", models.NewDate(1990, 1, 1)))
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteByID(ctx, created.ID))
	s.Require().NoError(s.store.DeleteByID(ctx, created.ID))

	_, err = s.store.FindByID(ctx, created.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentInserts verifies every concurrent insert lands with a
// distinct ID.
func (s *PostgresStoreSuite) TestConcurrentInserts() {
	ctx := context.Background()
	const goroutines = 30

	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			u := newTestUser(uuid.NewString()+"@example.com", models.NewDate(1990, 1, 1))
			if _, err := s.store.Insert(ctx, u); err != nil {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load())

	users, err := s.store.FindAll(ctx)
	s.Require().NoError(err)
	s.Len(users, goroutines)

	seen := make(map[id.UserID]bool, goroutines)
	for _, u := range users {
		s.False(seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
}
