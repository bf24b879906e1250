package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"roster/internal/user/events"
	"roster/internal/user/models"
	"roster/internal/user/service"
	"roster/internal/user/service/mock"
	"roster/internal/user/store/memory"
	id "roster/pkg/domain"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/requestcontext"
)

const minYears = 18

// Fixed "today" so age boundaries are deterministic.
var today = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func testContext() context.Context {
	return requestcontext.WithTime(context.Background(), today)
}

func newService() *service.Service {
	return service.New(memory.New(), minYears)
}

func validCandidate() models.User {
	return models.User{
		Email:     "a@b.com",
		FirstName: "A",
		LastName:  "B",
		BirthDate: models.NewDate(1990, time.January, 1),
	}
}

func violationFields(err error) []string {
	var fields []string
	for _, v := range dErrors.ViolationsOf(err) {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestCreate(t *testing.T) {
	t.Run("assigns an id and returns the stored record", func(t *testing.T) {
		svc := newService()

		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)
		assert.False(t, stored.ID.IsZero())

		candidate := validCandidate()
		candidate.ID = stored.ID
		assert.Equal(t, candidate, stored)
	})

	t.Run("collects every missing required field", func(t *testing.T) {
		svc := newService()

		_, err := svc.Create(testContext(), models.User{BirthDate: models.NewDate(1990, time.January, 1)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.ElementsMatch(t, []string{"email", "firstName", "lastName"}, violationFields(err))
	})

	t.Run("rejects a birth date one day short of the minimum age", func(t *testing.T) {
		svc := newService()

		candidate := validCandidate()
		candidate.BirthDate = models.NewDate(2006, time.March, 11)

		_, err := svc.Create(testContext(), candidate)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, []string{"birthDate"}, violationFields(err))
	})

	t.Run("accepts a birth date exactly the minimum age ago", func(t *testing.T) {
		svc := newService()

		candidate := validCandidate()
		candidate.BirthDate = models.NewDate(2006, time.March, 10)

		_, err := svc.Create(testContext(), candidate)
		require.NoError(t, err)
	})

	t.Run("discards any id on the candidate", func(t *testing.T) {
		svc := newService()

		candidate := validCandidate()
		candidate.ID = id.NewUserID()

		stored, err := svc.Create(testContext(), candidate)
		require.NoError(t, err)
		assert.NotEqual(t, candidate.ID, stored.ID)
	})

	t.Run("does not write when validation fails", func(t *testing.T) {
		svc := newService()

		_, err := svc.Create(testContext(), models.User{})
		require.Error(t, err)

		users, err := svc.FindAll(testContext())
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("replaces mutable fields and keeps the id", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		replacement := models.User{
			Email:       "new@b.com",
			FirstName:   "New",
			LastName:    "Name",
			BirthDate:   models.NewDate(1985, time.June, 15),
			Address:     "2 Side St",
			PhoneNumber: "+380501112233",
		}
		updated, err := svc.Update(testContext(), stored.ID, replacement)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, updated.ID)
		assert.Equal(t, "new@b.com", updated.Email)

		found, err := svc.FindByID(testContext(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, found)
	})

	t.Run("cannot smuggle a different id through the candidate", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		replacement := validCandidate()
		replacement.ID = id.NewUserID()

		updated, err := svc.Update(testContext(), stored.ID, replacement)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, updated.ID)
	})

	t.Run("fails with not_found for an unknown id", func(t *testing.T) {
		svc := newService()

		_, err := svc.Update(testContext(), id.NewUserID(), validCandidate())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("fails with validation for an invalid candidate", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		_, err = svc.Update(testContext(), stored.ID, models.User{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		// The stored record is untouched.
		found, err := svc.FindByID(testContext(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored, found)
	})
}

func TestPatch(t *testing.T) {
	t.Run("overwrites only the listed fields", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		patched, err := svc.Patch(testContext(), stored.ID, models.PatchRequest{"firstName": "C"})
		require.NoError(t, err)

		assert.Equal(t, "C", patched.FirstName)
		assert.Equal(t, stored.ID, patched.ID)
		assert.Equal(t, stored.Email, patched.Email)
		assert.Equal(t, stored.LastName, patched.LastName)
		assert.Equal(t, stored.BirthDate, patched.BirthDate)
	})

	t.Run("empty patch returns the record unchanged", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		patched, err := svc.Patch(testContext(), stored.ID, models.PatchRequest{})
		require.NoError(t, err)
		assert.Equal(t, stored, patched)
	})

	t.Run("fails with not_found for an unknown id", func(t *testing.T) {
		svc := newService()

		_, err := svc.Patch(testContext(), id.NewUserID(), models.PatchRequest{"firstName": "C"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("fails with invalid_input for an unparsable birth date", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		_, err = svc.Patch(testContext(), stored.ID, models.PatchRequest{"birthDate": "yesterday"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("re-validates the merged candidate", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		_, err = svc.Patch(testContext(), stored.ID, models.PatchRequest{"email": ""})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		// Failed patch leaves the record untouched.
		found, err := svc.FindByID(testContext(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored, found)
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes an existing record", func(t *testing.T) {
		svc := newService()
		stored, err := svc.Create(testContext(), validCandidate())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(testContext(), stored.ID))

		_, err = svc.FindByID(testContext(), stored.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("succeeds silently for an absent id", func(t *testing.T) {
		svc := newService()
		assert.NoError(t, svc.Delete(testContext(), id.NewUserID()))
	})
}

func TestFindByBirthDateRange(t *testing.T) {
	seed := func(t *testing.T, svc *service.Service, email string, birthDate models.Date) models.User {
		t.Helper()
		candidate := validCandidate()
		candidate.Email = email
		candidate.BirthDate = birthDate
		stored, err := svc.Create(testContext(), candidate)
		require.NoError(t, err)
		return stored
	}

	t.Run("rejects a reversed range before touching the store", func(t *testing.T) {
		svc := newService()

		_, err := svc.FindByBirthDateRange(testContext(),
			models.NewDate(1991, time.January, 1), models.NewDate(1989, time.January, 1))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRange))
	})

	t.Run("returns records inside the inclusive range", func(t *testing.T) {
		svc := newService()
		inside := seed(t, svc, "inside@b.com", models.NewDate(1990, time.January, 1))
		seed(t, svc, "outside@b.com", models.NewDate(2000, time.June, 1))

		users, err := svc.FindByBirthDateRange(testContext(),
			models.NewDate(1989, time.January, 1), models.NewDate(1991, time.January, 1))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, inside, users[0])
	})

	t.Run("equal bounds match the exact birth date", func(t *testing.T) {
		svc := newService()
		exact := seed(t, svc, "exact@b.com", models.NewDate(1990, time.May, 5))

		users, err := svc.FindByBirthDateRange(testContext(),
			models.NewDate(1990, time.May, 5), models.NewDate(1990, time.May, 5))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, exact, users[0])
	})
}

func TestStoreFailuresSurfaceAsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	svc := service.New(store, minYears)

	storeDown := errors.New("connection refused")

	t.Run("create", func(t *testing.T) {
		store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(models.User{}, storeDown)

		_, err := svc.Create(testContext(), validCandidate())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorIs(t, err, storeDown)
	})

	t.Run("list", func(t *testing.T) {
		store.EXPECT().FindAll(gomock.Any()).Return(nil, storeDown)

		_, err := svc.FindAll(testContext())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("delete", func(t *testing.T) {
		store.EXPECT().DeleteByID(gomock.Any(), gomock.Any()).Return(storeDown)

		err := svc.Delete(testContext(), id.NewUserID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// capturingPublisher records emitted events for assertions.
type capturingPublisher struct {
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func TestLifecycleEvents(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := service.New(memory.New(), minYears, service.WithPublisher(publisher))

	stored, err := svc.Create(testContext(), validCandidate())
	require.NoError(t, err)

	_, err = svc.Patch(testContext(), stored.ID, models.PatchRequest{"firstName": "C"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testContext(), stored.ID))

	require.Len(t, publisher.events, 3)
	assert.Equal(t, events.TypeUserCreated, publisher.events[0].Type)
	assert.Equal(t, events.TypeUserPatched, publisher.events[1].Type)
	assert.Equal(t, events.TypeUserDeleted, publisher.events[2].Type)
	for _, event := range publisher.events {
		assert.Equal(t, stored.ID, event.UserID)
		assert.Equal(t, today, event.Timestamp)
	}
}

// failingPublisher always errors; requests must still succeed.
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker down")
}

func TestEventPublishFailureDoesNotFailRequest(t *testing.T) {
	svc := service.New(memory.New(), minYears, service.WithPublisher(failingPublisher{}))

	stored, err := svc.Create(testContext(), validCandidate())
	require.NoError(t, err)
	assert.False(t, stored.ID.IsZero())
}
