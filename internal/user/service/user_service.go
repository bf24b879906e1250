package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"roster/internal/user/events"
	"roster/internal/user/models"
	id "roster/pkg/domain"
	dErrors "roster/pkg/domain-errors"
)

// Create validates the candidate and persists it. The store assigns the ID;
// any ID on the candidate is discarded.
func (s *Service) Create(ctx context.Context, candidate models.User) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "user.create")
	defer span.End()

	if err := s.validate(ctx, candidate); err != nil {
		return models.User{}, err
	}

	candidate.ID = id.UserID{}
	stored, err := s.store.Insert(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		return models.User{}, translateStoreErr(err, "create user")
	}
	span.SetAttributes(attribute.String("user.id", stored.ID.String()))

	s.incrementCreated()
	s.emit(ctx, events.TypeUserCreated, stored.ID)
	return stored, nil
}

// FindByID returns the record for the given ID.
func (s *Service) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "user.find_by_id", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, translateStoreErr(err, "load user")
	}
	return user, nil
}

// Update replaces every mutable field of an existing record with the
// candidate's values. The record's ID is never altered by the candidate's
// content.
func (s *Service) Update(ctx context.Context, userID id.UserID, candidate models.User) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "user.update", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if _, err := s.store.FindByID(ctx, userID); err != nil {
		return models.User{}, translateStoreErr(err, "load user")
	}

	if err := s.validate(ctx, candidate); err != nil {
		return models.User{}, err
	}

	candidate.ID = userID
	if err := s.store.Replace(ctx, candidate); err != nil {
		span.RecordError(err)
		return models.User{}, translateStoreErr(err, "update user")
	}

	s.incrementUpdated()
	s.emit(ctx, events.TypeUserUpdated, userID)
	return candidate, nil
}

// Patch merges a sparse field map onto an existing record, re-validates the
// merged candidate, and persists it. An empty patch is a valid no-op: the
// record is re-validated and returned unchanged.
func (s *Service) Patch(ctx context.Context, userID id.UserID, patch models.PatchRequest) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "user.patch", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	existing, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, translateStoreErr(err, "load user")
	}

	merged, err := models.MergePatch(existing, patch)
	if err != nil {
		return models.User{}, err
	}

	if err := s.validate(ctx, merged); err != nil {
		return models.User{}, err
	}

	if err := s.store.Replace(ctx, merged); err != nil {
		span.RecordError(err)
		return models.User{}, translateStoreErr(err, "patch user")
	}

	s.incrementPatched()
	s.emit(ctx, events.TypeUserPatched, userID)
	return merged, nil
}

// Delete removes the record. Deleting an absent ID succeeds silently; the
// store contract makes DeleteByID a no-op in that case.
func (s *Service) Delete(ctx context.Context, userID id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "user.delete", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if err := s.store.DeleteByID(ctx, userID); err != nil {
		span.RecordError(err)
		return translateStoreErr(err, "delete user")
	}

	s.incrementDeleted()
	s.emit(ctx, events.TypeUserDeleted, userID)
	return nil
}

// FindAll returns every record in store-defined order.
func (s *Service) FindAll(ctx context.Context) ([]models.User, error) {
	ctx, span := s.tracer.Start(ctx, "user.find_all")
	defer span.End()

	start := time.Now()
	users, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, translateStoreErr(err, "list users")
	}
	s.observeList(start)
	return users, nil
}

// FindByBirthDateRange returns records whose birth date lies in [from, to]
// inclusive. The range is rejected before any store call when to precedes
// from.
func (s *Service) FindByBirthDateRange(ctx context.Context, from, to models.Date) ([]models.User, error) {
	ctx, span := s.tracer.Start(ctx, "user.find_by_birth_date_range", trace.WithAttributes(
		attribute.String("range.from", from.String()),
		attribute.String("range.to", to.String()),
	))
	defer span.End()

	if to.Before(from) {
		return nil, dErrors.Newf(dErrors.CodeInvalidRange, "invalid date range: %s is after %s", from, to)
	}

	start := time.Now()
	users, err := s.store.FindByBirthDateRange(ctx, from, to)
	if err != nil {
		return nil, translateStoreErr(err, "query users by birth date range")
	}
	s.observeRangeQuery(start)
	return users, nil
}

func (s *Service) incrementCreated() {
	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
}

func (s *Service) incrementUpdated() {
	if s.metrics != nil {
		s.metrics.IncrementUsersUpdated()
	}
}

func (s *Service) incrementPatched() {
	if s.metrics != nil {
		s.metrics.IncrementUsersPatched()
	}
}

func (s *Service) incrementDeleted() {
	if s.metrics != nil {
		s.metrics.IncrementUsersDeleted()
	}
}

func (s *Service) observeList(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}
}

func (s *Service) observeRangeQuery(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRangeQuery(start)
	}
}
