package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"roster/internal/user/events"
	usermetrics "roster/internal/user/metrics"
	"roster/internal/user/models"
	"roster/internal/user/validation"
	id "roster/pkg/domain"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/sentinel"
	"roster/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mock/store.go -package=mock

// Store is the persistence collaborator. Implementations return sentinel
// errors for infrastructure facts; the service translates them into coded
// domain errors.
type Store interface {
	// Insert persists a new record and returns it with the assigned ID.
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, userID id.UserID) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	// FindByBirthDateRange returns records whose birth date lies in
	// [from, to] inclusive, in store-defined order.
	FindByBirthDateRange(ctx context.Context, from, to models.Date) ([]models.User, error)
	Replace(ctx context.Context, user models.User) error
	// DeleteByID is a no-op, not an error, when the ID is absent.
	DeleteByID(ctx context.Context, userID id.UserID) error
}

// Service orchestrates user lifecycle management. It holds no mutable state
// of its own; every operation is a single validate-then-store step.
type Service struct {
	store     Store
	validator *validation.Validator
	logger    *slog.Logger
	metrics   *usermetrics.Metrics
	publisher events.Publisher
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *usermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// New constructs a Service over the given store and minimum-age rule.
func New(store Store, minYears int, opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: validation.New(minYears),
		tracer:    otel.Tracer("roster/internal/user/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validate runs the validator against the request-scoped date and converts
// violations into a single validation error.
func (s *Service) validate(ctx context.Context, candidate models.User) error {
	if violations := s.validator.Validate(requestcontext.Now(ctx), candidate); len(violations) > 0 {
		return dErrors.NewValidation(violations)
	}
	return nil
}

// translateStoreErr maps sentinel store errors into domain errors. Anything
// unclassified surfaces as internal so the transport suppresses the detail.
func translateStoreErr(err error, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

// emit publishes a lifecycle event best-effort. Publish failures are logged
// and never fail the originating request.
func (s *Service) emit(ctx context.Context, eventType events.Type, userID id.UserID) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: requestcontext.Now(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"event_type", eventType,
			"user_id", userID,
			"error", err,
		)
	}
}
