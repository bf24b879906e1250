package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the user module.
// Tracks lifecycle counts and the durations of the read paths.
type Metrics struct {
	UsersCreated prometheus.Counter
	UsersUpdated prometheus.Counter
	UsersPatched prometheus.Counter
	UsersDeleted prometheus.Counter

	RangeQueryDuration prometheus.Histogram
	ListDuration       prometheus.Histogram
}

// New creates a Metrics instance with all user module metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roster_users_created_total",
			Help: "Total number of users created",
		}),
		UsersUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roster_users_updated_total",
			Help: "Total number of full user updates",
		}),
		UsersPatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roster_users_patched_total",
			Help: "Total number of partial user updates",
		}),
		UsersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roster_users_deleted_total",
			Help: "Total number of user deletions",
		}),
		RangeQueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_birth_date_range_query_duration_seconds",
			Help:    "Duration of birth-date range queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_list_users_duration_seconds",
			Help:    "Duration of full user list queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementUsersCreated records a successful user creation.
func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}

// IncrementUsersUpdated records a successful full update.
func (m *Metrics) IncrementUsersUpdated() {
	m.UsersUpdated.Inc()
}

// IncrementUsersPatched records a successful partial update.
func (m *Metrics) IncrementUsersPatched() {
	m.UsersPatched.Inc()
}

// IncrementUsersDeleted records a delete call.
func (m *Metrics) IncrementUsersDeleted() {
	m.UsersDeleted.Inc()
}

// ObserveRangeQuery records the duration of a birth-date range query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRangeQuery(start time.Time) {
	m.RangeQueryDuration.Observe(time.Since(start).Seconds())
}

// ObserveList records the duration of a full list query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}
