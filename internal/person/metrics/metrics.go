package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the person registry module.
type Metrics struct {
	PeopleCreated  prometheus.Counter
	PeopleDeleted  prometheus.Counter
	CreateConflict prometheus.Counter
	ListDuration   prometheus.Histogram
}

// New creates a Metrics instance with all person registry metrics registered.
func New() *Metrics {
	return &Metrics{
		PeopleCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_people_created_total",
			Help: "Total number of person records created",
		}),
		PeopleDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_people_deleted_total",
			Help: "Total number of person records deleted",
		}),
		CreateConflict: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registra_people_create_conflicts_total",
			Help: "Total number of creates rejected for a duplicate CPF",
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "registra_people_list_duration_seconds",
			Help:    "Duration of person list operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementPeopleCreated records a successful person creation.
func (m *Metrics) IncrementPeopleCreated() {
	if m != nil {
		m.PeopleCreated.Inc()
	}
}

// IncrementPeopleDeleted records a successful person removal.
func (m *Metrics) IncrementPeopleDeleted() {
	if m != nil {
		m.PeopleDeleted.Inc()
	}
}

// IncrementCreateConflict records a create rejected for a duplicate CPF.
func (m *Metrics) IncrementCreateConflict() {
	if m != nil {
		m.CreateConflict.Inc()
	}
}

// ObserveList records the duration of a list operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	if m != nil {
		m.ListDuration.Observe(time.Since(start).Seconds())
	}
}
