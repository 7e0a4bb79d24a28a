package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/jobdesk/backend/internal/models"
)

var (
	lifecycleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobdesk",
		Subsystem: "lifecycle",
		Name:      "operations_total",
		Help:      "Total number of request lifecycle operations broken down by operation and result.",
	}, []string{"operation", "result"})

	requestsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "jobdesk",
		Subsystem: "requests",
		Name:      "by_status",
		Help:      "Number of stored requests per status as of the last monitor sweep.",
	}, []string{"status"})

	requestsOverdue = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "jobdesk",
		Subsystem: "requests",
		Name:      "overdue",
		Help:      "Number of open requests whose due date has passed.",
	})
)

// RecordOperation counts one lifecycle call.
func RecordOperation(operation, result string) {
	if result == "" {
		result = "ok"
	}
	lifecycleOperations.WithLabelValues(operation, result).Inc()
}

// SetStatusCounts publishes a gauge value for every status, including zeros.
func SetStatusCounts(counts map[models.RequestStatus]int) {
	for _, s := range models.Statuses {
		requestsByStatus.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

func SetOverdue(n int) {
	requestsOverdue.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
