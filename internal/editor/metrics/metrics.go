package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus Metrics
// ============================================================

var (
	// Labels: route (шаблон пути), method, status
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schematic",
		Subsystem: "editor",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled by the editor service",
	}, []string{"route", "method", "status"})

	// Labels: op (add_component, complete_wire, undo, ...), result (applied, noop, error)
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schematic",
		Subsystem: "editor",
		Name:      "operations_total",
		Help:      "Editor operations applied to session documents",
	}, []string{"op", "result"})

	simulateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "schematic",
		Subsystem: "editor",
		Name:      "simulate_duration_seconds",
		Help:      "Time spent computing the active component set",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	activeComponents = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "schematic",
		Subsystem: "editor",
		Name:      "active_components",
		Help:      "Number of components found on a closed source-ground path",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	openSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "schematic",
		Subsystem: "editor",
		Name:      "open_sessions",
		Help:      "Editor sessions currently held in memory",
	})

	loadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "schematic",
		Subsystem: "editor",
		Name:      "load_failures_total",
		Help:      "Design files rejected on import",
	})
)

const (
	ResultApplied = "applied"
	ResultNoop    = "noop"
	ResultError   = "error"
)

// RecordOperation считает операцию над документом.
func RecordOperation(op string, applied bool) {
	result := ResultNoop
	if applied {
		result = ResultApplied
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func RecordOperationError(op string) {
	operationsTotal.WithLabelValues(op, ResultError).Inc()
}

func RecordSimulation(d time.Duration, active int) {
	simulateDuration.Observe(d.Seconds())
	activeComponents.Observe(float64(active))
}

func RecordLoadFailure() {
	loadFailures.Inc()
}

func SetOpenSessions(n int) {
	openSessions.Set(float64(n))
}

// Middleware считает запросы по шаблону маршрута, а не по фактическому пути.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}
