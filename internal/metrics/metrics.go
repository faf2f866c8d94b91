// Package metrics has prometheus metric variables and the helpers that update them.
package metrics

import (
	"FoodieFriends/internal/docstore"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricHTTPRequest = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodiefriends_http_request_duration_seconds",
			Help:    "HTTP request duration by route pattern.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{
			"route",
			"method",
			"code",
		},
	)
	metricBatchCommit = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodiefriends_batch_commits_total",
			Help: "Document store batch commits by result.",
		},
		[]string{
			"result", // ok, error
		},
	)
	metricPruned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodiefriends_pruned_references_total",
			Help: "Dangling post references removed from user documents during reads.",
		},
		[]string{
			"field",
		},
	)
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware observes request durations labeled with the chi route pattern so
// that path parameters do not explode label cardinality
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metricHTTPRequest.WithLabelValues(route, r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// PrunedReferences counts stale ids removed from a user set
func PrunedReferences(field string, n int) {
	metricPruned.WithLabelValues(field).Add(float64(n))
}

// InstrumentStore counts batch commits of store
func InstrumentStore(store docstore.Store) docstore.Store {
	return &instrumentedStore{Store: store}
}

type instrumentedStore struct {
	docstore.Store
}

func (s *instrumentedStore) Batch() docstore.Batch {
	return &instrumentedBatch{Batch: s.Store.Batch()}
}

type instrumentedBatch struct {
	docstore.Batch
}

func (b *instrumentedBatch) Commit(ctx context.Context) error {
	err := b.Batch.Commit(ctx)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metricBatchCommit.WithLabelValues(result).Inc()
	return err
}
