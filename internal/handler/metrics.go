package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/mathieu-neron/songrec/internal/middleware"
)

const (
	voteUp   = "up"
	voteDown = "down"
)

// Metrics holds all Prometheus collectors for the recommendation API.
// Collectors stay nil until InitMetrics runs; the count helpers tolerate that.
var Metrics = struct {
	VotesTotal       *prometheus.CounterVec
	RemovalsTotal    prometheus.Counter
	RandomPicks      *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}{}

// InitMetrics creates every collector and registers it with reg. Call once at
// startup; tests pass a fresh registry. pool may be nil for the memory store.
func InitMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) {
	Metrics.VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_votes_total",
			Help: "Total votes recorded, by direction.",
		},
		[]string{"direction"},
	)

	Metrics.RemovalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_removals_total",
			Help: "Recommendations removed after falling below the removal score.",
		},
	)

	Metrics.RandomPicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_random_picks_total",
			Help: "Random recommendations served, by score tier.",
		},
		[]string{"tier"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songrec_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	)

	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "songrec_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "songrec_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		reg.MustRegister(Metrics.DBPoolActive, Metrics.DBPoolIdle)
	}

	reg.MustRegister(
		Metrics.VotesTotal,
		Metrics.RemovalsTotal,
		Metrics.RandomPicks,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
	)
}

// CacheHit and CacheMiss are wired into the cache service as its observer.
func CacheHit() {
	if Metrics.CacheHits != nil {
		Metrics.CacheHits.Inc()
	}
}

func CacheMiss() {
	if Metrics.CacheMisses != nil {
		Metrics.CacheMisses.Inc()
	}
}

func countVote(direction string) {
	if Metrics.VotesTotal != nil {
		Metrics.VotesTotal.WithLabelValues(direction).Inc()
	}
}

func countRemoval() {
	if Metrics.RemovalsTotal != nil {
		Metrics.RemovalsTotal.Inc()
	}
}

func countRandomPick(tier string) {
	if Metrics.RandomPicks != nil {
		Metrics.RandomPicks.WithLabelValues(tier).Inc()
	}
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if Metrics.RequestDuration == nil || c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method before c.Next(): fiber hands out slices of the
		// fasthttp buffer, which handlers may overwrite.
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		defer Metrics.RequestsInFlight.Dec()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(middleware.ResponseStatus(c, err))

		Metrics.RequestDuration.WithLabelValues(endpoint, sanitizeMethod(method), status).Observe(duration)

		return err
	}
}

// otherLabel stands in for any path or method outside the route table.
const otherLabel = "other"

// sanitizeEndpoint maps a request path onto the route it would match so the
// endpoint label stays bounded. Unknown paths share otherLabel.
func sanitizeEndpoint(path string) string {
	const prefix = "/recommendations"
	switch path {
	case prefix, prefix + "/":
		return prefix
	case prefix + "/random", prefix + "/reset", "/health/live", "/health/ready":
		return path
	}

	rest, ok := strings.CutPrefix(path, prefix+"/")
	if !ok {
		return otherLabel
	}
	segments := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	switch {
	case len(segments) == 1 && segments[0] != "":
		return prefix + "/:id"
	case len(segments) == 2 && segments[0] == "top" && segments[1] != "":
		return prefix + "/top/:amount"
	case len(segments) == 2 && segments[0] != "" && (segments[1] == "upvote" || segments[1] == "downvote"):
		return prefix + "/:id/" + segments[1]
	}
	return otherLabel
}

func sanitizeMethod(method string) string {
	switch method {
	case fiber.MethodGet, fiber.MethodPost, fiber.MethodHead, fiber.MethodOptions:
		return method
	}
	return otherLabel
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler(g prometheus.Gatherer) fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
