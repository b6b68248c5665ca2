package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mathieu-neron/songrec/internal/handler"
	"github.com/mathieu-neron/songrec/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Recommendation *handler.RecommendationHandler
	Health         *handler.HealthHandler
}

// Options tunes the route table.
type Options struct {
	CORSOrigins string
	// EnableReset routes POST /recommendations/reset. Test environments only.
	EnableReset bool
	// Gatherer backs /metrics. Nil leaves the endpoint unrouted.
	Gatherer prometheus.Gatherer
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
// The returned func stops the rate limiters' background sweepers.
func Setup(app *fiber.App, h *Handlers, opts Options) func() {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(opts.CORSOrigins))
	app.Use(handler.MetricsMiddleware())

	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	if opts.Gatherer != nil {
		app.Get("/metrics", handler.MetricsHandler(opts.Gatherer))
	}

	readLimit := middleware.NewReadRateLimiter()
	insertLimit := middleware.NewInsertRateLimiter()
	voteLimit := middleware.NewVoteRateLimiter()

	recs := app.Group("/recommendations")

	recs.Post("/", insertLimit.Handler(), h.Recommendation.Insert)
	// Registered even when disabled so the path answers 404 rather than
	// falling through to the 405 of GET /:id.
	reset := h.Recommendation.Reset
	if !opts.EnableReset {
		reset = func(fiber.Ctx) error { return fiber.ErrNotFound }
	}
	recs.Post("/reset", reset)
	recs.Post("/:id/upvote", voteLimit.Handler(), h.Recommendation.Upvote)
	recs.Post("/:id/downvote", voteLimit.Handler(), h.Recommendation.Downvote)

	// Fixed segments go before /:id so they are not captured as ids.
	recs.Get("/", readLimit.Handler(), h.Recommendation.ListRecent)
	recs.Get("/random", readLimit.Handler(), h.Recommendation.GetRandom)
	recs.Get("/top/:amount", readLimit.Handler(), h.Recommendation.GetTop)
	recs.Get("/:id", readLimit.Handler(), h.Recommendation.GetByID)

	return func() {
		readLimit.Close()
		insertLimit.Close()
		voteLimit.Close()
	}
}
