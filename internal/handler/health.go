package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = 3 * time.Second

type HealthHandler struct {
	pool    *pgxpool.Pool
	rdb     *redis.Client
	version string
	startAt time.Time
}

// NewHealthHandler builds the probe handler. A nil pool (memory store) or nil
// Redis client is reported as disabled and never degrades readiness.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, version string) *HealthHandler {
	return &HealthHandler{
		pool:    pool,
		rdb:     rdb,
		version: version,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready with dependency checks.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), probeTimeout)
	defer cancel()

	checks := fiber.Map{
		"database": probe(ctx, h.pool != nil, func(ctx context.Context) error { return h.pool.Ping(ctx) }),
		"redis":    probe(ctx, h.rdb != nil, func(ctx context.Context) error { return h.rdb.Ping(ctx).Err() }),
	}

	overallStatus := "healthy"
	for _, check := range checks {
		if check.(fiber.Map)["status"] == "down" {
			overallStatus = "degraded"
		}
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        h.version,
	})
}

func probe(ctx context.Context, enabled bool, ping func(context.Context) error) fiber.Map {
	if !enabled {
		return fiber.Map{"status": "disabled"}
	}

	start := time.Now()
	err := ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
