// Package httpapi implements component F's HTTP half (the upload and
// status/export endpoints) and wires in component H's progress
// stream, following the teacher's router/middleware/handler split.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"placescout/internal/metrics"
	"placescout/internal/model"
	"placescout/internal/progressstream"
	"placescout/internal/queue"
)

// Enqueuer is the narrow queue view the upload handler needs: enqueue
// a row, and discard one if the batch has to be rolled back.
type Enqueuer interface {
	Enqueue(ctx context.Context, batchID string, input model.InputRecord) (string, error)
	Discard(ctx context.Context, batchID, jobID string) error
}

// BatchReader is the narrow queue view the status/export handlers need.
type BatchReader interface {
	ListByBatch(ctx context.Context, batchID string) (queue.BatchJobs, error)
}

// Deps bundles everything a handler needs, injected via fiber.Locals
// the way the teacher's router attaches "store"/"config"/"executor".
type Deps struct {
	Queue  Enqueuer
	Reader BatchReader
	Stream *progressstream.Stream
	Logger *slog.Logger
}

// Server wraps the fiber app and its listening address.
type Server struct {
	app  *fiber.App
	port int
}

// NewServer builds the fiber app: request-id/logging/metrics
// middleware, permissive CORS (spec §6), and the four batch routes
// plus /health and /metrics.
func NewServer(port int, deps Deps) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return true },
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,Accept",
		AllowCredentials: true,
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("deps", deps)
		return c.Next()
	})

	app.Use(requestLoggingMiddleware(deps.Logger))

	app.Get("/health", healthHandler)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		c.Type("text/plain")
		return c.SendString(metrics.Export())
	})

	v1 := app.Group("/api/v1")
	v1.Post("/scraping-batch", uploadHandler)
	v1.Get("/scraping-batch/:batchId", statusHandler)
	v1.Get("/scraping-batch/:batchId/export", exportHandler)
	v1.Get("/scraping-batch/:batchId/stream", streamHandler)

	return &Server{app: app, port: port}
}

// Listen starts the HTTP server, blocking until it stops or errors.
func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown gracefully stops the server, honoring ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	deadline := 5 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		deadline = time.Until(dl)
	}
	return s.app.ShutdownWithTimeout(deadline)
}

func requestLoggingMiddleware(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals("request_id", reqID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Path()

		metrics.RecordRequest(method, path, status, latency.Milliseconds())

		if logger != nil {
			logger.Info("request",
				"request_id", reqID,
				"method", method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
		return err
	}
}

func healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func depsFrom(c *fiber.Ctx) Deps {
	return c.Locals("deps").(Deps)
}
