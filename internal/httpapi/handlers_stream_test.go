package httpapi

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"placescout/internal/model"
	"placescout/internal/progressstream"
	"placescout/internal/queue"
)

type oneShotCompletedLister struct{}

func (oneShotCompletedLister) ListByBatch(ctx context.Context, batchID string) (queue.BatchJobs, error) {
	return queue.BatchJobs{Completed: []*model.Job{{JobID: "1"}}}, nil
}

func TestStreamHandler_EmitsConnectedAndComplete(t *testing.T) {
	stream := progressstream.New(oneShotCompletedLister{}, 5*time.Millisecond)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("deps", Deps{Stream: stream})
		return c.Next()
	})
	app.Get("/api/v1/scraping-batch/:batchId/stream", streamHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scraping-batch/batch-1/stream", nil)
	resp, err := app.Test(req, int((2 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content-type: %q", ct)
	}

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	body := strings.Join(lines, "\n")
	if !strings.Contains(body, "event: connected") {
		t.Fatalf("expected a connected frame, got:\n%s", body)
	}
	if !strings.Contains(body, "event: complete") {
		t.Fatalf("expected a complete frame, got:\n%s", body)
	}
}
