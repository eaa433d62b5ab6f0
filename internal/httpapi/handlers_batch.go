package httpapi

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"placescout/internal/aggregator"
	"placescout/internal/ingest"
	"placescout/internal/metrics"
)

// ErrorResponse is the short {error, message} object spec §7 requires
// for every 4xx/5xx.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadResponse is the synchronous reply to a batch upload, sent
// only after every row has been durably enqueued (spec §4.6's
// two-phase invariant).
type UploadResponse struct {
	BatchID     string `json:"batchId"`
	JobsCreated int    `json:"jobsCreated"`
	Encoding    string `json:"encoding"`
	BOMRemoved  bool   `json:"bomRemoved"`
}

func uploadHandler(c *fiber.Ctx) error {
	deps := depsFrom(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "missing_file",
			Message: "expected a multipart file part named 'file'",
		})
	}
	if !hasCSVSuffix(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_suffix",
			Message: "uploaded file must have a .csv suffix",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "unreadable_file",
			Message: err.Error(),
		})
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "unreadable_file",
			Message: err.Error(),
		})
	}

	records, decoded, err := ingest.ParseCSV(raw)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "decode_failed",
			Message: err.Error(),
		})
	}

	batchID := newBatchID()
	jobsCreated, err := ingest.EnqueueBatch(c.Context(), deps.Queue.Enqueue, deps.Queue.Discard, batchID, records)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "enqueue_failed",
			Message: "upload rejected: " + err.Error(),
		})
	}
	for i := 0; i < jobsCreated; i++ {
		metrics.RecordJobEnqueued()
	}

	return c.Status(fiber.StatusOK).JSON(UploadResponse{
		BatchID:     batchID,
		JobsCreated: jobsCreated,
		Encoding:    string(decoded.Encoding),
		BOMRemoved:  decoded.BOMRemoved,
	})
}

func statusHandler(c *fiber.Ctx) error {
	deps := depsFrom(c)
	batchID := c.Params("batchId")

	jobs, err := deps.Reader.ListByBatch(c.Context(), batchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "lookup_failed",
			Message: err.Error(),
		})
	}
	if len(jobs.Waiting)+len(jobs.Active)+len(jobs.Completed)+len(jobs.Failed) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "no batch with that id",
		})
	}

	return c.JSON(aggregator.Compute(batchID, jobs))
}

func exportHandler(c *fiber.Ctx) error {
	deps := depsFrom(c)
	batchID := c.Params("batchId")

	jobs, err := deps.Reader.ListByBatch(c.Context(), batchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "lookup_failed",
			Message: err.Error(),
		})
	}
	if len(jobs.Waiting)+len(jobs.Active)+len(jobs.Completed)+len(jobs.Failed) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "no batch with that id",
		})
	}

	body := aggregator.ExportCSV(jobs)
	filename := fmt.Sprintf("scraping-results-%s.csv", time.Now().UTC().Format("20060102150405"))

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

func newBatchID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

func hasCSVSuffix(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}
