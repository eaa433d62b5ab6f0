// Package model holds the shared data types that flow through the
// ingest pipeline, the job queue, the scrape engine, and the batch
// aggregator.
package model

import "time"

// InputRecord is a single row of an ingested CSV, after header
// normalization. Keys are matched case-insensitively and trimmed;
// values preserve their original Unicode content.
type InputRecord struct {
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// JobState is the lifecycle state of a Job. These values are stored
// verbatim in the queue backend, so they must not change once shipped.
type JobState string

const (
	JobWaiting   JobState = "waiting"
	JobActive    JobState = "active"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// Job is one unit of scrape work, derived from a single InputRecord.
// A Batch is never stored directly; it is computed on demand from the
// Jobs that share a BatchID.
type Job struct {
	JobID         string        `json:"jobId"`
	BatchID       string        `json:"batchId"`
	Input         InputRecord   `json:"input"`
	CreatedAt     time.Time     `json:"createdAt"`
	StartedAt     *time.Time    `json:"startedAt,omitempty"`
	FinishedAt    *time.Time    `json:"finishedAt,omitempty"`
	State         JobState      `json:"state"`
	Attempts      int           `json:"attempts"`
	Progress      int           `json:"progress"`
	Result        *ScrapeResult `json:"result,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

// ResultStatus classifies how complete a ScrapeResult turned out to be.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultPartial ResultStatus = "partial"
	ResultFailed  ResultStatus = "failed"
)

// OpeningHours maps English day names to a normalized hours string,
// e.g. "09:00 - 12:00 & 13:00 - 20:00", "Closed", or "Open 24 hours".
type OpeningHours map[string]string

// SocialMedia maps a fixed set of platform keys to profile URLs.
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// ScrapeResult is the canonical business profile produced by the
// scrape engine. All string fields are empty when unknown; the engine
// never guesses a value it could not extract from the page.
type ScrapeResult struct {
	Status       ResultStatus `json:"status"`
	FullName     string       `json:"fullName"`
	FullAddress  string       `json:"fullAddress"`
	Phone        string       `json:"phone"`
	Rating       string       `json:"rating"`
	ReviewsCount string       `json:"reviewsCount"`
	Website      string       `json:"website"`
	Category     string       `json:"category"`
	Latitude     string       `json:"latitude"`
	Longitude    string       `json:"longitude"`
	OpeningHours OpeningHours `json:"openingHours"`
	SocialMedia  SocialMedia  `json:"socialMedia"`
	ScrapedAt    time.Time    `json:"scrapedAt"`
	Error        string       `json:"error,omitempty"`
}

// WeekDays is the canonical Monday-first ordering used whenever opening
// hours are rendered in a fixed column order (CSV export, progress
// stream result frames).
var WeekDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
