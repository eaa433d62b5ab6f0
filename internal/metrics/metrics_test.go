package metrics

import (
	"strings"
	"testing"
)

func TestRecordRequestAndExport(t *testing.T) {
	RecordRequest("GET", "/api/v1/scraping-batch/abc", 200, 42)

	out := Export()
	if !strings.Contains(out, `placescout_http_requests_total{method="GET",path="/api/v1/scraping-batch/abc",status="200"}`) {
		t.Fatalf("expected HTTP request metric in export, got:\n%s", out)
	}
	if !strings.Contains(out, "placescout_http_request_duration_ms_sum") || !strings.Contains(out, "placescout_http_request_duration_ms_count") {
		t.Fatalf("expected latency metric headers in export, got:\n%s", out)
	}
}

func TestRecordJobAndScrapeMetrics(t *testing.T) {
	RecordJobEnqueued()
	RecordJobCompleted()
	RecordJobFailed()
	RecordScrapeDuration(1500)

	out := Export()
	for _, want := range []string{
		"placescout_jobs_enqueued_total",
		"placescout_jobs_completed_total",
		"placescout_jobs_failed_total",
		"placescout_scrape_duration_ms_sum",
		"placescout_scrape_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in export, got:\n%s", want, out)
		}
	}
}

func TestGauges(t *testing.T) {
	SetBrowserPoolInUse(3)
	SetProgressStreamSubscribers(7)

	out := Export()
	if !strings.Contains(out, "placescout_browser_pool_in_use 3") {
		t.Errorf("expected browser pool gauge to read 3, got:\n%s", out)
	}
	if !strings.Contains(out, "placescout_progress_stream_subscribers 7") {
		t.Errorf("expected progress stream gauge to read 7, got:\n%s", out)
	}
}
