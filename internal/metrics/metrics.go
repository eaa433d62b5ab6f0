// Package metrics provides simple, in-memory Prometheus-text-format
// counters and gauges for HTTP requests and the scrape pipeline. This
// is intentionally minimal: no client library, no push gateway, just
// enough to expose /metrics the way the rest of this stack expects.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	requestsTotal = make(map[reqKey]int64)
	latencyMsSum  = make(map[latKey]int64)
	latencyMsCnt  = make(map[latKey]int64)

	jobsEnqueuedTotal  int64
	jobsCompletedTotal int64
	jobsFailedTotal    int64

	scrapeDurationMsSum   int64
	scrapeDurationMsCount int64

	browserPoolInUse          int64
	progressStreamSubscribers int64
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

// RecordRequest increments the request counter and records latency for
// the HTTP middleware.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	requestsTotal[reqKey{Method: method, Path: path, Status: status}]++
	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCnt[lk]++
}

// RecordJobEnqueued increments the jobs-enqueued counter.
func RecordJobEnqueued() {
	mu.Lock()
	defer mu.Unlock()
	jobsEnqueuedTotal++
}

// RecordJobCompleted increments the jobs-completed counter.
func RecordJobCompleted() {
	mu.Lock()
	defer mu.Unlock()
	jobsCompletedTotal++
}

// RecordJobFailed increments the jobs-failed counter.
func RecordJobFailed() {
	mu.Lock()
	defer mu.Unlock()
	jobsFailedTotal++
}

// RecordScrapeDuration records one completed attempt's wall-clock time
// for the scrape-duration histogram-as-sum/count pair.
func RecordScrapeDuration(ms int64) {
	mu.Lock()
	defer mu.Unlock()
	scrapeDurationMsSum += ms
	scrapeDurationMsCount++
}

// SetBrowserPoolInUse sets the current number of checked-out browsers.
func SetBrowserPoolInUse(n int) {
	mu.Lock()
	defer mu.Unlock()
	browserPoolInUse = int64(n)
}

// SetProgressStreamSubscribers sets the current number of open
// progress-stream subscriptions.
func SetProgressStreamSubscribers(n int) {
	mu.Lock()
	defer mu.Unlock()
	progressStreamSubscribers = int64(n)
}

// Export renders every metric in Prometheus text exposition format.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP placescout_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE placescout_http_requests_total counter\n")
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})
	for _, k := range reqKeys {
		fmt.Fprintf(&b, "placescout_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP placescout_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE placescout_http_request_duration_ms_sum counter\n")
	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})
	for _, k := range latKeys {
		fmt.Fprintf(&b, "placescout_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n", k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "placescout_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n", k.Method, k.Path, latencyMsCnt[k])
	}

	b.WriteString("# HELP placescout_jobs_enqueued_total Total jobs enqueued\n")
	b.WriteString("# TYPE placescout_jobs_enqueued_total counter\n")
	fmt.Fprintf(&b, "placescout_jobs_enqueued_total %d\n", jobsEnqueuedTotal)

	b.WriteString("# HELP placescout_jobs_completed_total Total jobs completed\n")
	b.WriteString("# TYPE placescout_jobs_completed_total counter\n")
	fmt.Fprintf(&b, "placescout_jobs_completed_total %d\n", jobsCompletedTotal)

	b.WriteString("# HELP placescout_jobs_failed_total Total jobs terminally failed\n")
	b.WriteString("# TYPE placescout_jobs_failed_total counter\n")
	fmt.Fprintf(&b, "placescout_jobs_failed_total %d\n", jobsFailedTotal)

	b.WriteString("# HELP placescout_scrape_duration_ms_sum Total scrape attempt duration in milliseconds\n")
	b.WriteString("# TYPE placescout_scrape_duration_ms_sum counter\n")
	fmt.Fprintf(&b, "placescout_scrape_duration_ms_sum %d\n", scrapeDurationMsSum)
	fmt.Fprintf(&b, "placescout_scrape_duration_ms_count %d\n", scrapeDurationMsCount)

	b.WriteString("# HELP placescout_browser_pool_in_use Browsers currently checked out of the pool\n")
	b.WriteString("# TYPE placescout_browser_pool_in_use gauge\n")
	fmt.Fprintf(&b, "placescout_browser_pool_in_use %d\n", browserPoolInUse)

	b.WriteString("# HELP placescout_progress_stream_subscribers Open progress-stream subscriptions\n")
	b.WriteString("# TYPE placescout_progress_stream_subscribers gauge\n")
	fmt.Fprintf(&b, "placescout_progress_stream_subscribers %d\n", progressStreamSubscribers)

	return b.String()
}
