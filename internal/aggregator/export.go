package aggregator

import (
	"bytes"
	"encoding/csv"

	"placescout/internal/model"
	"placescout/internal/queue"
)

// csvHeader is the fixed 15-column export schema: the 7 business
// fields, one "<Day> Hours" column per weekday in Monday-first order,
// then status. Column labels append " Hours" to model.WeekDays; the
// OpeningHours map itself is still keyed by the bare day name.
var csvHeader = append(append([]string{
	"Name", "Rating", "Reviews Count", "Phone", "Address", "Website", "Category",
}, dayHeaders()...), "Status")

func dayHeaders() []string {
	out := make([]string, len(model.WeekDays))
	for i, day := range model.WeekDays {
		out[i] = day + " Hours"
	}
	return out
}

// ExportCSV renders a batch's jobs as CSV, UTF-8-BOM-prefixed so
// Excel opens non-ASCII business names correctly. Jobs without a
// result (waiting, active, or failed) are rendered with empty result
// columns and the job's current state as Status.
func ExportCSV(jobs queue.BatchJobs) []byte {
	var buf bytes.Buffer
	buf.WriteRune(0xFEFF) // UTF-8 BOM

	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeader)

	write := func(j *model.Job) {
		_ = w.Write(rowFor(j))
	}
	for _, j := range jobs.Completed {
		write(j)
	}
	for _, j := range jobs.Failed {
		write(j)
	}
	for _, j := range jobs.Active {
		write(j)
	}
	for _, j := range jobs.Waiting {
		write(j)
	}

	w.Flush()
	return buf.Bytes()
}

// ResultRow flattens a job into the same keyed fields as one export
// row, for H's per-job result frames.
func ResultRow(j *model.Job) map[string]string {
	row := rowFor(j)
	out := make(map[string]string, len(csvHeader))
	for i, col := range csvHeader {
		out[col] = row[i]
	}
	return out
}

func rowFor(j *model.Job) []string {
	row := make([]string, 0, len(csvHeader))
	r := j.Result

	if r == nil {
		row = append(row, j.Input.Name, "", "", "", j.Input.Address, "", "")
		for range model.WeekDays {
			row = append(row, "")
		}
		row = append(row, string(j.State))
		return row
	}

	row = append(row, r.FullName, r.Rating, r.ReviewsCount, r.Phone, r.FullAddress, r.Website, r.Category)
	for _, day := range model.WeekDays {
		row = append(row, r.OpeningHours[day])
	}
	row = append(row, string(r.Status))
	return row
}
