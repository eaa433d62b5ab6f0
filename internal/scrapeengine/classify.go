package scrapeengine

import "placescout/internal/model"

// Extracted is the raw per-field extraction outcome passed to
// Classify; fields left false/empty represent one that could not be
// recovered from the page.
type Extracted struct {
	Name      string
	HasName   bool
	Address   string
	HasPhone  bool
	HasHours  bool
	HasRating bool
}

// Classify applies the result-status rule: success requires a name
// and address plus at least one of phone/hours/rating; partial keeps
// a recoverable result when the name was found but the supporting
// signals were not; anything missing a name is a failure.
func Classify(e Extracted) model.ResultStatus {
	if !e.HasName || e.Name == "" {
		return model.ResultFailed
	}
	if e.Address == "" {
		return model.ResultPartial
	}
	if e.HasPhone || e.HasHours || e.HasRating {
		return model.ResultSuccess
	}
	return model.ResultPartial
}
