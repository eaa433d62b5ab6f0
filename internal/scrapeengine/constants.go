package scrapeengine

import "time"

const (
	defaultElementTimeout = 8 * time.Second
	navigationTimeout     = 30 * time.Second
	clickTimeout          = 8 * time.Second
)
