package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url: must be an absolute http or https url")

	// ErrInvalidIndexPath is returned when the index path lacks a single %d placeholder.
	ErrInvalidIndexPath = errors.New("invalid index path: must contain exactly one %d")

	// ErrEmptyPoetPrefix is returned when no poet link prefix is set.
	ErrEmptyPoetPrefix = errors.New("poet prefix must not be empty")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when a pool size is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidCheckpoint is returned when the checkpoint interval is not positive.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint interval: must be positive")

	// ErrInvalidRate is returned when the request rate is negative.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownStore is returned for a store kind other than json, local or cloud.
	ErrUnknownStore = errors.New("unknown store: must be json, local or cloud")

	// ErrUnknownReportFormat is returned for a report format other than text, json or markdown.
	ErrUnknownReportFormat = errors.New("unknown report format: must be text, json or markdown")
)
