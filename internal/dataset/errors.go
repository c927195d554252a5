package dataset

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable indicates the dataset could not be read from its source.
var ErrSourceUnavailable = errors.New("dataset source unavailable")

// ErrColumnNotFound indicates the configured code column is not in the header.
var ErrColumnNotFound = errors.New("column not found")

// ErrUnsupportedFormat indicates the payload is neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// ErrUnknownEncoding indicates the configured text encoding has no decoder.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// LoadError records which stage of loading a source failed.
type LoadError struct {
	Source string
	Stage  string // "fetch", "decode", "parse", "classify"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading dataset %q (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(source, stage string, err error) *LoadError {
	return &LoadError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}
