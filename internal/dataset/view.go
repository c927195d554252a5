package dataset

import (
	"time"

	"moonlabel.dev/internal/classify"
)

// View is one classified load of a source. It is immutable once published by
// the Manager.
type View struct {
	Source       string
	Columns      []string
	CodeColumn   string
	LabelColumn  string
	Marker       string
	Hash         string
	FetchedAt    time.Time
	ClassifiedAt time.Time
	Results      []classify.Result
	Partitions   classify.Partitions
}

// Stats summarises a View.
type Stats struct {
	Rows    int `json:"rows"`
	Marked  int `json:"marked"`
	Plain   int `json:"plain"`
	Numeric int `json:"numeric"`
}

func (v *View) Stats() Stats {
	if v == nil {
		return Stats{}
	}
	return Stats{
		Rows:    len(v.Results),
		Marked:  len(v.Partitions.Marked),
		Plain:   len(v.Partitions.Plain),
		Numeric: len(v.Partitions.Numeric),
	}
}

// Label returns the label column text of r, or "" when absent.
func (v *View) Label(r classify.Result) string {
	if v.LabelColumn == "" {
		return ""
	}
	if s := r.Record.Field(v.LabelColumn); s != nil {
		return *s
	}
	return ""
}

// Code returns the raw code of r.
func (v *View) Code(r classify.Result) *string {
	return r.Record.Field(v.CodeColumn)
}

// Filter returns the results of the given category, or all results when
// category is empty. numericOnly drops rows without a numeric value.
func (v *View) Filter(category classify.Category, numericOnly bool) []classify.Result {
	var source []classify.Result
	switch category {
	case classify.Marked:
		source = v.Partitions.Marked
	case classify.Plain:
		source = v.Partitions.Plain
	default:
		source = v.Results
	}

	if !numericOnly {
		return source
	}

	out := make([]classify.Result, 0, len(source))
	for _, r := range source {
		if r.Value.HasValue() {
			out = append(out, r)
		}
	}
	return out
}
