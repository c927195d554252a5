package models

import (
	"github.com/shopspring/decimal"

	"moonlabel.dev/internal/classify"
	"moonlabel.dev/internal/dataset"
)

// Classification is the result of classifying one code.
type Classification struct {
	Code         *string             `json:"code"`
	Category     classify.Category   `json:"category"`
	NumericValue decimal.NullDecimal `json:"numericValue"`
	HasValue     bool                `json:"hasValue"`
}

func NewClassification(code *string, value classify.ClassifiedValue) Classification {
	return Classification{
		Code:         code,
		Category:     value.Category,
		NumericValue: value.NumericValue,
		HasValue:     value.HasValue(),
	}
}

// ClassifiedRecord is one row of the dataset with its classification.
type ClassifiedRecord struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Classification
}

func NewClassifiedRecord(view *dataset.View, r classify.Result) ClassifiedRecord {
	return ClassifiedRecord{
		Index:          r.Record.Index,
		Label:          view.Label(r),
		Classification: NewClassification(view.Code(r), r.Value),
	}
}

// NewClassifiedRecords converts results in order.
func NewClassifiedRecords(view *dataset.View, results []classify.Result) []ClassifiedRecord {
	records := make([]ClassifiedRecord, 0, len(results))
	for _, r := range results {
		records = append(records, NewClassifiedRecord(view, r))
	}
	return records
}
