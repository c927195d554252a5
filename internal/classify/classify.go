package classify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMarker is the character that flags a code as Marked.
const DefaultMarker = "문"

// Category is the closed set of labels a code can receive.
type Category string

const (
	Marked Category = "marked"
	Plain  Category = "plain"
)

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// ParseCategory maps a user supplied name to a Category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Marked):
		return Marked, true
	case string(Plain):
		return Plain, true
	}
	return "", false
}

// ClassifiedValue is the derived pair computed from a single raw code.
type ClassifiedValue struct {
	Category     Category
	NumericValue decimal.NullDecimal
}

// HasValue reports whether the code parsed to a number.
func (v ClassifiedValue) HasValue() bool {
	return v.NumericValue.Valid
}

// Float returns the numeric value as a float64 and whether it is present.
func (v ClassifiedValue) Float() (float64, bool) {
	if !v.NumericValue.Valid {
		return 0, false
	}
	return v.NumericValue.Decimal.InexactFloat64(), true
}

// Classifier derives ClassifiedValues using a fixed marker.
type Classifier struct {
	marker string
}

// New returns a Classifier for marker. An empty marker falls back to DefaultMarker.
func New(marker string) *Classifier {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Classifier{marker: marker}
}

// Marker returns the marker substring.
func (c *Classifier) Marker() string {
	return c.marker
}

// Classify computes the category and numeric value of raw. A nil raw is an
// absent cell: Plain with no value.
func (c *Classifier) Classify(raw *string) ClassifiedValue {
	if raw == nil {
		return ClassifiedValue{Category: Plain}
	}

	text := *raw
	result := ClassifiedValue{Category: Plain}
	if strings.Contains(text, c.marker) {
		result.Category = Marked
	}

	stripped := strings.TrimSpace(strings.ReplaceAll(text, c.marker, ""))
	if stripped == "" {
		return result
	}

	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return result
	}
	result.NumericValue = decimal.NewNullDecimal(d)

	return result
}

// Classify classifies raw with the default marker.
func Classify(raw *string) ClassifiedValue {
	return defaultClassifier.Classify(raw)
}

var defaultClassifier = New(DefaultMarker)
