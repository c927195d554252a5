package classify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		input        *string
		wantCategory Category
		wantValue    float64
		wantPresent  bool
	}{
		{name: "nil cell", input: nil, wantCategory: Plain},
		{name: "empty string", input: strPtr(""), wantCategory: Plain},
		{name: "marker alone", input: strPtr("문"), wantCategory: Marked},
		{name: "marker prefix", input: strPtr("문250"), wantCategory: Marked, wantValue: 250, wantPresent: true},
		{name: "marker on both ends", input: strPtr("문45.0문"), wantCategory: Marked, wantValue: 45, wantPresent: true},
		{name: "marker in the middle", input: strPtr("12문3"), wantCategory: Marked, wantValue: 123, wantPresent: true},
		{name: "marker suffix", input: strPtr("300문"), wantCategory: Marked, wantValue: 300, wantPresent: true},
		{name: "plain integer", input: strPtr("123"), wantCategory: Plain, wantValue: 123, wantPresent: true},
		{name: "plain decimal", input: strPtr("45.5"), wantCategory: Plain, wantValue: 45.5, wantPresent: true},
		{name: "surrounding whitespace", input: strPtr("  7  "), wantCategory: Plain, wantValue: 7, wantPresent: true},
		{name: "negative", input: strPtr("-12.25"), wantCategory: Plain, wantValue: -12.25, wantPresent: true},
		{name: "explicit plus sign", input: strPtr("+8"), wantCategory: Plain, wantValue: 8, wantPresent: true},
		{name: "leading dot", input: strPtr(".5"), wantCategory: Plain, wantValue: 0.5, wantPresent: true},
		{name: "letters", input: strPtr("abc"), wantCategory: Plain},
		{name: "marker with letters", input: strPtr("문abc"), wantCategory: Marked},
		{name: "two dots", input: strPtr("1.2.3"), wantCategory: Plain},
		{name: "whitespace only", input: strPtr("   "), wantCategory: Plain},
		{name: "other hangul", input: strPtr("일반100"), wantCategory: Plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			assert.Equal(t, tt.wantCategory, got.Category)

			value, ok := got.Float()
			assert.Equal(t, tt.wantPresent, ok)
			assert.Equal(t, tt.wantPresent, got.HasValue())
			if tt.wantPresent {
				assert.InDelta(t, tt.wantValue, value, 1e-9)
			}
		})
	}
}

func TestClassifyCategoryFollowsMarker(t *testing.T) {
	c := New("문")
	for _, s := range []string{"", "0", "x", "abc 12", "9.99", "일반"} {
		assert.Equal(t, Plain, c.Classify(strPtr(s)).Category, "input %q", s)
		assert.Equal(t, Marked, c.Classify(strPtr(s+"문")).Category, "input %q", s+"문")
		assert.Equal(t, Marked, c.Classify(strPtr("문"+s)).Category, "input %q", "문"+s)
	}
}

func TestClassifyCustomMarker(t *testing.T) {
	c := New("*")
	assert.Equal(t, "*", c.Marker())

	got := c.Classify(strPtr("*42*"))
	assert.Equal(t, Marked, got.Category)
	value, ok := got.Float()
	require.True(t, ok)
	assert.InDelta(t, 42.0, value, 1e-9)

	assert.Equal(t, Plain, c.Classify(strPtr("문42")).Category)
}

func TestNewDefaultsMarker(t *testing.T) {
	assert.Equal(t, DefaultMarker, New("").Marker())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Marked ")
	assert.True(t, ok)
	assert.Equal(t, Marked, c)

	c, ok = ParseCategory("plain")
	assert.True(t, ok)
	assert.Equal(t, Plain, c)

	_, ok = ParseCategory("other")
	assert.False(t, ok)
}

func recordsFor(values ...*string) []Record {
	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = Record{Index: i, Fields: map[string]*string{"90": v}}
	}
	return records
}

func TestClassifyAllScenario(t *testing.T) {
	c := New(DefaultMarker)
	records := recordsFor(strPtr("문120"), strPtr("300"), nil, strPtr("문45.0문"), strPtr("abc"))

	results, err := c.ClassifyAll(context.Background(), records, BatchOptions{Column: "90"})
	require.NoError(t, err)
	require.Len(t, results, 5)

	expected := []struct {
		category Category
		value    float64
		present  bool
	}{
		{Marked, 120, true},
		{Plain, 300, true},
		{Plain, 0, false},
		{Marked, 45.0, true},
		{Plain, 0, false},
	}

	for i, want := range expected {
		assert.Equal(t, i, results[i].Record.Index)
		assert.Equal(t, want.category, results[i].Value.Category, "row %d", i)
		value, ok := results[i].Value.Float()
		assert.Equal(t, want.present, ok, "row %d", i)
		if want.present {
			assert.InDelta(t, want.value, value, 1e-9, "row %d", i)
		}
	}
}

func TestClassifyAllPreservesOrderAcrossWorkers(t *testing.T) {
	c := New(DefaultMarker)

	values := make([]*string, 5000)
	for i := range values {
		if i%3 == 0 {
			values[i] = strPtr(fmt.Sprintf("문%d", i))
		} else {
			values[i] = strPtr(fmt.Sprintf("%d", i))
		}
	}
	records := recordsFor(values...)

	results, err := c.ClassifyAll(context.Background(), records, BatchOptions{Column: "90", Workers: 8})
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, r := range results {
		require.Equal(t, i, r.Record.Index)
		value, ok := r.Value.Float()
		require.True(t, ok)
		require.InDelta(t, float64(i), value, 1e-9)
		if i%3 == 0 {
			require.Equal(t, Marked, r.Value.Category)
		} else {
			require.Equal(t, Plain, r.Value.Category)
		}
	}
}

func TestClassifyAllIsIdempotent(t *testing.T) {
	c := New(DefaultMarker)
	records := recordsFor(strPtr("문1"), strPtr("2"), nil, strPtr("x"))

	first, err := c.ClassifyAll(context.Background(), records, BatchOptions{Column: "90"})
	require.NoError(t, err)
	second, err := c.ClassifyAll(context.Background(), records, BatchOptions{Column: "90"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyAllMissingColumn(t *testing.T) {
	c := New(DefaultMarker)
	records := recordsFor(strPtr("문1"))

	results, err := c.ClassifyAll(context.Background(), records, BatchOptions{Column: "missing"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Plain, results[0].Value.Category)
	assert.False(t, results[0].Value.HasValue())
}

func TestClassifyAllEmpty(t *testing.T) {
	results, err := New("").ClassifyAll(context.Background(), nil, BatchOptions{Column: "90"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClassifyAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("").ClassifyAll(ctx, recordsFor(strPtr("1")), BatchOptions{Column: "90"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyValues(t *testing.T) {
	got := New("").ClassifyValues([]*string{strPtr("문3"), nil})
	require.Len(t, got, 2)
	assert.Equal(t, Marked, got[0].Category)
	assert.Equal(t, Plain, got[1].Category)
	assert.False(t, got[1].HasValue())
}

func TestPartition(t *testing.T) {
	c := New(DefaultMarker)
	records := recordsFor(strPtr("문120"), strPtr("300"), nil, strPtr("문45.0문"), strPtr("abc"), strPtr("x문"))

	results, err := c.ClassifyAll(context.Background(), records, BatchOptions{Column: "90"})
	require.NoError(t, err)

	p := Partition(results)

	indexes := func(rs []Result) []int {
		out := make([]int, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Record.Index)
		}
		return out
	}

	assert.Equal(t, []int{0, 3, 5}, indexes(p.Marked))
	assert.Equal(t, []int{1, 2, 4}, indexes(p.Plain))
	assert.Equal(t, []int{0, 1, 3}, indexes(p.Numeric))
}
