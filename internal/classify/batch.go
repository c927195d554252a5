package classify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRecordsPerWorker keeps small batches on a single goroutine.
const minRecordsPerWorker = 256

// Record is one source row. Fields maps column names to cell text; a nil
// value is an absent cell.
type Record struct {
	Index  int
	Fields map[string]*string
}

// Field returns the cell of column, or nil when the row has no such cell.
func (r Record) Field(column string) *string {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[column]
}

// Result pairs a record with the classification of its designated column.
type Result struct {
	Record Record
	Value  ClassifiedValue
}

// BatchOptions configures ClassifyAll.
type BatchOptions struct {
	// Column is the field that holds the raw code.
	Column string
	// Workers bounds the fan-out. Zero means runtime.NumCPU().
	Workers int
}

// ClassifyAll classifies the designated column of every record. Results are
// returned in input order. The only error is cancellation of ctx.
func (c *Classifier) ClassifyAll(ctx context.Context, records []Record, opts BatchOptions) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, len(records))
	if len(records) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if maxWorkers := (len(records) + minRecordsPerWorker - 1) / minRecordsPerWorker; workers > maxWorkers {
		workers = maxWorkers
	}

	chunk := (len(records) + workers - 1) / workers

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%minRecordsPerWorker == 0 && egCtx.Err() != nil {
					return egCtx.Err()
				}
				results[i] = Result{
					Record: records[i],
					Value:  c.Classify(records[i].Field(opts.Column)),
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// ClassifyValues classifies a plain column of cells, preserving order.
func (c *Classifier) ClassifyValues(values []*string) []ClassifiedValue {
	out := make([]ClassifiedValue, len(values))
	for i, v := range values {
		out[i] = c.Classify(v)
	}
	return out
}

// Partitions groups classified rows the way the views consume them.
type Partitions struct {
	Marked  []Result
	Plain   []Result
	Numeric []Result
}

// Partition splits results by category and collects the rows that carry a
// numeric value. Input order is kept within each subset.
func Partition(results []Result) Partitions {
	var p Partitions
	for _, r := range results {
		switch r.Value.Category {
		case Marked:
			p.Marked = append(p.Marked, r)
		default:
			p.Plain = append(p.Plain, r)
		}
		if r.Value.HasValue() {
			p.Numeric = append(p.Numeric, r)
		}
	}
	return p
}
