package snapshotdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"moonlabel.dev/internal/classify"
	"moonlabel.dev/internal/dataset"
	"moonlabel.dev/internal/logging"
)

// ErrNoSnapshot indicates that no snapshot matches the query.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Snapshot is one recorded classification of a source
type Snapshot struct {
	ID           int64     // id
	Source       string    // source
	Hash         string    // hash
	Marker       string    // marker
	CodeColumn   string    // code_column
	LabelColumn  string    // label_column
	FetchedAt    time.Time // fetched_at (unix millis)
	ClassifiedAt time.Time // classified_at (unix millis)
	RowCount     int       // row_count
	MarkedCount  int       // marked_count
	PlainCount   int       // plain_count
	NumericCount int       // numeric_count
}

// Row is one classified record of a snapshot
type Row struct {
	SnapshotID   int64               // snapshot_id
	Index        int                 // row_index
	RawCode      sql.NullString      // raw_code
	Label        string              // label
	Category     classify.Category   // category
	NumericValue decimal.NullDecimal // numeric_value
}

const snapshotColumns = `id, source, hash, marker, code_column, label_column,
		fetched_at, classified_at, row_count, marked_count, plain_count, numeric_count`

// RecordView stores view and its rows in one transaction, then prunes old
// snapshots of the same source.
func (c *Client) RecordView(ctx context.Context, view *dataset.View) (err error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "record_snapshot")

	stats := view.Stats()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (source, hash, marker, code_column, label_column,
			fetched_at, classified_at, row_count, marked_count, plain_count, numeric_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		view.Source, view.Hash, view.Marker, view.CodeColumn, view.LabelColumn,
		view.FetchedAt.UnixMilli(), view.ClassifiedAt.UnixMilli(),
		stats.Rows, stats.Marked, stats.Plain, stats.Numeric,
	)
	if err != nil {
		return fmt.Errorf("error inserting snapshot: %w", err)
	}

	snapshotID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO classified_rows (snapshot_id, row_index, raw_code, label, category, numeric_value)
			VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing row insert: %w", err)
	}
	defer logging.HandleDeferredError(&err, stmt.Close, c.logger, "close_row_statement")

	for _, r := range view.Results {
		_, err = stmt.ExecContext(ctx,
			snapshotID,
			r.Record.Index,
			toNullString(view.Code(r)),
			view.Label(r),
			string(r.Value.Category),
			r.Value.NumericValue,
		)
		if err != nil {
			return fmt.Errorf("error inserting row %d: %w", r.Record.Index, err)
		}
	}

	if c.config.KeepSnapshots > 0 {
		if err = pruneSnapshots(ctx, tx, view.Source, c.config.KeepSnapshots); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	if c.config.verbose {
		logging.LogOperation(c.logger, "snapshot_recorded",
			slog.Int64("snapshot_id", snapshotID),
			slog.String("source", view.Source),
			slog.Int("rows", stats.Rows),
			slog.String("component", "snapshot_store"))
	}

	return nil
}

func pruneSnapshots(ctx context.Context, tx *sql.Tx, source string, keep int) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM classified_rows WHERE snapshot_id IN (
			SELECT id FROM snapshots WHERE source = ? ORDER BY id DESC LIMIT -1 OFFSET ?)`,
		source, keep)
	if err != nil {
		return fmt.Errorf("error pruning snapshot rows: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id IN (
			SELECT id FROM snapshots WHERE source = ? ORDER BY id DESC LIMIT -1 OFFSET ?)`,
		source, keep)
	if err != nil {
		return fmt.Errorf("error pruning snapshots: %w", err)
	}
	return nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (c *Client) ListSnapshots(ctx context.Context, limit int) (snapshots []Snapshot, err error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.DB.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_snapshot_rows")

	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

// LatestSnapshot returns the newest snapshot of source, or of any source
// when source is empty.
func (c *Client) LatestSnapshot(ctx context.Context, source string) (Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY id DESC LIMIT 1`
	args := []any{}
	if source != "" {
		query = `SELECT ` + snapshotColumns + ` FROM snapshots WHERE source = ? ORDER BY id DESC LIMIT 1`
		args = append(args, source)
	}

	snapshot, err := scanSnapshot(c.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	return snapshot, err
}

// Snapshot returns the snapshot with the given id.
func (c *Client) Snapshot(ctx context.Context, id int64) (Snapshot, error) {
	snapshot, err := scanSnapshot(c.DB.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	return snapshot, err
}

// SnapshotRows returns the rows of a snapshot in source order.
func (c *Client) SnapshotRows(ctx context.Context, snapshotID int64) (result []Row, err error) {
	rows, err := c.DB.QueryContext(ctx,
		`SELECT snapshot_id, row_index, raw_code, label, category, numeric_value
			FROM classified_rows WHERE snapshot_id = ? ORDER BY row_index`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_classified_rows")

	for rows.Next() {
		var row Row
		var category string
		if err := rows.Scan(&row.SnapshotID, &row.Index, &row.RawCode, &row.Label, &category, &row.NumericValue); err != nil {
			return nil, err
		}
		row.Category = classify.Category(category)
		result = append(result, row)
	}

	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s rowScanner) (Snapshot, error) {
	var snapshot Snapshot
	var fetchedAt, classifiedAt int64
	err := s.Scan(&snapshot.ID, &snapshot.Source, &snapshot.Hash, &snapshot.Marker,
		&snapshot.CodeColumn, &snapshot.LabelColumn, &fetchedAt, &classifiedAt,
		&snapshot.RowCount, &snapshot.MarkedCount, &snapshot.PlainCount, &snapshot.NumericCount,
	)
	if err != nil {
		return Snapshot{}, err
	}
	snapshot.FetchedAt = time.UnixMilli(fetchedAt)
	snapshot.ClassifiedAt = time.UnixMilli(classifiedAt)
	return snapshot, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
