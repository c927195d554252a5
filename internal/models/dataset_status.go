package models

import (
	"moonlabel.dev/internal/dataset"
	"moonlabel.dev/snapshotdb"
)

// DatasetStatus reports the state of the loaded dataset.
type DatasetStatus struct {
	Source            string        `json:"source"`
	IsLocalFile       bool          `json:"isLocalFile"`
	Hash              string        `json:"hash"`
	LastUpdated       int64         `json:"lastUpdated"`
	LastAttempt       int64         `json:"lastAttempt"`
	LastError         string        `json:"lastError,omitempty"`
	CacheTTLMs        int64         `json:"cacheTtlMs"`
	RefreshIntervalMs int64         `json:"refreshIntervalMs"`
	Stats             dataset.Stats `json:"stats"`
}

func NewDatasetStatus(status dataset.Status) DatasetStatus {
	s := DatasetStatus{
		Source:            status.Source,
		IsLocalFile:       status.IsLocalFile,
		Hash:              status.Hash,
		LastError:         status.LastError,
		CacheTTLMs:        status.CacheTTL.Milliseconds(),
		RefreshIntervalMs: status.RefreshInterval.Milliseconds(),
		Stats:             status.Stats,
	}
	if !status.LastUpdated.IsZero() {
		s.LastUpdated = status.LastUpdated.UnixMilli()
	}
	if !status.LastAttempt.IsZero() {
		s.LastAttempt = status.LastAttempt.UnixMilli()
	}
	return s
}

// RefreshResult is returned by a manual refresh.
type RefreshResult struct {
	Changed bool          `json:"changed"`
	Status  DatasetStatus `json:"status"`
}

// Snapshot is one recorded classification run.
type Snapshot struct {
	ID           int64  `json:"id"`
	Source       string `json:"source"`
	Hash         string `json:"hash"`
	Marker       string `json:"marker"`
	CodeColumn   string `json:"codeColumn"`
	LabelColumn  string `json:"labelColumn"`
	FetchedAt    int64  `json:"fetchedAt"`
	ClassifiedAt int64  `json:"classifiedAt"`
	Rows         int    `json:"rows"`
	Marked       int    `json:"marked"`
	Plain        int    `json:"plain"`
	Numeric      int    `json:"numeric"`
}

func NewSnapshot(s snapshotdb.Snapshot) Snapshot {
	return Snapshot{
		ID:           s.ID,
		Source:       s.Source,
		Hash:         s.Hash,
		Marker:       s.Marker,
		CodeColumn:   s.CodeColumn,
		LabelColumn:  s.LabelColumn,
		FetchedAt:    s.FetchedAt.UnixMilli(),
		ClassifiedAt: s.ClassifiedAt.UnixMilli(),
		Rows:         s.RowCount,
		Marked:       s.MarkedCount,
		Plain:        s.PlainCount,
		Numeric:      s.NumericCount,
	}
}

// NewSnapshotRecord converts a stored row to the record model.
func NewSnapshotRecord(row snapshotdb.Row) ClassifiedRecord {
	var code *string
	if row.RawCode.Valid {
		c := row.RawCode.String
		code = &c
	}
	return ClassifiedRecord{
		Index: row.Index,
		Label: row.Label,
		Classification: Classification{
			Code:         code,
			Category:     row.Category,
			NumericValue: row.NumericValue,
			HasValue:     row.NumericValue.Valid,
		},
	}
}
