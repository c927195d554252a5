package models

import "moonlabel.dev/internal/dataset"

// SourceReference identifies the dataset a response was computed from.
type SourceReference struct {
	Source       string `json:"source"`
	Hash         string `json:"hash"`
	CodeColumn   string `json:"codeColumn"`
	LabelColumn  string `json:"labelColumn"`
	Marker       string `json:"marker"`
	ClassifiedAt int64  `json:"classifiedAt"`
}

// ReferencesModel References model for related data
type ReferencesModel struct {
	Sources []SourceReference `json:"sources"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Sources: []SourceReference{},
	}
}

// NewViewReferences references the source of view.
func NewViewReferences(view *dataset.View) ReferencesModel {
	refs := NewEmptyReferences()
	if view == nil {
		return refs
	}
	refs.Sources = append(refs.Sources, SourceReference{
		Source:       view.Source,
		Hash:         view.Hash,
		CodeColumn:   view.CodeColumn,
		LabelColumn:  view.LabelColumn,
		Marker:       view.Marker,
		ClassifiedAt: view.ClassifiedAt.UnixMilli(),
	})
	return refs
}
