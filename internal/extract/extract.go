// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"

	"github.com/amaziapp/shiftsheet/internal/models"
)

// FieldObservation is a single extracted datum before typing: a canonical
// field name, the raw string found in the source, and where it was found.
type FieldObservation struct {
	Field    string
	RawValue string
	Evidence models.Evidence
}

// CandidateKind says whether a candidate describes a person or a shift.
type CandidateKind int

const (
	CandidateEmployee CandidateKind = iota
	CandidateShift
)

// Candidate groups the field observations of one employee-like or shift-like
// tuple. BaseConfidence reflects how reliably the carrier format conveys
// tabular structure (1.0 for delimited/spreadsheet rows, lower for document
// tables and line heuristics) and scales every field confidence downstream.
type Candidate struct {
	Kind           CandidateKind
	BaseConfidence float64
	Fields         []FieldObservation
	// Evidence locates the whole candidate (the source row or line).
	Evidence models.Evidence
}

// Result is an extractor's output. Partial signals that some expected
// structure could not be recovered; it degrades confidence, it does not
// abort the pipeline.
type Result struct {
	Candidates []Candidate
	Partial    bool
}

// Extractor turns raw bytes of one file kind into candidate observations.
// SniffContent inspects magic bytes or structure; MatchExtension is the
// fallback when no content signature is conclusive.
type Extractor interface {
	Kind() models.FileKind
	SniffContent(content []byte) bool
	MatchExtension(ext string) bool
	Extract(ctx context.Context, content []byte) (Result, error)
}
