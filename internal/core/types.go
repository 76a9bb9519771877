// Package core implements the spreadsheet ingestion and validation pipeline:
// parsing an uploaded workbook into per-sheet row sets, validating each row
// against the fixed field schema, and selectively importing the rows that
// passed validation. It has no HTTP or UI dependencies.
package core

import (
	"context"
	"errors"
	"time"
)

// Field names of the fixed import schema. The sheet and row-id fields are
// injected by the pipeline rather than read from spreadsheet cells.
const (
	FieldName     = "name"
	FieldAmount   = "amount"
	FieldDate     = "date"
	FieldVerified = "verified"
	FieldSheet    = "sheet"
	FieldRowID    = "rowId"
)

// headerRowOffset converts a zero-based data-row index to its display
// position: row 1 of a sheet is the header, so the first data row is row 2.
const headerRowOffset = 2

// ErrMalformedWorkbook indicates the uploaded buffer is not a workbook the
// parser can open.
var ErrMalformedWorkbook = errors.New("malformed workbook")

// ErrStoreWrite indicates the bulk insert of coerced records failed. The
// whole batch fails together; there is no row-level attribution.
var ErrStoreWrite = errors.New("store write failed")

// Row is one spreadsheet line as a loosely-typed field map keyed by the
// sheet's header row. Cells arrive as strings from the parser; rows echoed
// back through the import endpoint may carry JSON numbers and booleans.
// A cell with no value has no entry at all, so validators can tell a
// missing field from an empty one.
type Row map[string]any

// ID returns the opaque row identifier assigned at parse time, or "" if the
// caller stripped it from the round-tripped payload.
func (r Row) ID() string {
	id, _ := r[FieldRowID].(string)
	return id
}

// Sheet returns the owning sheet name tagged onto the row during
// aggregation.
func (r Row) Sheet() string {
	s, _ := r[FieldSheet].(string)
	return s
}

// Issue records every rule violation for one invalid row. Problems are
// ordered by rule evaluation order. Row is the position within the owning
// sheet (header = row 1), RowID the parse-time identifier when known.
type Issue struct {
	Sheet    string   `json:"sheet"`
	Row      int      `json:"row"`
	RowID    string   `json:"rowId,omitempty"`
	Problems []string `json:"problems"`
}

// ValidationReport is the full outcome of validating a workbook: every
// issue found, the sheet names in workbook order, and all rows (valid and
// invalid) flattened across sheets so the caller can render them.
type ValidationReport struct {
	Errors []Issue  `json:"errors"`
	Sheets []string `json:"sheets"`
	Data   []Row    `json:"data"`
}

// Record is the coerced, persistence-ready form of a validated row. It is
// the only durable entity the pipeline produces.
type Record struct {
	Name     string    `bson:"name" json:"name"`
	Amount   float64   `bson:"amount" json:"amount"`
	Date     time.Time `bson:"date" json:"date"`
	Verified bool      `bson:"verified" json:"verified"`
	Sheet    string    `bson:"sheet" json:"sheet"`
}

// ImportResult reports how many supplied rows were submitted to the store
// and how many were skipped as originally invalid.
type ImportResult struct {
	ImportedCount int `json:"importedCount"`
	SkippedCount  int `json:"skippedCount"`
}

// Store is the persistence collaborator. A single call persists the whole
// batch; its atomicity guarantees are the store's own.
type Store interface {
	InsertRecords(ctx context.Context, records []Record) error
}
