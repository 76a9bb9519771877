package core

// importer.go performs the second-pass selective import: given a caller's
// current view of one sheet's rows and the issues reported at validation
// time, it drops the rows that were originally invalid, coerces the rest to
// canonical records, and submits them as one batch.
//
// Correlation prefers the opaque row identifiers assigned at parse time:
// a supplied row is skipped when its id appears in the issue list. That
// stays correct after the caller edits or deletes rows. When the issues
// carry no ids (older clients that strip unknown fields), correlation falls
// back to position: a row at index i is treated as originally invalid when
// an issue exists with Row == i+2.

import (
	"context"
	"fmt"
)

// ImportRows filters, coerces, and persists the supplied rows. The returned
// counts always satisfy ImportedCount + SkippedCount == len(rows).
//
// A coercion failure or a store failure aborts the whole attempt; nothing
// is reported imported in that case.
func ImportRows(ctx context.Context, store Store, rows []Row, issues []Issue) (ImportResult, error) {
	flaggedIDs := make(map[string]struct{}, len(issues))
	flaggedPositions := make(map[int]struct{}, len(issues))
	for _, issue := range issues {
		if issue.RowID != "" {
			flaggedIDs[issue.RowID] = struct{}{}
		}
		flaggedPositions[issue.Row] = struct{}{}
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if flagged(row, i, flaggedIDs, flaggedPositions) {
			continue
		}

		record, err := coerceRecord(row)
		if err != nil {
			return ImportResult{}, fmt.Errorf("row %d: %w", i+headerRowOffset, err)
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		if err := store.InsertRecords(ctx, records); err != nil {
			return ImportResult{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}
	}

	return ImportResult{
		ImportedCount: len(records),
		SkippedCount:  len(rows) - len(records),
	}, nil
}

// flagged reports whether a supplied row was invalid at validation time.
// Id correlation wins whenever both sides carry ids; otherwise the
// positional rule applies.
func flagged(row Row, index int, byID map[string]struct{}, byPosition map[int]struct{}) bool {
	if id := row.ID(); id != "" && len(byID) > 0 {
		_, ok := byID[id]
		return ok
	}
	_, ok := byPosition[index+headerRowOffset]
	return ok
}

// coerceRecord settles an accepted row's field types into the persisted
// shape. Rows normally coerce cleanly because they passed validation, but a
// client-side edit can reintroduce a bad value after validation ran.
func coerceRecord(row Row) (Record, error) {
	amount, err := ParseAmount(row[FieldAmount])
	if err != nil {
		return Record{}, fmt.Errorf("amount: %w", err)
	}

	date, ok := ParseDate(row[FieldDate])
	if !ok {
		return Record{}, fmt.Errorf("date: cannot parse %q", fieldString(row[FieldDate]))
	}

	return Record{
		Name:     fieldString(row[FieldName]),
		Amount:   amount,
		Date:     date,
		Verified: ParseVerified(row[FieldVerified]),
		Sheet:    row.Sheet(),
	}, nil
}
