package core

import "context"

// Service wires the pipeline to its persistence collaborator. Each call is
// request-scoped with no shared mutable state, so a single Service is safe
// for concurrent use.
type Service struct {
	store Store
}

// NewService creates a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ValidateUpload parses a workbook buffer and validates every row. The
// report includes all rows so the caller can render invalid ones alongside
// their problems. Nothing is persisted.
func (s *Service) ValidateUpload(buf []byte) (ValidationReport, error) {
	sheets, err := ParseWorkbook(buf)
	if err != nil {
		return ValidationReport{}, err
	}
	return ValidateWorkbook(sheets), nil
}

// Import persists the supplied rows that were not flagged at validation
// time. See ImportRows for the correlation rules.
func (s *Service) Import(ctx context.Context, rows []Row, issues []Issue) (ImportResult, error) {
	return ImportRows(ctx, s.store, rows, issues)
}
