package core

import (
	"context"
	"testing"
)

// TestService_ValidateThenImport exercises the full round trip: parse and
// validate a workbook, then feed one sheet's rows plus the issue list back
// through the importer, the way a client does.
func TestService_ValidateThenImport(t *testing.T) {
	buf := buildWorkbook(t, []testSheet{
		{
			name: "Jan",
			lines: [][]any{
				{"name", "amount", "date", "verified"},
				{"Alice", "bad-amount", "2024-01-15", "Yes"},
				{"Bob", "20", "2024-01-16", "No"},
				{"Carol", "30", "2024-01-17", ""},
			},
		},
	})

	store := &fakeStore{}
	svc := NewService(store)

	report, err := svc.ValidateUpload(buf)
	if err != nil {
		t.Fatalf("ValidateUpload() error = %v", err)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 2 {
		t.Fatalf("Errors = %+v, want one issue at row 2", report.Errors)
	}

	result, err := svc.Import(context.Background(), report.Data, report.Errors)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.ImportedCount != 2 || result.SkippedCount != 1 {
		t.Errorf("result = %+v, want imported 2 skipped 1", result)
	}

	inserted := store.inserted()
	if len(inserted) != 2 || inserted[0].Name != "Bob" || inserted[1].Name != "Carol" {
		t.Errorf("inserted = %+v, want Bob and Carol", inserted)
	}
}
