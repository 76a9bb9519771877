package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetimport/internal/config"
	"sheetimport/internal/core"
)

// fakeStore satisfies core.Store and the health Pinger.
type fakeStore struct {
	records   []core.Record
	insertErr error
	pingErr   error
}

func (f *fakeStore) InsertRecords(_ context.Context, records []core.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: time.Minute,
			AllowedOrigins: []string{"*"},
		},
		Upload: config.UploadConfig{MaxFileSize: 2 * 1024 * 1024},
		Rate:   config.RateLimitConfig{Enabled: false},
	}
}

func newTestServer(store *fakeStore, cfg *config.Config) *Server {
	return NewServer(core.NewService(store), store, cfg)
}

// xlsxFixture authors a one-sheet workbook for handler tests.
func xlsxFixture(t *testing.T, sheet string, lines [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a multipart body with the workbook under the
// excel_file field.
func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(uploadFieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	srv := newTestServer(&fakeStore{}, testConfig())

	wb := xlsxFixture(t, "Jan", [][]any{
		{"name", "amount", "date", "verified"},
		{"Alice", "not-a-number", "2024-01-15", "Yes"},
		{"Bob", "20", "2024-01-16", "No"},
	})
	body, contentType := multipartUpload(t, "ledger.xlsx", wb)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report core.ValidationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(report.Sheets) != 1 || report.Sheets[0] != "Jan" {
		t.Errorf("Sheets = %v, want [Jan]", report.Sheets)
	}
	if len(report.Data) != 2 {
		t.Errorf("Data = %d rows, want 2", len(report.Data))
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 2 {
		t.Fatalf("Errors = %+v, want one issue at row 2", report.Errors)
	}
	if report.Errors[0].RowID == "" {
		t.Error("issue missing rowId")
	}
	for i, row := range report.Data {
		if row.Sheet() != "Jan" {
			t.Errorf("Data[%d] missing sheet tag", i)
		}
		if row.ID() == "" {
			t.Errorf("Data[%d] missing rowId", i)
		}
	}
}

func TestHandleUpload_NoFile(t *testing.T) {
	srv := newTestServer(&fakeStore{}, testConfig())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FILE003") {
		t.Errorf("body = %s, want code FILE003", rec.Body.String())
	}
}

func TestHandleUpload_UnsupportedType(t *testing.T) {
	srv := newTestServer(&fakeStore{}, testConfig())

	body, contentType := multipartUpload(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FILE004") {
		t.Errorf("body = %s, want code FILE004", rec.Body.String())
	}
}

func TestHandleUpload_Malformed(t *testing.T) {
	srv := newTestServer(&fakeStore{}, testConfig())

	body, contentType := multipartUpload(t, "broken.xlsx", []byte("not a zip archive"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FILE001") {
		t.Errorf("body = %s, want code FILE001", rec.Body.String())
	}
}

func TestHandleUpload_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxFileSize = 64
	srv := newTestServer(&fakeStore{}, cfg)

	body, contentType := multipartUpload(t, "big.xlsx", bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleImport(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store, testConfig())

	payload := map[string]any{
		"data": []map[string]any{
			{"name": "Alice", "amount": "10", "date": "2024-01-15", "sheet": "Jan"},
			{"name": "Bob", "amount": "20", "date": "2024-01-16", "sheet": "Jan"},
			{"name": "Carol", "amount": "30", "date": "2024-01-17", "sheet": "Jan"},
		},
		"errors": []map[string]any{
			{"sheet": "Jan", "row": 2, "problems": []string{core.MsgAmountNotNumber}},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result core.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.ImportedCount != 2 || result.SkippedCount != 1 {
		t.Errorf("result = %+v, want imported 2 skipped 1", result)
	}
	if len(store.records) != 2 {
		t.Errorf("store received %d records, want 2", len(store.records))
	}
}

func TestHandleImport_InvalidPayload(t *testing.T) {
	srv := newTestServer(&fakeStore{}, testConfig())

	tests := []struct {
		name string
		body string
	}{
		{name: "missing data", body: `{"errors":[]}`},
		{name: "not json", body: `not json at all`},
		{name: "data wrong type", body: `{"data":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleImport_StoreFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("server selection error")}
	srv := newTestServer(store, testConfig())

	body := `{"data":[{"name":"Alice","amount":"10","date":"2024-01-15","sheet":"Jan"}],"errors":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "IMP002") {
		t.Errorf("body = %s, want code IMP002", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(&fakeStore{}, testConfig())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("store down", func(t *testing.T) {
		srv := newTestServer(&fakeStore{pingErr: errors.New("server selection error")}, testConfig())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}
