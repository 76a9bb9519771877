package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"sheetimport/internal/core"
	"sheetimport/internal/logging"
)

// uploadFieldName is the multipart form field carrying the workbook.
const uploadFieldName = "excel_file"

// allowedContentTypes are the two spreadsheet MIME types accepted before
// the buffer reaches the parser.
var allowedContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel":                                          true,
}

// importRequest is the import payload: the caller's current view of one
// sheet's rows plus the issue list from the validation response, passed
// back unchanged.
type importRequest struct {
	Data   []core.Row   `json:"data"`
	Errors []core.Issue `json:"errors"`
}

// handleUpload accepts a workbook upload, runs the validation pipeline, and
// returns the full report. Nothing is persisted here.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}
	if !acceptableUpload(header) {
		writeError(w, http.StatusBadRequest, "unsupported content type")
		return
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	report, err := s.service.ValidateUpload(buf)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrMalformedWorkbook) {
			status = http.StatusBadRequest
		}
		s.respondError(w, r, err, status)
		return
	}

	logging.FromContext(r.Context()).Info("workbook validated",
		"file", header.Filename,
		"sheets", len(report.Sheets),
		"rows", len(report.Data),
		"invalid_rows", len(report.Errors),
	)

	writeJSON(w, report)
}

// handleImport persists the rows of the request that were not flagged at
// validation time.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Data == nil {
		writeError(w, http.StatusBadRequest, "invalid import payload")
		return
	}

	result, err := s.service.Import(r.Context(), req.Data, req.Errors)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("import completed",
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount,
	)

	writeJSON(w, result)
}

// handleHealth reports readiness, including store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// acceptableUpload gates the upload on the declared spreadsheet content
// type. Some browsers send a bare octet-stream for xlsx, so the file
// extension is accepted as a fallback signal.
func acceptableUpload(header *multipart.FileHeader) bool {
	ct := header.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	if allowedContentTypes[strings.TrimSpace(ct)] {
		return true
	}
	name := strings.ToLower(header.Filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls")
}
