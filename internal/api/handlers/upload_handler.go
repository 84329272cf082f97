package handlers

import (
	"net/http"

	"github.com/Shayan56/StudentSync/internal/api/util"
	"github.com/Shayan56/StudentSync/internal/ingest"
	"github.com/Shayan56/StudentSync/internal/store"
)

// UploadHandler exposes bulk spreadsheet ingestion: decode, normalize,
// reconcile. Reconciliation is not atomic across a batch; the response
// reports how many records were applied.
type UploadHandler struct {
	Students    store.StudentStore
	Reconciler  *ingest.Reconciler
	MaxFileSize int64
}

// BulkStudents handles POST /students/bulk
// Multipart field "file": a CSV or XLSX sheet with columns
// name, rollNumber, batch, semester.
func (h *UploadHandler) BulkStudents(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Spreadsheet
	dataset, ok := h.decodeUpload(w, r)
	if !ok {
		return
	}

	// 2. Normalize
	records, err := ingest.NormalizeStudents(dataset)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Reconcile (upsert by roll number)
	result, err := h.Reconciler.ApplyStudents(r.Context(), records)
	if err != nil {
		// Partial application is possible; surface what was written.
		if result.Applied > 0 {
			util.WriteJSONError(w, http.StatusInternalServerError,
				"Bulk upload failed part-way: records applied before the failure remain stored")
			return
		}
		util.HandleDomainError(w, err)
		return
	}

	// 4. Respond
	util.WriteJSON(w, http.StatusOK, result)
}

// BulkMarks handles POST /marks/bulk
// Multipart field "file": a CSV or XLSX sheet with columns
// rollNumber, subject, score, semester.
func (h *UploadHandler) BulkMarks(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Spreadsheet
	dataset, ok := h.decodeUpload(w, r)
	if !ok {
		return
	}

	// 2. Normalize (resolves roll numbers to student identities)
	records, err := ingest.NormalizeMarks(r.Context(), dataset, h.Students)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Reconcile (upsert by student, subject, semester)
	result, err := h.Reconciler.ApplyMarks(r.Context(), records)
	if err != nil {
		if result.Applied > 0 {
			util.WriteJSONError(w, http.StatusInternalServerError,
				"Bulk upload failed part-way: records applied before the failure remain stored")
			return
		}
		util.HandleDomainError(w, err)
		return
	}

	// 4. Respond
	util.WriteJSON(w, http.StatusOK, result)
}

// decodeUpload extracts and decodes the multipart spreadsheet. On failure it
// writes the error response and returns ok=false.
func (h *UploadHandler) decodeUpload(w http.ResponseWriter, r *http.Request) (ingest.Dataset, bool) {
	// Reject bodies over the configured limit instead of buffering them.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxFileSize)

	if err := r.ParseMultipartForm(h.MaxFileSize); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "No file uploaded")
		return nil, false
	}
	defer file.Close()

	dataset, err := ingest.DecodeSpreadsheet(file, header.Filename)
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return dataset, true
}
