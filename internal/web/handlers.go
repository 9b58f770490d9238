package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/prospecta/leadpipe/internal/csvparse"
	"github.com/prospecta/leadpipe/internal/importer"
	"github.com/prospecta/leadpipe/internal/lead"
	"github.com/prospecta/leadpipe/internal/logging"
	"github.com/prospecta/leadpipe/internal/message"
)

// bulkImportResponse is the happy-path envelope for a bulk submission.
type bulkImportResponse struct {
	Success           bool               `json:"success"`
	ImportedCount     int                `json:"importedCount"`
	DuplicatesSkipped int                `json:"duplicatesSkipped"`
	InvalidLeads      int                `json:"invalidLeads"`
	Errors            []importer.Failure `json:"errors"`
}

// handleBulkImport ingests a JSON batch of raw lead candidates.
func (s *Server) handleBulkImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxBodySize)

	var body struct {
		Leads any `json:"leads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Request body is required and must be valid JSON")
		return
	}

	items, ok := body.Leads.([]any)
	if !ok || len(items) == 0 {
		writeError(w, http.StatusBadRequest, "leads must be a non-empty array")
		return
	}
	if len(items) > s.cfg.Import.MaxBatch {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("leads exceeds the maximum batch size of %d", s.cfg.Import.MaxBatch))
		return
	}

	// Non-object entries become nil candidates, which the validator
	// rejects; they count toward invalidLeads rather than failing the
	// whole request.
	raws := make([]lead.RawCandidate, len(items))
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			raws[i] = m
		}
	}

	summary, err := s.importer.ImportLeads(r.Context(), raws)
	if err != nil {
		if errors.Is(err, importer.ErrNoValidLeads) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Unexpected failures are logged with full detail and surfaced
		// only as a generic message.
		logging.FromContext(r.Context()).Error("lead import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to import leads")
		return
	}

	writeJSON(w, http.StatusOK, bulkImportResponse{
		Success:           true,
		ImportedCount:     summary.ImportedCount,
		DuplicatesSkipped: summary.DuplicatesSkipped,
		InvalidLeads:      summary.InvalidLeads,
		Errors:            summary.Errors,
	})
}

// csvPreviewResponse carries the diagnostic-retention view of a CSV:
// every non-empty row is returned with its accumulated errors so the
// caller can review before submitting.
type csvPreviewResponse struct {
	Rows    []csvparse.Row    `json:"rows"`
	Summary csvPreviewSummary `json:"summary"`
}

type csvPreviewSummary struct {
	TotalRows   int `json:"totalRows"`
	ValidRows   int `json:"validRows"`
	InvalidRows int `json:"invalidRows"`
}

// handleCsvPreview parses an uploaded CSV body into annotated rows.
func (s *Server) handleCsvPreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxBodySize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	rows, err := csvparse.Parse(string(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := csvPreviewSummary{TotalRows: len(rows)}
	for _, row := range rows {
		if row.IsValid {
			summary.ValidRows++
		} else {
			summary.InvalidRows++
		}
	}

	writeJSON(w, http.StatusOK, csvPreviewResponse{Rows: rows, Summary: summary})
}

// generateMessagesResponse reports per-lead template rendering outcomes.
type generateMessagesResponse struct {
	Success        bool                `json:"success"`
	GeneratedCount int                 `json:"generatedCount"`
	Errors         []generationFailure `json:"errors"`
}

type generationFailure struct {
	LeadID   string `json:"leadId"`
	LeadName string `json:"leadName"`
	Error    string `json:"error"`
}

// handleGenerateMessages renders a message template against persisted
// leads and stores the results. Rendering failures are isolated per
// lead.
func (s *Server) handleGenerateMessages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxBodySize)

	var body struct {
		LeadIDs  any `json:"leadIds"`
		Template any `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Request body is required and must be valid JSON")
		return
	}

	items, ok := body.LeadIDs.([]any)
	if !ok || len(items) == 0 {
		writeError(w, http.StatusBadRequest, "leadIds must be a non-empty array")
		return
	}

	template, ok := body.Template.(string)
	if !ok || template == "" {
		writeError(w, http.StatusBadRequest, "template must be a non-empty string")
		return
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			writeError(w, http.StatusBadRequest, "leadIds must contain valid lead IDs")
			return
		}
		id, err := uuid.Parse(str)
		if err != nil {
			writeError(w, http.StatusBadRequest, "leadIds must contain valid lead IDs")
			return
		}
		ids = append(ids, id)
	}

	log := logging.FromContext(r.Context())

	records, err := s.repo.FindByIDs(r.Context(), ids)
	if err != nil {
		log.Error("lead lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate messages")
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "No leads found with the provided IDs")
		return
	}

	resp := generateMessagesResponse{Success: true, Errors: []generationFailure{}}
	for _, rec := range records {
		msg, err := message.Generate(template, rec)
		if err == nil {
			err = s.repo.SetMessage(r.Context(), rec.ID, msg)
		}
		if err != nil {
			resp.Errors = append(resp.Errors, generationFailure{
				LeadID:   rec.ID.String(),
				LeadName: strings.TrimSpace(rec.FirstName + " " + rec.LastName),
				Error:    err.Error(),
			})
			continue
		}
		resp.GeneratedCount++
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports process liveness and store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			logging.FromContext(r.Context()).Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
