package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/IterDiff/internal/core"
	"github.com/JonMunkholm/IterDiff/internal/output"
	"github.com/JonMunkholm/IterDiff/internal/web/templates"
)

// multipartMemory is how much of a multipart form is kept in memory.
const multipartMemory = 8 << 20

// handleIndex renders the comparison page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var result *core.Result
	if res, err := sess.Result(); err == nil {
		result = &res
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(templates.SlotViews(sess), result).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleFilesPartial renders the "Files being compared" panel.
func (s *Server) handleFilesPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = templates.FilesPanel(templates.SlotViews(sessionFrom(r))).Render(r.Context(), w)
}

// handleResultsPartial renders the three partitions of the last comparison.
func (s *Server) handleResultsPartial(w http.ResponseWriter, r *http.Request) {
	var result *core.Result
	if res, err := sessionFrom(r).Result(); err == nil {
		result = &res
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = templates.Results(result).Render(r.Context(), w)
}

// handleLoadSnapshot parses an uploaded file into the slot named in the URL.
func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	slot, err := core.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		} else {
			err = fmt.Errorf("%w: %v", core.ErrNoFile, err)
		}
		s.respondError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFile, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	snap, err := s.service.LoadSnapshot(r.Context(), sessionFrom(r), slot, header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	notes := []core.Notification{
		core.Success(fmt.Sprintf("Loaded %d item(s) from %s into the %s", snap.Len(), snap.Label, slot.Title())),
	}
	for _, warning := range snap.Warnings() {
		notes = append(notes, core.Warning(warning))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slot":          slot,
		"label":         snap.Label,
		"format":        snap.Format,
		"records":       snap.Len(),
		"notifications": notes,
	})
}

// handleCompare reconciles the two slots.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	result := s.service.Compare(r.Context(), sessionFrom(r))
	counts := result.Counts()

	writeJSON(w, http.StatusOK, map[string]any{
		"counts": output.Counts{
			Removed:  counts[core.PartitionRemoved],
			Added:    counts[core.PartitionAdded],
			Matching: counts[core.PartitionMatching],
		},
		"notification": core.Success(fmt.Sprintf("%d removed, %d added, %d matching",
			counts[core.PartitionRemoved], counts[core.PartitionAdded], counts[core.PartitionMatching])),
	})
}

// handleResult returns the last comparison as JSON.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	result, err := sess.Result()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view := output.NewResultView(
		snapshotLabel(sess.Snapshot(core.SlotOriginal)),
		snapshotLabel(sess.Snapshot(core.SlotUpdated)),
		result,
	)
	writeJSON(w, http.StatusOK, view)
}

func snapshotLabel(snap *core.Snapshot) string {
	if snap == nil {
		return ""
	}
	return snap.Label
}

// handleExport writes one partition as tab-delimited text or a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, err := core.ParsePartition(chi.URLParam(r, "partition"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format, err := core.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	if _, err := s.service.Partition(sess, p); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == core.ExportCSV {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(p)+".csv"))
	}
	if err := s.service.Export(r.Context(), sess, p, format, w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleCell returns one raw value, or "ID - Title" for field=summary.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	p, err := core.ParsePartition(chi.URLParam(r, "partition"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	value, err := s.service.Cell(sessionFrom(r), p, q.Get("id"), q.Get("field"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, value)
}

// handleClear empties the session.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.service.Clear(r.Context(), sessionFrom(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"notification": core.Success("Cleared both lists"),
	})
}

// notificationRequest is a clipboard failure reported by the page.
type notificationRequest struct {
	Detail string `json:"detail"`
}

// handleNotification records a clipboard failure and returns the message to show.
func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		req.Detail = "unknown"
	}
	if req.Detail == "" {
		req.Detail = "unknown"
	}

	writeJSON(w, http.StatusOK, s.service.ReportClipboardFailure(r.Context(), sessionFrom(r), req.Detail))
}

// handleHealth reports liveness with session and parse slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"uploads":  s.service.UploadLimiterStatus(),
	})
}
