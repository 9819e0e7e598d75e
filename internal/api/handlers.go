package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/soundforge/beatscan/internal/apperr"
	"github.com/soundforge/beatscan/internal/models"
	"github.com/soundforge/beatscan/internal/scanner"
)

// Organizer is the scan contract the API exposes. *scanner.Service
// implements it.
type Organizer interface {
	Scan(ctx context.Context, req scanner.Request) (*models.BatchReport, error)
}

// Handler holds API route handlers.
type Handler struct {
	svc    Organizer
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc Organizer, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Organize handles POST /api/organize: scan a directory, register the
// samples, and return the batch report as the response body.
func (h *Handler) Organize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req OrganizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	theme := req.Theme
	if theme == "" {
		theme = "light"
	}

	rep, err := h.svc.Scan(r.Context(), scanner.Request{
		Directory:         req.Directory,
		UserID:            req.UserID,
		ProjectID:         req.ProjectID,
		RenderSpectrogram: req.GenerateSpectrogram,
		Theme:             theme,
	})
	if err != nil {
		h.logger.Error("organize failed",
			slog.String("directory", req.Directory),
			slog.String("error", err.Error()))
		// Only malformed requests earn a 4xx. A scan that cannot run at
		// all, unusable root included, is a server-side fault.
		var de *apperr.DiscoveryError
		if errors.As(err, &de) {
			writeJSON(h.logger, w, http.StatusInternalServerError, errorBody(de.Error()))
			return
		}
		writeJSON(h.logger, w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(h.logger, w, http.StatusOK, rep)
}
