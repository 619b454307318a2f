// Package handlers provides HTTP handlers for the isoflow API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/isoflow-go/internal/cache"
	"github.com/aria-lang/isoflow-go/internal/log"
	"github.com/aria-lang/isoflow-go/internal/uniprot"
	"github.com/aria-lang/isoflow-go/pkg/isoflow"
)

// Handlers serves isoform queries from a Service.
type Handlers struct {
	svc    *isoflow.Service
	logger *log.Logger
}

// New creates the handler set.
func New(svc *isoflow.Service, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{svc: svc, logger: logger.Component("api")}
}

// Routes mounts every endpoint on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/isoforms", func(r chi.Router) {
		r.Get("/best", h.Best)
		r.Get("/alignmentPos/{accession}", h.AlignmentPos)
		r.Get("/svg/{accession}", h.SVG)
		r.Get("/svg/{accession}/{sequence}", h.SVG)
		r.Get("/fasta/{accession}", h.FASTA)
		r.Get("/stats/{accession}", h.Stats)
		r.Get("/{accession}", h.Isoforms)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/alignment", h.Align)
		r.Route("/sequence", func(r chi.Router) {
			r.Post("/validate", h.ValidateSequence)
			r.Post("/locate", h.LocateMotif)
		})
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps a service error to a status code: invalid accession 400,
// unknown entry 404, anything from upstream or the cache 502.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	var (
		invalid  *uniprot.InvalidAccessionError
		notFound *uniprot.NotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, cache.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusBadGateway {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}
