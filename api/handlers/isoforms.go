package handlers

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Isoforms returns the parsed isoforms of an accession, canonical first.
func (h *Handlers) Isoforms(w http.ResponseWriter, r *http.Request) {
	isoforms, err := h.svc.Isoforms(r.Context(), chi.URLParam(r, "accession"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, isoforms)
}

// AlignmentPos returns the aligned sequences with their features.
func (h *Handlers) AlignmentPos(w http.ResponseWriter, r *http.Request) {
	seqs, err := h.svc.Align(r.Context(), chi.URLParam(r, "accession"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seqs)
}

// Stats returns summary statistics of the alignment.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Stats(r.Context(), chi.URLParam(r, "accession"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// SVG draws the alignment. An optional {sequence} segment shades that motif
// of the canonical sequence.
func (h *Handlers) SVG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.svc.SVG(r.Context(), &buf, chi.URLParam(r, "accession"), chi.URLParam(r, "sequence"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}

// FASTA writes the gapped alignment.
func (h *Handlers) FASTA(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.FASTA(r.Context(), &buf, chi.URLParam(r, "accession")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/x-fasta")
	_, _ = buf.WriteTo(w)
}
