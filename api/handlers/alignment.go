package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/isoflow-go/internal/alignment"
	"github.com/aria-lang/isoflow-go/pkg/isoflow"
)

// AlignmentRequest carries client-supplied isoforms, canonical first.
type AlignmentRequest struct {
	Isoforms []isoflow.Isoform `json:"isoforms"`
}

// AlignmentResponse holds the aligned sequences and a text rendering.
type AlignmentResponse struct {
	Sequences []isoflow.AlignedSequence `json:"sequences"`
	Width     int                       `json:"width"`
	Text      string                    `json:"text"`
}

// Align aligns isoforms posted by the client without fetching anything.
func (h *Handlers) Align(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seqs, err := h.svc.AlignIsoforms(r.Context(), req.Isoforms)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AlignmentResponse{
		Sequences: seqs,
		Width:     alignment.Width(seqs),
		Text:      isoflow.Format(seqs),
	})
}
