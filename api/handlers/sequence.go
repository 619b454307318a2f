package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/isoflow-go/internal/sequence"
)

// SequenceRequest represents a request with a protein sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ValidateResponse represents the response for validation.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Sequence string `json:"sequence,omitempty"`
	Length   int    `json:"length,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ValidateSequence checks a protein sequence and returns it normalized.
func (h *Handlers) ValidateSequence(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := sequence.New(req.Sequence)
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Sequence: p.Residues, Length: p.Len()})
}

// LocateRequest asks where a motif of the residues lies in a gapped sequence.
type LocateRequest struct {
	Aligned string `json:"aligned"`
	Motif   string `json:"motif"`
}

// LocateResponse holds the 1-based inclusive column range of the first
// occurrence of the motif and how often the motif occurs.
type LocateResponse struct {
	Start       int `json:"start"`
	End         int `json:"end"`
	Occurrences int `json:"occurrences"`
}

// LocateMotif maps a motif of the ungapped residues to alignment columns.
func (h *Handlers) LocateMotif(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := sequence.New(sequence.Ungapped(req.Aligned))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	positions, err := p.FindMotifPositions(req.Motif)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, end, err := sequence.LocateMotif(req.Aligned, req.Motif)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, LocateResponse{Start: start, End: end, Occurrences: len(positions)})
}
