package handlers

import (
	"net/http"
	"strings"
)

// Best ranks the comma-separated accessions in ?ids= and returns them best
// first along with any that failed to load.
func (h *Handlers) Best(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	res, err := h.svc.Rank(r.Context(), ids)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
