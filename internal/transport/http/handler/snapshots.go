package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/judicial-monitor/internal/application/snapshot"
)

// SnapshotHandler exposes the last observed state of a case.
type SnapshotHandler struct {
	svc snapshot.Service
}

func NewSnapshotHandler(svc snapshot.Service) *SnapshotHandler {
	return &SnapshotHandler{svc: svc}
}

func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Lookup(r.Context(), chi.URLParam(r, "caseNumber"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
