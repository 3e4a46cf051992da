package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/models"
)

type TransferHandler struct {
	transfer TransferService
	logger   logging.Logger
}

func NewTransferHandler(svc TransferService, logger logging.Logger) *TransferHandler {
	return &TransferHandler{transfer: svc, logger: logger}
}

// Export GET /api/personal-data/export
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.transfer.Export(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Import POST /api/personal-data/import
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req models.ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.transfer.Import(r.Context(), userID(r), req.Data)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Snapshot POST /api/personal-data/export/snapshot
func (h *TransferHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	s, err := h.transfer.Snapshot(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}
