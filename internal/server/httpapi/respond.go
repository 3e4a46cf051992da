package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/logging"
)

// messageResponse is the body of every error and of plain acknowledgements.
type messageResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// dataResponse wraps a created or updated entity.
type dataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps a service error onto a status and a JSON body. Anything
// unrecognised is logged and answered with 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	var (
		verr     *common.ValidationError
		conflict *common.ConflictError
	)

	switch {
	case errors.As(err, &verr):
		errs := make(map[string][]string, len(verr.Fields))
		for f, m := range verr.Fields {
			errs[f] = []string{m}
		}
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: "The given data was invalid.", Errors: errs})
	case errors.As(err, &conflict):
		writeMessage(w, http.StatusConflict, conflict.Message)
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired token.")
	case errors.Is(err, common.ErrorSnapshotsDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "Export snapshots are not configured.")
	case errors.Is(err, common.ErrorEncryption):
		logger.Error(r.Context(), "payload encryption failure", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Unable to process encrypted data.")
	default:
		logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}

// decodeJSON reads the request body into v. A malformed body has already
// been answered with 400 when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return false
	}
	return true
}
