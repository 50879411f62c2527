package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diarium/diarium/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrPlanNotFound),
		errors.Is(err, ledger.ErrNodeNotFound),
		errors.Is(err, ledger.ErrBookNotFound),
		errors.Is(err, ledger.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateName),
		errors.Is(err, ledger.ErrDuplicateBook):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrMalformedCode),
		errors.Is(err, ledger.ErrPrefixMismatch),
		errors.Is(err, ledger.ErrUnbalancedEntry),
		errors.Is(err, ledger.ErrInsufficientLines),
		errors.Is(err, ledger.ErrInvalidLine),
		errors.Is(err, ledger.ErrDraftNotValidated),
		errors.Is(err, ledger.ErrUnrecognizedLayout):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrHasChildren),
		errors.Is(err, ledger.ErrAccountInUse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryID(r *http.Request, key string) (int64, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
