package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"tastebook/internal/auth"
	"tastebook/internal/db"
	"tastebook/internal/model"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

// errorBody is the shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Status int               `json:"status"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Status: status})
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without its details.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  verrs.Error(),
			Status: http.StatusBadRequest,
			Fields: verrs,
		})
	case errors.Is(err, errBadBody):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated):
		writeErrorStatus(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrAccountLocked), errors.Is(err, auth.ErrAccountInactive):
		writeErrorStatus(w, http.StatusForbidden, err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeErrorStatus(w, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrUsernameTaken):
		writeErrorStatus(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeErrorStatus(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into v. An empty body is an error unless
// allowEmpty is set, in which case v is left untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return errBadBody
	}
	return nil
}
