package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/apperr"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

const msgInternal = "Erro interno do servidor"

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with the status mapped from err. Unclassified errors are
// logged and reported as internal errors carrying the raw message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, status, errorBody{Error: msgInternal, Message: err.Error()})
		return
	}
	writeJSON(w, status, errorBody{Error: errorMessage(err)})
}

func errorMessage(err error) string {
	if e, ok := apperr.As[*apperr.ValidationError](err); ok {
		return e.Message
	}
	if e, ok := apperr.As[*apperr.PermissionError](err); ok {
		return e.Message
	}
	if e, ok := apperr.As[*apperr.UpstreamError](err); ok {
		return e.Message
	}
	return err.Error()
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.NewValidation("body", "JSON inválido")
	}
	return nil
}

type okBody struct {
	OK bool `json:"ok"`
}
