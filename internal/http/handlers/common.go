package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/femivideograph/script-ai-worker/internal/http/middleware"
	"github.com/femivideograph/script-ai-worker/internal/service"
)

var errInvalidPayload = errors.New("invalid payload")

type API struct {
	scripts *service.ScriptsService
}

func NewAPI(scripts *service.ScriptsService) *API {
	return &API{scripts: scripts}
}

type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, statusCode int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	payload := errorPayload{RequestID: middleware.GetRequestID(r.Context())}
	payload.Error.Code = code
	payload.Error.Message = message
	writeJSON(w, statusCode, payload)
}

func decodeJSON(r *http.Request, value any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(value); err != nil {
		return errInvalidPayload
	}
	return nil
}
