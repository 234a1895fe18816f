package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/femivideograph/script-ai-worker/internal/service"
)

const maxScriptBytes = 2 << 20

type submitScriptRequest struct {
	Script string `json:"script"`
}

func (api *API) SubmitScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScriptBytes)
	var request submitScriptRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "body must be JSON with a script field")
		return
	}
	if strings.TrimSpace(request.Script) == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "script is required")
		return
	}

	job, err := api.scripts.Submit(r.Context(), request.Script)
	if err != nil {
		if errors.Is(err, service.ErrEmptyScript) {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "script is required")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to accept script")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id": job.ID,
		"state":  job.State,
	})
}
