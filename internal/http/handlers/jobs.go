package handlers

import (
	"net/http"
	"strings"
)

func (api *API) JobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "job_id is required")
		return
	}

	job, err := api.scripts.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to load job")
		return
	}

	response := map[string]any{
		"job_id":   job.ID,
		"state":    job.State,
		"progress": job.Progress,
	}
	if job.Results != nil {
		response["results"] = job.Results
	}
	if strings.TrimSpace(job.FailureReason) != "" {
		response["failure_reason"] = job.FailureReason
	}

	writeJSON(w, http.StatusOK, response)
}
