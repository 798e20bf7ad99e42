package runs

import (
	"context"
	"net/http"

	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/core/section"
)

// Runner performs one pipeline run with its hand-off.
type Runner interface {
	RunOnce(ctx context.Context) (pipeline.Result, error)
}

// TriggerResponse is returned by POST /api/runs.
type TriggerResponse struct {
	RunID     string                   `json:"run_id"`
	Sections  []section.DisplaySection `json:"sections,omitempty"`
	Error     string                   `json:"error,omitempty"`
	ErrorKind string                   `json:"error_kind,omitempty"`
}

// NewTriggerHandler runs the pipeline on POST and reports the outcome. A
// failed run answers 422 with the error kind.
func NewTriggerHandler(runner Runner, token string) http.Handler {
	return requireToken(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		res, err := runner.RunOnce(r.Context())
		resp := TriggerResponse{RunID: res.RunID, Sections: res.Sections}
		if err != nil {
			resp.Error = err.Error()
			resp.ErrorKind = section.KindOf(err).String()
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}))
}
