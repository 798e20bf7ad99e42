package status

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/core/section"
)

// Source is implemented by *pipeline.Pipeline.
type Source interface {
	State() pipeline.State
	LastError() error
}

type Status struct {
	State     string `json:"state"`
	LastError string `json:"last_error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// NewStatusHandler returns an HTTP handler exposing the pipeline state via
// GET /api/status.
func NewStatusHandler(src Source) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		st := Status{State: src.State().String()}
		if err := src.LastError(); err != nil {
			st.LastError = err.Error()
			st.ErrorKind = section.KindOf(err).String()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
