package runs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/sectionfeed/core/runlog"
)

// NewHistoryHandler returns an HTTP handler exposing recorded runs via
// GET /api/runs. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewHistoryHandler(store runlog.LogStore, token string) http.Handler {
	return requireToken(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []runlog.RunRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	}))
}

func parseQuery(r *http.Request) (runlog.LogQuery, error) {
	v := r.URL.Query()
	q := runlog.LogQuery{RunID: v.Get("run_id")}
	if s := v.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.Start = t
	}
	if s := v.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.End = t
	}
	if s := v.Get("failed"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, err
		}
		q.FailedOnly = b
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, err
		}
		q.Limit = n
	}
	return q, nil
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
