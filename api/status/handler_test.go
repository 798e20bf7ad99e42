package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/core/section"
)

type fakeSource struct {
	state pipeline.State
	err   error
}

func (f fakeSource) State() pipeline.State { return f.state }
func (f fakeSource) LastError() error      { return f.err }

func fetchStatus(t *testing.T, src Source) Status {
	t.Helper()
	rr := httptest.NewRecorder()
	NewStatusHandler(src).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var st Status
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return st
}

func TestStatusHandler_Idle(t *testing.T) {
	st := fetchStatus(t, pipeline.New(nil, nil))
	if st.State != "idle" || st.LastError != "" {
		t.Fatalf("unexpected status %#v", st)
	}
}

func TestStatusHandler_Failed(t *testing.T) {
	st := fetchStatus(t, fakeSource{state: pipeline.Failed, err: section.MissingSectionData(321)})
	if st.State != "failed" || st.ErrorKind != "missing_section_data" || st.LastError == "" {
		t.Fatalf("unexpected status %#v", st)
	}
}

func TestStatusHandler_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	NewStatusHandler(fakeSource{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}
