package web

import (
	"net/http"
)

// UnhealthyAfter is how many failed polls in a row turn /healthz red.
const UnhealthyAfter = 3

// NewDefaultMux builds the console mux:
// - /api/v1/* for the API
// - /healthz for supervisors
// - / for the mirror page
func NewDefaultMux(staticDir string, deps APIV1Deps) *http.ServeMux {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(deps)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { handleHealth(w, r, deps.Status) })
	mux.Handle("/", StaticUIHandler(staticDir))
	return mux
}

type healthResponse struct {
	OK                  bool   `json:"ok"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	LastError           string `json:"lastError,omitempty"`
}

// handleHealth reports 503 once the device has been unreachable for
// UnhealthyAfter cycles. A mirror that has not polled yet is healthy.
func handleHealth(w http.ResponseWriter, r *http.Request, status StatusSource) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	st := status.Snapshot()
	resp := healthResponse{OK: st.ConsecutiveFailures < UnhealthyAfter, ConsecutiveFailures: st.ConsecutiveFailures}
	code := http.StatusOK
	if !resp.OK {
		resp.LastError = st.LastError
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
