package api

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 problem details response body, used by the
// operational endpoints. The /getRoute contract has its own fixed failure
// body (see writeResultFalse).
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// writeResultFalse is the fixed failure body of the routing endpoint: 400 for
// malformed input, 404 for infeasible problems.
func writeResultFalse(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]bool{"result": false})
}
