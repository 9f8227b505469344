// Package handler contains the HTTP handlers for the halobot API.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// writeJSON marshals v as JSON and writes it with the given status code. If
// marshaling fails it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// accountParam resolves the acted-on account: the account query parameter
// when present, the agent's own address otherwise.
func accountParam(r *http.Request, fallback string) string {
	if acct := strings.TrimSpace(r.URL.Query().Get("account")); acct != "" {
		return acct
	}
	return fallback
}
