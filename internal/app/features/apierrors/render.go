// internal/app/features/apierrors/render.go
package apierrors

import (
	"encoding/json"
	"net/http"
)

// errorBody is the uniform JSON error envelope: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

func render(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// RenderUnauthorized writes a 401 for requests with no authenticated session.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusUnauthorized, "Not authenticated")
}

// RenderForbidden writes a 403 for authenticated callers whose role or
// status is insufficient for the operation.
func RenderForbidden(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusForbidden, "Unauthorized")
}

// RenderBadRequest writes a 400 with a caller-facing message describing
// the malformed input.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Invalid request."
	}
	render(w, http.StatusBadRequest, msg)
}

// RenderNotFound writes a 404 with a caller-facing message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Not found."
	}
	render(w, http.StatusNotFound, msg)
}

// RenderConflict writes a 409 for unique-constraint violations such as a
// duplicate assignment.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Conflict."
	}
	render(w, http.StatusConflict, msg)
}

// RenderServerError writes the generic 500. The underlying cause is never
// exposed to the caller; pair with ErrorLogger so operators see it.
func RenderServerError(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusInternalServerError, "Internal server error")
}
