// Package httpjson writes JSON response bodies the same way everywhere.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write encodes v as the JSON response body with the given status code.
// Encoding failures after the header is written can only be logged by
// the caller's middleware; the status line is already on the wire.
func Write(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// OK encodes v with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created encodes v with a 201 status.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Success writes the bare {"success": true} acknowledgement body.
func Success(w http.ResponseWriter) {
	OK(w, map[string]bool{"success": true})
}
