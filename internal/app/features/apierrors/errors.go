// Package apierrors renders the JSON error taxonomy shared by every
// feature: 400 Malformed, 401 Unauthenticated, 403 Forbidden,
// 404 NotFound, 409 Conflict, 500 InternalError.
//
// Expected conditions are rendered with a precise status/message pair;
// unexpected failures are logged with their cause and collapsed into the
// generic 500 body so internals never leak to API callers.
package apierrors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs zap logging with JSON error rendering so handlers
// can report a failure to the operator and the caller in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs the underlying cause at error level and renders
// the generic 500 JSON body.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	el.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	RenderServerError(w, r)
}

// LogBadRequest logs a malformed-input failure at warn level and renders
// a 400 with the caller-facing message.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, publicMsg string) {
	el.log.Warn(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	RenderBadRequest(w, r, publicMsg)
}
