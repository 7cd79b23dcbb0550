package web

// errors.go provides unified error responses for the web layer.
//
// Every error is:
//   - Logged with full technical detail and the request ID (server-side)
//   - Mapped by core.MapError to a user message with an action and code
//   - Returned as JSON for API requests and as a page for browsers
//
// Warnings (the user can fix the input) are logged at info level and answered
// with 4xx statuses; everything else is an error.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/logging"
	"github.com/JonMunkholm/datadash/internal/web/templates"
)

// ErrorResponse is the JSON body of API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Code    string `json:"code"`
	Warning bool   `json:"warning"`
}

// statusByCode maps user message codes to HTTP statuses. Unlisted warnings
// are 422 and unlisted errors 500.
var statusByCode = map[string]int{
	"SES001":  http.StatusNotFound,
	"FILE001": http.StatusRequestEntityTooLarge,
	"FILE004": http.StatusBadRequest,
	"LOAD001": http.StatusUnsupportedMediaType,
	"UPL002":  http.StatusServiceUnavailable,
	"UPL004":  http.StatusRequestTimeout,
	"UPL005":  http.StatusGatewayTimeout,
	"RATE001": http.StatusTooManyRequests,
}

// statusFor picks the HTTP status for a mapped error.
func statusFor(msg core.UserMessage) int {
	if status, ok := statusByCode[msg.Code]; ok {
		return status
	}
	if msg.Warning {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// logError records err with request context and returns its user message.
func logError(r *http.Request, err error) core.UserMessage {
	msg := core.MapError(err)
	logger := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"code", msg.Code,
		"error", err.Error(),
	)
	if msg.Warning {
		logger.Info("request rejected")
	} else {
		logger.Error("request error")
	}
	return msg
}

// respondError logs err and writes the user-facing response in the format
// the client expects.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := logError(r, err)
	status := statusFor(msg)

	if wantsJSON(r) {
		respondErrorJSON(w, msg, status)
		return
	}
	s.renderUploadPage(w, r, &msg, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, status int) {
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Detail:  msg.Detail,
		Code:    msg.Code,
		Warning: msg.Warning,
	})
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all that is left is to log.
		slog.Error("json encode failed", "error", err)
	}
}

// renderUploadPage shows the upload form, optionally with a message.
func (s *Server) renderUploadPage(w http.ResponseWriter, r *http.Request, msg *core.UserMessage, status int) {
	opts := s.service.Options()
	page := templates.UploadPage(templates.UploadView{
		MaxFileSize: opts.MaxFileSize,
		Extensions:  supportedExtensions(),
		Message:     msg,
	})
	templ.Handler(page, templ.WithStatus(status), templ.WithErrorHandler(renderFailed)).ServeHTTP(w, r)
}

// renderFailed answers a page whose component failed to render. The
// component writes to a buffer, so nothing partial has reached the client.
func renderFailed(_ *http.Request, err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg := logError(r, err)
		http.Error(w, core.FormatUserError(err), statusFor(msg))
	})
}
