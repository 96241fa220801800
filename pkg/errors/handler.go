package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON body written for failed requests
type ErrorResponse struct {
	Error struct {
		Type    ErrorType              `json:"type"`
		Code    string                 `json:"code,omitempty"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	} `json:"error"`
}

// HTTPHandler translates application errors into HTTP responses
type HTTPHandler struct {
	logger *zap.Logger
}

// NewHTTPHandler creates a new error handler
func NewHTTPHandler(logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{logger: logger}
}

// Handle writes err to w with the status and body appropriate to its type.
// Internal details and stack traces stay in the logs; the client sees only
// the type, code, and message.
func (h *HTTPHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	status := GetHTTPStatus(err)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError("internal server error", err)
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("type", string(appErr.Type)),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("type", string(appErr.Type)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	var resp ErrorResponse
	resp.Error.Type = appErr.Type
	resp.Error.Code = appErr.Code
	resp.Error.Message = appErr.Message
	resp.Error.Details = appErr.Details

	// Never leak internals for 5xx responses
	if status >= http.StatusInternalServerError {
		resp.Error.Message = "internal server error"
		resp.Error.Details = nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
