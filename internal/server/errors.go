package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/dirchart/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	if errors.IsValidation(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestIDFromContext(r.Context()),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", resp.RequestID, "path", r.URL.Path, "error", err)
		if resp.Code == "" {
			resp.Code = string(errors.ErrCodeInternal)
			resp.Error = "an unexpected error occurred"
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
