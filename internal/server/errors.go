package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bhaveshbalendra/Inagiffy/internal/apperror"
)

// envelope is the JSON shape of every API response. Success responses
// carry Data; failures carry Message and optionally Errors and, outside
// production, the underlying cause.
type envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Cause   string   `json:"cause,omitempty"`
}

// jsonResponse writes a JSON body with the given status.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// dataResponse writes a success envelope.
func (s *Server) dataResponse(w http.ResponseWriter, status int, data any) {
	s.jsonResponse(w, status, envelope{Success: true, Data: data})
}

// errorResponse maps any error onto the taxonomy and writes a failure
// envelope. Unrecognized errors become INTERNAL_SERVER_ERROR with the
// default message so raw causes never leak to callers.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	appErr, known := apperror.From(err)
	status := appErr.Code.HTTPStatus()

	log := s.logger.With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("code", string(appErr.Code)),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Warn("request rejected", zap.Error(err))
	}

	body := envelope{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Details,
	}
	if !known && !s.production {
		// Surface the raw cause during development only.
		body.Cause = err.Error()
	} else if appErr.Cause != nil && !s.production {
		body.Cause = appErr.Cause.Error()
	}

	s.jsonResponse(w, status, body)
}
