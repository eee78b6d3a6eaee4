package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bhaveshbalendra/Inagiffy/internal/apperror"
	"github.com/bhaveshbalendra/Inagiffy/internal/db"
	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

// generateMapRequest is the body for POST /map/generate.
type generateMapRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=200"`
	Level string `json:"level" validate:"required"`
	Save  bool   `json:"save"`
}

// handleGenerateMap generates a learning map for a topic and level,
// optionally persisting it.
func (s *Server) handleGenerateMap(w http.ResponseWriter, r *http.Request) {
	var req generateMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, r, apperror.InvalidInput("Request body must be valid JSON"))
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, r, validationError(err))
		return
	}

	level, err := types.ParseLevel(req.Level)
	if err != nil {
		s.errorResponse(w, r, apperror.InvalidInput(err.Error()))
		return
	}

	m, err := s.generator.Generate(r.Context(), req.Topic, level, req.Save)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.dataResponse(w, http.StatusOK, m)
}

// handleGetMap retrieves a persisted learning map by id.
func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.store == nil {
		s.errorResponse(w, r, apperror.NotFound("Learning map not found"))
		return
	}

	m, err := s.store.GetLearningMap(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrMalformedID) {
			s.errorResponse(w, r, apperror.InvalidInput(fmt.Sprintf("Invalid learning map id %q", id)))
			return
		}
		s.errorResponse(w, r, apperror.Wrap(apperror.CodeDatabaseQuery, "Failed to load learning map", err))
		return
	}
	if m == nil {
		s.errorResponse(w, r, apperror.NotFound("Learning map not found"))
		return
	}

	s.dataResponse(w, http.StatusOK, m)
}

// validationError converts validator violations into a VALIDATION_ERROR
// with one detail per failed field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("Request validation failed")
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldViolationMessage(fe))
	}
	return apperror.Validation("Request validation failed", details...)
}

func fieldViolationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
