package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-component-cache/internal/models"
)

// handleGetComponent handles GET /api/component/{type}?lang=xx
func (s *Server) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	componentType := mux.Vars(r)["type"]
	language := r.URL.Query().Get("lang")
	if language == "" {
		language = s.defaultLanguage
	}

	result, err := s.componentService.GetComponent(r.Context(), componentType, language)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeResponse(w, newComponentResponse(result))
}

// handleInvalidateComponent handles DELETE /cache/component/{type}?lang=xx
func (s *Server) handleInvalidateComponent(w http.ResponseWriter, r *http.Request) {
	componentType := mux.Vars(r)["type"]
	language := r.URL.Query().Get("lang")
	if language == "" {
		language = s.defaultLanguage
	}

	if err := s.componentService.Invalidate(componentType, language); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeResponse(w, map[string]interface{}{
		"success":        true,
		"component_type": componentType,
		"language":       language,
	})
}

// handleStats handles GET /cache/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, s.componentService.Stats())
}

// writeServiceError maps service errors to status codes
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		components, languages := s.componentService.Catalog()
		s.writeJSON(w, http.StatusBadRequest, &ErrorResponse{
			Error:               err.Error(),
			AvailableComponents: components,
			AvailableLanguages:  languages,
		})
	case errors.Is(err, models.ErrAdmissionTimeout):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		s.writeErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, models.ErrGeneration):
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Debug("Request ended before component was ready",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeErrorResponse(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		s.logger.Error("Unexpected component service error", zap.String("path", r.URL.Path), zap.Error(err))
		s.writeErrorResponse(w, "internal error", http.StatusInternalServerError)
	}
}
