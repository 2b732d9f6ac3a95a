package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/terra-clan/portfolio/internal/models"
)

// maxGuestbookLimit caps the ?limit query parameter
const maxGuestbookLimit = 100

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondFailure(w, status, code, message, nil)
}

// respondFailure writes an error envelope that still carries a payload,
// e.g. the submitted form for the client to re-render
func respondFailure(w http.ResponseWriter, status int, code, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Data:    data,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := s.registry.HealthCheckAll(r.Context())

	checks := make(map[string]string, len(results))
	var failed []string
	for _, name := range s.registry.List() {
		err, ok := results[name]
		if !ok {
			continue
		}
		if err != nil {
			slog.Warn("dependency not ready", "dependency", name, "error", err)
			checks[name] = err.Error()
			failed = append(failed, name)
			continue
		}
		checks[name] = "ok"
	}

	if len(failed) > 0 {
		respondFailure(w, http.StatusServiceUnavailable, "not_ready", "service not ready", map[string]interface{}{
			"checks": checks,
			"failed": failed,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}

// Guestbook handlers

func (s *Server) handleListGuestbook(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			respondError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = min(l, maxGuestbookLimit)
	}

	view := s.guestbook.Latest(r.Context(), limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": view.Entries,
		"total":   len(view.Entries),
		"error":   view.Error,
	})
}

func (s *Server) handleSignGuestbook(w http.ResponseWriter, r *http.Request) {
	var sub models.GuestbookSubmission
	if err := decodeJSON(r, &sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result := s.guestbook.Submit(r.Context(), sub)
	switch {
	case result.Invalid:
		respondFailure(w, http.StatusBadRequest, "validation_error", result.Error, result)
	case result.Entry == nil:
		respondFailure(w, http.StatusBadGateway, "submit_failed", result.Error, result)
	default:
		respondJSON(w, http.StatusCreated, result)
	}
}

var errInvalidLevel = errors.New("level must be between 0 and 100")

func validateLevel(level int) error {
	if level < 0 || level > 100 {
		return errInvalidLevel
	}
	return nil
}
