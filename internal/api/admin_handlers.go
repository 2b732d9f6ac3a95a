package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/portfolio/internal/models"
)

// --- Admin handlers (API key auth) ---

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	s.store.UpdateBasicInfo(patch)
	slog.Info("profile updated", "admin", AdminFromContext(r.Context()), "version", s.store.Version())

	respondJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "section id is required")
		return
	}

	var patch models.SectionPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if !s.store.UpdateSection(id, patch) {
		respondError(w, http.StatusNotFound, "not_found", "section not found")
		return
	}
	slog.Info("section updated", "admin", AdminFromContext(r.Context()), "id", id)

	for _, sec := range s.store.Sections() {
		if sec.ID == id {
			respondJSON(w, http.StatusOK, sec)
			return
		}
	}
	respondError(w, http.StatusNotFound, "not_found", "section not found")
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req models.NewSkill
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}
	if err := validateLevel(req.Level); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	skill := s.store.AddSkill(req)
	slog.Info("skill added", "admin", AdminFromContext(r.Context()), "id", skill.ID, "name", skill.Name)

	respondJSON(w, http.StatusCreated, skill)
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := skillIDParam(w, r)
	if !ok {
		return
	}

	var patch models.SkillPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if patch.Level != nil {
		if err := validateLevel(*patch.Level); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name must not be blank")
		return
	}

	if !s.store.UpdateSkill(id, patch) {
		respondError(w, http.StatusNotFound, "not_found", "skill not found")
		return
	}
	slog.Info("skill updated", "admin", AdminFromContext(r.Context()), "id", id)

	for _, sk := range s.store.Skills() {
		if sk.ID == id {
			respondJSON(w, http.StatusOK, sk)
			return
		}
	}
	respondError(w, http.StatusNotFound, "not_found", "skill not found")
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := skillIDParam(w, r)
	if !ok {
		return
	}

	if !s.store.RemoveSkill(id) {
		respondError(w, http.StatusNotFound, "not_found", "skill not found")
		return
	}
	slog.Info("skill removed", "admin", AdminFromContext(r.Context()), "id", id)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "skill removed",
	})
}

func skillIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "skill id must be a positive integer")
		return 0, false
	}
	return id, true
}
