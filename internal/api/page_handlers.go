package api

import "net/http"

// Page handlers: one payload per frontend route

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.home.Page(r.Context()))
}

func (s *Server) handleAboutPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.about.Page())
}

func (s *Server) handleProjectsPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.projects.Page(r.Context()))
}
