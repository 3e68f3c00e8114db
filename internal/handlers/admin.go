package handlers

import (
	"net/http"

	"uniaid/internal/middleware"

	"github.com/go-chi/chi"
)

type decisionRequest struct {
	Approve bool `json:"approve"`
}

func (s *Server) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	rq, err := s.Service.Queries.ReviewQueue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rq)
}

func (s *Server) ReviewCampaign(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := s.Service.Campaigns.Review(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Service.Queries.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) ListPendingVerifications(w http.ResponseWriter, r *http.Request) {
	users, err := s.Service.Queries.PendingVerifications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) EvaluateVerification(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.Service.Identity.EvaluateVerification(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
