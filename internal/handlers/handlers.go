package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"uniaid/internal/config"
	"uniaid/internal/logging"
	"uniaid/internal/middleware"
	"uniaid/internal/model"
	"uniaid/internal/payment"
	"uniaid/internal/service"
)

// Authorizer approves a payment before the ledger is entered.
type Authorizer interface {
	Authorize(ctx context.Context, req payment.Request) (*payment.Authorization, error)
}

type Server struct {
	Service  *service.Service
	Payments Authorizer
	Config   *config.Config
}

func NewServer(cfg *config.Config, svc *service.Service, payments Authorizer) *Server {
	return &Server{Service: svc, Payments: payments, Config: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logg.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps core errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrLedgerWrite):
		return http.StatusInternalServerError
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrCampaignNotActive),
		errors.Is(err, model.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotVerified),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, payment.ErrCanceled):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.Logg.Error("Request failed", "error", err)
		msg = "Internal server error"
	}
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: bad request format", service.ErrInvalidInput)
	}
	return nil
}

type registerRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Status string      `json:"status"`
	Token  string      `json:"token"`
	User   *model.User `json:"user"`
}

func (s *Server) respondWithToken(w http.ResponseWriter, user *model.User) {
	authToken, err := service.GenerateToken(user, s.Config)
	if err != nil {
		logging.Logg.Error("Failed generation token", "error", err)
		http.Error(w, "Failed generation token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Authorization", "Bearer "+authToken)
	writeJSON(w, http.StatusOK, authResponse{Status: "success", Token: authToken, User: user})
}

func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.Service.Identity.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondWithToken(w, user)
}

func (s *Server) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.Service.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, service.ErrInvalidCredentials)
		return
	}
	s.respondWithToken(w, user)
}

func (s *Server) LogoutUser(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.Identity.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// GetSession returns the cached session user, 204 when nobody is logged in.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.Service.Identity.CurrentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	user, err := s.Service.Identity.User(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type verificationRequest struct {
	GovernmentID    string `json:"governmentId"`
	ProofOfAddress  string `json:"proofOfAddress"`
	OrgRegistration string `json:"orgRegistration"`
}

func (s *Server) RequestVerification(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	var req verificationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.Service.Identity.RequestVerification(r.Context(), claims.UserID, model.VerificationDocuments{
		GovernmentID:    req.GovernmentID,
		ProofOfAddress:  req.ProofOfAddress,
		OrgRegistration: req.OrgRegistration,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) GetTransactions(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	txs, err := s.Service.Queries.TransactionsFor(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(txs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Service.Queries.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
