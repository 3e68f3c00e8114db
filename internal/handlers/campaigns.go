package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"uniaid/internal/logging"
	"uniaid/internal/middleware"
	"uniaid/internal/model"
	"uniaid/internal/payment"
	"uniaid/internal/service"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type campaignRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	GoalAmount  decimal.Decimal `json:"goalAmount"`
	Category    model.Category  `json:"category"`
	Beneficiary string          `json:"beneficiary"`
	Deadline    string          `json:"deadline"`
	Image       string          `json:"image"`
}

type campaignPatchRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	GoalAmount  *decimal.Decimal      `json:"goalAmount"`
	Category    *model.Category       `json:"category"`
	Beneficiary *string               `json:"beneficiary"`
	Deadline    *string               `json:"deadline"`
	Image       *string               `json:"image"`
	Status      *model.CampaignStatus `json:"status"`
}

// parseDeadline accepts RFC 3339 timestamps and plain dates.
func parseDeadline(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: deadline %q", service.ErrInvalidInput, s)
	}
	return t, nil
}

func (s *Server) ListPublicCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	campaigns, err := s.Service.Queries.PublicCampaigns(r.Context(), model.Category(q.Get("category")), q.Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) ListDonorCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.Service.Queries.DonorCampaigns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) ListMyCampaigns(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	campaigns, err := s.Service.Queries.CampaignsByFundraiser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.Service.Queries.Campaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) GetCampaignDonations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Service.Queries.Campaign(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	donations, err := s.Service.Queries.DonationsByCampaign(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, donations)
}

func (s *Server) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	var req campaignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := s.Service.Campaigns.Create(r.Context(), claims.UserID, service.CampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Category:    req.Category,
		Beneficiary: req.Beneficiary,
		Deadline:    deadline,
		Image:       req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}
	var req campaignPatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := service.CampaignPatch{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Category:    req.Category,
		Beneficiary: req.Beneficiary,
		Image:       req.Image,
		Status:      req.Status,
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.Deadline = &deadline
	}

	c, err := s.Service.Campaigns.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type donationRequest struct {
	Amount any `json:"amount"`
}

// Donate authorizes the payment first. The ledger is entered only after
// the authorization succeeds, so an abandoned request changes nothing.
func (s *Server) Donate(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req donationRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "Bad request format", http.StatusBadRequest)
		return
	}

	campaignID := chi.URLParam(r, "id")
	campaign, err := s.Service.Queries.Campaign(r.Context(), campaignID)
	if err != nil {
		writeError(w, err)
		return
	}
	if campaign.Status != model.CampaignActive {
		writeError(w, fmt.Errorf("%w: %s is %s", service.ErrCampaignNotActive, campaignID, campaign.Status))
		return
	}
	amount, err := service.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	auth, err := s.Payments.Authorize(r.Context(), payment.Request{
		PayerID:    claims.UserID,
		CampaignID: campaignID,
		Amount:     amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	logging.Logg.Debug("Payment authorized", "authorization_id", auth.ID, "campaign_id", campaignID)

	donation, err := s.Service.Ledger.ProcessDonation(r.Context(), claims.UserID, campaignID, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, donation)
}
