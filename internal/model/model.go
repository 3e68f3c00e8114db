package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleFundraiser Role = "FUNDRAISER"
	RoleDonor      Role = "DONOR"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFundraiser, RoleDonor:
		return true
	}
	return false
}

type Category string

const (
	CategoryEducation Category = "Education"
	CategoryMedical   Category = "Medical"
	CategoryStartup   Category = "Startup"
	CategoryNonProfit Category = "Non-Profit"
	CategoryEmergency Category = "Emergency"
	CategoryCreative  Category = "Creative"
	CategoryOther     Category = "Other"
)

var Categories = []Category{
	CategoryEducation,
	CategoryMedical,
	CategoryStartup,
	CategoryNonProfit,
	CategoryEmergency,
	CategoryCreative,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// VerificationDocuments are opaque references (URLs or data URIs) to the
// files a user submitted for review.
type VerificationDocuments struct {
	GovernmentID    string    `json:"governmentId"`
	ProofOfAddress  string    `json:"proofOfAddress,omitempty"`
	OrgRegistration string    `json:"orgRegistration,omitempty"` // fundraisers only
	SubmittedAt     time.Time `json:"submittedAt"`
}

type User struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Email                 string                 `json:"email"`
	PasswordHash          string                 `json:"passwordHash,omitempty"`
	Role                  Role                   `json:"role"`
	WalletBalance         decimal.Decimal        `json:"walletBalance"`
	VerificationStatus    VerificationStatus     `json:"verificationStatus"`
	VerificationDocuments *VerificationDocuments `json:"verificationDocuments,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
}

// Public returns a copy without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

func (u User) IsVerified() bool {
	return u.VerificationStatus == VerificationVerified
}

type Campaign struct {
	ID             string          `json:"id"`
	FundraiserID   string          `json:"fundraiserId"`
	FundraiserName string          `json:"fundraiserName"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	GoalAmount     decimal.Decimal `json:"goalAmount"`
	RaisedAmount   decimal.Decimal `json:"raisedAmount"`
	Status         CampaignStatus  `json:"status"`
	Category       Category        `json:"category"`
	Beneficiary    string          `json:"beneficiary"`
	Deadline       time.Time       `json:"deadline"`
	CreatedAt      time.Time       `json:"createdAt"`
	Image          string          `json:"image"`
}

// GoalReached reports whether the raised total has met or passed the goal.
func (c Campaign) GoalReached() bool {
	return c.RaisedAmount.GreaterThanOrEqual(c.GoalAmount)
}

type Donation struct {
	ID            string          `json:"id"`
	DonorID       string          `json:"donorId"`
	DonorName     string          `json:"donorName"`
	CampaignID    string          `json:"campaignId"`
	CampaignTitle string          `json:"campaignTitle"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	DonorVerified bool            `json:"donorVerified"` // snapshot at donation time
}

type TType string // transaction type

const (
	TypeDonation     TType = "DONATION"      // donor -> SYSTEM
	TypeFundTransfer TType = "FUND_TRANSFER" // SYSTEM -> fundraiser
)

// SystemAccount is the notional escrow. It has no stored balance.
const SystemAccount = "SYSTEM"

type Transaction struct {
	ID         string          `json:"id"`
	Type       TType           `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	SenderID   string          `json:"senderId"`
	ReceiverID string          `json:"receiverId"`
	Date       time.Time       `json:"date"`
}
