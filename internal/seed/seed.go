// Package seed loads the demo users, campaigns and donations into an
// empty store.
package seed

import (
	"context"
	"time"

	"uniaid/internal/logging"
	"uniaid/internal/model"
	"uniaid/internal/store"

	"github.com/shopspring/decimal"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

const day = 24 * time.Hour

type Hasher interface {
	HashPassword(password string) (string, error)
}

type userRow struct {
	id, name, email string
	role            model.Role
	wallet          int64
	status          model.VerificationStatus
	docsAgeDays     int // 0 means no documents on file
}

var users = []userRow{
	{"u1", "Admin User", "admin@uniaid.com", model.RoleAdmin, 0, model.VerificationVerified, 0},
	{"u2", "John Fundraiser", "john@fund.com", model.RoleFundraiser, 1200, model.VerificationVerified, 30},
	{"u4", "Sarah Smith", "sarah@fund.com", model.RoleFundraiser, 450, model.VerificationVerified, 25},
	{"u3", "Alice Donor", "alice@donate.com", model.RoleDonor, 5000, model.VerificationNone, 0},
	{"u5", "New User", "new@user.com", model.RoleFundraiser, 0, model.VerificationNone, 0},
}

const (
	docGovernmentID    = "https://images.unsplash.com/photo-1549920843-48301e74a810?auto=format&fit=crop&w=400&q=80"
	docProofOfAddress  = "https://images.unsplash.com/photo-1555601568-c9e6f328489b?auto=format&fit=crop&w=400&q=80"
	docOrgRegistration = "https://images.unsplash.com/photo-1562240020-ce31ccb0fa7d?auto=format&fit=crop&w=400&q=80"
)

type campaignRow struct {
	id, owner, title, description string
	goal, raised                  int64
	category                      model.Category
	beneficiary                   string
	deadlineDays, ageDays         int
	image                         string
}

const unsplash = "https://images.unsplash.com/photo-"

var campaigns = []campaignRow{
	{"c_start_1", "u2", "Eco-Friendly Campus Transport",
		"We are building a fleet of solar-powered scooters for the university campus to reduce carbon footprint and ease commute for students living in dorms.",
		15000, 4500, model.CategoryStartup, "Green Campus Initiative", 30, 5, unsplash + "1519750783826-e2420f4d687f?auto=format&fit=crop&w=1000&q=80"},
	{"c_start_2", "u2", "AI Study Companion App",
		"An innovative app that uses AI to create personalized study schedules and summaries for university students. Beta testing phase funding.",
		8000, 1200, model.CategoryStartup, "StudySmart Team", 45, 3, unsplash + "1555421689-d68471e189f2?auto=format&fit=crop&w=1740&q=80"},
	{"c_edu_1", "u2", "Tech Bootcamp Scholarships",
		"Providing full scholarships for underrepresented youth to attend a 12-week intensive coding bootcamp. Help us bridge the tech diversity gap.",
		25000, 12500, model.CategoryEducation, "Future Tech Leaders Foundation", 45, 10, unsplash + "1516321318423-f06f85e504b3?auto=format&fit=crop&w=1740&q=80"},
	{"c_edu_2", "u4", "Rural School Library Project",
		"Building a modern library with computers and books for the elementary school in Oakville, providing resources to over 300 students.",
		15000, 3200, model.CategoryEducation, "Oakville Elementary", 60, 5, unsplash + "1497633762265-9d179a990aa6?auto=format&fit=crop&w=1740&q=80"},
	{"c_med_1", "u2", "Emergency Surgery for Baby Liam",
		"Liam was born with a congenital heart defect and requires urgent open-heart surgery. The insurance covers 70%, we need help with the rest.",
		30000, 21000, model.CategoryMedical, "Liam Johnson", 20, 15, unsplash + "1519494026892-80bbd2d6fd0d?auto=format&fit=crop&w=1740&q=80"},
	{"c_med_2", "u4", "Cancer Treatment Fund for Maria",
		"Maria is a single mother of two battling stage 3 breast cancer. Funds will help with chemotherapy, medication, and childcare during her treatment.",
		12000, 8500, model.CategoryMedical, "Maria Rodriguez", 30, 12, unsplash + "1579684385127-1ef15d508118?auto=format&fit=crop&w=1740&q=80"},
	{"c_np_1", "u4", "City Food Bank Expansion",
		"Helping the local food bank purchase new refrigeration units to store fresh produce for families in need.",
		20000, 15600, model.CategoryNonProfit, "City Food Bank", 15, 20, unsplash + "1488521787991-ed7bbaae773c?auto=format&fit=crop&w=1740&q=80"},
	{"c_np_2", "u2", "Clean Water for Villages",
		"Constructing water wells in remote villages to provide safe and clean drinking water, preventing waterborne diseases.",
		35000, 9000, model.CategoryNonProfit, "Global Water Aid", 90, 8, unsplash + "1538300342682-cf57afb97285?auto=format&fit=crop&w=1740&q=80"},
	{"c_em_1", "u4", "Flood Relief Fund",
		"Direct financial assistance for 50 families who lost their homes in the recent devastating floods.",
		50000, 28000, model.CategoryEmergency, "Community Relief Center", 10, 7, unsplash + "1547683905-f686c993aae5?auto=format&fit=crop&w=1740&q=80"},
	{"c_em_2", "u2", "House Fire Recovery for the Thompsons",
		"The Thompson family lost everything in a house fire last week. Raising funds for temporary housing, clothes, and food.",
		15000, 13500, model.CategoryEmergency, "Thompson Family", 14, 5, unsplash + "1506459225024-1428097a7e18?auto=format&fit=crop&w=1740&q=80"},
	{"c_cr_1", "u4", `Indie Documentary: "Voices"`,
		"Post-production funds for a documentary exploring the lives of street musicians in New York City.",
		8000, 1500, model.CategoryCreative, "Indie Lens Productions", 40, 15, unsplash + "1533106958155-29e51f72edc2?auto=format&fit=crop&w=1740&q=80"},
	{"c_cr_2", "u2", "Community Art Mural",
		"Commissioning local artists to paint a large-scale mural celebrating diversity in the downtown district.",
		5000, 4800, model.CategoryCreative, "Downtown Arts Council", 10, 20, unsplash + "1563203369-26f2e4a5ccf7?auto=format&fit=crop&w=1740&q=80"},
}

type donationRow struct {
	id, campaign string
	amount       int64
	ageDays      int
}

// Historical donations by Alice (u3). They predate the transaction log,
// so no transactions are seeded.
var donations = []donationRow{
	{"d1", "c_start_1", 500, 4},
	{"d2", "c_start_1", 1500, 3},
	{"d3", "c_start_1", 2500, 1},
	{"d4", "c_med_1", 1200, 1},
	{"d5", "c_np_1", 5000, 5},
}

// Apply seeds an empty store. It reports false and writes nothing when
// the store already has users.
func Apply(ctx context.Context, s store.Store, hasher Hasher, now time.Time) (bool, error) {
	applied := false
	err := s.InTx(ctx, func(tx store.Tx) error {
		existing, err := tx.ListUsers()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		names := make(map[string]string, len(users))
		for _, row := range users {
			hash, err := hasher.HashPassword(DemoPassword)
			if err != nil {
				return err
			}
			u := &model.User{
				ID:                 row.id,
				Name:               row.name,
				Email:              row.email,
				PasswordHash:       hash,
				Role:               row.role,
				WalletBalance:      decimal.NewFromInt(row.wallet),
				VerificationStatus: row.status,
				CreatedAt:          now.Add(-60 * day),
			}
			if row.docsAgeDays > 0 {
				u.VerificationDocuments = &model.VerificationDocuments{
					GovernmentID:    docGovernmentID,
					ProofOfAddress:  docProofOfAddress,
					OrgRegistration: docOrgRegistration,
					SubmittedAt:     now.Add(-time.Duration(row.docsAgeDays) * day),
				}
			}
			if err := tx.CreateUser(u); err != nil {
				return err
			}
			names[row.id] = row.name
		}

		titles := make(map[string]string, len(campaigns))
		for _, row := range campaigns {
			c := &model.Campaign{
				ID:             row.id,
				FundraiserID:   row.owner,
				FundraiserName: names[row.owner],
				Title:          row.title,
				Description:    row.description,
				GoalAmount:     decimal.NewFromInt(row.goal),
				RaisedAmount:   decimal.NewFromInt(row.raised),
				Status:         model.CampaignActive,
				Category:       row.category,
				Beneficiary:    row.beneficiary,
				Deadline:       now.Add(time.Duration(row.deadlineDays) * day),
				CreatedAt:      now.Add(-time.Duration(row.ageDays) * day),
				Image:          row.image,
			}
			if err := tx.CreateCampaign(c); err != nil {
				return err
			}
			titles[row.id] = row.title
		}

		for _, row := range donations {
			d := &model.Donation{
				ID:            row.id,
				DonorID:       "u3",
				DonorName:     names["u3"],
				CampaignID:    row.campaign,
				CampaignTitle: titles[row.campaign],
				Amount:        decimal.NewFromInt(row.amount),
				Timestamp:     now.Add(-time.Duration(row.ageDays) * day),
			}
			if err := tx.CreateDonation(d); err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if applied {
		logging.Logg.Info("Seed data applied", "users", len(users), "campaigns", len(campaigns), "donations", len(donations))
	}
	return applied, nil
}
