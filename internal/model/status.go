package model

import (
	"errors"
	"fmt"
)

var ErrIllegalTransition = errors.New("illegal status transition")

type CampaignStatus string

const (
	CampaignPending   CampaignStatus = "PENDING"   // waiting for admin review
	CampaignActive    CampaignStatus = "ACTIVE"    // accepting donations
	CampaignRejected  CampaignStatus = "REJECTED"  // rejected by admin, owner may edit and resubmit
	CampaignCompleted CampaignStatus = "COMPLETED" // goal reached, funds transferred
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignPending:  {CampaignActive, CampaignRejected},
	CampaignRejected: {CampaignPending},
	CampaignActive:   {CampaignCompleted},
}

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignPending, CampaignActive, CampaignRejected, CampaignCompleted:
		return true
	}
	return false
}

func (s CampaignStatus) AcceptsDonations() bool {
	return s == CampaignActive
}

// Transition returns the next status or ErrIllegalTransition. A
// transition to the current status is a no-op.
func (s CampaignStatus) Transition(to CampaignStatus) (CampaignStatus, error) {
	if s == to {
		return s, nil
	}
	for _, allowed := range campaignTransitions[s] {
		if allowed == to {
			return to, nil
		}
	}
	return s, fmt.Errorf("%w: campaign %s -> %s", ErrIllegalTransition, s, to)
}

type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "NONE"
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationNone, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Submit moves any status to PENDING. Resubmitting after a rejection or
// after approval reopens review.
func (s VerificationStatus) Submit() VerificationStatus {
	return VerificationPending
}

// Evaluate resolves a pending review.
func (s VerificationStatus) Evaluate(approve bool) (VerificationStatus, error) {
	if s != VerificationPending {
		return s, fmt.Errorf("%w: verification %s is not under review", ErrIllegalTransition, s)
	}
	if approve {
		return VerificationVerified, nil
	}
	return VerificationRejected, nil
}
