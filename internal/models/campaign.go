package models

import (
	"errors"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusSent      CampaignStatus = "sent"
)

type CampaignType string

const (
	CampaignTypeEmail CampaignType = "email"
	CampaignTypeSMS   CampaignType = "sms"
	CampaignTypePush  CampaignType = "push"
)

// Variant identifiers for A/B test campaign pairs. A campaign outside an
// A/B pair has an empty variant.
const (
	VariantA = "A"
	VariantB = "B"
)

// Campaign is a single outbound message definition sent to a set of
// recipients, optionally one variant of an A/B pair.
type Campaign struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Content string `json:"content"`

	Type    CampaignType   `json:"type"`
	Status  CampaignStatus `json:"status"`
	Variant string         `json:"variant,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`

	// SentAt is the moment delivery started. Time-to-event analytics use it
	// as the baseline; when unset the earliest event timestamp serves as a
	// proxy.
	SentAt *time.Time `json:"sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required fields and enum values.
func (c *Campaign) Validate() error {
	if c.ID == "" {
		return errors.New("campaign id is required")
	}
	if c.UserID == "" {
		return errors.New("campaign user_id is required")
	}
	if c.Name == "" {
		return errors.New("campaign name is required")
	}
	switch c.Type {
	case CampaignTypeEmail, CampaignTypeSMS, CampaignTypePush:
	case "":
		return errors.New("campaign type is required")
	default:
		return errors.New("unknown campaign type: " + string(c.Type))
	}
	switch c.Status {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSending, CampaignStatusSent:
	case "":
		return errors.New("campaign status is required")
	default:
		return errors.New("unknown campaign status: " + string(c.Status))
	}
	if c.Variant != "" && c.Variant != VariantA && c.Variant != VariantB {
		return errors.New("campaign variant must be A or B")
	}
	return nil
}
