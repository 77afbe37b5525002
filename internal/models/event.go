package models

import (
	"time"
)

// EventStatus is the normalized delivery-pipeline status of an email event.
type EventStatus string

const (
	StatusDelivered    EventStatus = "delivered"
	StatusOpened       EventStatus = "opened"
	StatusClicked      EventStatus = "clicked"
	StatusUnsubscribed EventStatus = "unsubscribed"
	StatusBounced      EventStatus = "bounced"
	StatusSoftBounced  EventStatus = "soft_bounced"
	StatusHardBounced  EventStatus = "hard_bounced"
	StatusConverted    EventStatus = "converted"
)

// KnownStatuses lists every status the analytics engine recognizes.
// Events carrying any other status still count toward total_sent but are
// otherwise ignored.
var KnownStatuses = []EventStatus{
	StatusDelivered,
	StatusOpened,
	StatusClicked,
	StatusUnsubscribed,
	StatusBounced,
	StatusSoftBounced,
	StatusHardBounced,
	StatusConverted,
}

// EmailEvent is one observed delivery-pipeline event for one recipient of
// one campaign. A recipient may have several events per campaign (one per
// event type); unique opens/clicks deduplicate by recipient address.
type EmailEvent struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Recipient  string    `json:"recipient"`

	Status EventStatus `json:"status"`

	// BounceReason is set only for bounce statuses, free text from the
	// provider ("mailbox full", "invalid address", ...).
	BounceReason string `json:"bounce_reason,omitempty"`

	// Tags are subscriber labels attached to the send. One event may carry
	// several tags and then counts toward every matching segment.
	Tags []string `json:"tags,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// IsBounce reports whether the event is any bounce variant.
func (e *EmailEvent) IsBounce() bool {
	switch e.Status {
	case StatusBounced, StatusSoftBounced, StatusHardBounced:
		return true
	}
	return false
}

// HasTag reports whether the event carries the given tag.
func (e *EmailEvent) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
