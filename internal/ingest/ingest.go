package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/metrics"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/storage"
)

// ProviderEvent is the webhook payload shape delivered by the email
// sending provider.
type ProviderEvent struct {
	ID         string    `json:"id,omitempty"`
	CampaignID string    `json:"campaign_id"`
	Email      string    `json:"email"`
	Event      string    `json:"event"`
	Type       string    `json:"type,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Invalidator clears cached results for a campaign after ingest.
type Invalidator interface {
	Invalidate(ctx context.Context, campaignID string) error
}

// Result summarizes one webhook batch.
type Result struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// Ingestor normalizes provider webhook events into the event log.
type Ingestor struct {
	events     storage.EventLog
	cache      Invalidator
	logger     *zap.Logger
	metrics    *metrics.Metrics
	clock      func() time.Time
	generateID func() string
}

// NewIngestor creates a webhook event ingestor. cache and m may be nil.
func NewIngestor(events storage.EventLog, cache Invalidator, logger *zap.Logger, m *metrics.Metrics) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		events:     events,
		cache:      cache,
		logger:     logger,
		metrics:    m,
		clock:      time.Now,
		generateID: uuid.NewString,
	}
}

// Ingest normalizes and stores a batch of provider events. Unrecognized
// event names are skipped, not rejected, so one bad entry never fails
// the whole batch.
func (in *Ingestor) Ingest(ctx context.Context, batch []ProviderEvent) (Result, error) {
	var res Result

	touched := make(map[string]struct{})
	for i := range batch {
		ev, ok := in.normalize(&batch[i])
		if !ok {
			res.Skipped++
			if in.metrics != nil {
				in.metrics.RecordEventRejected()
			}
			continue
		}

		if err := in.events.Save(ctx, ev); err != nil {
			return res, fmt.Errorf("failed to store event for campaign %s: %w", ev.CampaignID, err)
		}
		res.Accepted++
		touched[ev.CampaignID] = struct{}{}
		if in.metrics != nil {
			in.metrics.RecordEventIngested(string(ev.Status))
		}
	}

	if in.cache != nil {
		for campaignID := range touched {
			if err := in.cache.Invalidate(ctx, campaignID); err != nil {
				in.logger.Warn("failed to invalidate metric cache",
					zap.String("campaign_id", campaignID),
					zap.Error(err),
				)
			}
		}
	}
	return res, nil
}

// normalize maps a provider event to the internal event model. Returns
// false when the event is missing required fields or names an unknown
// event type.
func (in *Ingestor) normalize(pe *ProviderEvent) (*models.EmailEvent, bool) {
	if pe.CampaignID == "" || pe.Email == "" {
		in.logger.Debug("skipping event without campaign or recipient",
			zap.String("event", pe.Event),
		)
		return nil, false
	}

	status, ok := mapStatus(pe.Event, pe.Type)
	if !ok {
		in.logger.Debug("skipping unrecognized provider event",
			zap.String("event", pe.Event),
			zap.String("type", pe.Type),
			zap.String("campaign_id", pe.CampaignID),
		)
		return nil, false
	}

	id := pe.ID
	if id == "" {
		id = in.generateID()
	}
	occurredAt := pe.Timestamp
	if occurredAt.IsZero() {
		occurredAt = in.clock()
	}

	ev := &models.EmailEvent{
		ID:         id,
		CampaignID: pe.CampaignID,
		Recipient:  pe.Email,
		Status:     status,
		Tags:       pe.Tags,
		OccurredAt: occurredAt,
	}
	if ev.IsBounce() {
		ev.BounceReason = pe.Reason
	}
	return ev, true
}

// mapStatus translates provider event names into internal statuses.
func mapStatus(event, bounceType string) (models.EventStatus, bool) {
	switch strings.ToLower(event) {
	case "delivered", "delivery":
		return models.StatusDelivered, true
	case "open", "opened":
		return models.StatusOpened, true
	case "click", "clicked":
		return models.StatusClicked, true
	case "unsubscribe", "unsubscribed":
		return models.StatusUnsubscribed, true
	case "conversion", "converted":
		return models.StatusConverted, true
	case "bounce", "bounced":
		switch strings.ToLower(bounceType) {
		case "soft":
			return models.StatusSoftBounced, true
		case "hard":
			return models.StatusHardBounced, true
		default:
			return models.StatusBounced, true
		}
	default:
		return "", false
	}
}
