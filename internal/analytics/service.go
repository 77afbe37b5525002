package analytics

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/storage"
)

// Service orchestrates the analytics engine over explicitly injected
// stores. All operations are synchronous read-only computations over an
// event snapshot; the service never writes to the stores and keeps no
// state between calls, so concurrent invocations are safe.
type Service struct {
	campaigns storage.CampaignRepo
	events    storage.EventLog
	logger    *zap.Logger
}

// NewService constructs an analytics service backed by the given stores.
func NewService(campaigns storage.CampaignRepo, events storage.EventLog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		campaigns: campaigns,
		events:    events,
		logger:    logger,
	}
}

// GetCampaignMetrics computes the metric vector for one campaign from its
// current event log snapshot. A campaign with no events yields all zeros.
func (s *Service) GetCampaignMetrics(ctx context.Context, campaignID string) (Metrics, error) {
	events, err := s.campaignEvents(ctx, campaignID)
	if err != nil {
		return Metrics{}, err
	}
	return Calculate(events), nil
}

// GetUserMetrics aggregates metrics across every campaign belonging to the
// user. Counts are summed and rates re-derived from the sums. A user with
// no campaigns yields the all-zero vector.
func (s *Service) GetUserMetrics(ctx context.Context, userID string) (Metrics, error) {
	campaigns, err := s.campaigns.ListByUser(ctx, userID)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to list campaigns for user %s: %w", userID, err)
	}

	var total Metrics
	for _, c := range campaigns {
		events, err := s.events.ListByCampaign(ctx, c.ID)
		if err != nil {
			return Metrics{}, fmt.Errorf("failed to list events for campaign %s: %w", c.ID, err)
		}
		total.Add(Calculate(events))
	}
	return total, nil
}

// DetermineABTestWinner compares two campaign variants and returns the
// verdict together with both metric vectors. The verdict carries the
// winning campaign's ID unless the comparison ties.
func (s *Service) DetermineABTestWinner(ctx context.Context, campaignAID, campaignBID string) (*ABVerdict, error) {
	metricsA, err := s.GetCampaignMetrics(ctx, campaignAID)
	if err != nil {
		return nil, err
	}
	metricsB, err := s.GetCampaignMetrics(ctx, campaignBID)
	if err != nil {
		return nil, err
	}

	verdict := &ABVerdict{
		VariantA: metricsA,
		VariantB: metricsB,
		Winner:   DetermineWinner(metricsA, metricsB),
	}
	switch verdict.Winner {
	case WinnerA:
		verdict.WinnerCampaignID = campaignAID
	case WinnerB:
		verdict.WinnerCampaignID = campaignBID
	}

	s.logger.Info("A/B test compared",
		zap.String("campaign_a", campaignAID),
		zap.String("campaign_b", campaignBID),
		zap.String("winner", string(verdict.Winner)),
	)
	return verdict, nil
}

// GetSegmentedMetrics partitions the campaign's events by tag and computes
// a metric vector per tag. Events carrying several tags count toward every
// matching segment.
func (s *Service) GetSegmentedMetrics(ctx context.Context, campaignID string) (map[string]Metrics, error) {
	events, err := s.campaignEvents(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return SegmentByTag(events), nil
}

// GetFilteredCampaignMetrics applies the optional tag, bounce-type and
// time-period filters conjunctively and computes metrics over the
// remaining events.
func (s *Service) GetFilteredCampaignMetrics(ctx context.Context, campaignID string, opts FilterOptions) (Metrics, error) {
	events, err := s.campaignEvents(ctx, campaignID)
	if err != nil {
		return Metrics{}, err
	}
	return Calculate(Filter(events, opts)), nil
}

// GetBounceAnalysis builds the bounce report for a campaign.
func (s *Service) GetBounceAnalysis(ctx context.Context, campaignID string) (*BounceReport, error) {
	events, err := s.campaignEvents(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	report := AnalyzeBounces(events)
	return &report, nil
}

// CalculateTimeMetrics computes time-to-event latencies and hourly
// engagement distributions. Unlike the other operations it needs at least
// one event record and fails with ErrNoEventData otherwise.
func (s *Service) CalculateTimeMetrics(ctx context.Context, campaignID string) (*TimeMetrics, error) {
	campaign, err := s.getCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for campaign %s: %w", campaignID, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, ErrNoEventData)
	}

	tm := ComputeTimeMetrics(events, campaign.SentAt)
	return &tm, nil
}

func (s *Service) getCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %s: %w", campaignID, err)
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, ErrCampaignNotFound)
	}
	return campaign, nil
}

func (s *Service) campaignEvents(ctx context.Context, campaignID string) ([]*models.EmailEvent, error) {
	if _, err := s.getCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for campaign %s: %w", campaignID, err)
	}
	return events, nil
}
