package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

func bounceEvent(id string, status models.EventStatus, reason string) *models.EmailEvent {
	return &models.EmailEvent{
		ID:           id,
		CampaignID:   "c1",
		Recipient:    id + "@x.com",
		Status:       status,
		BounceReason: reason,
	}
}

func TestAnalyzeBouncesRanksReasons(t *testing.T) {
	events := []*models.EmailEvent{
		event("a@x.com", models.StatusDelivered),
		event("b@x.com", models.StatusDelivered),
		event("c@x.com", models.StatusDelivered),
		bounceEvent("b1", models.StatusSoftBounced, "mailbox full"),
		bounceEvent("b2", models.StatusSoftBounced, "mailbox full"),
		bounceEvent("b3", models.StatusSoftBounced, "mailbox full"),
		bounceEvent("b4", models.StatusHardBounced, "invalid address"),
		bounceEvent("b5", models.StatusHardBounced, "invalid address"),
		bounceEvent("b6", models.StatusHardBounced, "spam complaint"),
		bounceEvent("b7", models.StatusBounced, ""),
	}

	report := AnalyzeBounces(events)

	assert.Equal(t, 7, report.TotalBounces)
	assert.Equal(t, 3, report.SoftBounces)
	assert.Equal(t, 3, report.HardBounces)

	// Rates against the full event count (10), not the bounce subset.
	assert.InDelta(t, 30.0, report.SoftBounceRate, 0.001)
	assert.InDelta(t, 30.0, report.HardBounceRate, 0.001)

	// Empty reasons count as bounces but never rank.
	assert.Equal(t, []ReasonCount{
		{Reason: "mailbox full", Count: 3},
		{Reason: "invalid address", Count: 2},
		{Reason: "spam complaint", Count: 1},
	}, report.TopReasons)
}

func TestAnalyzeBouncesFewerReasonsThanCap(t *testing.T) {
	events := []*models.EmailEvent{
		bounceEvent("b1", models.StatusHardBounced, "mailbox full"),
		bounceEvent("b2", models.StatusHardBounced, "mailbox full"),
		bounceEvent("b3", models.StatusHardBounced, "mailbox full"),
		bounceEvent("b4", models.StatusHardBounced, "invalid address"),
		bounceEvent("b5", models.StatusHardBounced, "invalid address"),
		bounceEvent("b6", models.StatusHardBounced, "spam"),
		bounceEvent("b7", models.StatusHardBounced, "unknown"),
	}

	report := AnalyzeBounces(events)

	require.Len(t, report.TopReasons, 4)
	assert.Equal(t, ReasonCount{Reason: "mailbox full", Count: 3}, report.TopReasons[0])
	assert.Equal(t, ReasonCount{Reason: "invalid address", Count: 2}, report.TopReasons[1])
	// The 1-count tie keeps first-seen order.
	assert.Equal(t, ReasonCount{Reason: "spam", Count: 1}, report.TopReasons[2])
	assert.Equal(t, ReasonCount{Reason: "unknown", Count: 1}, report.TopReasons[3])
}

func TestAnalyzeBouncesCapsTopReasons(t *testing.T) {
	var events []*models.EmailEvent
	// Seven distinct reasons with descending counts 7..1.
	for i := 0; i < 7; i++ {
		reason := fmt.Sprintf("reason-%d", i)
		for j := 0; j <= 6-i; j++ {
			events = append(events, bounceEvent(fmt.Sprintf("b%d-%d", i, j), models.StatusHardBounced, reason))
		}
	}

	report := AnalyzeBounces(events)

	assert.Len(t, report.TopReasons, 5)
	assert.Equal(t, "reason-0", report.TopReasons[0].Reason)
	assert.Equal(t, 7, report.TopReasons[0].Count)
	assert.Equal(t, "reason-4", report.TopReasons[4].Reason)
}

func TestAnalyzeBouncesTiesKeepFirstSeenOrder(t *testing.T) {
	events := []*models.EmailEvent{
		bounceEvent("b1", models.StatusSoftBounced, "greylisted"),
		bounceEvent("b2", models.StatusSoftBounced, "mailbox full"),
		bounceEvent("b3", models.StatusSoftBounced, "greylisted"),
		bounceEvent("b4", models.StatusSoftBounced, "mailbox full"),
	}

	report := AnalyzeBounces(events)

	assert.Equal(t, []ReasonCount{
		{Reason: "greylisted", Count: 2},
		{Reason: "mailbox full", Count: 2},
	}, report.TopReasons)
}

func TestAnalyzeBouncesNoBounces(t *testing.T) {
	events := []*models.EmailEvent{
		event("a@x.com", models.StatusDelivered),
		event("a@x.com", models.StatusOpened),
	}

	report := AnalyzeBounces(events)

	assert.Zero(t, report.TotalBounces)
	assert.Empty(t, report.TopReasons)
	assert.Zero(t, report.SoftBounceRate)
	assert.Zero(t, report.HardBounceRate)
}
