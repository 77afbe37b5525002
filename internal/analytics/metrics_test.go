package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

func event(recipient string, status models.EventStatus) *models.EmailEvent {
	return &models.EmailEvent{
		ID:         recipient + "-" + string(status),
		CampaignID: "c1",
		Recipient:  recipient,
		Status:     status,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestCalculateEmpty(t *testing.T) {
	m := Calculate(nil)
	assert.Equal(t, Metrics{}, m)
}

func TestCalculateCountsEveryStatus(t *testing.T) {
	events := []*models.EmailEvent{
		event("a@x.com", models.StatusDelivered),
		event("b@x.com", models.StatusDelivered),
		event("a@x.com", models.StatusOpened),
		event("a@x.com", models.StatusClicked),
		event("b@x.com", models.StatusUnsubscribed),
		event("c@x.com", models.StatusBounced),
		event("d@x.com", models.StatusSoftBounced),
		event("e@x.com", models.StatusHardBounced),
		event("a@x.com", models.StatusConverted),
	}

	m := Calculate(events)

	assert.Equal(t, 9, m.TotalSent, "total counts every record, not just delivered")
	assert.Equal(t, 2, m.Delivered)
	assert.Equal(t, 1, m.Opens)
	assert.Equal(t, 1, m.UniqueOpens)
	assert.Equal(t, 1, m.Clicks)
	assert.Equal(t, 1, m.UniqueClicks)
	assert.Equal(t, 1, m.Unsubscribes)
	assert.Equal(t, 1, m.Bounces)
	assert.Equal(t, 1, m.SoftBounces)
	assert.Equal(t, 1, m.HardBounces)
	assert.Equal(t, 1, m.Conversions)

	assert.InDelta(t, 50.0, m.OpenRate, 0.001)
	assert.InDelta(t, 50.0, m.ClickRate, 0.001)
	assert.InDelta(t, 11.11, m.BounceRate, 0.001)
	assert.InDelta(t, 11.11, m.SoftBounceRate, 0.001)
	assert.InDelta(t, 11.11, m.HardBounceRate, 0.001)
	assert.InDelta(t, 50.0, m.UnsubscribeRate, 0.001)
	assert.InDelta(t, 100.0, m.ConversionRate, 0.001)
}

func TestCalculateDeduplicatesOpensAndClicks(t *testing.T) {
	events := []*models.EmailEvent{
		event("a@x.com", models.StatusDelivered),
		event("a@x.com", models.StatusOpened),
		{ID: "o2", CampaignID: "c1", Recipient: "a@x.com", Status: models.StatusOpened},
		event("a@x.com", models.StatusClicked),
		{ID: "k2", CampaignID: "c1", Recipient: "a@x.com", Status: models.StatusClicked},
		{ID: "k3", CampaignID: "c1", Recipient: "b@x.com", Status: models.StatusClicked},
	}

	m := Calculate(events)

	assert.Equal(t, 2, m.Opens)
	assert.Equal(t, 1, m.UniqueOpens)
	assert.Equal(t, 3, m.Clicks)
	assert.Equal(t, 2, m.UniqueClicks)
}

func TestCalculateUnknownStatusCountsTowardTotal(t *testing.T) {
	events := []*models.EmailEvent{
		event("a@x.com", models.StatusDelivered),
		{ID: "x", CampaignID: "c1", Recipient: "b@x.com", Status: "deferred"},
	}

	m := Calculate(events)

	assert.Equal(t, 2, m.TotalSent)
	assert.Equal(t, 1, m.Delivered)
}

func TestRate(t *testing.T) {
	tests := []struct {
		name  string
		part  int
		total int
		want  float64
	}{
		{"zero total", 5, 0, 0},
		{"zero part", 0, 10, 0},
		{"rounds down", 1, 3, 33.33},
		{"rounds up", 2, 3, 66.67},
		{"exact", 1, 4, 25},
		{"full", 7, 7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Rate(tt.part, tt.total), 0.0001)
		})
	}
}

func TestRatesStayWithinPercentBounds(t *testing.T) {
	events := []*models.EmailEvent{
		event("a@x.com", models.StatusOpened),
		event("b@x.com", models.StatusClicked),
	}

	// No delivered events at all: every delivered-based rate must be 0,
	// never NaN or negative.
	m := Calculate(events)

	for name, rate := range map[string]float64{
		"open":        m.OpenRate,
		"click":       m.ClickRate,
		"bounce":      m.BounceRate,
		"soft_bounce": m.SoftBounceRate,
		"hard_bounce": m.HardBounceRate,
		"unsubscribe": m.UnsubscribeRate,
		"conversion":  m.ConversionRate,
	} {
		assert.GreaterOrEqual(t, rate, 0.0, name)
		assert.LessOrEqual(t, rate, 100.0, name)
	}
	assert.Zero(t, m.OpenRate)
	assert.Zero(t, m.ClickRate)
}
