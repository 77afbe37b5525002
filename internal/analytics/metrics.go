package analytics

import (
	"math"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// Metrics is the fixed set of counts and derived rates summarizing the
// performance of one campaign or an aggregate of campaigns. Rates are
// percentages rounded to two decimals and are always recomputed from the
// counts, never stored independently.
type Metrics struct {
	TotalSent    int `json:"total_sent"`
	Delivered    int `json:"delivered"`
	Opens        int `json:"opens"`
	UniqueOpens  int `json:"unique_opens"`
	Clicks       int `json:"clicks"`
	UniqueClicks int `json:"unique_clicks"`
	Unsubscribes int `json:"unsubscribes"`
	Bounces      int `json:"bounces"`
	SoftBounces  int `json:"soft_bounces"`
	HardBounces  int `json:"hard_bounces"`
	Conversions  int `json:"conversions"`

	OpenRate        float64 `json:"open_rate"`
	ClickRate       float64 `json:"click_rate"`
	BounceRate      float64 `json:"bounce_rate"`
	SoftBounceRate  float64 `json:"soft_bounce_rate"`
	HardBounceRate  float64 `json:"hard_bounce_rate"`
	UnsubscribeRate float64 `json:"unsubscribe_rate"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// Calculate reduces a collection of email events into a metric vector.
// TotalSent counts every record regardless of status; unique opens and
// clicks count distinct recipients. An empty input yields all zeros.
// Pure function, no side effects.
func Calculate(events []*models.EmailEvent) Metrics {
	var m Metrics
	m.TotalSent = len(events)

	openedBy := make(map[string]struct{})
	clickedBy := make(map[string]struct{})

	for _, ev := range events {
		switch ev.Status {
		case models.StatusDelivered:
			m.Delivered++
		case models.StatusOpened:
			m.Opens++
			openedBy[ev.Recipient] = struct{}{}
		case models.StatusClicked:
			m.Clicks++
			clickedBy[ev.Recipient] = struct{}{}
		case models.StatusUnsubscribed:
			m.Unsubscribes++
		case models.StatusBounced:
			m.Bounces++
		case models.StatusSoftBounced:
			m.SoftBounces++
		case models.StatusHardBounced:
			m.HardBounces++
		case models.StatusConverted:
			m.Conversions++
		}
	}

	m.UniqueOpens = len(openedBy)
	m.UniqueClicks = len(clickedBy)
	m.deriveRates()
	return m
}

// deriveRates recomputes every rate field from the current counts. Any
// rate with a zero denominator is 0, never NaN.
func (m *Metrics) deriveRates() {
	m.OpenRate = Rate(m.UniqueOpens, m.Delivered)
	m.ClickRate = Rate(m.UniqueClicks, m.Delivered)
	m.BounceRate = Rate(m.Bounces, m.TotalSent)
	m.SoftBounceRate = Rate(m.SoftBounces, m.TotalSent)
	m.HardBounceRate = Rate(m.HardBounces, m.TotalSent)
	m.UnsubscribeRate = Rate(m.Unsubscribes, m.Delivered)
	m.ConversionRate = Rate(m.Conversions, m.UniqueClicks)
}

// Rate returns part/total as a percentage rounded to two decimals, or 0
// when total is zero.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
