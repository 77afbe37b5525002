package analytics

import (
	"sort"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

const topBounceReasons = 5

// ReasonCount is one bounce reason with its occurrence count.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// BounceReport summarizes bounce behaviour for one campaign. Rates are
// computed against the campaign's full total_sent, not the bounce subset.
type BounceReport struct {
	TotalBounces   int           `json:"total_bounces"`
	SoftBounces    int           `json:"soft_bounces"`
	HardBounces    int           `json:"hard_bounces"`
	SoftBounceRate float64       `json:"soft_bounce_rate"`
	HardBounceRate float64       `json:"hard_bounce_rate"`
	TopReasons     []ReasonCount `json:"top_reasons"`
}

// AnalyzeBounces builds a bounce report from a campaign's full event log.
// Only bounce-status events are inspected; events with an empty bounce
// reason are excluded from the reason ranking but still counted as
// bounces. Equal counts keep first-encountered order.
func AnalyzeBounces(events []*models.EmailEvent) BounceReport {
	var report BounceReport

	counts := make(map[string]int)
	var order []string

	for _, ev := range events {
		if !ev.IsBounce() {
			continue
		}
		report.TotalBounces++
		switch ev.Status {
		case models.StatusSoftBounced:
			report.SoftBounces++
		case models.StatusHardBounced:
			report.HardBounces++
		}
		if ev.BounceReason == "" {
			continue
		}
		if _, seen := counts[ev.BounceReason]; !seen {
			order = append(order, ev.BounceReason)
		}
		counts[ev.BounceReason]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topBounceReasons {
		order = order[:topBounceReasons]
	}

	report.TopReasons = make([]ReasonCount, 0, len(order))
	for _, reason := range order {
		report.TopReasons = append(report.TopReasons, ReasonCount{Reason: reason, Count: counts[reason]})
	}

	totalSent := len(events)
	report.SoftBounceRate = Rate(report.SoftBounces, totalSent)
	report.HardBounceRate = Rate(report.HardBounces, totalSent)

	return report
}
