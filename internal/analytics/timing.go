package analytics

import (
	"time"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// TimeMetrics holds latency and time-of-day engagement metrics for one
// campaign.
type TimeMetrics struct {
	// Average minutes from the send baseline to each open/click event.
	// Zero when no qualifying events exist.
	AvgTimeToOpen  float64 `json:"avg_time_to_open"`
	AvgTimeToClick float64 `json:"avg_time_to_click"`

	// Event counts bucketed by the hour of day (0-23) of the event's own
	// timestamp.
	HourlyOpens  map[int]int `json:"hourly_opens"`
	HourlyClicks map[int]int `json:"hourly_clicks"`
}

// ComputeTimeMetrics derives time metrics from a campaign's event log.
// sentAt is the campaign's recorded send time; when nil the earliest event
// timestamp serves as a proxy for the send baseline. The caller guards
// against an empty event log.
func ComputeTimeMetrics(events []*models.EmailEvent, sentAt *time.Time) TimeMetrics {
	tm := TimeMetrics{
		HourlyOpens:  make(map[int]int),
		HourlyClicks: make(map[int]int),
	}
	if len(events) == 0 {
		return tm
	}

	baseline := sendBaseline(events, sentAt)

	for _, ev := range events {
		switch ev.Status {
		case models.StatusOpened:
			tm.HourlyOpens[ev.OccurredAt.Hour()]++
		case models.StatusClicked:
			tm.HourlyClicks[ev.OccurredAt.Hour()]++
		}
	}

	tm.AvgTimeToOpen = avgMinutesToEvent(events, models.StatusOpened, baseline)
	tm.AvgTimeToClick = avgMinutesToEvent(events, models.StatusClicked, baseline)
	return tm
}

// sendBaseline picks the send-time baseline: the explicit sentAt when
// recorded, otherwise the earliest event timestamp.
func sendBaseline(events []*models.EmailEvent, sentAt *time.Time) time.Time {
	if sentAt != nil && !sentAt.IsZero() {
		return *sentAt
	}
	earliest := events[0].OccurredAt
	for _, ev := range events[1:] {
		if ev.OccurredAt.Before(earliest) {
			earliest = ev.OccurredAt
		}
	}
	return earliest
}

// avgMinutesToEvent averages the absolute elapsed seconds from baseline to
// every event with the given status, converted to minutes. No qualifying
// events yields 0.
func avgMinutesToEvent(events []*models.EmailEvent, status models.EventStatus, baseline time.Time) float64 {
	var totalSeconds float64
	var count int
	for _, ev := range events {
		if ev.Status != status {
			continue
		}
		elapsed := ev.OccurredAt.Sub(baseline).Seconds()
		if elapsed < 0 {
			elapsed = -elapsed
		}
		totalSeconds += elapsed
		count++
	}
	if count == 0 {
		return 0
	}
	return totalSeconds / float64(count) / 60
}
