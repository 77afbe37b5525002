package analytics

import (
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// Time-of-day windows for the time_period filter. Boundaries are half-open
// on the local clock hour: a record at exactly 12:00:00 is afternoon.
const (
	PeriodMorning   = "morning"   // [06:00, 12:00)
	PeriodAfternoon = "afternoon" // [12:00, 18:00)
	PeriodEvening   = "evening"   // [18:00, 24:00)
	PeriodNight     = "night"     // [00:00, 06:00)
)

// Bounce type filter values. "soft" selects soft_bounced; any other
// non-empty value selects hard_bounced.
const (
	BounceTypeSoft = "soft"
	BounceTypeHard = "hard"
)

// FilterOptions narrows an event collection before metric calculation.
// Every field is optional; set fields combine conjunctively. Unrecognized
// time_period values leave the time filter unapplied rather than failing.
type FilterOptions struct {
	Tag        string
	BounceType string
	TimePeriod string
}

// SegmentByTag partitions events by tag and computes a full metric vector
// per partition. An event tagged with several tags contributes to every
// matching segment independently, so segment totals may exceed the
// campaign total. Untagged events belong to no segment.
func SegmentByTag(events []*models.EmailEvent) map[string]Metrics {
	partitions := make(map[string][]*models.EmailEvent)
	for _, ev := range events {
		for _, tag := range ev.Tags {
			partitions[tag] = append(partitions[tag], ev)
		}
	}

	segmented := make(map[string]Metrics, len(partitions))
	for tag, part := range partitions {
		segmented[tag] = Calculate(part)
	}
	return segmented
}

// Filter returns the events matching every set filter, preserving input
// order.
func Filter(events []*models.EmailEvent, opts FilterOptions) []*models.EmailEvent {
	filtered := make([]*models.EmailEvent, 0, len(events))
	for _, ev := range events {
		if opts.Tag != "" && !ev.HasTag(opts.Tag) {
			continue
		}
		if opts.BounceType != "" && ev.Status != bounceStatusFor(opts.BounceType) {
			continue
		}
		if opts.TimePeriod != "" && !inPeriod(ev, opts.TimePeriod) {
			continue
		}
		filtered = append(filtered, ev)
	}
	return filtered
}

func bounceStatusFor(bounceType string) models.EventStatus {
	if bounceType == BounceTypeSoft {
		return models.StatusSoftBounced
	}
	return models.StatusHardBounced
}

// inPeriod classifies the event by the local clock hour of its own
// timestamp. Unknown period names match everything.
func inPeriod(ev *models.EmailEvent, period string) bool {
	hour := ev.OccurredAt.Hour()
	switch period {
	case PeriodMorning:
		return hour >= 6 && hour < 12
	case PeriodAfternoon:
		return hour >= 12 && hour < 18
	case PeriodEvening:
		return hour >= 18
	case PeriodNight:
		return hour < 6
	default:
		return true
	}
}
