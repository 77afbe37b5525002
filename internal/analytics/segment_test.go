package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

func taggedEvent(id string, status models.EventStatus, tags ...string) *models.EmailEvent {
	return &models.EmailEvent{
		ID:         id,
		CampaignID: "c1",
		Recipient:  id + "@x.com",
		Status:     status,
		Tags:       tags,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSegmentByTagMultiTagCountsInEverySegment(t *testing.T) {
	events := []*models.EmailEvent{
		taggedEvent("e1", models.StatusDelivered, "vip", "newsletter"),
		taggedEvent("e2", models.StatusDelivered, "newsletter"),
		taggedEvent("e3", models.StatusOpened, "vip"),
		taggedEvent("e4", models.StatusDelivered),
	}

	segments := SegmentByTag(events)

	assert.Len(t, segments, 2)
	assert.Equal(t, 2, segments["vip"].TotalSent)
	assert.Equal(t, 2, segments["newsletter"].TotalSent)
	assert.Equal(t, 1, segments["vip"].UniqueOpens)
	assert.Equal(t, 0, segments["newsletter"].UniqueOpens)
}

func TestSegmentByTagUntaggedEventsIgnored(t *testing.T) {
	events := []*models.EmailEvent{
		taggedEvent("e1", models.StatusDelivered),
		taggedEvent("e2", models.StatusOpened),
	}

	assert.Empty(t, SegmentByTag(events))
}

func TestFilterByTag(t *testing.T) {
	events := []*models.EmailEvent{
		taggedEvent("e1", models.StatusDelivered, "vip"),
		taggedEvent("e2", models.StatusDelivered, "newsletter"),
	}

	filtered := Filter(events, FilterOptions{Tag: "vip"})

	assert.Len(t, filtered, 1)
	assert.Equal(t, "e1", filtered[0].ID)
}

func TestFilterByBounceType(t *testing.T) {
	events := []*models.EmailEvent{
		taggedEvent("e1", models.StatusSoftBounced),
		taggedEvent("e2", models.StatusHardBounced),
		taggedEvent("e3", models.StatusBounced),
		taggedEvent("e4", models.StatusDelivered),
	}

	soft := Filter(events, FilterOptions{BounceType: BounceTypeSoft})
	assert.Len(t, soft, 1)
	assert.Equal(t, models.StatusSoftBounced, soft[0].Status)

	// Any non-soft value selects hard bounces.
	hard := Filter(events, FilterOptions{BounceType: "permanent"})
	assert.Len(t, hard, 1)
	assert.Equal(t, models.StatusHardBounced, hard[0].Status)
}

func TestFilterByTimePeriod(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 1, hour, minute, 0, 0, time.UTC)
	}
	events := []*models.EmailEvent{
		{ID: "night", Status: models.StatusDelivered, OccurredAt: at(5, 59)},
		{ID: "morning", Status: models.StatusDelivered, OccurredAt: at(6, 0)},
		{ID: "noon", Status: models.StatusDelivered, OccurredAt: at(12, 0)},
		{ID: "evening", Status: models.StatusDelivered, OccurredAt: at(18, 0)},
		{ID: "late", Status: models.StatusDelivered, OccurredAt: at(23, 59)},
	}

	ids := func(evs []*models.EmailEvent) []string {
		out := make([]string, 0, len(evs))
		for _, ev := range evs {
			out = append(out, ev.ID)
		}
		return out
	}

	assert.Equal(t, []string{"night"}, ids(Filter(events, FilterOptions{TimePeriod: PeriodNight})))
	assert.Equal(t, []string{"morning"}, ids(Filter(events, FilterOptions{TimePeriod: PeriodMorning})))
	assert.Equal(t, []string{"noon"}, ids(Filter(events, FilterOptions{TimePeriod: PeriodAfternoon})), "12:00:00 exactly is afternoon")
	assert.Equal(t, []string{"evening", "late"}, ids(Filter(events, FilterOptions{TimePeriod: PeriodEvening})))

	// Unrecognized period names leave the time filter unapplied.
	assert.Len(t, Filter(events, FilterOptions{TimePeriod: "brunch"}), len(events))
}

func TestFilterConjunctive(t *testing.T) {
	morning := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	events := []*models.EmailEvent{
		{ID: "match", Status: models.StatusSoftBounced, Tags: []string{"vip"}, OccurredAt: morning},
		{ID: "wrong-time", Status: models.StatusSoftBounced, Tags: []string{"vip"}, OccurredAt: evening},
		{ID: "wrong-tag", Status: models.StatusSoftBounced, OccurredAt: morning},
		{ID: "wrong-status", Status: models.StatusDelivered, Tags: []string{"vip"}, OccurredAt: morning},
	}

	filtered := Filter(events, FilterOptions{
		Tag:        "vip",
		BounceType: BounceTypeSoft,
		TimePeriod: PeriodMorning,
	})

	assert.Len(t, filtered, 1)
	assert.Equal(t, "match", filtered[0].ID)
}

func TestFilterEmptyOptionsKeepsEverything(t *testing.T) {
	events := []*models.EmailEvent{
		taggedEvent("e1", models.StatusDelivered, "vip"),
		taggedEvent("e2", models.StatusHardBounced),
	}

	assert.Len(t, Filter(events, FilterOptions{}), 2)
}
