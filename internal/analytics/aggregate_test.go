package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample(delivered, uniqueOpens, uniqueClicks int) Metrics {
	m := Metrics{
		TotalSent:    delivered,
		Delivered:    delivered,
		Opens:        uniqueOpens,
		UniqueOpens:  uniqueOpens,
		Clicks:       uniqueClicks,
		UniqueClicks: uniqueClicks,
	}
	m.deriveRates()
	return m
}

func TestAddSumsCountsAndRederivesRates(t *testing.T) {
	// 100 delivered / 50 opens -> 50% and 10 delivered / 1 open -> 10%.
	big := sample(100, 50, 0)
	small := sample(10, 1, 0)

	total := big
	total.Add(small)

	assert.Equal(t, 110, total.Delivered)
	assert.Equal(t, 51, total.UniqueOpens)

	// Rates come from the summed counts (51/110), not from averaging the
	// per-campaign rates (which would give 30%).
	assert.InDelta(t, 46.36, total.OpenRate, 0.001)
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := sample(40, 10, 2)
	b := sample(60, 30, 9)
	c := sample(5, 5, 1)

	forward := Aggregate([]Metrics{a, b, c})
	reverse := Aggregate([]Metrics{c, b, a})

	assert.Equal(t, forward, reverse)
}

func TestAggregateNestedMatchesFlat(t *testing.T) {
	a := sample(40, 10, 2)
	b := sample(60, 30, 9)
	c := sample(5, 5, 1)

	flat := Aggregate([]Metrics{a, b, c})
	nested := Aggregate([]Metrics{Aggregate([]Metrics{a, b}), c})

	assert.Equal(t, flat, nested)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Metrics{}, Aggregate(nil))
}
