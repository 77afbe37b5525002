package analytics

// Add sums the count fields of other into m and recomputes the rates from
// the summed counts. Summing counts before deriving rates keeps large
// campaigns from being outweighed by small ones, which averaging
// per-campaign rates would do.
func (m *Metrics) Add(other Metrics) {
	m.TotalSent += other.TotalSent
	m.Delivered += other.Delivered
	m.Opens += other.Opens
	m.UniqueOpens += other.UniqueOpens
	m.Clicks += other.Clicks
	m.UniqueClicks += other.UniqueClicks
	m.Unsubscribes += other.Unsubscribes
	m.Bounces += other.Bounces
	m.SoftBounces += other.SoftBounces
	m.HardBounces += other.HardBounces
	m.Conversions += other.Conversions
	m.deriveRates()
}

// Aggregate sums a set of per-campaign metric vectors into one. Zero
// inputs yield the all-zero vector.
func Aggregate(vectors []Metrics) Metrics {
	var total Metrics
	for _, v := range vectors {
		total.Add(v)
	}
	total.deriveRates()
	return total
}
