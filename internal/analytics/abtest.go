package analytics

// Winner identifies the outcome of an A/B comparison.
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "Tie"
)

// ABVerdict is the immutable result of comparing two campaign variants.
type ABVerdict struct {
	VariantA Metrics `json:"variant_a_metrics"`
	VariantB Metrics `json:"variant_b_metrics"`
	Winner   Winner  `json:"winner"`

	// WinnerCampaignID is set by the service layer when the verdict is not
	// a tie.
	WinnerCampaignID string `json:"winner_campaign_id,omitempty"`
}

// DetermineWinner picks a winner between two metric vectors using a
// deterministic priority cascade:
//
//  1. When neither variant's click rate truncates to a non-zero integer,
//     there is no meaningful click activity and the higher open rate wins
//     outright (equal open rates tie).
//  2. Otherwise click rate and conversion rate are compared in order, one
//     point per strictly greater value; more points wins, equal points tie.
//
// Click and conversion activity always outrank open rate once any click
// activity exists: this is a priority policy, not a weighted score.
func DetermineWinner(a, b Metrics) Winner {
	if int(a.ClickRate) == 0 && int(b.ClickRate) == 0 {
		switch {
		case a.OpenRate > b.OpenRate:
			return WinnerA
		case b.OpenRate > a.OpenRate:
			return WinnerB
		default:
			return WinnerTie
		}
	}

	comparisons := [][2]float64{
		{a.ClickRate, b.ClickRate},
		{a.ConversionRate, b.ConversionRate},
	}

	var scoreA, scoreB int
	for _, pair := range comparisons {
		switch {
		case pair[0] > pair[1]:
			scoreA++
		case pair[1] > pair[0]:
			scoreB++
		}
	}

	switch {
	case scoreA > scoreB:
		return WinnerA
	case scoreB > scoreA:
		return WinnerB
	default:
		return WinnerTie
	}
}
