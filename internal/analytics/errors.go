package analytics

import "errors"

var (
	// ErrCampaignNotFound reports that a referenced campaign does not
	// exist in the store.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrNoEventData reports that a campaign has no event records where
	// the requested analysis needs at least one. Distinct from metrics
	// that exist but are all zero, which is a valid result.
	ErrNoEventData = errors.New("campaign has no event data")
)
