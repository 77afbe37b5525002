package storage

import (
	"context"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// CampaignRepo defines operations for campaign storage. GetByID returns
// nil without error when the campaign does not exist; callers decide
// whether that is an error.
type CampaignRepo interface {
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	ListAll(ctx context.Context) ([]*models.Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Campaign, error)
	Upsert(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id string) error
}

// EventLog defines the query capability the analytics engine depends on,
// plus the write path used by webhook ingestion. ListByCampaign returns
// events in ascending occurrence order so reason rankings and send-time
// proxies stay deterministic.
type EventLog interface {
	Save(ctx context.Context, ev *models.EmailEvent) error
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.EmailEvent, error)
}
