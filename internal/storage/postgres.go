package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// PostgresCampaignRepo implements CampaignRepo using PostgreSQL.
type PostgresCampaignRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCampaignRepo(pool *pgxpool.Pool) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{pool: pool}
}

const campaignColumns = `id, user_id, name, subject, content, type, status, variant, scheduled_at, sent_at, created_at, updated_at`

func (r *PostgresCampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns WHERE id = $1
	`, id)

	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresCampaignRepo) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *PostgresCampaignRepo) ListByUser(ctx context.Context, userID string) ([]*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`
		FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns for user: %w", err)
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *PostgresCampaignRepo) Upsert(ctx context.Context, c *models.Campaign) error {
	if c == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			subject = EXCLUDED.subject,
			content = EXCLUDED.content,
			type = EXCLUDED.type,
			status = EXCLUDED.status,
			variant = EXCLUDED.variant,
			scheduled_at = EXCLUDED.scheduled_at,
			sent_at = EXCLUDED.sent_at,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.UserID, c.Name, c.Subject, c.Content, string(c.Type), string(c.Status),
		nullString(c.Variant), c.ScheduledAt, c.SentAt, c.CreatedAt, c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert campaign: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	var variant *string
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Subject, &c.Content, &c.Type, &c.Status,
		&variant, &c.ScheduledAt, &c.SentAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if variant != nil {
		c.Variant = *variant
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// PostgresEventLog implements EventLog using PostgreSQL.
type PostgresEventLog struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLog(pool *pgxpool.Pool) *PostgresEventLog {
	return &PostgresEventLog{pool: pool}
}

func (s *PostgresEventLog) Save(ctx context.Context, ev *models.EmailEvent) error {
	if ev == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO email_events (id, campaign_id, recipient, status, bounce_reason, tags, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, ev.ID, ev.CampaignID, ev.Recipient, string(ev.Status), nullString(ev.BounceReason), ev.Tags, ev.OccurredAt)

	if err != nil {
		return fmt.Errorf("failed to save email event: %w", err)
	}
	return nil
}

// ListByCampaign returns the campaign's events in ascending occurrence
// order, matching the ordering guarantee of the EventLog interface.
func (s *PostgresEventLog) ListByCampaign(ctx context.Context, campaignID string) ([]*models.EmailEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, campaign_id, recipient, status, bounce_reason, tags, occurred_at
		FROM email_events WHERE campaign_id = $1 ORDER BY occurred_at ASC, id ASC
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email events: %w", err)
	}
	defer rows.Close()

	var events []*models.EmailEvent
	for rows.Next() {
		var ev models.EmailEvent
		var reason *string

		if err := rows.Scan(&ev.ID, &ev.CampaignID, &ev.Recipient, &ev.Status, &reason, &ev.Tags, &ev.OccurredAt); err != nil {
			return nil, err
		}
		if reason != nil {
			ev.BounceReason = *reason
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
