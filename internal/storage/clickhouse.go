package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// ClickHouseEventLog implements EventLog on ClickHouse for high-volume
// event ingestion. Campaign metadata stays in PostgreSQL; only the email
// event stream lives here.
type ClickHouseEventLog struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewClickHouseEventLog creates a ClickHouse-backed event log.
func NewClickHouseEventLog(conn driver.Conn, logger *zap.Logger) *ClickHouseEventLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickHouseEventLog{conn: conn, logger: logger}
}

// InitSchema creates the email_events table if it does not exist.
// ReplacingMergeTree deduplicates replayed webhook deliveries by event ID.
func (s *ClickHouseEventLog) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS email_events (
		id String,
		campaign_id String,
		recipient String,
		status LowCardinality(String),
		bounce_reason String,
		tags Array(String),
		occurred_at DateTime64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (campaign_id, id)
	ORDER BY (campaign_id, id, occurred_at)
	PARTITION BY toYYYYMM(occurred_at)
	`

	if err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create email_events table: %w", err)
	}
	s.logger.Info("ClickHouse schema initialized")
	return nil
}

func (s *ClickHouseEventLog) Save(ctx context.Context, ev *models.EmailEvent) error {
	if ev == nil {
		return nil
	}
	return s.SaveBatch(ctx, []*models.EmailEvent{ev})
}

// SaveBatch inserts a batch of events in one round trip.
func (s *ClickHouseEventLog) SaveBatch(ctx context.Context, events []*models.EmailEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO email_events")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	version := uint64(time.Now().UnixNano())
	for _, ev := range events {
		tags := ev.Tags
		if tags == nil {
			tags = []string{}
		}
		if err := batch.Append(
			ev.ID,
			ev.CampaignID,
			ev.Recipient,
			string(ev.Status),
			ev.BounceReason,
			tags,
			ev.OccurredAt,
			version,
		); err != nil {
			return fmt.Errorf("failed to append event to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// ListByCampaign returns the campaign's events in ascending occurrence
// order. FINAL collapses replaced rows from webhook replays.
func (s *ClickHouseEventLog) ListByCampaign(ctx context.Context, campaignID string) ([]*models.EmailEvent, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, campaign_id, recipient, status, bounce_reason, tags, occurred_at
		FROM email_events FINAL
		WHERE campaign_id = ?
		ORDER BY occurred_at ASC, id ASC
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close event rows", zap.Error(err))
		}
	}()

	var events []*models.EmailEvent
	for rows.Next() {
		var ev models.EmailEvent
		var status string
		var tags []string

		if err := rows.Scan(&ev.ID, &ev.CampaignID, &ev.Recipient, &status, &ev.BounceReason, &tags, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ev.Status = models.EventStatus(status)
		if len(tags) > 0 {
			ev.Tags = tags
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}
