package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-announce/core"
)

// AnnouncementDeliveryStore journals dispatch attempts for auditing. It is
// append-mostly; PruneBefore keeps the table from growing without bound.
type AnnouncementDeliveryStore struct {
	db   *bun.DB
	repo repository.Repository[*announcementDeliveryRecord]
}

func NewAnnouncementDeliveryStore(db *bun.DB) (*AnnouncementDeliveryStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*announcementDeliveryRecord](db, announcementDeliveryHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid announcement delivery repository wiring: %w", err)
		}
	}
	return &AnnouncementDeliveryStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *AnnouncementDeliveryStore) Record(ctx context.Context, entry core.DeliveryEntry) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: announcement delivery store is not configured")
	}
	if strings.TrimSpace(entry.WebhookID) == "" {
		return fmt.Errorf("sqlstore: delivery entry webhook id is required")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	attemptedAt := entry.AttemptedAt
	if attemptedAt.IsZero() {
		attemptedAt = time.Now().UTC()
	}

	record := &announcementDeliveryRecord{
		ID:          id,
		WebhookID:   entry.WebhookID,
		EventKind:   string(entry.EventKind),
		URL:         entry.URL,
		Text:        entry.Text,
		Status:      entry.Status,
		Error:       entry.Error,
		AttemptedAt: attemptedAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.NewInsert().Model(record).Exec(ctx)
	return err
}

func (s *AnnouncementDeliveryStore) ListByWebhook(
	ctx context.Context,
	webhookID string,
	limit int,
) ([]core.DeliveryEntry, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: announcement delivery store is not configured")
	}
	webhookID = strings.TrimSpace(webhookID)
	if webhookID == "" {
		return nil, fmt.Errorf("sqlstore: webhook id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	var records []*announcementDeliveryRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.webhook_id = ?", webhookID).
		Order("attempted_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]core.DeliveryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, deliveryToDomain(record))
	}
	return entries, nil
}

func (s *AnnouncementDeliveryStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: announcement delivery store is not configured")
	}
	result, err := s.db.NewDelete().
		Model((*announcementDeliveryRecord)(nil)).
		Where("attempted_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func deliveryToDomain(record *announcementDeliveryRecord) core.DeliveryEntry {
	if record == nil {
		return core.DeliveryEntry{}
	}
	return core.DeliveryEntry{
		ID:          record.ID,
		WebhookID:   record.WebhookID,
		EventKind:   core.EventKind(record.EventKind),
		URL:         record.URL,
		Text:        record.Text,
		Status:      record.Status,
		Error:       record.Error,
		AttemptedAt: record.AttemptedAt,
	}
}
