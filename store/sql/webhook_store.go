package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-announce/core"
)

// OutgoingWebhookStore is the bun-backed webhook registry. Writes validate
// per-format required extra fields and enforce the one-webhook-per-scope
// invariant; reads power both admin listings and the announcement hot path.
type OutgoingWebhookStore struct {
	db   *bun.DB
	repo repository.Repository[*outgoingWebhookRecord]
}

func NewOutgoingWebhookStore(db *bun.DB) (*OutgoingWebhookStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*outgoingWebhookRecord](db, outgoingWebhookHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid outgoing webhook repository wiring: %w", err)
		}
	}
	return &OutgoingWebhookStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *OutgoingWebhookStore) GetEnabledOutgoingWebhooks(
	ctx context.Context,
	format core.WebhookFormat,
) ([]core.OutgoingWebhook, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: outgoing webhook store is not configured")
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	var records []*outgoingWebhookRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.format = ?", string(format)).
		Where("?TableAlias.enabled = ?", true).
		Order("scope ASC", "scope_id ASC", "url ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return webhooksToDomain(records), nil
}

func (s *OutgoingWebhookStore) GetWebhook(ctx context.Context, id string) (core.OutgoingWebhook, error) {
	if s == nil || s.db == nil {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: outgoing webhook store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: webhook id is required")
	}

	record := &outgoingWebhookRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.OutgoingWebhook{}, fmt.Errorf("%w: %q", core.ErrWebhookNotFound, id)
		}
		return core.OutgoingWebhook{}, err
	}
	return webhookToDomain(record), nil
}

func (s *OutgoingWebhookStore) ListWebhooks(ctx context.Context) ([]core.OutgoingWebhook, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: outgoing webhook store is not configured")
	}
	var records []*outgoingWebhookRecord
	err := s.db.NewSelect().
		Model(&records).
		Order("scope ASC", "scope_id ASC", "url ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return webhooksToDomain(records), nil
}

func (s *OutgoingWebhookStore) CreateWebhook(
	ctx context.Context,
	in core.CreateWebhookInput,
) (core.OutgoingWebhook, error) {
	if s == nil || s.db == nil {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: outgoing webhook store is not configured")
	}
	scope := strings.TrimSpace(in.Scope)
	url := strings.TrimSpace(in.URL)
	if scope == "" {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: webhook scope is required")
	}
	if err := in.Format.Validate(); err != nil {
		return core.OutgoingWebhook{}, err
	}
	if url == "" {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: webhook url is required")
	}
	if err := validateExtraFields(in.Format, in.ExtraFields); err != nil {
		return core.OutgoingWebhook{}, err
	}

	now := time.Now().UTC()
	record := &outgoingWebhookRecord{
		ID:          uuid.NewString(),
		Scope:       scope,
		ScopeID:     strings.TrimSpace(in.ScopeID),
		Format:      string(in.Format),
		TextPrefix:  in.TextPrefix,
		ExtraFields: copyExtraFields(in.ExtraFields),
		URL:         url,
		Enabled:     in.Enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return core.OutgoingWebhook{}, fmt.Errorf(
				"%w: scope %q scope_id %q", core.ErrWebhookScopeTaken, record.Scope, record.ScopeID,
			)
		}
		return core.OutgoingWebhook{}, err
	}
	return webhookToDomain(record), nil
}

// UpdateWebhook applies the set pointer fields. Scope, scope id, and format
// are immutable after creation; reconfiguring those means a new webhook.
func (s *OutgoingWebhookStore) UpdateWebhook(
	ctx context.Context,
	in core.UpdateWebhookInput,
) (core.OutgoingWebhook, error) {
	if s == nil || s.db == nil {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: outgoing webhook store is not configured")
	}
	current, err := s.GetWebhook(ctx, in.ID)
	if err != nil {
		return core.OutgoingWebhook{}, err
	}

	if in.TextPrefix != nil {
		current.TextPrefix = *in.TextPrefix
	}
	if in.ExtraFields != nil {
		if err := validateExtraFields(current.Format, in.ExtraFields); err != nil {
			return core.OutgoingWebhook{}, err
		}
		current.ExtraFields = copyExtraFields(in.ExtraFields)
	}
	if in.URL != nil {
		url := strings.TrimSpace(*in.URL)
		if url == "" {
			return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: webhook url is required")
		}
		current.URL = url
	}
	if in.Enabled != nil {
		current.Enabled = *in.Enabled
	}

	now := time.Now().UTC()
	_, err = s.db.NewUpdate().
		Model((*outgoingWebhookRecord)(nil)).
		Set("text_prefix = ?", current.TextPrefix).
		Set("extra_fields = ?", current.ExtraFields).
		Set("url = ?", current.URL).
		Set("enabled = ?", current.Enabled).
		Set("updated_at = ?", now).
		Where("id = ?", current.ID).
		Exec(ctx)
	if err != nil {
		return core.OutgoingWebhook{}, err
	}
	current.UpdatedAt = now
	return current, nil
}

func (s *OutgoingWebhookStore) DeleteWebhook(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: outgoing webhook store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("sqlstore: webhook id is required")
	}
	result, err := s.db.NewDelete().
		Model((*outgoingWebhookRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", core.ErrWebhookNotFound, id)
	}
	return nil
}

// validateExtraFields enforces per-format required extra fields at write
// time, so dispatch never discovers a misconfigured webhook.
func validateExtraFields(format core.WebhookFormat, fields map[string]any) error {
	switch format {
	case core.WebhookFormatWeitersager:
		channel, _ := fields[core.ExtraFieldChannel].(string)
		if strings.TrimSpace(channel) == "" {
			return fmt.Errorf(
				"sqlstore: webhook format %q requires a non-empty %q extra field",
				string(format), core.ExtraFieldChannel,
			)
		}
	}
	return nil
}

func webhookToDomain(record *outgoingWebhookRecord) core.OutgoingWebhook {
	if record == nil {
		return core.OutgoingWebhook{}
	}
	return core.OutgoingWebhook{
		ID:          record.ID,
		Scope:       record.Scope,
		ScopeID:     record.ScopeID,
		Format:      core.WebhookFormat(record.Format),
		TextPrefix:  record.TextPrefix,
		ExtraFields: copyExtraFields(record.ExtraFields),
		URL:         record.URL,
		Enabled:     record.Enabled,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func webhooksToDomain(records []*outgoingWebhookRecord) []core.OutgoingWebhook {
	if len(records) == 0 {
		return nil
	}
	out := make([]core.OutgoingWebhook, 0, len(records))
	for _, record := range records {
		out = append(out, webhookToDomain(record))
	}
	return out
}

func copyExtraFields(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}
