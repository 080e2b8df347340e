package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type outgoingWebhookRecord struct {
	bun.BaseModel `bun:"table:outgoing_webhooks,alias:ow"`

	ID          string         `bun:"id,pk"`
	Scope       string         `bun:"scope,notnull,unique:ux_outgoing_webhooks_scope"`
	ScopeID     string         `bun:"scope_id,notnull,unique:ux_outgoing_webhooks_scope"`
	Format      string         `bun:"format,notnull"`
	TextPrefix  string         `bun:"text_prefix"`
	ExtraFields map[string]any `bun:"extra_fields,type:jsonb,notnull"`
	URL         string         `bun:"url,notnull"`
	Enabled     bool           `bun:"enabled,notnull"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type announcementDeliveryRecord struct {
	bun.BaseModel `bun:"table:announcement_deliveries,alias:ad"`

	ID          string    `bun:"id,pk"`
	WebhookID   string    `bun:"webhook_id,notnull"`
	EventKind   string    `bun:"event_kind,notnull"`
	URL         string    `bun:"url,notnull"`
	Text        string    `bun:"text,notnull"`
	Status      string    `bun:"status,notnull"`
	Error       string    `bun:"error"`
	AttemptedAt time.Time `bun:"attempted_at,nullzero,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
