package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-announce/core"
)

const (
	TypeGetWebhook          = "announce.query.webhook.get"
	TypeListWebhooks        = "announce.query.webhook.list"
	TypeListEnabledWebhooks = "announce.query.webhook.list_enabled"
	TypeListDeliveries      = "announce.query.deliveries.list"
)

type GetWebhookMessage struct {
	WebhookID string
}

func (GetWebhookMessage) Type() string { return TypeGetWebhook }

func (m GetWebhookMessage) Validate() error {
	if strings.TrimSpace(m.WebhookID) == "" {
		return fmt.Errorf("query: webhook id is required")
	}
	return nil
}

type ListWebhooksMessage struct{}

func (ListWebhooksMessage) Type() string { return TypeListWebhooks }

func (ListWebhooksMessage) Validate() error { return nil }

type ListEnabledWebhooksMessage struct {
	Format core.WebhookFormat
}

func (ListEnabledWebhooksMessage) Type() string { return TypeListEnabledWebhooks }

func (m ListEnabledWebhooksMessage) Validate() error {
	if err := m.Format.Validate(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

type ListDeliveriesMessage struct {
	WebhookID string
	Limit     int
}

func (ListDeliveriesMessage) Type() string { return TypeListDeliveries }

func (m ListDeliveriesMessage) Validate() error {
	if strings.TrimSpace(m.WebhookID) == "" {
		return fmt.Errorf("query: webhook id is required")
	}
	if m.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	return nil
}
