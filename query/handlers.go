package query

import (
	"context"

	"github.com/goliatone/go-announce/core"
)

// WebhookRegistryReader is the full read surface over the webhook registry.
type WebhookRegistryReader interface {
	GetWebhook(ctx context.Context, id string) (core.OutgoingWebhook, error)
	ListWebhooks(ctx context.Context) ([]core.OutgoingWebhook, error)
	GetEnabledOutgoingWebhooks(ctx context.Context, format core.WebhookFormat) ([]core.OutgoingWebhook, error)
}

// DeliveryHistoryReader lists journaled dispatch attempts.
type DeliveryHistoryReader interface {
	ListByWebhook(ctx context.Context, webhookID string, limit int) ([]core.DeliveryEntry, error)
}

type GetWebhookQuery struct {
	reader WebhookRegistryReader
}

func NewGetWebhookQuery(reader WebhookRegistryReader) *GetWebhookQuery {
	return &GetWebhookQuery{reader: reader}
}

func (q *GetWebhookQuery) Query(ctx context.Context, msg GetWebhookMessage) (core.OutgoingWebhook, error) {
	if q == nil || q.reader == nil {
		return core.OutgoingWebhook{}, queryDependencyError("query: webhook reader is required")
	}
	return q.reader.GetWebhook(ctx, msg.WebhookID)
}

type ListWebhooksQuery struct {
	reader WebhookRegistryReader
}

func NewListWebhooksQuery(reader WebhookRegistryReader) *ListWebhooksQuery {
	return &ListWebhooksQuery{reader: reader}
}

func (q *ListWebhooksQuery) Query(ctx context.Context, _ ListWebhooksMessage) ([]core.OutgoingWebhook, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: webhook reader is required")
	}
	return q.reader.ListWebhooks(ctx)
}

type ListEnabledWebhooksQuery struct {
	reader WebhookRegistryReader
}

func NewListEnabledWebhooksQuery(reader WebhookRegistryReader) *ListEnabledWebhooksQuery {
	return &ListEnabledWebhooksQuery{reader: reader}
}

func (q *ListEnabledWebhooksQuery) Query(
	ctx context.Context,
	msg ListEnabledWebhooksMessage,
) ([]core.OutgoingWebhook, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: webhook reader is required")
	}
	return q.reader.GetEnabledOutgoingWebhooks(ctx, msg.Format)
}

type ListDeliveriesQuery struct {
	reader DeliveryHistoryReader
}

func NewListDeliveriesQuery(reader DeliveryHistoryReader) *ListDeliveriesQuery {
	return &ListDeliveriesQuery{reader: reader}
}

func (q *ListDeliveriesQuery) Query(
	ctx context.Context,
	msg ListDeliveriesMessage,
) ([]core.DeliveryEntry, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: delivery history reader is required")
	}
	return q.reader.ListByWebhook(ctx, msg.WebhookID, msg.Limit)
}
