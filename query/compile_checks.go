package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-announce/core"
)

var (
	_ gocmd.Querier[GetWebhookMessage, core.OutgoingWebhook]            = (*GetWebhookQuery)(nil)
	_ gocmd.Querier[ListWebhooksMessage, []core.OutgoingWebhook]        = (*ListWebhooksQuery)(nil)
	_ gocmd.Querier[ListEnabledWebhooksMessage, []core.OutgoingWebhook] = (*ListEnabledWebhooksQuery)(nil)
	_ gocmd.Querier[ListDeliveriesMessage, []core.DeliveryEntry]        = (*ListDeliveriesQuery)(nil)
)
