package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[AnnounceEventMessage]   = (*AnnounceEventCommand)(nil)
	_ gocmd.Commander[CallWebhookMessage]     = (*CallWebhookCommand)(nil)
	_ gocmd.Commander[CreateWebhookMessage]   = (*CreateWebhookCommand)(nil)
	_ gocmd.Commander[UpdateWebhookMessage]   = (*UpdateWebhookCommand)(nil)
	_ gocmd.Commander[DeleteWebhookMessage]   = (*DeleteWebhookCommand)(nil)
	_ gocmd.Commander[PruneDeliveriesMessage] = (*PruneDeliveriesCommand)(nil)
)
