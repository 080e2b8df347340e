package sqlstore

import "github.com/goliatone/go-announce/core"

var (
	_ core.WebhookStore    = (*OutgoingWebhookStore)(nil)
	_ core.WebhookStore    = (*CachedOutgoingWebhookStore)(nil)
	_ core.DeliveryJournal = (*AnnouncementDeliveryStore)(nil)
	_ core.StoreProvider   = (*RepositoryFactory)(nil)
)
