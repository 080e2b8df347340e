package announce

import "github.com/goliatone/go-announce/core"

type Config = core.Config

type DispatchConfig = core.DispatchConfig

type Event = core.Event
type EventKind = core.EventKind
type UserRef = core.UserRef

type Visibility = core.Visibility
type WebhookFormat = core.WebhookFormat
type OutgoingWebhook = core.OutgoingWebhook
type AnnouncementRequest = core.AnnouncementRequest
type DispatchJob = core.DispatchJob
type DeliveryEntry = core.DeliveryEntry

type CreateWebhookInput = core.CreateWebhookInput
type UpdateWebhookInput = core.UpdateWebhookInput

type WebhookReader = core.WebhookReader
type WebhookWriter = core.WebhookWriter
type WebhookStore = core.WebhookStore
type StoreProvider = core.StoreProvider
type DispatchEnqueuer = core.DispatchEnqueuer
type DeliveryJournal = core.DeliveryJournal
type MetricsRecorder = core.MetricsRecorder

type Logger = core.Logger
type LoggerProvider = core.LoggerProvider

const (
	WebhookFormatDiscord     = core.WebhookFormatDiscord
	WebhookFormatWeitersager = core.WebhookFormatWeitersager
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}
