package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// WebhookReader is the read API the announcement core consumes. The registry
// is owned by configuration tooling; this core never writes through it.
type WebhookReader interface {
	GetEnabledOutgoingWebhooks(ctx context.Context, format WebhookFormat) ([]OutgoingWebhook, error)
}

// WebhookWriter is the configuration lifecycle surface used by admin tooling.
// Implementations validate per-format required extra fields and enforce the
// (scope, scope_id) uniqueness invariant at write time.
type WebhookWriter interface {
	CreateWebhook(ctx context.Context, in CreateWebhookInput) (OutgoingWebhook, error)
	UpdateWebhook(ctx context.Context, in UpdateWebhookInput) (OutgoingWebhook, error)
	DeleteWebhook(ctx context.Context, id string) error
}

type WebhookStore interface {
	WebhookReader
	WebhookWriter
	GetWebhook(ctx context.Context, id string) (OutgoingWebhook, error)
	ListWebhooks(ctx context.Context) ([]OutgoingWebhook, error)
}

type CreateWebhookInput struct {
	Scope       string
	ScopeID     string
	Format      WebhookFormat
	TextPrefix  string
	ExtraFields map[string]any
	URL         string
	Enabled     bool
}

type UpdateWebhookInput struct {
	ID          string
	TextPrefix  *string
	ExtraFields map[string]any
	URL         *string
	Enabled     *bool
}

// StoreProvider exposes the persistence surfaces a storage backend builds.
type StoreProvider interface {
	WebhookStore() WebhookStore
	DeliveryJournal() DeliveryJournal
}

// DispatchEnqueuer accepts dispatch jobs for asynchronous, fire-and-forget
// execution. Enqueue must be cheap and non-blocking from the producer's
// point of view; delivery failures never surface here.
type DispatchEnqueuer interface {
	Enqueue(ctx context.Context, job DispatchJob) error
}

// DeliveryJournal records dispatch attempts. A nil journal is valid; journal
// errors are logged and swallowed.
type DeliveryJournal interface {
	Record(ctx context.Context, entry DeliveryEntry) error
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// Clock narrows time dependencies for deterministic tests.
type Clock func() time.Time

func UTCClock() time.Time {
	return time.Now().UTC()
}
