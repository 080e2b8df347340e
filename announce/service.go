package announce

import (
	"context"
	"fmt"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-announce/core"
)

// Announcer connects the matching pipeline to the asynchronous dispatch
// queue. It is the single entry point business services publish events to.
type Announcer struct {
	logger     core.Logger
	metrics    core.MetricsRecorder
	webhooks   core.WebhookReader
	enqueuer   core.DispatchEnqueuer
	resolver   *VisibilityResolver
	matcher    *Matcher
	texts      map[core.EventKind]TextBuilder
	formatters *FormatterRegistry
	now        core.Clock
}

type announcerBuilder struct {
	logger     core.Logger
	provider   core.LoggerProvider
	metrics    core.MetricsRecorder
	webhooks   core.WebhookReader
	enqueuer   core.DispatchEnqueuer
	table      map[core.EventKind][]core.Visibility
	texts      map[core.EventKind]TextBuilder
	formatters *FormatterRegistry
	now        core.Clock
}

type Option func(*announcerBuilder)

func WithLogger(logger core.Logger) Option {
	return func(b *announcerBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *announcerBuilder) {
		b.provider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *announcerBuilder) {
		b.metrics = recorder
	}
}

func WithVisibilityTable(table map[core.EventKind][]core.Visibility) Option {
	return func(b *announcerBuilder) {
		b.table = table
	}
}

func WithTextBuilders(texts map[core.EventKind]TextBuilder) Option {
	return func(b *announcerBuilder) {
		b.texts = texts
	}
}

func WithFormatterRegistry(registry *FormatterRegistry) Option {
	return func(b *announcerBuilder) {
		b.formatters = registry
	}
}

func WithClock(clock core.Clock) Option {
	return func(b *announcerBuilder) {
		b.now = clock
	}
}

func NewAnnouncer(webhooks core.WebhookReader, enqueuer core.DispatchEnqueuer, opts ...Option) (*Announcer, error) {
	if webhooks == nil {
		return nil, fmt.Errorf("announce: webhook reader is required")
	}
	if enqueuer == nil {
		return nil, fmt.Errorf("announce: dispatch enqueuer is required")
	}

	builder := announcerBuilder{
		webhooks: webhooks,
		enqueuer: enqueuer,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	_, logger := glog.Resolve("announce", builder.provider, builder.logger)
	metrics := builder.metrics
	if metrics == nil {
		metrics = core.NopMetricsRecorder{}
	}
	texts := builder.texts
	if texts == nil {
		texts = DefaultTextBuilders()
	}
	formatters := builder.formatters
	if formatters == nil {
		formatters = DefaultFormatterRegistry(logger)
	}
	now := builder.now
	if now == nil {
		now = core.UTCClock
	}

	resolver := NewVisibilityResolver(logger, builder.table)
	return &Announcer{
		logger:     logger,
		metrics:    metrics,
		webhooks:   webhooks,
		enqueuer:   enqueuer,
		resolver:   resolver,
		matcher:    NewMatcher(logger, resolver),
		texts:      texts,
		formatters: formatters,
		now:        now,
	}, nil
}

// announcedFormats is the closed set of channel families announcements go
// out on.
var announcedFormats = []core.WebhookFormat{
	core.WebhookFormatDiscord,
	core.WebhookFormatWeitersager,
}

// Announce renders the event and enqueues one dispatch job per matched
// webhook, per channel family. Operational failures (registry read errors,
// full queue) are logged and swallowed so the producing business operation
// is never affected; only misuse returns an error.
func (a *Announcer) Announce(ctx context.Context, event core.Event) error {
	if a == nil {
		return fmt.Errorf("announce: announcer is not configured")
	}
	if event == nil {
		return fmt.Errorf("announce: event is required")
	}
	startedAt := a.now()

	builder, ok := a.texts[event.Kind()]
	if !ok {
		a.logger.Warn("no text builder registered for event type", "event_kind", string(event.Kind()))
		a.count(ctx, "announce.skipped.total", event.Kind(), "no_text_builder")
		return nil
	}
	text, err := builder(event)
	if err != nil {
		a.logger.Error("announcement text build failed", "event_kind", string(event.Kind()), "error", err.Error())
		a.count(ctx, "announce.skipped.total", event.Kind(), "text_build_failed")
		return nil
	}

	enqueued := 0
	for _, format := range announcedFormats {
		webhooks, err := a.webhooks.GetEnabledOutgoingWebhooks(ctx, format)
		if err != nil {
			a.logger.Error("webhook registry read failed",
				"event_kind", string(event.Kind()),
				"format", string(format),
				"error", err.Error(),
			)
			continue
		}
		for _, webhook := range a.matcher.SelectWebhooks(webhooks, event, format) {
			job := core.DispatchJob{
				EventKind: event.Kind(),
				Webhook:   webhook,
				Text:      text,
			}
			if err := a.enqueuer.Enqueue(ctx, job); err != nil {
				a.logger.Warn("announcement enqueue failed",
					"event_kind", string(event.Kind()),
					"webhook_id", webhook.ID,
					"error", err.Error(),
				)
				a.count(ctx, "announce.enqueue_failed.total", event.Kind(), string(format))
				continue
			}
			enqueued++
		}
	}

	a.metrics.IncCounter(ctx, "announce.enqueued.total", int64(enqueued), map[string]string{
		"event_kind": string(event.Kind()),
	})
	a.metrics.ObserveHistogram(ctx, "announce.announce.duration_ms",
		float64(time.Since(startedAt).Milliseconds()),
		map[string]string{"event_kind": string(event.Kind())},
	)
	return nil
}

// BuildAnnouncementRequest renders the fully assembled request for one
// (event, webhook) pair without enqueueing it. Used by delivery previews and
// tests.
func (a *Announcer) BuildAnnouncementRequest(
	event core.Event,
	webhook core.OutgoingWebhook,
) (core.AnnouncementRequest, error) {
	if a == nil {
		return core.AnnouncementRequest{}, fmt.Errorf("announce: announcer is not configured")
	}
	if event == nil {
		return core.AnnouncementRequest{}, fmt.Errorf("announce: event is required")
	}
	builder, ok := a.texts[event.Kind()]
	if !ok {
		return core.AnnouncementRequest{}, fmt.Errorf(
			"announce: no text builder registered for event kind %q", string(event.Kind()),
		)
	}
	text, err := builder(event)
	if err != nil {
		return core.AnnouncementRequest{}, err
	}
	text = ApplyTextPrefix(webhook, text)
	payload, err := a.formatters.Assemble(webhook, text)
	if err != nil {
		return core.AnnouncementRequest{}, err
	}
	return core.AnnouncementRequest{
		EventKind: event.Kind(),
		WebhookID: webhook.ID,
		Format:    webhook.Format,
		URL:       webhook.URL,
		Text:      text,
		Payload:   payload,
	}, nil
}

func (a *Announcer) count(ctx context.Context, name string, kind core.EventKind, reason string) {
	a.metrics.IncCounter(ctx, name, 1, map[string]string{
		"event_kind": string(kind),
		"reason":     reason,
	})
}
