package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"

	"github.com/goliatone/go-announce/announce"
	"github.com/goliatone/go-announce/core"
)

const DefaultRequestTimeout = 10 * time.Second

// Handler executes one dispatch job. Implementations must be safe for
// concurrent use; the queue calls them from multiple workers.
type Handler interface {
	Handle(ctx context.Context, job core.DispatchJob)
}

// Dispatcher posts announcement payloads to webhook endpoints. Failures are
// swallowed after logging and journaling: webhook delivery must never fail
// the domain operation that triggered it.
type Dispatcher struct {
	logger     core.Logger
	metrics    core.MetricsRecorder
	client     *http.Client
	formatters *announce.FormatterRegistry
	journal    core.DeliveryJournal
	now        core.Clock
}

type dispatcherBuilder struct {
	logger     core.Logger
	provider   core.LoggerProvider
	metrics    core.MetricsRecorder
	client     *http.Client
	formatters *announce.FormatterRegistry
	journal    core.DeliveryJournal
	timeout    time.Duration
	now        core.Clock
}

type DispatcherOption func(*dispatcherBuilder)

func WithLogger(logger core.Logger) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.provider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.metrics = recorder
	}
}

func WithHTTPClient(client *http.Client) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.client = client
	}
}

func WithFormatterRegistry(registry *announce.FormatterRegistry) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.formatters = registry
	}
}

func WithDeliveryJournal(journal core.DeliveryJournal) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.journal = journal
	}
}

func WithRequestTimeout(timeout time.Duration) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.timeout = timeout
	}
}

func WithClock(clock core.Clock) DispatcherOption {
	return func(b *dispatcherBuilder) {
		b.now = clock
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	builder := dispatcherBuilder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	_, logger := glog.Resolve("announce.dispatch", builder.provider, builder.logger)
	metrics := builder.metrics
	if metrics == nil {
		metrics = core.NopMetricsRecorder{}
	}
	client := builder.client
	if client == nil {
		timeout := builder.timeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	formatters := builder.formatters
	if formatters == nil {
		formatters = announce.DefaultFormatterRegistry(logger)
	}
	now := builder.now
	if now == nil {
		now = core.UTCClock
	}

	return &Dispatcher{
		logger:     logger,
		metrics:    metrics,
		client:     client,
		formatters: formatters,
		journal:    builder.journal,
		now:        now,
	}
}

// Handle delivers one job. Satisfies the queue's Handler contract.
func (d *Dispatcher) Handle(ctx context.Context, job core.DispatchJob) {
	d.CallWebhook(ctx, job.Webhook, job.Text, job.EventKind)
}

// CallWebhook applies the webhook's text prefix, assembles the
// format-specific payload, and performs a single POST. The response status
// is intentionally not inspected; any transport failure is logged, recorded
// in the journal when one is configured, and otherwise swallowed.
func (d *Dispatcher) CallWebhook(
	ctx context.Context,
	webhook core.OutgoingWebhook,
	text string,
	kind core.EventKind,
) {
	if d == nil {
		return
	}
	startedAt := d.now()
	text = announce.ApplyTextPrefix(webhook, text)

	err := d.post(ctx, webhook, text)
	status := core.DeliveryStatusDelivered
	if err != nil {
		status = core.DeliveryStatusFailed
		d.logger.Warn("webhook delivery failed",
			"webhook_id", webhook.ID,
			"event_kind", string(kind),
			"error", err.Error(),
		)
	}

	d.metrics.IncCounter(ctx, "announce.dispatch.total", 1, map[string]string{
		"format": string(webhook.Format),
		"status": status,
	})
	d.metrics.ObserveHistogram(ctx, "announce.dispatch.duration_ms",
		float64(time.Since(startedAt).Milliseconds()),
		map[string]string{"format": string(webhook.Format)},
	)

	d.record(ctx, webhook, text, kind, status, err)
}

func (d *Dispatcher) post(ctx context.Context, webhook core.OutgoingWebhook, text string) error {
	payload, err := d.formatters.Assemble(webhook, text)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("dispatch: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dispatch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	// Response status is ignored; delivery is best-effort.
	return resp.Body.Close()
}

func (d *Dispatcher) record(
	ctx context.Context,
	webhook core.OutgoingWebhook,
	text string,
	kind core.EventKind,
	status string,
	cause error,
) {
	if d.journal == nil {
		return
	}
	entry := core.DeliveryEntry{
		ID:          uuid.NewString(),
		WebhookID:   webhook.ID,
		EventKind:   kind,
		URL:         webhook.URL,
		Text:        text,
		Status:      status,
		AttemptedAt: d.now(),
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := d.journal.Record(ctx, entry); err != nil {
		d.logger.Warn("delivery journal write failed",
			"webhook_id", webhook.ID,
			"error", err.Error(),
		)
	}
}
