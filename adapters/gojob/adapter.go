package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-announce/core"
)

// JobIDDispatchWebhook identifies webhook delivery jobs on external queues.
const JobIDDispatchWebhook = "announce.webhook.dispatch"

// Handler executes one dispatch job on the consumer side.
type Handler interface {
	Handle(ctx context.Context, job core.DispatchJob)
}

// RetryPolicy defines queue retry bounds to avoid unbounded retry loops.
type RetryPolicy struct {
	MaxAttempts     int
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// ToExecutionMessage flattens a dispatch job into queue parameters.
func ToExecutionMessage(dispatchJob core.DispatchJob) *job.ExecutionMessage {
	return &job.ExecutionMessage{
		JobID: JobIDDispatchWebhook,
		Parameters: map[string]any{
			"event_kind":   string(dispatchJob.EventKind),
			"text":         dispatchJob.Text,
			"webhook_id":   dispatchJob.Webhook.ID,
			"scope":        dispatchJob.Webhook.Scope,
			"scope_id":     dispatchJob.Webhook.ScopeID,
			"format":       string(dispatchJob.Webhook.Format),
			"text_prefix":  dispatchJob.Webhook.TextPrefix,
			"url":          dispatchJob.Webhook.URL,
			"enabled":      dispatchJob.Webhook.Enabled,
			"extra_fields": copyAnyMap(dispatchJob.Webhook.ExtraFields),
		},
	}
}

// FromExecutionMessage reconstructs a dispatch job from queue parameters.
func FromExecutionMessage(msg *job.ExecutionMessage) (core.DispatchJob, error) {
	if msg == nil {
		return core.DispatchJob{}, fmt.Errorf("gojob: execution message is required")
	}
	if msg.JobID != JobIDDispatchWebhook {
		return core.DispatchJob{}, fmt.Errorf("gojob: unexpected job id %q", msg.JobID)
	}
	params := msg.Parameters
	dispatchJob := core.DispatchJob{
		EventKind: core.EventKind(stringParam(params, "event_kind")),
		Text:      stringParam(params, "text"),
		Webhook: core.OutgoingWebhook{
			ID:         stringParam(params, "webhook_id"),
			Scope:      stringParam(params, "scope"),
			ScopeID:    stringParam(params, "scope_id"),
			Format:     core.WebhookFormat(stringParam(params, "format")),
			TextPrefix: stringParam(params, "text_prefix"),
			URL:        stringParam(params, "url"),
			Enabled:    boolParam(params, "enabled"),
		},
	}
	if fields, ok := params["extra_fields"].(map[string]any); ok {
		dispatchJob.Webhook.ExtraFields = copyAnyMap(fields)
	}
	if err := dispatchJob.Validate(); err != nil {
		return core.DispatchJob{}, fmt.Errorf("gojob: invalid dispatch job payload: %w", err)
	}
	return dispatchJob, nil
}

// QueueEnqueuer bridges the in-process enqueuer contract onto an external
// go-job queue backend, for deployments that outlive a single process.
type QueueEnqueuer struct {
	enqueuer queue.Enqueuer
}

func NewQueueEnqueuer(enqueuer queue.Enqueuer) *QueueEnqueuer {
	return &QueueEnqueuer{enqueuer: enqueuer}
}

func (a *QueueEnqueuer) Enqueue(ctx context.Context, dispatchJob core.DispatchJob) error {
	if a == nil || a.enqueuer == nil {
		return fmt.Errorf("gojob: enqueuer is not configured")
	}
	if err := dispatchJob.Validate(); err != nil {
		return err
	}
	return a.enqueuer.Enqueue(ctx, ToExecutionMessage(dispatchJob))
}

// DispatchConsumer pulls dispatch jobs from an external queue and hands them
// to a handler. Malformed payloads are dead-lettered; handler execution is
// fire-and-forget, so a consumed delivery is always acked.
type DispatchConsumer struct {
	logger   glog.Logger
	dequeuer queue.Dequeuer
	handler  Handler
	policy   RetryPolicy
}

func NewDispatchConsumer(
	dequeuer queue.Dequeuer,
	handler Handler,
	policy RetryPolicy,
	provider glog.LoggerProvider,
) (*DispatchConsumer, error) {
	if dequeuer == nil {
		return nil, fmt.Errorf("gojob: dequeuer is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("gojob: handler is required")
	}
	_, logger := glog.Resolve("announce.gojob", provider, nil)
	return &DispatchConsumer{
		logger:   logger,
		dequeuer: dequeuer,
		handler:  handler,
		policy:   policy,
	}, nil
}

// ConsumeOne blocks for the next delivery and processes it.
func (c *DispatchConsumer) ConsumeOne(ctx context.Context) error {
	if c == nil || c.dequeuer == nil {
		return fmt.Errorf("gojob: dispatch consumer is not configured")
	}
	delivery, err := c.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}

	dispatchJob, err := FromExecutionMessage(delivery.Message())
	if err != nil {
		c.logger.Warn("dead-lettering malformed dispatch payload", "error", err.Error())
		return delivery.Nack(ctx, c.policy.NormalizeAttempt(queue.NackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}, 0))
	}

	c.handler.Handle(ctx, dispatchJob)
	return delivery.Ack(ctx)
}

// Run consumes deliveries until the context is canceled.
func (c *DispatchConsumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.ConsumeOne(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("dispatch consume failed", "error", err.Error())
		}
	}
}

// LoggingHook surfaces worker lifecycle events through the resolved logger.
type LoggingHook struct {
	logger glog.Logger
}

func NewLoggingHook(provider glog.LoggerProvider, logger glog.Logger) *LoggingHook {
	_, resolved := glog.Resolve("announce.worker", provider, logger)
	return &LoggingHook{logger: resolved}
}

func (h *LoggingHook) OnStart(_ context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.logger.Debug("dispatch job started", "job_id", eventJobID(event), "attempt", event.Attempt)
}

func (h *LoggingHook) OnSuccess(_ context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.logger.Debug("dispatch job succeeded",
		"job_id", eventJobID(event),
		"attempt", event.Attempt,
		"duration", event.Duration.String(),
	)
}

func (h *LoggingHook) OnFailure(_ context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.logger.Warn("dispatch job failed",
		"job_id", eventJobID(event),
		"attempt", event.Attempt,
		"error", errorText(event.Err),
	)
}

func (h *LoggingHook) OnRetry(_ context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.logger.Info("dispatch job retrying",
		"job_id", eventJobID(event),
		"attempt", event.Attempt,
		"delay", event.Delay.String(),
	)
}

func eventJobID(event worker.Event) string {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	if message == nil {
		return ""
	}
	return message.JobID
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func stringParam(params map[string]any, key string) string {
	value, _ := params[key].(string)
	return value
}

func boolParam(params map[string]any, key string) bool {
	value, _ := params[key].(bool)
	return value
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

var (
	_ core.DispatchEnqueuer = (*QueueEnqueuer)(nil)
	_ worker.Hook           = (*LoggingHook)(nil)
)
