package adapters_test

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-announce/adapters/gocommand"
	"github.com/goliatone/go-announce/adapters/gojob"
	"github.com/goliatone/go-announce/adapters/gologger"
	announcecommand "github.com/goliatone/go-announce/command"
	"github.com/goliatone/go-announce/core"
)

func compatDispatchJob() core.DispatchJob {
	return core.DispatchJob{
		EventKind: "user-badge-awarded",
		Webhook: core.OutgoingWebhook{
			ID:      "wh-compat",
			Scope:   "orga_log",
			Format:  core.WebhookFormatDiscord,
			URL:     "https://discord.example/api/webhooks/1/a",
			Enabled: true,
		},
		Text: "Jemand hat ein Abzeichen verliehen.",
	}
}

func TestRuntimeCompatibility_GoJobGoCommandGoLogger(t *testing.T) {
	ctx := context.Background()

	logger := &compatLogger{}
	provider := &compatProvider{logger: logger}

	_, _, jobProvider, jobLogger := gologger.ResolveForJob("announce", provider, nil)
	if jobProvider == nil || jobLogger == nil {
		t.Fatalf("expected go-job logger bridges")
	}

	enqueueProbe := &compatQueueEnqueuer{}
	enqueueAdapter := gojob.NewQueueEnqueuer(enqueueProbe)
	if err := enqueueAdapter.Enqueue(ctx, compatDispatchJob()); err != nil {
		t.Fatalf("enqueue via gojob adapter: %v", err)
	}
	if enqueueProbe.last == nil || enqueueProbe.last.JobID != gojob.JobIDDispatchWebhook {
		t.Fatalf("expected go-job message mapping through queue enqueuer")
	}

	queueRegistry := jobqueuecommand.NewRegistry()
	commandAdapter := gocommand.NewRegistryAdapter(command.NewRegistry())
	if err := commandAdapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := commandAdapter.RegisterCommand(command.CommandFunc[compatMessage](func(context.Context, compatMessage) error {
		return nil
	})); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := commandAdapter.Initialize(); err != nil {
		t.Fatalf("initialize command registry: %v", err)
	}
	if _, ok := queueRegistry.Get("announce.compat.command"); !ok {
		t.Fatalf("expected command resolver hook to mirror command into go-job queue registry")
	}
}

func TestRuntimeCompatibility_ExternalQueueFeedsWebhookCaller(t *testing.T) {
	ctx := context.Background()

	caller := &compatWebhookCaller{}
	adapter := gocommand.NewRegistryAdapter(command.NewRegistry())

	callSub, err := gocommand.RegisterAndSubscribe(adapter, announcecommand.NewCallWebhookCommand(caller))
	if err != nil {
		t.Fatalf("register call-webhook wrapper: %v", err)
	}
	defer callSub.Unsubscribe()

	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize adapter: %v", err)
	}

	// The consumer side bridges queue deliveries into the command wrapper,
	// which is the wiring a multi-process deployment runs.
	delivery := &compatQueueDelivery{msg: gojob.ToExecutionMessage(compatDispatchJob())}
	consumer, err := gojob.NewDispatchConsumer(
		&compatQueueDequeuer{delivery: delivery},
		dispatchingJobHandler{},
		gojob.RetryPolicy{},
		nil,
	)
	if err != nil {
		t.Fatalf("new dispatch consumer: %v", err)
	}
	if err := consumer.ConsumeOne(ctx); err != nil {
		t.Fatalf("consume delivery: %v", err)
	}
	if !delivery.acked {
		t.Fatalf("expected delivery ack")
	}
	if caller.count() != 1 {
		t.Fatalf("expected webhook caller invocation through command wrapper, got %d", caller.count())
	}
	last := caller.lastCall()
	if last.webhook.ID != "wh-compat" || last.kind != "user-badge-awarded" {
		t.Fatalf("expected dispatch job fields to survive the queue round trip, got %#v", last)
	}
}

type dispatchingJobHandler struct{}

func (dispatchingJobHandler) Handle(ctx context.Context, dispatchJob core.DispatchJob) {
	_ = gocommand.Dispatch(ctx, announcecommand.CallWebhookMessage{
		EventKind: dispatchJob.EventKind,
		Webhook:   dispatchJob.Webhook,
		Text:      dispatchJob.Text,
	})
}

type compatMessage struct{}

func (compatMessage) Type() string { return "announce.compat.command" }

type compatQueueEnqueuer struct {
	last *job.ExecutionMessage
}

func (e *compatQueueEnqueuer) Enqueue(_ context.Context, msg *job.ExecutionMessage) error {
	e.last = msg
	return nil
}

type compatQueueDequeuer struct {
	delivery queue.Delivery
}

func (s *compatQueueDequeuer) Dequeue(context.Context) (queue.Delivery, error) {
	return s.delivery, nil
}

type compatQueueDelivery struct {
	msg      *job.ExecutionMessage
	acked    bool
	nackOpts queue.NackOptions
}

func (s *compatQueueDelivery) Message() *job.ExecutionMessage {
	return s.msg
}

func (s *compatQueueDelivery) Ack(context.Context) error {
	s.acked = true
	return nil
}

func (s *compatQueueDelivery) Nack(_ context.Context, opts queue.NackOptions) error {
	s.nackOpts = opts
	return nil
}

type compatProvider struct {
	logger glog.Logger
}

func (p *compatProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type compatLogger struct{}

func (compatLogger) Trace(string, ...any)                    {}
func (compatLogger) Debug(string, ...any)                    {}
func (compatLogger) Info(string, ...any)                     {}
func (compatLogger) Warn(string, ...any)                     {}
func (compatLogger) Error(string, ...any)                    {}
func (compatLogger) Fatal(string, ...any)                    {}
func (compatLogger) WithContext(context.Context) glog.Logger { return compatLogger{} }

type compatCall struct {
	webhook core.OutgoingWebhook
	text    string
	kind    core.EventKind
}

type compatWebhookCaller struct {
	mu    sync.Mutex
	calls []compatCall
}

func (c *compatWebhookCaller) CallWebhook(
	_ context.Context,
	webhook core.OutgoingWebhook,
	text string,
	kind core.EventKind,
) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, compatCall{webhook: webhook, text: text, kind: kind})
}

func (c *compatWebhookCaller) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *compatWebhookCaller) lastCall() compatCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return compatCall{}
	}
	return c.calls[len(c.calls)-1]
}
