package command

import (
	"context"
	"time"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-announce/core"
)

// AnnouncingService is the event-side mutating surface: turn one domain
// event into queued webhook deliveries.
type AnnouncingService interface {
	Announce(ctx context.Context, event core.Event) error
}

// WebhookCaller performs one synchronous delivery. Used for replays and for
// callers that bypass the queue.
type WebhookCaller interface {
	CallWebhook(ctx context.Context, webhook core.OutgoingWebhook, text string, kind core.EventKind)
}

// DeliveryPruner trims old journal entries.
type DeliveryPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AnnounceEventCommand struct {
	service AnnouncingService
}

func NewAnnounceEventCommand(service AnnouncingService) *AnnounceEventCommand {
	return &AnnounceEventCommand{service: service}
}

func (c *AnnounceEventCommand) Execute(ctx context.Context, msg AnnounceEventMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: announcing service is required")
	}
	return c.service.Announce(ctx, msg.Event)
}

type CallWebhookCommand struct {
	caller WebhookCaller
}

func NewCallWebhookCommand(caller WebhookCaller) *CallWebhookCommand {
	return &CallWebhookCommand{caller: caller}
}

func (c *CallWebhookCommand) Execute(ctx context.Context, msg CallWebhookMessage) error {
	if c == nil || c.caller == nil {
		return commandDependencyError("command: webhook caller is required")
	}
	c.caller.CallWebhook(ctx, msg.Webhook, msg.Text, msg.EventKind)
	return nil
}

type CreateWebhookCommand struct {
	writer core.WebhookWriter
}

func NewCreateWebhookCommand(writer core.WebhookWriter) *CreateWebhookCommand {
	return &CreateWebhookCommand{writer: writer}
}

func (c *CreateWebhookCommand) Execute(ctx context.Context, msg CreateWebhookMessage) error {
	if c == nil || c.writer == nil {
		return commandDependencyError("command: webhook writer is required")
	}
	out, err := c.writer.CreateWebhook(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateWebhookCommand struct {
	writer core.WebhookWriter
}

func NewUpdateWebhookCommand(writer core.WebhookWriter) *UpdateWebhookCommand {
	return &UpdateWebhookCommand{writer: writer}
}

func (c *UpdateWebhookCommand) Execute(ctx context.Context, msg UpdateWebhookMessage) error {
	if c == nil || c.writer == nil {
		return commandDependencyError("command: webhook writer is required")
	}
	out, err := c.writer.UpdateWebhook(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteWebhookCommand struct {
	writer core.WebhookWriter
}

func NewDeleteWebhookCommand(writer core.WebhookWriter) *DeleteWebhookCommand {
	return &DeleteWebhookCommand{writer: writer}
}

func (c *DeleteWebhookCommand) Execute(ctx context.Context, msg DeleteWebhookMessage) error {
	if c == nil || c.writer == nil {
		return commandDependencyError("command: webhook writer is required")
	}
	return c.writer.DeleteWebhook(ctx, msg.WebhookID)
}

type PruneDeliveriesCommand struct {
	pruner DeliveryPruner
}

func NewPruneDeliveriesCommand(pruner DeliveryPruner) *PruneDeliveriesCommand {
	return &PruneDeliveriesCommand{pruner: pruner}
}

func (c *PruneDeliveriesCommand) Execute(ctx context.Context, msg PruneDeliveriesMessage) error {
	if c == nil || c.pruner == nil {
		return commandDependencyError("command: delivery pruner is required")
	}
	pruned, err := c.pruner.PruneBefore(ctx, msg.Before)
	if err != nil {
		return err
	}
	storeResult(ctx, pruned)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
