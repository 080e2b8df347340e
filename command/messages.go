package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-announce/core"
)

const (
	TypeAnnounceEvent   = "announce.command.event.announce"
	TypeCallWebhook     = "announce.command.webhook.call"
	TypeCreateWebhook   = "announce.command.webhook.create"
	TypeUpdateWebhook   = "announce.command.webhook.update"
	TypeDeleteWebhook   = "announce.command.webhook.delete"
	TypePruneDeliveries = "announce.command.deliveries.prune"
)

type AnnounceEventMessage struct {
	Event core.Event
}

func (AnnounceEventMessage) Type() string { return TypeAnnounceEvent }

func (m AnnounceEventMessage) Validate() error {
	if m.Event == nil {
		return fmt.Errorf("command: event is required")
	}
	if strings.TrimSpace(string(m.Event.Kind())) == "" {
		return fmt.Errorf("command: event kind is required")
	}
	return nil
}

type CallWebhookMessage struct {
	EventKind core.EventKind
	Webhook   core.OutgoingWebhook
	Text      string
}

func (CallWebhookMessage) Type() string { return TypeCallWebhook }

func (m CallWebhookMessage) Validate() error {
	job := core.DispatchJob{
		EventKind: m.EventKind,
		Webhook:   m.Webhook,
		Text:      m.Text,
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("command: %w", err)
	}
	return nil
}

type CreateWebhookMessage struct {
	Input core.CreateWebhookInput
}

func (CreateWebhookMessage) Type() string { return TypeCreateWebhook }

func (m CreateWebhookMessage) Validate() error {
	if strings.TrimSpace(m.Input.Scope) == "" {
		return fmt.Errorf("command: webhook scope is required")
	}
	if err := m.Input.Format.Validate(); err != nil {
		return fmt.Errorf("command: %w", err)
	}
	if strings.TrimSpace(m.Input.URL) == "" {
		return fmt.Errorf("command: webhook url is required")
	}
	return nil
}

type UpdateWebhookMessage struct {
	Input core.UpdateWebhookInput
}

func (UpdateWebhookMessage) Type() string { return TypeUpdateWebhook }

func (m UpdateWebhookMessage) Validate() error {
	if strings.TrimSpace(m.Input.ID) == "" {
		return fmt.Errorf("command: webhook id is required")
	}
	if m.Input.URL != nil && strings.TrimSpace(*m.Input.URL) == "" {
		return fmt.Errorf("command: webhook url cannot be blank")
	}
	return nil
}

type DeleteWebhookMessage struct {
	WebhookID string
}

func (DeleteWebhookMessage) Type() string { return TypeDeleteWebhook }

func (m DeleteWebhookMessage) Validate() error {
	if strings.TrimSpace(m.WebhookID) == "" {
		return fmt.Errorf("command: webhook id is required")
	}
	return nil
}

type PruneDeliveriesMessage struct {
	Before time.Time
}

func (PruneDeliveriesMessage) Type() string { return TypePruneDeliveries }

func (m PruneDeliveriesMessage) Validate() error {
	if m.Before.IsZero() {
		return fmt.Errorf("command: prune cutoff is required")
	}
	return nil
}
