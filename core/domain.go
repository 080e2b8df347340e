package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWebhookFormat = errors.New("core: invalid webhook format")
	ErrWebhookNotFound      = errors.New("core: webhook not found")
	ErrWebhookScopeTaken    = errors.New("core: webhook scope already configured")
)

// WebhookFormat identifies the payload shape a delivery target expects.
type WebhookFormat string

const (
	WebhookFormatDiscord     WebhookFormat = "discord"
	WebhookFormatWeitersager WebhookFormat = "weitersager"
)

func (f WebhookFormat) Validate() error {
	switch f {
	case WebhookFormatDiscord, WebhookFormatWeitersager:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWebhookFormat, string(f))
	}
}

// ExtraFieldChannel is the weitersager extra field naming the IRC channel.
const ExtraFieldChannel = "channel"

// OutgoingWebhook is a configured outbound notification endpoint. Scope binds
// it to an organizational boundary; an empty ScopeID means the scope is
// global. At most one webhook may exist per (scope, scope_id) pair.
type OutgoingWebhook struct {
	ID          string
	Scope       string
	ScopeID     string
	Format      WebhookFormat
	TextPrefix  string
	ExtraFields map[string]any
	URL         string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (w OutgoingWebhook) Validate() error {
	if strings.TrimSpace(w.Scope) == "" {
		return fmt.Errorf("core: webhook scope is required")
	}
	if err := w.Format.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(w.URL) == "" {
		return fmt.Errorf("core: webhook url is required")
	}
	return nil
}

// MatchesScope reports whether the webhook is bound to the given boundary.
func (w OutgoingWebhook) MatchesScope(scope string, scopeID string) bool {
	return w.Scope == scope && w.ScopeID == scopeID
}

// ExtraField returns the named extra field as a trimmed string, or "" when
// absent or not a string.
func (w OutgoingWebhook) ExtraField(key string) string {
	if len(w.ExtraFields) == 0 {
		return ""
	}
	value, ok := w.ExtraFields[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

// Visibility is a named scope tag marking the audience an event kind is
// relevant to. Webhooks are matched against visibility names.
type Visibility struct {
	Name string
}

var (
	VisibilityOrgaLog = Visibility{Name: "orga_log"}
	VisibilityPublic  = Visibility{Name: "public"}
	VisibilityBoard   = Visibility{Name: "board"}
)

// EventKind tags a domain event variant.
type EventKind string

// Event is the contract every domain event variant satisfies. Events are
// immutable, in-memory records produced by business services; the
// announcement core consumes them without persisting them.
type Event interface {
	Kind() EventKind
	Occurred() time.Time
	InitiatedBy() UserRef
}

// UserRef identifies an acting or affected user. ScreenName is nil when the
// user has none (deleted accounts, system actors).
type UserRef struct {
	ID         string
	ScreenName *string
}

// AnnouncementRequest is the channel-ready rendition of one event for one
// webhook: the final text (prefix applied) and the assembled payload.
type AnnouncementRequest struct {
	EventKind EventKind
	WebhookID string
	Format    WebhookFormat
	URL       string
	Text      string
	Payload   map[string]any
}

// DispatchJob is the unit handed to the asynchronous queue: deliver Text to
// one webhook. Jobs are self-contained so workers need no shared state.
type DispatchJob struct {
	EventKind EventKind
	Webhook   OutgoingWebhook
	Text      string
}

func (j DispatchJob) Validate() error {
	if strings.TrimSpace(string(j.EventKind)) == "" {
		return fmt.Errorf("core: dispatch job event kind is required")
	}
	if err := j.Webhook.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(j.Text) == "" {
		return fmt.Errorf("core: dispatch job text is required")
	}
	return nil
}

const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// DeliveryEntry is one journaled dispatch attempt. Journaling is best-effort
// and observational; it never gates delivery.
type DeliveryEntry struct {
	ID          string
	WebhookID   string
	EventKind   EventKind
	URL         string
	Text        string
	Status      string
	Error       string
	AttemptedAt time.Time
}
