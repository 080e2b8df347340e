package announce

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-announce/core"
)

// PayloadFormatter renders the delivery-format specific request body for one
// webhook. One formatter exists per webhook format; the matcher's format
// filtering guarantees a formatter lookup only fails when matcher and
// formatter set have drifted apart, which is a programming error and is
// surfaced as one.
type PayloadFormatter interface {
	Format() core.WebhookFormat
	Assemble(webhook core.OutgoingWebhook, text string) (map[string]any, error)
}

type DiscordFormatter struct{}

func (DiscordFormatter) Format() core.WebhookFormat {
	return core.WebhookFormatDiscord
}

func (DiscordFormatter) Assemble(_ core.OutgoingWebhook, text string) (map[string]any, error) {
	return map[string]any{"content": text}, nil
}

// WeitersagerFormatter targets the weitersager IRC relay protocol.
type WeitersagerFormatter struct {
	Logger core.Logger
}

func (WeitersagerFormatter) Format() core.WebhookFormat {
	return core.WebhookFormatWeitersager
}

func (f WeitersagerFormatter) Assemble(webhook core.OutgoingWebhook, text string) (map[string]any, error) {
	channel := webhook.ExtraField(core.ExtraFieldChannel)
	if channel == "" {
		// Malformed configuration; emit anyhow and let the relay reject it.
		if f.Logger != nil {
			f.Logger.Warn("no channel specified with IRC webhook", "webhook_id", webhook.ID)
		}
		return map[string]any{
			"channel": nil,
			"text":    text,
		}, nil
	}
	return map[string]any{
		"channel": channel,
		"text":    text,
	}, nil
}

// FormatterRegistry holds the closed set of payload formatters.
type FormatterRegistry struct {
	formatters map[core.WebhookFormat]PayloadFormatter
}

func NewFormatterRegistry(formatters ...PayloadFormatter) *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[core.WebhookFormat]PayloadFormatter, len(formatters)),
	}
	for _, formatter := range formatters {
		if formatter == nil {
			continue
		}
		registry.formatters[formatter.Format()] = formatter
	}
	return registry
}

// DefaultFormatterRegistry registers the discord and weitersager formatters.
func DefaultFormatterRegistry(logger core.Logger) *FormatterRegistry {
	return NewFormatterRegistry(
		DiscordFormatter{},
		WeitersagerFormatter{Logger: logger},
	)
}

// Assemble dispatches to the formatter registered for the webhook's format.
func (r *FormatterRegistry) Assemble(webhook core.OutgoingWebhook, text string) (map[string]any, error) {
	if r == nil {
		return nil, unknownFormatError(webhook.Format)
	}
	formatter, ok := r.formatters[webhook.Format]
	if !ok {
		return nil, unknownFormatError(webhook.Format)
	}
	return formatter.Assemble(webhook, text)
}

// ApplyTextPrefix prepends the webhook's configured prefix, if any. No
// separator is inserted beyond what the prefix itself carries.
func ApplyTextPrefix(webhook core.OutgoingWebhook, text string) string {
	if webhook.TextPrefix == "" {
		return text
	}
	return webhook.TextPrefix + text
}

func unknownFormatError(format core.WebhookFormat) error {
	message := "announce: no payload formatter registered for format"
	if strings.TrimSpace(string(format)) != "" {
		message += " " + strings.TrimSpace(string(format))
	}
	return goerrors.New(message, goerrors.CategoryOperation).
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(core.AnnounceErrorUnknownFormat)
}
