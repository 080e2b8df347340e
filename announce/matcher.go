package announce

import (
	"sort"

	"github.com/goliatone/go-announce/core"
)

// Matcher filters configured webhooks down to the ones an event should be
// delivered to, in a deterministic order.
type Matcher struct {
	logger   core.Logger
	resolver *VisibilityResolver
}

func NewMatcher(logger core.Logger, resolver *VisibilityResolver) *Matcher {
	if resolver == nil {
		resolver = NewVisibilityResolver(logger, nil)
	}
	return &Matcher{
		logger:   logger,
		resolver: resolver,
	}
}

// SelectWebhooks returns the enabled webhooks of the given format whose
// scope matches one of the event's visibilities. Event visibilities are
// global, so only webhooks with an empty scope id can match. The result is
// sorted for stable, reproducible delivery order: weitersager webhooks by
// their configured IRC channel, everything else by URL.
func (m *Matcher) SelectWebhooks(
	webhooks []core.OutgoingWebhook,
	event core.Event,
	format core.WebhookFormat,
) []core.OutgoingWebhook {
	if m == nil || event == nil {
		return nil
	}

	candidates := make([]core.OutgoingWebhook, 0, len(webhooks))
	for _, webhook := range webhooks {
		if !webhook.Enabled || webhook.Format != format {
			continue
		}
		candidates = append(candidates, webhook)
	}

	visibilities := m.resolver.Resolve(event)
	if len(visibilities) == 0 {
		return nil
	}

	matched := candidates[:0]
	for _, webhook := range candidates {
		if m.matchAnyVisibility(webhook, visibilities) {
			matched = append(matched, webhook)
		}
	}

	if len(matched) == 0 {
		if m.logger != nil {
			m.logger.Warn("no enabled webhooks found, not sending announcement",
				"event_kind", string(event.Kind()),
				"format", string(format),
			)
		}
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		left, right := sortKey(matched[i]), sortKey(matched[j])
		if left != right {
			return left < right
		}
		return matched[i].URL < matched[j].URL
	})

	return matched
}

func (m *Matcher) matchAnyVisibility(webhook core.OutgoingWebhook, visibilities []core.Visibility) bool {
	for _, visibility := range visibilities {
		if webhook.MatchesScope(visibility.Name, "") {
			return true
		}
	}
	return false
}

func sortKey(webhook core.OutgoingWebhook) string {
	if webhook.Format == core.WebhookFormatWeitersager {
		return webhook.ExtraField(core.ExtraFieldChannel)
	}
	return webhook.URL
}
