package announce

import (
	"context"
	"fmt"
	"testing"
	"time"

	announcer "github.com/goliatone/go-announce/announce"
	"github.com/goliatone/go-announce/core"
	"github.com/goliatone/go-announce/events"
)

const kindTourneyStarted core.EventKind = "tourney-started"

type tourneyStarted struct {
	events.Base
	TourneyTitle string
}

func (tourneyStarted) Kind() core.EventKind { return kindTourneyStarted }

func tourneyPack() AnnouncementPack {
	return AnnouncementPack{
		Name: "tourney",
		Texts: map[core.EventKind]announcer.TextBuilder{
			kindTourneyStarted: func(event core.Event) (string, error) {
				typed, ok := event.(tourneyStarted)
				if !ok {
					return "", fmt.Errorf("unexpected event type %T", event)
				}
				return fmt.Sprintf("Das Turnier %q wurde gestartet.", typed.TourneyTitle), nil
			},
		},
		Visibilities: map[core.EventKind][]core.Visibility{
			kindTourneyStarted: {core.VisibilityPublic},
		},
	}
}

func TestExtensionHooks_RegisterAnnouncementPack(t *testing.T) {
	hooks := NewExtensionHooks()
	pack := tourneyPack()
	if err := hooks.RegisterAnnouncementPack(pack); err != nil {
		t.Fatalf("register announcement pack: %v", err)
	}
	if err := hooks.RegisterAnnouncementPack(pack); err == nil {
		t.Fatalf("expected duplicate announcement pack registration error")
	}

	texts, err := hooks.TextBuilders()
	if err != nil {
		t.Fatalf("merged text builders: %v", err)
	}
	if _, ok := texts[kindTourneyStarted]; !ok {
		t.Fatalf("expected pack text builder in merged table")
	}
	if _, ok := texts[events.KindUserBadgeAwarded]; !ok {
		t.Fatalf("expected default text builders preserved in merged table")
	}

	table := hooks.VisibilityTable()
	if len(table[kindTourneyStarted]) != 1 || table[kindTourneyStarted][0].Name != "public" {
		t.Fatalf("expected pack visibility in merged table, got %#v", table[kindTourneyStarted])
	}
}

func TestExtensionHooks_RejectsShadowingDefaultKind(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterAnnouncementPack(AnnouncementPack{
		Name: "shadowing",
		Texts: map[core.EventKind]announcer.TextBuilder{
			events.KindUserBadgeAwarded: func(core.Event) (string, error) {
				return "overridden", nil
			},
		},
	}); err != nil {
		t.Fatalf("register pack: %v", err)
	}

	if _, err := hooks.TextBuilders(); err == nil {
		t.Fatalf("expected merge error for pack shadowing a default kind")
	}
}

func TestExtensionHooks_RejectsConflictingPacks(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterAnnouncementPack(tourneyPack()); err != nil {
		t.Fatalf("register first pack: %v", err)
	}

	conflicting := tourneyPack()
	conflicting.Name = "tourney-duplicate"
	if err := hooks.RegisterAnnouncementPack(conflicting); err == nil {
		t.Fatalf("expected conflict error for kind owned by another pack")
	}
}

func TestExtensionHooks_VisibilityMergeDeduplicates(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterAnnouncementPack(AnnouncementPack{
		Name: "board-extras",
		Visibilities: map[core.EventKind][]core.Visibility{
			events.KindBoardTopicCreated: {core.VisibilityBoard, {Name: "moderators"}},
		},
	}); err != nil {
		t.Fatalf("register pack: %v", err)
	}

	table := hooks.VisibilityTable()
	visibilities := table[events.KindBoardTopicCreated]
	counts := map[string]int{}
	for _, visibility := range visibilities {
		counts[visibility.Name]++
	}
	if counts["board"] != 1 {
		t.Fatalf("expected board visibility deduplicated, got %d", counts["board"])
	}
	if counts["moderators"] != 1 {
		t.Fatalf("expected moderators visibility appended, got %d", counts["moderators"])
	}
}

func TestExtensionHooks_ModuleOptionsDriveAnnouncer(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterAnnouncementPack(tourneyPack()); err != nil {
		t.Fatalf("register pack: %v", err)
	}

	options, err := hooks.ModuleOptions(nil)
	if err != nil {
		t.Fatalf("module options: %v", err)
	}

	provider := newMemoryStoreProvider()
	enqueuer := &capturingEnqueuer{}
	options = append(options, WithDispatchEnqueuer(enqueuer))
	module, err := NewModule(core.Config{}, provider, options...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	ctx := context.Background()
	if _, err := provider.webhooks.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:   "public",
		Format:  core.WebhookFormatDiscord,
		URL:     "https://discord.example/api/webhooks/1/a",
		Enabled: true,
	}); err != nil {
		t.Fatalf("seed webhook: %v", err)
	}

	err = module.Announce(ctx, tourneyStarted{
		Base:         events.Base{OccurredAt: time.Now().UTC()},
		TourneyTitle: "ACME Cup",
	})
	if err != nil {
		t.Fatalf("announce: %v", err)
	}

	enqueuer.mu.Lock()
	defer enqueuer.mu.Unlock()
	if len(enqueuer.jobs) != 1 {
		t.Fatalf("expected 1 enqueued job, got %d", len(enqueuer.jobs))
	}
	if enqueuer.jobs[0].Text != `Das Turnier "ACME Cup" wurde gestartet.` {
		t.Fatalf("unexpected job text %q", enqueuer.jobs[0].Text)
	}
}

func TestExtensionHooks_ModuleBundles(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterModuleBundle("admin", func(module *Module) (any, error) {
		return module.Queries(), nil
	}); err != nil {
		t.Fatalf("register bundle: %v", err)
	}
	if err := hooks.RegisterModuleBundle("admin", func(*Module) (any, error) {
		return nil, nil
	}); err == nil {
		t.Fatalf("expected duplicate bundle registration error")
	}

	module, err := NewModule(core.Config{}, newMemoryStoreProvider())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	bundles, err := hooks.BuildModuleBundles(module)
	if err != nil {
		t.Fatalf("build bundles: %v", err)
	}
	if _, ok := bundles["admin"].(Queries); !ok {
		t.Fatalf("expected admin bundle to carry the query surface")
	}
	if names := hooks.BundleNames(); len(names) != 1 || names[0] != "admin" {
		t.Fatalf("expected bundle names [admin], got %v", names)
	}
}

func TestExtensionHooks_FormatterPacks(t *testing.T) {
	hooks := NewExtensionHooks()
	if err := hooks.RegisterFormatterPack(FormatterPack{Name: "matrix"}); err == nil {
		t.Fatalf("expected empty formatter pack rejection")
	}
	if err := hooks.RegisterFormatterPack(FormatterPack{
		Name:       "matrix",
		Formatters: []announcer.PayloadFormatter{matrixFormatter{}},
	}); err != nil {
		t.Fatalf("register formatter pack: %v", err)
	}

	registry := hooks.FormatterRegistry(nil)
	payload, err := registry.Assemble(core.OutgoingWebhook{Format: "matrix"}, "hallo")
	if err != nil {
		t.Fatalf("assemble via pack formatter: %v", err)
	}
	if payload["body"] != "hallo" {
		t.Fatalf("expected pack formatter payload, got %#v", payload)
	}

	// Built-in formatters stay available alongside pack formatters.
	payload, err = registry.Assemble(core.OutgoingWebhook{Format: core.WebhookFormatDiscord}, "hallo")
	if err != nil {
		t.Fatalf("assemble discord payload: %v", err)
	}
	if payload["content"] != "hallo" {
		t.Fatalf("expected discord payload, got %#v", payload)
	}
}

type matrixFormatter struct{}

func (matrixFormatter) Format() core.WebhookFormat { return "matrix" }

func (matrixFormatter) Assemble(_ core.OutgoingWebhook, text string) (map[string]any, error) {
	return map[string]any{"msgtype": "m.text", "body": text}, nil
}
