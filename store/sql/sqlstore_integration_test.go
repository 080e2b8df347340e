package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	announcemigrations "github.com/goliatone/go-announce/migrations"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-announce/core"
	sqlstore "github.com/goliatone/go-announce/store/sql"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-announce-tests"
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	for _, table := range []string{"outgoing_webhooks", "announcement_deliveries"} {
		var tableName string
		if err := client.DB().NewRaw(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(context.Background(), &tableName); err != nil {
			t.Fatalf("query sqlite master for %s: %v", table, err)
		}
		if tableName != table {
			t.Fatalf("expected %s table, got %q", table, tableName)
		}
	}
}

func TestOutgoingWebhookStore_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.WebhookStore()

	created, err := store.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:      "orga_log",
		Format:     core.WebhookFormatDiscord,
		TextPrefix: "[BOT] ",
		URL:        "https://discord.example/api/webhooks/1/token",
		Enabled:    true,
	})
	if err != nil {
		t.Fatalf("create webhook: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated webhook id")
	}
	if created.ExtraFields == nil {
		t.Fatalf("expected non-nil extra fields on created webhook")
	}

	loaded, err := store.GetWebhook(ctx, created.ID)
	if err != nil {
		t.Fatalf("get webhook: %v", err)
	}
	if loaded.TextPrefix != "[BOT] " {
		t.Fatalf("expected text prefix round trip, got %q", loaded.TextPrefix)
	}
	if loaded.Format != core.WebhookFormatDiscord {
		t.Fatalf("expected discord format, got %q", loaded.Format)
	}

	newPrefix := "[ANN] "
	disabled := false
	updated, err := store.UpdateWebhook(ctx, core.UpdateWebhookInput{
		ID:         created.ID,
		TextPrefix: &newPrefix,
		Enabled:    &disabled,
	})
	if err != nil {
		t.Fatalf("update webhook: %v", err)
	}
	if updated.TextPrefix != newPrefix {
		t.Fatalf("expected updated text prefix %q, got %q", newPrefix, updated.TextPrefix)
	}
	if updated.Enabled {
		t.Fatalf("expected webhook disabled after update")
	}
	if updated.Scope != "orga_log" {
		t.Fatalf("expected scope preserved across update, got %q", updated.Scope)
	}

	if err := store.DeleteWebhook(ctx, created.ID); err != nil {
		t.Fatalf("delete webhook: %v", err)
	}
	if _, err := store.GetWebhook(ctx, created.ID); !errors.Is(err, core.ErrWebhookNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.DeleteWebhook(ctx, created.ID); !errors.Is(err, core.ErrWebhookNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestOutgoingWebhookStore_EnforcesScopeUniqueness(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.WebhookStore()

	if _, err := store.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:   "site",
		ScopeID: "acmecon-2026",
		Format:  core.WebhookFormatDiscord,
		URL:     "https://discord.example/api/webhooks/1/a",
		Enabled: true,
	}); err != nil {
		t.Fatalf("create first webhook: %v", err)
	}

	_, err = store.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:   "site",
		ScopeID: "acmecon-2026",
		Format:  core.WebhookFormatDiscord,
		URL:     "https://discord.example/api/webhooks/2/b",
		Enabled: true,
	})
	if !errors.Is(err, core.ErrWebhookScopeTaken) {
		t.Fatalf("expected scope conflict, got %v", err)
	}

	// A different scope id under the same scope is a distinct registration.
	if _, err := store.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:   "site",
		ScopeID: "acmecon-2027",
		Format:  core.WebhookFormatDiscord,
		URL:     "https://discord.example/api/webhooks/3/c",
		Enabled: true,
	}); err != nil {
		t.Fatalf("create webhook with distinct scope id: %v", err)
	}
}

func TestOutgoingWebhookStore_GetEnabledFiltersByFormat(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.WebhookStore()

	seeds := []core.CreateWebhookInput{
		{
			Scope:   "orga_log",
			Format:  core.WebhookFormatDiscord,
			URL:     "https://discord.example/api/webhooks/1/a",
			Enabled: true,
		},
		{
			Scope:   "site",
			ScopeID: "acmecon-2026",
			Format:  core.WebhookFormatDiscord,
			URL:     "https://discord.example/api/webhooks/2/b",
			Enabled: false,
		},
		{
			Scope:       "internal",
			Format:      core.WebhookFormatWeitersager,
			ExtraFields: map[string]any{"channel": "#announce"},
			URL:         "https://irc-bridge.example/announce",
			Enabled:     true,
		},
	}
	for _, seed := range seeds {
		if _, err := store.CreateWebhook(ctx, seed); err != nil {
			t.Fatalf("seed webhook %s/%s: %v", seed.Scope, seed.ScopeID, err)
		}
	}

	discordHooks, err := store.GetEnabledOutgoingWebhooks(ctx, core.WebhookFormatDiscord)
	if err != nil {
		t.Fatalf("get enabled discord webhooks: %v", err)
	}
	if len(discordHooks) != 1 {
		t.Fatalf("expected 1 enabled discord webhook, got %d", len(discordHooks))
	}
	if discordHooks[0].Scope != "orga_log" {
		t.Fatalf("expected the enabled orga_log webhook, got scope %q", discordHooks[0].Scope)
	}

	ircHooks, err := store.GetEnabledOutgoingWebhooks(ctx, core.WebhookFormatWeitersager)
	if err != nil {
		t.Fatalf("get enabled weitersager webhooks: %v", err)
	}
	if len(ircHooks) != 1 {
		t.Fatalf("expected 1 enabled weitersager webhook, got %d", len(ircHooks))
	}
	if ircHooks[0].ExtraField(core.ExtraFieldChannel) != "#announce" {
		t.Fatalf("expected channel extra field round trip")
	}

	all, err := store.ListWebhooks(ctx)
	if err != nil {
		t.Fatalf("list webhooks: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 webhooks listed, got %d", len(all))
	}
}

func TestOutgoingWebhookStore_WeitersagerRequiresChannel(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.WebhookStore()

	if _, err := store.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:   "internal",
		Format:  core.WebhookFormatWeitersager,
		URL:     "https://irc-bridge.example/announce",
		Enabled: true,
	}); err == nil {
		t.Fatalf("expected create to reject weitersager webhook without channel")
	}

	created, err := store.CreateWebhook(ctx, core.CreateWebhookInput{
		Scope:       "internal",
		Format:      core.WebhookFormatWeitersager,
		ExtraFields: map[string]any{"channel": "#announce"},
		URL:         "https://irc-bridge.example/announce",
		Enabled:     true,
	})
	if err != nil {
		t.Fatalf("create weitersager webhook: %v", err)
	}

	if _, err := store.UpdateWebhook(ctx, core.UpdateWebhookInput{
		ID:          created.ID,
		ExtraFields: map[string]any{"channel": "   "},
	}); err == nil {
		t.Fatalf("expected update to reject blank channel")
	}

	updated, err := store.UpdateWebhook(ctx, core.UpdateWebhookInput{
		ID:          created.ID,
		ExtraFields: map[string]any{"channel": "#ops"},
	})
	if err != nil {
		t.Fatalf("update weitersager channel: %v", err)
	}
	if updated.ExtraField(core.ExtraFieldChannel) != "#ops" {
		t.Fatalf("expected channel update to persist, got %q", updated.ExtraField(core.ExtraFieldChannel))
	}
}

func TestAnnouncementDeliveryStore_RecordListAndPrune(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	deliveryStore := factory.DeliveryStore()

	now := time.Now().UTC()
	entries := []core.DeliveryEntry{
		{
			WebhookID:   "wh-1",
			EventKind:   "user-account-created",
			URL:         "https://discord.example/api/webhooks/1/a",
			Text:        "Jemand hat das Benutzerkonto angelegt",
			Status:      core.DeliveryStatusDelivered,
			AttemptedAt: now.Add(-2 * time.Hour),
		},
		{
			WebhookID:   "wh-1",
			EventKind:   "news-item-published",
			URL:         "https://discord.example/api/webhooks/1/a",
			Text:        "Die News wurde veröffentlicht",
			Status:      core.DeliveryStatusFailed,
			Error:       "connection refused",
			AttemptedAt: now.Add(-time.Minute),
		},
		{
			WebhookID:   "wh-2",
			EventKind:   "user-account-created",
			URL:         "https://irc-bridge.example/announce",
			Text:        "Jemand hat das Benutzerkonto angelegt",
			Status:      core.DeliveryStatusDelivered,
			AttemptedAt: now.Add(-30 * time.Minute),
		},
	}
	for i, entry := range entries {
		if err := deliveryStore.Record(ctx, entry); err != nil {
			t.Fatalf("record delivery %d: %v", i, err)
		}
	}

	listed, err := deliveryStore.ListByWebhook(ctx, "wh-1", 10)
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 deliveries for wh-1, got %d", len(listed))
	}
	if listed[0].Status != core.DeliveryStatusFailed {
		t.Fatalf("expected most recent attempt first, got status %q", listed[0].Status)
	}
	if listed[0].Error != "connection refused" {
		t.Fatalf("expected failure reason round trip, got %q", listed[0].Error)
	}
	if listed[0].ID == "" {
		t.Fatalf("expected journal to assign entry id")
	}

	pruned, err := deliveryStore.PruneBefore(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune deliveries: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned delivery, got %d", pruned)
	}

	remaining, err := deliveryStore.ListByWebhook(ctx, "wh-1", 10)
	if err != nil {
		t.Fatalf("list deliveries after prune: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 delivery for wh-1 after prune, got %d", len(remaining))
	}
}

func TestRepositoryFactory_BuildStoresIsIdempotent(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory := sqlstore.NewRepositoryFactory()
	provider, err := factory.BuildStores(client)
	if err != nil {
		t.Fatalf("build stores: %v", err)
	}
	if provider.WebhookStore() == nil || provider.DeliveryJournal() == nil {
		t.Fatalf("expected stores from provider")
	}

	again, err := factory.BuildStores(nil)
	if err != nil {
		t.Fatalf("rebuild stores: %v", err)
	}
	if again.WebhookStore() != provider.WebhookStore() {
		t.Fatalf("expected rebuild to reuse existing webhook store")
	}
}

func TestNewRepositoryFactoryFromDSN(t *testing.T) {
	factory, err := sqlstore.NewRepositoryFactoryFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("factory from dsn: %v", err)
	}
	if factory.WebhookStore() == nil || factory.DeliveryJournal() == nil {
		t.Fatalf("expected stores from factory")
	}
	defer func() {
		_ = factory.DB().Close()
	}()

	if _, err := sqlstore.NewRepositoryFactoryFromDSN("mysql", "dsn"); err == nil {
		t.Fatalf("expected unsupported dialect error")
	}
	if _, err := sqlstore.NewRepositoryFactoryFromDSN("postgres", ""); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:announce-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = announcemigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != announcemigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, announcemigrations.WithValidationTargets(announcemigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}
