package announce

import (
	"context"
	"fmt"
	"net/http"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"

	gocommandadapter "github.com/goliatone/go-announce/adapters/gocommand"
	announcer "github.com/goliatone/go-announce/announce"
	"github.com/goliatone/go-announce/command"
	"github.com/goliatone/go-announce/core"
	"github.com/goliatone/go-announce/dispatch"
	"github.com/goliatone/go-announce/query"
)

// Commands is the module's mutating surface: every command handler, wired
// and ready to execute or register on a dispatcher.
type Commands struct {
	AnnounceEvent   *command.AnnounceEventCommand
	CallWebhook     *command.CallWebhookCommand
	CreateWebhook   *command.CreateWebhookCommand
	UpdateWebhook   *command.UpdateWebhookCommand
	DeleteWebhook   *command.DeleteWebhookCommand
	PruneDeliveries *command.PruneDeliveriesCommand
}

// Queries is the module's read surface.
type Queries struct {
	GetWebhook          *query.GetWebhookQuery
	ListWebhooks        *query.ListWebhooksQuery
	ListEnabledWebhooks *query.ListEnabledWebhooksQuery
	ListDeliveries      *query.ListDeliveriesQuery
}

// Module assembles the announcer, the dispatcher, the bounded queue, and
// the command/query handlers from one config and one store provider. It is
// the single composition root host applications embed.
type Module struct {
	config     core.Config
	stores     core.StoreProvider
	announcer  *announcer.Announcer
	dispatcher *dispatch.Dispatcher
	queue      *dispatch.Queue
	enqueuer   core.DispatchEnqueuer
	commands   Commands
	queries    Queries
}

type moduleOptions struct {
	logger     core.Logger
	provider   core.LoggerProvider
	metrics    core.MetricsRecorder
	httpClient *http.Client
	table      map[core.EventKind][]core.Visibility
	texts      map[core.EventKind]announcer.TextBuilder
	formatters *announcer.FormatterRegistry
	enqueuer   core.DispatchEnqueuer
	clock      core.Clock
}

type ModuleOption func(*moduleOptions)

func WithLogger(logger core.Logger) ModuleOption {
	return func(o *moduleOptions) {
		o.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) ModuleOption {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) ModuleOption {
	return func(o *moduleOptions) {
		o.metrics = recorder
	}
}

func WithHTTPClient(client *http.Client) ModuleOption {
	return func(o *moduleOptions) {
		o.httpClient = client
	}
}

func WithVisibilityTable(table map[core.EventKind][]core.Visibility) ModuleOption {
	return func(o *moduleOptions) {
		o.table = table
	}
}

func WithTextBuilders(texts map[core.EventKind]announcer.TextBuilder) ModuleOption {
	return func(o *moduleOptions) {
		o.texts = texts
	}
}

func WithFormatterRegistry(registry *announcer.FormatterRegistry) ModuleOption {
	return func(o *moduleOptions) {
		o.formatters = registry
	}
}

// WithDispatchEnqueuer swaps the in-process queue for an external enqueuer,
// typically the go-job bridge. The module then neither owns nor drains a
// worker pool; Start and Close become no-ops.
func WithDispatchEnqueuer(enqueuer core.DispatchEnqueuer) ModuleOption {
	return func(o *moduleOptions) {
		o.enqueuer = enqueuer
	}
}

func WithClock(clock core.Clock) ModuleOption {
	return func(o *moduleOptions) {
		o.clock = clock
	}
}

func NewModule(cfg core.Config, stores core.StoreProvider, opts ...ModuleOption) (*Module, error) {
	if stores == nil {
		return nil, fmt.Errorf("announce: store provider is required")
	}
	webhookStore := stores.WebhookStore()
	if webhookStore == nil {
		return nil, fmt.Errorf("announce: store provider returned nil webhook store")
	}

	resolved, err := (core.GoOptionsResolver{}).Resolve(core.DefaultConfig(), core.Config{}, cfg)
	if err != nil {
		return nil, err
	}

	options := moduleOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}

	dispatcherOpts := []dispatch.DispatcherOption{
		dispatch.WithLogger(options.logger),
		dispatch.WithLoggerProvider(options.provider),
		dispatch.WithRequestTimeout(resolved.Dispatch.RequestTimeout),
	}
	if options.metrics != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithMetricsRecorder(options.metrics))
	}
	if options.httpClient != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithHTTPClient(options.httpClient))
	}
	if options.formatters != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithFormatterRegistry(options.formatters))
	}
	if options.clock != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithClock(options.clock))
	}
	if journal := stores.DeliveryJournal(); journal != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithDeliveryJournal(journal))
	}
	dispatcher := dispatch.NewDispatcher(dispatcherOpts...)

	module := &Module{
		config:     resolved,
		stores:     stores,
		dispatcher: dispatcher,
		enqueuer:   options.enqueuer,
	}
	if module.enqueuer == nil {
		queue, err := dispatch.NewQueue(dispatcher, resolved.Dispatch,
			dispatch.WithQueueLogger(options.logger),
			dispatch.WithQueueLoggerProvider(options.provider),
		)
		if err != nil {
			return nil, err
		}
		module.queue = queue
		module.enqueuer = queue
	}

	announcerOpts := []announcer.Option{
		announcer.WithLogger(options.logger),
		announcer.WithLoggerProvider(options.provider),
	}
	if options.metrics != nil {
		announcerOpts = append(announcerOpts, announcer.WithMetricsRecorder(options.metrics))
	}
	if options.table != nil {
		announcerOpts = append(announcerOpts, announcer.WithVisibilityTable(options.table))
	}
	if options.texts != nil {
		announcerOpts = append(announcerOpts, announcer.WithTextBuilders(options.texts))
	}
	if options.formatters != nil {
		announcerOpts = append(announcerOpts, announcer.WithFormatterRegistry(options.formatters))
	}
	if options.clock != nil {
		announcerOpts = append(announcerOpts, announcer.WithClock(options.clock))
	}
	svc, err := announcer.NewAnnouncer(webhookStore, module.enqueuer, announcerOpts...)
	if err != nil {
		return nil, err
	}
	module.announcer = svc

	module.commands = Commands{
		AnnounceEvent: command.NewAnnounceEventCommand(svc),
		CallWebhook:   command.NewCallWebhookCommand(dispatcher),
		CreateWebhook: command.NewCreateWebhookCommand(webhookStore),
		UpdateWebhook: command.NewUpdateWebhookCommand(webhookStore),
		DeleteWebhook: command.NewDeleteWebhookCommand(webhookStore),
	}
	module.queries = Queries{
		GetWebhook:          query.NewGetWebhookQuery(webhookStore),
		ListWebhooks:        query.NewListWebhooksQuery(webhookStore),
		ListEnabledWebhooks: query.NewListEnabledWebhooksQuery(webhookStore),
	}

	// The journal's history and retention surfaces are optional; a provider
	// whose journal does not expose them simply leaves those handlers out.
	if history, ok := stores.DeliveryJournal().(query.DeliveryHistoryReader); ok {
		module.queries.ListDeliveries = query.NewListDeliveriesQuery(history)
	}
	if pruner, ok := stores.DeliveryJournal().(command.DeliveryPruner); ok {
		module.commands.PruneDeliveries = command.NewPruneDeliveriesCommand(pruner)
	}

	return module, nil
}

// Start launches the in-process dispatch workers. A no-op when an external
// enqueuer owns delivery.
func (m *Module) Start(ctx context.Context) {
	if m == nil || m.queue == nil {
		return
	}
	m.queue.Start(ctx)
}

// Close drains the in-process queue and waits for the workers to exit.
func (m *Module) Close() {
	if m == nil || m.queue == nil {
		return
	}
	m.queue.Close()
}

// Announce publishes one domain event into the announcement pipeline.
func (m *Module) Announce(ctx context.Context, event core.Event) error {
	if m == nil || m.announcer == nil {
		return fmt.Errorf("announce: module is not configured")
	}
	return m.announcer.Announce(ctx, event)
}

func (m *Module) Config() core.Config {
	if m == nil {
		return core.Config{}
	}
	return m.config
}

func (m *Module) Commands() Commands {
	if m == nil {
		return Commands{}
	}
	return m.commands
}

func (m *Module) Queries() Queries {
	if m == nil {
		return Queries{}
	}
	return m.queries
}

func (m *Module) Announcer() *announcer.Announcer {
	if m == nil {
		return nil
	}
	return m.announcer
}

func (m *Module) Dispatcher() *dispatch.Dispatcher {
	if m == nil {
		return nil
	}
	return m.dispatcher
}

func (m *Module) Queue() *dispatch.Queue {
	if m == nil {
		return nil
	}
	return m.queue
}

// RegisterHandlers registers every wired command and query on the registry
// adapter and subscribes them on the process-wide dispatcher. The returned
// subscriptions let the host tear the wiring down again.
func (m *Module) RegisterHandlers(adapter *gocommandadapter.RegistryAdapter) ([]commanddispatcher.Subscription, error) {
	if m == nil {
		return nil, fmt.Errorf("announce: module is not configured")
	}
	if adapter == nil {
		return nil, fmt.Errorf("announce: registry adapter is required")
	}

	var subscriptions []commanddispatcher.Subscription
	track := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			for _, existing := range subscriptions {
				existing.Unsubscribe()
			}
			return err
		}
		subscriptions = append(subscriptions, sub)
		return nil
	}

	if err := track(gocommandadapter.RegisterAndSubscribe(adapter, m.commands.AnnounceEvent)); err != nil {
		return nil, err
	}
	if err := track(gocommandadapter.RegisterAndSubscribe(adapter, m.commands.CallWebhook)); err != nil {
		return nil, err
	}
	if err := track(gocommandadapter.RegisterAndSubscribe(adapter, m.commands.CreateWebhook)); err != nil {
		return nil, err
	}
	if err := track(gocommandadapter.RegisterAndSubscribe(adapter, m.commands.UpdateWebhook)); err != nil {
		return nil, err
	}
	if err := track(gocommandadapter.RegisterAndSubscribe(adapter, m.commands.DeleteWebhook)); err != nil {
		return nil, err
	}
	if m.commands.PruneDeliveries != nil {
		if err := track(gocommandadapter.RegisterAndSubscribe(adapter, m.commands.PruneDeliveries)); err != nil {
			return nil, err
		}
	}

	if err := track(gocommandadapter.RegisterAndSubscribeQuery(adapter, m.queries.GetWebhook)); err != nil {
		return nil, err
	}
	if err := track(gocommandadapter.RegisterAndSubscribeQuery(adapter, m.queries.ListWebhooks)); err != nil {
		return nil, err
	}
	if err := track(gocommandadapter.RegisterAndSubscribeQuery(adapter, m.queries.ListEnabledWebhooks)); err != nil {
		return nil, err
	}
	if m.queries.ListDeliveries != nil {
		if err := track(gocommandadapter.RegisterAndSubscribeQuery(adapter, m.queries.ListDeliveries)); err != nil {
			return nil, err
		}
	}

	return subscriptions, nil
}
