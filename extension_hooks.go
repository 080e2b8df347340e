package announce

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	announcer "github.com/goliatone/go-announce/announce"
	"github.com/goliatone/go-announce/core"
)

// AnnouncementPack contributes text builders and visibility entries for a
// family of event kinds, typically one application area (shop, board, guest
// servers). Packs extend the built-in tables; they may not redefine a kind
// another pack or the defaults already cover.
type AnnouncementPack struct {
	Name         string
	Texts        map[core.EventKind]announcer.TextBuilder
	Visibilities map[core.EventKind][]core.Visibility
}

// FormatterPack contributes payload formatters for additional webhook
// formats beyond the built-in discord and weitersager pair.
type FormatterPack struct {
	Name       string
	Formatters []announcer.PayloadFormatter
}

// ModuleBundleFactory builds an extension-owned command/query bundle on top
// of an assembled module.
type ModuleBundleFactory func(module *Module) (any, error)

// ExtensionHooks collects announcement packs from host applications before
// the module is assembled. Safe for concurrent registration.
type ExtensionHooks struct {
	mu sync.RWMutex

	announcementPacks map[string]AnnouncementPack
	formatterPacks    map[string]FormatterPack
	bundles           map[string]ModuleBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		announcementPacks: map[string]AnnouncementPack{},
		formatterPacks:    map[string]FormatterPack{},
		bundles:           map[string]ModuleBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterAnnouncementPack(pack AnnouncementPack) error {
	if h == nil {
		return fmt.Errorf("announce: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("announce: announcement pack name is required")
	}
	if len(pack.Texts) == 0 && len(pack.Visibilities) == 0 {
		return fmt.Errorf("announce: announcement pack %q is empty", name)
	}
	for kind, builder := range pack.Texts {
		if builder == nil {
			return fmt.Errorf("announce: announcement pack %q has nil text builder for kind %q", name, string(kind))
		}
	}

	normalized := AnnouncementPack{
		Name:         name,
		Texts:        copyTextBuilders(pack.Texts),
		Visibilities: copyVisibilityTable(pack.Visibilities),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.announcementPacks[name]; exists {
		return fmt.Errorf("announce: announcement pack %q already registered", name)
	}
	for existingName, existing := range h.announcementPacks {
		for kind := range normalized.Texts {
			if _, taken := existing.Texts[kind]; taken {
				return fmt.Errorf(
					"announce: announcement pack %q redefines text builder for kind %q owned by pack %q",
					name, string(kind), existingName,
				)
			}
		}
	}
	h.announcementPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterFormatterPack(pack FormatterPack) error {
	if h == nil {
		return fmt.Errorf("announce: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("announce: formatter pack name is required")
	}
	if len(pack.Formatters) == 0 {
		return fmt.Errorf("announce: formatter pack %q has no formatters", name)
	}
	for _, formatter := range pack.Formatters {
		if formatter == nil {
			return fmt.Errorf("announce: formatter pack %q contains nil formatter", name)
		}
	}

	normalized := FormatterPack{
		Name:       name,
		Formatters: append([]announcer.PayloadFormatter(nil), pack.Formatters...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.formatterPacks[name]; exists {
		return fmt.Errorf("announce: formatter pack %q already registered", name)
	}
	h.formatterPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterModuleBundle(name string, factory ModuleBundleFactory) error {
	if h == nil {
		return fmt.Errorf("announce: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("announce: module bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("announce: module bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("announce: module bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

// TextBuilders merges the default builder table with every registered pack.
// Pack entries extend the defaults; a pack kind shadowing a default kind is
// an error surfaced here rather than silently last-write-wins.
func (h *ExtensionHooks) TextBuilders() (map[core.EventKind]announcer.TextBuilder, error) {
	merged := announcer.DefaultTextBuilders()
	if h == nil {
		return merged, nil
	}

	for _, pack := range h.AnnouncementPacks() {
		for kind, builder := range pack.Texts {
			if _, taken := merged[kind]; taken {
				return nil, fmt.Errorf(
					"announce: announcement pack %q redefines text builder for kind %q",
					pack.Name, string(kind),
				)
			}
			merged[kind] = builder
		}
	}
	return merged, nil
}

// VisibilityTable merges the default visibility table with every registered
// pack. Pack visibilities for a kind the defaults already cover are
// appended, deduplicated by name.
func (h *ExtensionHooks) VisibilityTable() map[core.EventKind][]core.Visibility {
	merged := announcer.DefaultVisibilityTable()
	if h == nil {
		return merged
	}

	for _, pack := range h.AnnouncementPacks() {
		for kind, visibilities := range pack.Visibilities {
			merged[kind] = appendVisibilities(merged[kind], visibilities)
		}
	}
	return merged
}

// FormatterRegistry builds the payload formatter registry from the built-in
// formatters plus every registered formatter pack.
func (h *ExtensionHooks) FormatterRegistry(logger core.Logger) *announcer.FormatterRegistry {
	formatters := []announcer.PayloadFormatter{
		announcer.DiscordFormatter{},
		announcer.WeitersagerFormatter{Logger: logger},
	}
	if h != nil {
		for _, pack := range h.FormatterPacks() {
			formatters = append(formatters, pack.Formatters...)
		}
	}
	return announcer.NewFormatterRegistry(formatters...)
}

// ModuleOptions renders the registered packs as options for NewModule.
func (h *ExtensionHooks) ModuleOptions(logger core.Logger) ([]ModuleOption, error) {
	texts, err := h.TextBuilders()
	if err != nil {
		return nil, err
	}
	return []ModuleOption{
		WithTextBuilders(texts),
		WithVisibilityTable(h.VisibilityTable()),
		WithFormatterRegistry(h.FormatterRegistry(logger)),
	}, nil
}

func (h *ExtensionHooks) BuildModuleBundles(module *Module) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if module == nil {
		return nil, fmt.Errorf("announce: module is required")
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	factories := make(map[string]ModuleBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](module)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) AnnouncementPacks() []AnnouncementPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.announcementPacks))
	for name := range h.announcementPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]AnnouncementPack, 0, len(names))
	for _, name := range names {
		pack := h.announcementPacks[name]
		out = append(out, AnnouncementPack{
			Name:         pack.Name,
			Texts:        copyTextBuilders(pack.Texts),
			Visibilities: copyVisibilityTable(pack.Visibilities),
		})
	}
	return out
}

func (h *ExtensionHooks) FormatterPacks() []FormatterPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.formatterPacks))
	for name := range h.formatterPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]FormatterPack, 0, len(names))
	for _, name := range names {
		pack := h.formatterPacks[name]
		out = append(out, FormatterPack{
			Name:       pack.Name,
			Formatters: append([]announcer.PayloadFormatter(nil), pack.Formatters...),
		})
	}
	return out
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyTextBuilders(in map[core.EventKind]announcer.TextBuilder) map[core.EventKind]announcer.TextBuilder {
	out := make(map[core.EventKind]announcer.TextBuilder, len(in))
	for kind, builder := range in {
		out[kind] = builder
	}
	return out
}

func copyVisibilityTable(in map[core.EventKind][]core.Visibility) map[core.EventKind][]core.Visibility {
	out := make(map[core.EventKind][]core.Visibility, len(in))
	for kind, visibilities := range in {
		out[kind] = append([]core.Visibility(nil), visibilities...)
	}
	return out
}

func appendVisibilities(existing []core.Visibility, extra []core.Visibility) []core.Visibility {
	seen := make(map[string]struct{}, len(existing))
	for _, visibility := range existing {
		seen[visibility.Name] = struct{}{}
	}
	out := append([]core.Visibility(nil), existing...)
	for _, visibility := range extra {
		if _, dup := seen[visibility.Name]; dup {
			continue
		}
		seen[visibility.Name] = struct{}{}
		out = append(out, visibility)
	}
	return out
}
