package core

import (
	"context"
	"testing"
	"time"
)

func TestCfgxConfigProvider_AppliesDefaultsAndOverrides(t *testing.T) {
	provider := NewCfgxConfigProvider(NewStaticRawConfigLoader(map[string]any{
		"service_name": "party-announce",
		"dispatch": map[string]any{
			"workers": 8,
		},
	}))

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "party-announce" {
		t.Fatalf("expected loaded service name, got %q", cfg.ServiceName)
	}
	if cfg.Dispatch.Workers != 8 {
		t.Fatalf("expected loaded worker count, got %d", cfg.Dispatch.Workers)
	}
	if cfg.Dispatch.QueueSize != DefaultConfig().Dispatch.QueueSize {
		t.Fatalf("expected default queue size, got %d", cfg.Dispatch.QueueSize)
	}
}

func TestGoOptionsResolver_RuntimeWinsOverLoaded(t *testing.T) {
	defaults := DefaultConfig()
	loaded := Config{
		ServiceName: "from-config",
		Dispatch:    DispatchConfig{Workers: 2},
	}
	runtime := Config{
		Dispatch: DispatchConfig{Workers: 16, RequestTimeout: 3 * time.Second},
	}

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve options: %v", err)
	}
	if resolved.ServiceName != "from-config" {
		t.Fatalf("expected config layer service name, got %q", resolved.ServiceName)
	}
	if resolved.Dispatch.Workers != 16 {
		t.Fatalf("expected runtime worker override, got %d", resolved.Dispatch.Workers)
	}
	if resolved.Dispatch.RequestTimeout != 3*time.Second {
		t.Fatalf("expected runtime timeout override, got %v", resolved.Dispatch.RequestTimeout)
	}
	if resolved.Dispatch.QueueSize != defaults.Dispatch.QueueSize {
		t.Fatalf("expected default queue size, got %d", resolved.Dispatch.QueueSize)
	}
}
