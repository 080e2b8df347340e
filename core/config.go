package core

import (
	"fmt"
	"strings"
	"time"
)

type DispatchConfig struct {
	Workers        int           `koanf:"workers" mapstructure:"workers"`
	QueueSize      int           `koanf:"queue_size" mapstructure:"queue_size"`
	RequestTimeout time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Dispatch    DispatchConfig `koanf:"dispatch" mapstructure:"dispatch"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "announce",
		Dispatch: DispatchConfig{
			Workers:        4,
			QueueSize:      256,
			RequestTimeout: 10 * time.Second,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Dispatch.Workers < 0 {
		return fmt.Errorf("core: dispatch workers must be >= 0")
	}
	if c.Dispatch.QueueSize < 0 {
		return fmt.Errorf("core: dispatch queue_size must be >= 0")
	}
	if c.Dispatch.RequestTimeout < 0 {
		return fmt.Errorf("core: dispatch request_timeout must be >= 0")
	}
	return nil
}
