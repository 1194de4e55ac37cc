package runtime

import (
	"github.com/wippyai/native-runtime/abi"
	"github.com/wippyai/native-runtime/registry"
)

// Option adjusts how a module is loaded.
type Option func(*config)

type config struct {
	registry *registry.Registry
	bridge   *abi.Bridge
}

func newConfig(opts []Option) *config {
	cfg := &config{
		registry: registry.Default(),
		bridge:   abi.NewBridge(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRegistry selects the loader registry consulted for import blob tags
// and file extensions, instead of the process-wide default.
func WithRegistry(reg *registry.Registry) Option {
	return func(cfg *config) {
		cfg.registry = reg
	}
}

// WithBridge substitutes the call bridge that wraps resolved function
// addresses. Tests use it to stand in Go-implemented invokers for native
// code.
func WithBridge(b *abi.Bridge) Option {
	return func(cfg *config) {
		cfg.bridge = b
	}
}
