// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"github.com/spf13/afero"

	"github.com/invowk/shimrun/internal/config"
)

// BuildRegistryOptions configures runtime registry construction.
type BuildRegistryOptions struct {
	// Config controls runtime behavior. Nil means config.DefaultConfig().
	Config *config.Config
	// Fs is the file system the embedded runtime reads scripts from. Nil means the OS.
	Fs afero.Fs
}

// BuildRegistry creates and populates the runtime registry.
// All three strategies are always registered; the configuration picks one.
func BuildRegistry(opts BuildRegistryOptions) *Registry {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	registry := NewRegistry()
	registry.Register(RuntimeTypeDetached, NewDetachedRuntime())
	registry.Register(RuntimeTypeForward, NewForwardRuntime(cfg.ReplaceProcess))
	registry.Register(RuntimeTypeEmbedded, NewEmbeddedRuntime(NewShellEngineFactory(opts.Fs)))
	return registry
}
