// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/spf13/afero"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// Executable is the launcher path; its sibling .cue file is read when present.
	Executable string
	// ConfigFilePath forces loading from a specific config file when set.
	// Unlike the sibling file, a missing forced file is an error.
	ConfigFilePath string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct {
	fs afero.Fs
}

// NewProvider creates a configuration provider reading files from fs.
// A nil fs means the OS file system.
func NewProvider(fs afero.Fs) Provider {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &fileProvider{fs: fs}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, p.fs, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
