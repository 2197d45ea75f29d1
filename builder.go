// File: snowcfg/builder.go
package snowcfg

import (
	"fmt"
	"log/slog"
)

// ValidatorFunc validates a fully built resolver. It runs at the end of the
// build and should return an error if the configuration cannot be used.
type ValidatorFunc func(r *ConfigurationResolver) error

// Builder provides a fluent interface for assembling the standard source
// stack: CLI arguments over environment (current scheme before legacy) over
// configuration files.
type Builder struct {
	cliArgs    map[string]any
	env        bool
	files      []string
	discovered bool
	history    bool
	observers  []ResolutionObserver
	validators []ValidatorFunc
	logger     *slog.Logger
	extra      []ConfigurationSource
}

// NewBuilder creates a new resolver builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithCLIArguments sets the flat mapping of already-parsed CLI option values.
func (b *Builder) WithCLIArguments(values map[string]any) *Builder {
	b.cliArgs = values
	return b
}

// WithEnvironment enables the environment tier with the standard handler
// chain.
func (b *Builder) WithEnvironment() *Builder {
	b.env = true
	return b
}

// WithConfigFiles sets explicit configuration file paths, highest precedence
// first.
func (b *Builder) WithConfigFiles(paths ...string) *Builder {
	b.files = append(b.files, paths...)
	return b
}

// WithFileDiscovery appends the default search paths after any explicit
// paths.
func (b *Builder) WithFileDiscovery() *Builder {
	b.discovered = true
	return b
}

// WithHistory enables full resolution history tracking.
func (b *Builder) WithHistory() *Builder {
	b.history = true
	return b
}

// WithObserver registers a side-channel observer.
func (b *Builder) WithObserver(o ResolutionObserver) *Builder {
	if o != nil {
		b.observers = append(b.observers, o)
	}
	return b
}

// WithValidator adds a validation function run at the end of the build.
// Multiple validators execute in registration order.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// WithLogger sets the logger for absorbed handler failures.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithSource appends a custom source at the lowest precedence position,
// after the standard stack.
func (b *Builder) WithSource(s ConfigurationSource) *Builder {
	if s != nil {
		b.extra = append(b.extra, s)
	}
	return b
}

// Build assembles the resolver. Source order is CLI arguments, environment,
// files, then any custom sources.
func (b *Builder) Build() (*ConfigurationResolver, error) {
	var sources []ConfigurationSource

	if len(b.cliArgs) > 0 {
		sources = append(sources, NewCliArgumentSource(b.cliArgs, b.logger))
	}
	if b.env {
		sources = append(sources, NewEnvironmentSource(DefaultEnvHandlers(), b.logger))
	}

	paths := b.files
	if b.discovered {
		paths = append(paths, DefaultConfigSearchPaths()...)
	}
	if len(paths) > 0 {
		sources = append(sources, NewFileSource(paths, DefaultFileHandlers(), b.logger))
	}
	sources = append(sources, b.extra...)

	opts := make([]ResolverOption, 0, 2+len(b.observers))
	if b.history {
		opts = append(opts, WithHistory())
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	for _, o := range b.observers {
		opts = append(opts, WithObserver(o))
	}

	resolver := NewConfigurationResolver(sources, opts...)

	for _, validator := range b.validators {
		if err := validator(resolver); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return resolver, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *ConfigurationResolver {
	resolver, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("resolver build failed: %v", err))
	}
	return resolver
}
