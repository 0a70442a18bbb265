package cats

import (
	"log/slog"
	"sync"

	"typecats/convert"
)

// Registry tracks the converters patched for records and holds the failure
// hook the Struc and TryStruc entry points report to.
//
// Patching is safe for concurrent use. Replacing the failure hook is not.
type Registry struct {
	logger *slog.Logger
	hook   FailureHook

	mu      sync.Mutex
	patched map[*convert.Converter]struct{}
}

type RegistryOption func(*Registry)

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// WithFailureHook replaces the default hook, which logs a warning.
func WithFailureHook(hook FailureHook) RegistryOption {
	return func(r *Registry) { r.hook = hook }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{patched: make(map[*convert.Converter]struct{})}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

func (r *Registry) Logger() *slog.Logger { return r.logger }

// SetLogger replaces the logger; nil restores slog.Default. Like the failure
// hook, it is meant for start-up.
func (r *Registry) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	r.logger = logger
}

// SetFailureHook replaces the failure hook; nil restores the default one.
// Last writer wins.
func (r *Registry) SetFailureHook(hook FailureHook) {
	r.hook = hook
}

// FailureHook returns the hook failures are reported to.
func (r *Registry) FailureHook() FailureHook {
	if r.hook == nil {
		return r.LogFailure
	}

	return r.hook
}

// NewConverter creates a converter patched by r.
func (r *Registry) NewConverter(opts ...convert.Option) *convert.Converter {
	c := convert.New(opts...)
	r.Patch(c)

	return c
}

// IsPatched reports whether c was patched through r.
func (r *Registry) IsPatched(c *convert.Converter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.patched[c]

	return ok
}
