package cats

import (
	"fmt"
	"log/slog"
	"reflect"

	"typecats/convert"
	"typecats/diagnostic"
)

var (
	defaultRegistry  = NewRegistry()
	defaultConverter = defaultRegistry.NewConverter()
)

// DefaultConverter is the converter behind the package-level functions and
// every Cat declared without WithConverter.
func DefaultConverter() *convert.Converter { return defaultConverter }

func DefaultRegistry() *Registry { return defaultRegistry }

// NewConverter creates a converter patched by the default registry.
func NewConverter(opts ...convert.Option) *convert.Converter {
	return defaultRegistry.NewConverter(opts...)
}

// PatchConverter installs the record hooks on a converter created elsewhere.
func PatchConverter(c *convert.Converter) *convert.Converter {
	defaultRegistry.Patch(c)
	return c
}

// SetDetailedValidationMode switches the default converter between
// collecting every failure and stopping at the first one. Not safe while the
// converter is in use.
func SetDetailedValidationMode(enabled bool) {
	defaultConverter.SetDetailedValidation(enabled)
}

// SetLogger replaces the logger of the default registry.
func SetLogger(logger *slog.Logger) {
	defaultRegistry.SetLogger(logger)
}

// SetFailureHook replaces the failure hook of the default registry.
func SetFailureHook(hook FailureHook) {
	defaultRegistry.SetFailureHook(hook)
}

// Struc structures data into a T with the default converter. Failures are
// reported to the failure hook and returned.
func Struc[T any](data any) (T, error) {
	return struc[T](defaultConverter, defaultRegistry, data)
}

// TryStruc is Struc without failure: nil data and structuring failures give
// false. Errors outside the structuring family, panics included, are
// reported to the failure hook first.
func TryStruc[T any](data any) (T, bool) {
	return tryStruc[T](defaultConverter, defaultRegistry, data)
}

type UnstrucOption func(*convert.Scope)

// WithStripDefaults omits record fields still holding their default, at
// every nesting level.
func WithStripDefaults() UnstrucOption {
	return func(s *convert.Scope) { s.StripDefaults = true }
}

// Unstruc turns v into maps, slices and scalars with the default converter.
func Unstruc(v any, opts ...UnstrucOption) any {
	return unstruc(defaultConverter, v, opts)
}

// UnstrucStripDefaults is Unstruc with WithStripDefaults.
func UnstrucStripDefaults(v any) any {
	return Unstruc(v, WithStripDefaults())
}

// RegisterStrucHook handles exactly t with fn on the default converter.
func RegisterStrucHook(t reflect.Type, fn convert.StructureFunc) {
	defaultConverter.RegisterStructureHook(t, fn)
}

func RegisterUnstrucHook(t reflect.Type, fn convert.UnstructureFunc) {
	defaultConverter.RegisterUnstructureHook(t, fn)
}

// RegisterStrucHookFunc handles every type matching pred with fn on the
// default converter.
func RegisterStrucHookFunc(pred convert.Predicate, fn convert.StructureFunc) {
	defaultConverter.RegisterStructureHookFunc(pred, fn)
}

func RegisterUnstrucHookFunc(pred convert.Predicate, fn convert.UnstructureFunc) {
	defaultConverter.RegisterUnstructureHookFunc(pred, fn)
}

// RegisterCaster registers a plain conversion function, such as
// func(string) (Celsius, error), on the default converter.
func RegisterCaster(fn any) error {
	return defaultConverter.RegisterCaster(fn)
}

func struc[T any](c *convert.Converter, r *Registry, data any) (T, error) {
	res, err := convert.StructureInto[T](c, data)
	if err != nil {
		r.emit(err, data, reflect.TypeFor[T]())
	}

	return res, err
}

func tryStruc[T any](c *convert.Converter, r *Registry, data any) (res T, ok bool) {
	if data == nil {
		return res, false
	}

	t := reflect.TypeFor[T]()

	defer func() {
		if p := recover(); p != nil {
			err, isErr := p.(error)
			if !isErr {
				err = fmt.Errorf("panic: %v", p)
			}

			r.emit(err, data, t)

			var zero T
			res, ok = zero, false
		}
	}()

	res, err := convert.StructureInto[T](c, data)
	if err != nil {
		if !diagnostic.IsStructuring(err) {
			r.emit(err, data, t)
		}

		var zero T

		return zero, false
	}

	return res, true
}

func unstruc(c *convert.Converter, v any, opts []UnstrucOption) any {
	var s convert.Scope
	for _, opt := range opts {
		opt(&s)
	}

	return c.Unstructure(v, s)
}
