package convert

import (
	"log/slog"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"typecats/diagnostic"
	"typecats/primitive"
	"typecats/record"
)

// DefaultCacheSize bounds the number of per-type functions kept by a converter.
const DefaultCacheSize = 1024

type (
	// StructureFunc builds a value of type t from data.
	StructureFunc func(data any, t reflect.Type) (reflect.Value, error)
	// UnstructureFunc turns v back into a loosely typed tree.
	UnstructureFunc func(v reflect.Value, s Scope) any
	// Predicate selects the types a hook applies to.
	Predicate func(t reflect.Type) bool
	// StructureFactory builds the StructureFunc of one concrete type. It runs
	// once per type until the cache is purged.
	StructureFactory func(t reflect.Type) StructureFunc
	// UnstructureFactory is StructureFactory for unstructuring.
	UnstructureFactory func(t reflect.Type) UnstructureFunc
)

// Scope carries per-call unstructuring settings down the recursion.
type Scope struct {
	// StripDefaults omits record fields equal to their default. Applies at
	// every nesting level.
	StripDefaults bool
}

type structureHook struct {
	pred    Predicate
	factory StructureFactory
}

type unstructureHook struct {
	pred    Predicate
	factory UnstructureFactory
}

// Converter structures and unstructures values. Hook registration and mode
// changes are configuration: make them before the converter is shared
// between goroutines. Structuring and unstructuring are safe for concurrent
// use.
type Converter struct {
	catalog   *record.Catalog
	detailed  bool
	coercions primitive.CategoryEnum
	logger    *slog.Logger
	cacheSize int

	structureExact   map[reflect.Type]StructureFunc
	structureHooks   []structureHook
	unstructureExact map[reflect.Type]UnstructureFunc
	unstructureHooks []unstructureHook

	structureCache   *lru.Cache[reflect.Type, StructureFunc]
	unstructureCache *lru.Cache[reflect.Type, UnstructureFunc]
}

type Option func(*Converter)

// WithCatalog shares a record catalog between converters.
func WithCatalog(catalog *record.Catalog) Option {
	return func(c *Converter) { c.catalog = catalog }
}

func WithDetailedValidation(enabled bool) Option {
	return func(c *Converter) { c.detailed = enabled }
}

// WithCoercions sets the scalar conversions allowed when an input value is
// not of the target kind.
func WithCoercions(allowed primitive.CategoryEnum) Option {
	return func(c *Converter) { c.coercions = allowed }
}

func WithCacheSize(size int) Option {
	return func(c *Converter) { c.cacheSize = size }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// New creates a converter in detailed validation mode with the default
// coercions.
func New(opts ...Option) *Converter {
	c := &Converter{
		detailed:         true,
		coercions:        primitive.CategoryDefault,
		cacheSize:        DefaultCacheSize,
		structureExact:   make(map[reflect.Type]StructureFunc),
		unstructureExact: make(map[reflect.Type]UnstructureFunc),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.catalog == nil {
		c.catalog = record.NewCatalog()
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.cacheSize <= 0 {
		c.cacheSize = DefaultCacheSize
	}

	// only fails for non-positive sizes
	c.structureCache, _ = lru.New[reflect.Type, StructureFunc](c.cacheSize)
	c.unstructureCache, _ = lru.New[reflect.Type, UnstructureFunc](c.cacheSize)

	return c
}

func (c *Converter) Catalog() *record.Catalog { return c.catalog }

func (c *Converter) Coercions() primitive.CategoryEnum { return c.coercions }

func (c *Converter) Logger() *slog.Logger { return c.logger }

// DetailedValidation reports whether structuring collects every failure
// (true) or stops at the first one.
func (c *Converter) DetailedValidation() bool { return c.detailed }

// SetDetailedValidation switches the validation mode. Not safe while the
// converter is in use.
func (c *Converter) SetDetailedValidation(enabled bool) {
	c.detailed = enabled
	c.purge()
}

// IsRecord is the predicate of record types.
func (c *Converter) IsRecord(t reflect.Type) bool {
	return record.IsRecordType(t)
}

// Structure builds a value of type t from data. Every mismatch between data
// and t is reported as an error for which diagnostic.IsStructuring holds, in
// both validation modes. Errors returned by hooks outside that family are
// passed through.
func (c *Converter) Structure(data any, t reflect.Type) (reflect.Value, error) {
	v, err := c.StructureValue(data, t)
	if err != nil {
		if !c.detailed && diagnostic.IsStructuring(err) {
			err = diagnostic.Simple(err, t)
		}

		return reflect.Value{}, err
	}

	return v, nil
}

// StructureValue is Structure without the basic-mode wrapping, for use by
// hooks structuring nested values.
func (c *Converter) StructureValue(data any, t reflect.Type) (reflect.Value, error) {
	return c.structureFunc(t)(data, t)
}

// StructureInto is Structure for a static target type.
func StructureInto[T any](c *Converter, data any) (T, error) {
	var zero T

	v, err := c.Structure(data, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	// a nil interface asserts to nothing, zero stays
	res, _ := v.Interface().(T)

	return res, nil
}

// Unstructure turns v into maps, slices and scalars.
func (c *Converter) Unstructure(v any, s Scope) any {
	return c.UnstructureValue(reflect.ValueOf(v), s)
}

func (c *Converter) UnstructureValue(v reflect.Value, s Scope) any {
	if !v.IsValid() {
		return nil
	}

	return c.unstructureFunc(v.Type())(v, s)
}

// RegisterStructureHook handles exactly t with fn.
func (c *Converter) RegisterStructureHook(t reflect.Type, fn StructureFunc) {
	c.structureExact[t] = fn
	c.purge()
}

// RegisterStructureHookFunc handles every type matching pred with fn.
func (c *Converter) RegisterStructureHookFunc(pred Predicate, fn StructureFunc) {
	c.RegisterStructureHookFactory(pred, func(reflect.Type) StructureFunc { return fn })
}

// RegisterStructureHookFactory builds the handling of every type matching
// pred with factory. Later registrations take precedence.
func (c *Converter) RegisterStructureHookFactory(pred Predicate, factory StructureFactory) {
	c.structureHooks = append(c.structureHooks, structureHook{pred: pred, factory: factory})
	c.purge()
}

func (c *Converter) RegisterUnstructureHook(t reflect.Type, fn UnstructureFunc) {
	c.unstructureExact[t] = fn
	c.purge()
}

func (c *Converter) RegisterUnstructureHookFunc(pred Predicate, fn UnstructureFunc) {
	c.RegisterUnstructureHookFactory(pred, func(reflect.Type) UnstructureFunc { return fn })
}

func (c *Converter) RegisterUnstructureHookFactory(pred Predicate, factory UnstructureFactory) {
	c.unstructureHooks = append(c.unstructureHooks, unstructureHook{pred: pred, factory: factory})
	c.purge()
}

func (c *Converter) purge() {
	c.structureCache.Purge()
	c.unstructureCache.Purge()
}

func (c *Converter) structureFunc(t reflect.Type) StructureFunc {
	if fn, ok := c.structureCache.Get(t); ok {
		return fn
	}

	fn := c.buildStructureFunc(t)
	c.structureCache.Add(t, fn)

	return fn
}

func (c *Converter) buildStructureFunc(t reflect.Type) StructureFunc {
	if fn, ok := c.structureExact[t]; ok {
		return fn
	}

	for i := len(c.structureHooks) - 1; i >= 0; i-- {
		if hook := c.structureHooks[i]; hook.pred(t) {
			c.logger.Debug("structure hook selected", slog.String("type", t.String()))
			return hook.factory(t)
		}
	}

	return c.builtinStructureFunc(t)
}

func (c *Converter) unstructureFunc(t reflect.Type) UnstructureFunc {
	if fn, ok := c.unstructureCache.Get(t); ok {
		return fn
	}

	fn := c.buildUnstructureFunc(t)
	c.unstructureCache.Add(t, fn)

	return fn
}

func (c *Converter) buildUnstructureFunc(t reflect.Type) UnstructureFunc {
	if fn, ok := c.unstructureExact[t]; ok {
		return fn
	}

	for i := len(c.unstructureHooks) - 1; i >= 0; i-- {
		if hook := c.unstructureHooks[i]; hook.pred(t) {
			c.logger.Debug("unstructure hook selected", slog.String("type", t.String()))
			return hook.factory(t)
		}
	}

	return c.builtinUnstructureFunc(t)
}

func (c *Converter) builtinStructureFunc(t reflect.Type) StructureFunc {
	switch Dispatch(t) {
	case DispatcherScalar:
		return c.structureScalar
	case DispatcherText:
		return c.structureText
	case DispatcherInterface:
		return c.structureInterface
	case DispatcherPointer:
		return c.structurePointer
	case DispatcherSlice:
		return c.structureSlice
	case DispatcherSet:
		return c.structureSet
	case DispatcherMap:
		return c.structureMap
	case DispatcherRecord:
		return c.StructureFields
	}

	return c.structureAssignable
}

func (c *Converter) builtinUnstructureFunc(t reflect.Type) UnstructureFunc {
	switch Dispatch(t) {
	case DispatcherScalar:
		return c.unstructureScalar
	case DispatcherText:
		return c.unstructureText
	case DispatcherInterface, DispatcherPointer:
		return c.unstructureIndirect
	case DispatcherSlice:
		return c.unstructureSlice
	case DispatcherSet:
		return c.unstructureSet
	case DispatcherMap:
		return c.unstructureMap
	case DispatcherRecord:
		return c.unstructureRecord
	}

	return passThrough
}

// structureAssignable accepts data as-is when its type fits t.
func (c *Converter) structureAssignable(data any, t reflect.Type) (reflect.Value, error) {
	dv := reflect.ValueOf(data)
	if dv.IsValid() && dv.Type().AssignableTo(t) {
		res := reflect.New(t).Elem()
		res.Set(dv)

		return res, nil
	}

	return reflect.Value{}, mismatch(data, t, nil)
}

func passThrough(v reflect.Value, _ Scope) any {
	if !v.CanInterface() {
		return nil
	}

	return v.Interface()
}

func mismatch(data any, t reflect.Type, cause error) error {
	return &diagnostic.FieldError{Kind: diagnostic.KindTypeMismatch, Type: t, Value: data, Err: cause}
}
