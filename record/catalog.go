package record

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var ErrUnknownField = errors.New("unknown field")

// Declaration holds what a record declaration adds on top of the struct tags.
// Maps are keyed by mapping key (the json name of the field).
type Declaration struct {
	// AllowEmpties skips the non-empty pass over required fields.
	AllowEmpties bool
	Validators   map[string][]Validator
	Defaults     map[string]Default
	Literals     map[string]bool
}

// Catalog holds record descriptors. Declared types get the non-empty pass;
// any other struct is described on first use from its tags alone.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	descs map[reflect.Type]*Descriptor
}

func NewCatalog() *Catalog {
	return &Catalog{descs: make(map[reflect.Type]*Descriptor)}
}

// Declare builds the descriptor of t from its tags and decl, then publishes
// it, replacing any earlier description of the type.
func (c *Catalog) Declare(t reflect.Type, decl Declaration) (*Descriptor, error) {
	shape, err := Shape(t)
	if err != nil {
		return nil, err
	}

	d := shape.clone()
	d.Declared = true
	d.index()

	for name, validators := range decl.Validators {
		f, ok := d.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownField, name, t)
		}

		f.Validators = append(f.Validators, validators...)
	}

	for name, def := range decl.Defaults {
		f, ok := d.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownField, name, t)
		}

		f.Default = &def
	}

	for name, literal := range decl.Literals {
		f, ok := d.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownField, name, t)
		}

		if literal && f.Default == nil {
			return nil, fmt.Errorf("literal field %q on %s needs a default", name, t)
		}

		f.Literal = literal
	}

	if !decl.AllowEmpties {
		requireNonEmpty(d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.descs[t] = d

	return d, nil
}

// Describe returns the descriptor of t, describing it on first use when it
// has not been declared.
func (c *Catalog) Describe(t reflect.Type) (*Descriptor, error) {
	c.mu.RLock()
	d, ok := c.descs[t]
	c.mu.RUnlock()

	if ok {
		return d, nil
	}

	shape, err := Shape(t)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.descs[t]; ok {
		return d, nil
	}

	c.descs[t] = shape

	return shape, nil
}

// Lookup returns the descriptor of t only when it is already known.
func (c *Catalog) Lookup(t reflect.Type) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.descs[t]

	return d, ok
}

func (c *Catalog) IsDeclared(t reflect.Type) bool {
	d, ok := c.Lookup(t)
	return ok && d.Declared
}
