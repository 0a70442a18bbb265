package cats

import (
	"log/slog"
	"reflect"

	"typecats/convert"
	"typecats/diagnostic"
	"typecats/record"
)

// Patch installs the record hooks on c: wildcat enrichment, default
// stripping and type path tracking. Patching the same converter again does
// nothing. There is no way to unpatch.
func (r *Registry) Patch(c *convert.Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patched[c]; ok {
		return
	}

	c.RegisterStructureHookFactory(c.IsRecord, func(reflect.Type) convert.StructureFunc {
		return func(data any, t reflect.Type) (reflect.Value, error) {
			v, err := structureRecord(c, data, t)

			return v, diagnostic.Embed(err, data, t)
		}
	})

	c.RegisterUnstructureHookFactory(c.IsRecord, func(t reflect.Type) convert.UnstructureFunc {
		return func(v reflect.Value, s convert.Scope) any {
			return unstructureRecord(c, v, t, s)
		}
	})

	r.patched[c] = struct{}{}
	r.logger.Debug("converter patched for records", slog.Int("patched", len(r.patched)))
}

func structureRecord(c *convert.Converter, data any, t reflect.Type) (reflect.Value, error) {
	d, err := c.Catalog().Describe(t)
	if err != nil {
		return reflect.Value{}, err
	}

	// wildcats also accept instances of themselves
	if inst, ok := instanceOf(data, t); ok && d.IsWildcat() {
		return record.CopyWildcat(inst, d), nil
	}

	v, err := c.StructureFields(data, t)
	if err != nil {
		return reflect.Value{}, err
	}

	if m, ok := convert.Mapping(data); ok {
		record.EnrichStructured(v, m, d)
	}

	return v, nil
}

func unstructureRecord(c *convert.Converter, v reflect.Value, t reflect.Type, s convert.Scope) any {
	d, err := c.Catalog().Describe(t)
	if err != nil {
		return nil
	}

	res := c.UnstructureFields(v, s)
	if s.StripDefaults {
		res = stripDefaults(c, d, res, v)
	}

	record.EnrichUnstructured(v, res, d, func(value any) any {
		return c.Unstructure(value, s)
	})

	return res
}

func instanceOf(data any, t reflect.Type) (reflect.Value, bool) {
	dv := reflect.ValueOf(data)

	switch {
	case !dv.IsValid():
		return dv, false
	case dv.Type() == t:
		return dv, true
	case dv.Kind() == reflect.Pointer && dv.Type().Elem() == t && !dv.IsNil():
		return dv, true
	}

	return dv, false
}
