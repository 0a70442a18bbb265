package cats

import (
	"maps"
	"reflect"

	"typecats/convert"
	"typecats/record"
)

// StripDefaults returns a copy of unstructured, the unstructured form of the
// record value, without the keys whose field still holds its default.
// Literal fields are kept. Factory defaults are evaluated once per call.
// Anything but a record value leaves unstructured unchanged.
func StripDefaults(c *convert.Converter, unstructured map[string]any, value any) map[string]any {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	if !rv.IsValid() || !record.IsRecordType(rv.Type()) {
		return unstructured
	}

	d, err := c.Catalog().Describe(rv.Type())
	if err != nil {
		return unstructured
	}

	return stripDefaults(c, d, unstructured, rv)
}

func stripDefaults(c *convert.Converter, d *record.Descriptor, unstructured map[string]any, rv reflect.Value) map[string]any {
	res := maps.Clone(unstructured)

	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Literal || f.Required() {
			continue
		}

		def, err := c.Default(f)
		if err != nil {
			c.Logger().Debug("default not comparable", "field", f.Name, "error", err)
			continue
		}

		if record.ValueEqual(rv.FieldByIndex(f.Index), def) {
			delete(res, f.Name)
		}
	}

	return res
}
