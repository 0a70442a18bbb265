package convert

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"typecats/diagnostic"
)

// collector gathers child failures. In basic mode the first failure stops
// structuring; failures outside the structuring family always do.
type collector struct {
	detailed bool
	errs     []error
}

// add records err at a location and reports whether structuring must stop.
func (col *collector) add(err error, locate func(error) error) (stop bool, _ error) {
	if !diagnostic.IsStructuring(err) || !col.detailed {
		return true, err
	}

	col.errs = append(col.errs, locate(err))

	return false, nil
}

func (col *collector) result(t reflect.Type) error {
	if len(col.errs) == 0 {
		return nil
	}

	return diagnostic.NewValidationError("While structuring "+t.String(), t, col.errs)
}

func (c *Converter) structureInterface(data any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if data == nil {
		return out, nil
	}

	dv := reflect.ValueOf(data)
	if !dv.Type().Implements(t) {
		return reflect.Value{}, mismatch(data, t, nil)
	}

	out.Set(dv)

	return out, nil
}

func (c *Converter) structurePointer(data any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if data == nil {
		return out, nil
	}

	if dv := reflect.ValueOf(data); dv.Type() == t {
		if dv.IsNil() {
			return out, nil
		}

		data = dv.Elem().Interface()
	}

	elem, err := c.StructureValue(data, t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(t.Elem())
	ptr.Elem().Set(elem)
	out.Set(ptr)

	return out, nil
}

func (c *Converter) unstructureIndirect(v reflect.Value, s Scope) any {
	if v.IsNil() {
		return nil
	}

	return c.UnstructureValue(v.Elem(), s)
}

// sequence reads any slice or array, and nothing else.
func sequence(data any) (reflect.Value, bool) {
	dv := reflect.ValueOf(data)
	if !dv.IsValid() {
		return dv, false
	}

	switch dv.Kind() {
	case reflect.Slice, reflect.Array:
		return dv, true
	}

	return dv, false
}

func (c *Converter) structureSlice(data any, t reflect.Type) (reflect.Value, error) {
	dv, ok := sequence(data)
	if !ok {
		return reflect.Value{}, mismatch(data, t, nil)
	}

	var out reflect.Value

	if t.Kind() == reflect.Array {
		if dv.Len() != t.Len() {
			return reflect.Value{}, mismatch(data, t, fmt.Errorf("want %d elements, got %d", t.Len(), dv.Len()))
		}

		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, dv.Len(), dv.Len())
	}

	col := collector{detailed: c.detailed}

	for i := range dv.Len() {
		elem, err := c.StructureValue(dv.Index(i).Interface(), t.Elem())
		if err != nil {
			if stop, err := col.add(err, func(err error) error { return diagnostic.AtIndex(i, err) }); stop {
				return reflect.Value{}, err
			}

			continue
		}

		out.Index(i).Set(elem)
	}

	if err := col.result(t); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

func (c *Converter) unstructureSlice(v reflect.Value, s Scope) any {
	res := make([]any, v.Len())
	for i := range v.Len() {
		res[i] = c.UnstructureValue(v.Index(i), s)
	}

	return res
}

// structureSet fills a map[K]struct{} from the elements of a sequence or the
// keys of a mapping.
func (c *Converter) structureSet(data any, t reflect.Type) (reflect.Value, error) {
	var items []reflect.Value

	dv := reflect.ValueOf(data)

	switch {
	case !dv.IsValid():
		return reflect.Value{}, mismatch(data, t, nil)
	case dv.Kind() == reflect.Map:
		items = dv.MapKeys()
	case dv.Kind() == reflect.Slice || dv.Kind() == reflect.Array:
		for i := range dv.Len() {
			items = append(items, dv.Index(i))
		}
	default:
		return reflect.Value{}, mismatch(data, t, nil)
	}

	out := reflect.MakeMapWithSize(t, len(items))
	col := collector{detailed: c.detailed}

	for i, item := range items {
		key, err := c.StructureValue(item.Interface(), t.Key())
		if err != nil {
			if stop, err := col.add(err, func(err error) error { return diagnostic.AtIndex(i, err) }); stop {
				return reflect.Value{}, err
			}

			continue
		}

		out.SetMapIndex(key, reflect.ValueOf(struct{}{}))
	}

	if err := col.result(t); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// unstructureSet lists the members in a stable order.
func (c *Converter) unstructureSet(v reflect.Value, s Scope) any {
	res := make([]any, 0, v.Len())
	for _, key := range v.MapKeys() {
		res = append(res, c.UnstructureValue(key, s))
	}

	slices.SortFunc(res, func(a, b any) int {
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})

	return res
}

func (c *Converter) structureMap(data any, t reflect.Type) (reflect.Value, error) {
	dv := reflect.ValueOf(data)
	if !dv.IsValid() || dv.Kind() != reflect.Map {
		return reflect.Value{}, mismatch(data, t, nil)
	}

	out := reflect.MakeMapWithSize(t, dv.Len())
	col := collector{detailed: c.detailed}

	iter := dv.MapRange()
	for iter.Next() {
		rawKey := iter.Key().Interface()
		locate := func(err error) error { return diagnostic.AtKey(rawKey, err) }

		key, err := c.StructureValue(rawKey, t.Key())
		if err != nil {
			if stop, err := col.add(err, locate); stop {
				return reflect.Value{}, err
			}

			continue
		}

		value, err := c.StructureValue(iter.Value().Interface(), t.Elem())
		if err != nil {
			if stop, err := col.add(err, locate); stop {
				return reflect.Value{}, err
			}

			continue
		}

		out.SetMapIndex(key, value)
	}

	if err := col.result(t); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// unstructureMap keeps string keys as map[string]any, the shape parsers
// produce; other key types give map[any]any.
func (c *Converter) unstructureMap(v reflect.Value, s Scope) any {
	if v.Type().Key().Kind() == reflect.String {
		res := make(map[string]any, v.Len())

		iter := v.MapRange()
		for iter.Next() {
			res[iter.Key().String()] = c.UnstructureValue(iter.Value(), s)
		}

		return res
	}

	res := make(map[any]any, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		res[c.UnstructureValue(iter.Key(), s)] = c.UnstructureValue(iter.Value(), s)
	}

	return res
}
