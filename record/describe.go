package record

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"typecats/primitive"
)

var (
	ErrNotAStruct    = errors.New("record types must be structs")
	ErrBadDefaultTag = errors.New("invalid default tag")
)

var (
	extrasType       = reflect.TypeFor[Extras]()
	selfValidateType = reflect.TypeFor[interface{ Validate() error }]()

	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// shapes caches the structural description of every struct seen so far.
// Declarations copy from it and never modify it.
var shapes sync.Map // reflect.Type -> *Descriptor

// Shape describes the fields of a struct type from its tags alone:
//   - `json:"name"` renames the mapping key, `json:"-"` skips the field
//   - `default:"..."` makes the field optional; the tag is a YAML literal,
//     except for string fields which take the text verbatim, and an empty tag
//     means the zero value
//   - `cat:"literal"` marks a literal field, which needs a default
//
// Embedded structs without a json name are flattened into the record and an
// embedded Extras makes the record a wildcat.
func Shape(t reflect.Type) (*Descriptor, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotAStruct, t)
	}

	if d, ok := shapes.Load(t); ok {
		return d.(*Descriptor), nil
	}

	d := &Descriptor{
		Type:           t,
		SelfValidating: t.Implements(selfValidateType) || reflect.PointerTo(t).Implements(selfValidateType),
	}

	if err := collectFields(d, t, nil); err != nil {
		return nil, fmt.Errorf("describe %s: %w", t, err)
	}

	if d.ExtrasIndex != nil {
		d.Variant = VariantWildcat
	}

	d.index()

	actual, _ := shapes.LoadOrStore(t, d)

	return actual.(*Descriptor), nil
}

// IsRecordType reports whether t is structured field by field. Time, decimals
// and types decoding themselves from text are scalars even though they are
// structs.
func IsRecordType(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct || t == extrasType {
		return false
	}

	if primitive.FromReflectType(t) != 0 {
		return false
	}

	return !reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func collectFields(d *Descriptor, t reflect.Type, prefix []int) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if sf.Anonymous && sf.Type == extrasType {
			if d.ExtrasIndex != nil {
				return errors.New("more than one embedded Extras")
			}

			d.ExtrasIndex = index
			continue
		}

		name, skip := jsonName(sf)
		if skip {
			continue
		}

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct && IsRecordType(sf.Type) {
			if err := collectFields(d, sf.Type, index); err != nil {
				return err
			}

			continue
		}

		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = sf.Name
		}

		if existing := fieldIndex(d, name); existing >= 0 {
			// the shallower field wins, as in encoding/json
			if len(d.Fields[existing].Index) <= len(index) {
				continue
			}

			d.Fields = append(d.Fields[:existing], d.Fields[existing+1:]...)
		}

		field := Field{Name: name, GoName: sf.Name, Index: index, Type: sf.Type}

		if tag, ok := sf.Tag.Lookup("default"); ok {
			def, err := parseDefault(tag, sf.Type)
			if err != nil {
				return fmt.Errorf("field %s: %w", sf.Name, err)
			}

			field.Default = def
		}

		if hasOption(sf.Tag.Get("cat"), "literal") {
			if field.Default == nil {
				return fmt.Errorf("field %s: literal fields need a default", sf.Name)
			}

			field.Literal = true
		}

		d.Fields = append(d.Fields, field)
	}

	return nil
}

func fieldIndex(d *Descriptor, name string) int {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return i
		}
	}

	return -1
}

func parseDefault(tag string, t reflect.Type) (*Default, error) {
	if tag == "" {
		return &Default{Zero: true}, nil
	}

	if primitive.BaseKind(t) == primitive.KindString {
		return &Default{Value: tag}, nil
	}

	var value any
	if err := yaml.Unmarshal([]byte(tag), &value); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBadDefaultTag, tag, err)
	}

	return &Default{Value: value}, nil
}

func jsonName(sf reflect.StructField) (name string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}

	name, _, _ = strings.Cut(tag, ",")

	return name, false
}

func hasOption(tag, option string) bool {
	for part := range strings.SplitSeq(tag, ",") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}

	return false
}
