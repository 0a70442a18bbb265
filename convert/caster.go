package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"reflect"
	"runtime"
	"strings"

	"typecats/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
	ErrCasterRejected       = errors.New("caster rejected the value")
)

var errorType = reflect.TypeFor[error]()

// Caster describes a plain conversion function used as a structure hook for
// its result type.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster if it is a
// valid caster function.
//
// Supports signatures:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Pointer && src.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	alias, name := utils.Unpack2(strings.SplitN(runtime.FuncForPC(fnVal.Pointer()).Name(), ".", 2))

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: utils.Second(path.Split(alias)),
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case last.Implements(errorType):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !terr.Implements(errorType) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// String names the caster as package.Func.
func (cs Caster) String() string {
	return cs.PackageAlias + "." + cs.Name
}

// Call structures data into the caster's source type, then applies it.
// A false flag or a returned error is reported as a type mismatch.
func (cs Caster) Call(c *Converter, data any) (reflect.Value, error) {
	var src reflect.Value

	if dv := reflect.ValueOf(data); dv.IsValid() && dv.Type() == cs.Src {
		src = dv
	} else if cs.Src == cs.Dst {
		return reflect.Value{}, mismatch(data, cs.Dst, nil)
	} else {
		var err error
		if src, err = c.StructureValue(data, cs.Src); err != nil {
			return reflect.Value{}, err
		}
	}

	out := cs.fn.Call([]reflect.Value{src})

	if cs.HasErr {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return reflect.Value{}, mismatch(data, cs.Dst, errVal.Interface().(error))
		}
	}

	if cs.HasBool && !out[1].Bool() {
		return reflect.Value{}, mismatch(data, cs.Dst, fmt.Errorf("%w: %s", ErrCasterRejected, cs))
	}

	return out[0], nil
}

// RegisterCaster installs a caster function as the structure hook of its
// result type.
func (c *Converter) RegisterCaster(fn any) error {
	caster, err := ParseCaster(fn)
	if err != nil {
		return err
	}

	c.RegisterStructureHook(caster.Dst, func(data any, _ reflect.Type) (reflect.Value, error) {
		return caster.Call(c, data)
	})

	c.logger.Debug("caster registered",
		slog.String("caster", caster.String()),
		slog.String("src", caster.Src.String()),
		slog.String("dst", caster.Dst.String()),
	)

	return nil
}
