package cats

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"typecats/diagnostic"
)

// FailureHook receives a failed structuring: the error, the input item, the
// requested type and the type path frames from the outermost item inwards.
type FailureHook func(err error, item any, t reflect.Type, stack []diagnostic.Frame)

// FailureMessage describes where structuring failed, starting from the
// innermost frame of the stack.
func FailureMessage(item any, t reflect.Type, stack []diagnostic.Frame) string {
	if len(stack) == 0 {
		return fmt.Sprintf("Failed to structure %s from item <%v>", diagnostic.TypeName(t), item)
	}

	leaf := stack[len(stack)-1]
	msg := fmt.Sprintf("Failed to structure %s from item <%v>", leaf.TypeName(), leaf.Item)

	if len(stack) > 1 {
		msg += fmt.Sprintf(" at type path [%s] within item %v", strings.Join(typePath(stack), ", "), item)
	}

	return msg
}

// LogFailure is the default failure hook: one warning per failure.
func (r *Registry) LogFailure(err error, item any, t reflect.Type, stack []diagnostic.Frame) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Logging failure", slog.Any("panic", p))
		}
	}()

	r.logger.Warn(FailureMessage(item, t, stack),
		slog.Any("item", item),
		slog.Any("type_path", typePath(stack)),
		slog.Any("error", err),
	)
}

func (r *Registry) emit(err error, item any, t reflect.Type) {
	r.FailureHook()(err, item, t, diagnostic.Extract(err))
}

func typePath(stack []diagnostic.Frame) []string {
	path := make([]string, len(stack))
	for i, f := range stack {
		path[i] = f.TypeName()
	}

	return path
}
