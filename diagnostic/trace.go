package diagnostic

import (
	"errors"
	"reflect"
	"slices"
)

// Frame is one level of the type path: the item that failed to structure and
// the type it was structured into.
type Frame struct {
	Item any
	Type reflect.Type
}

func (f Frame) TypeName() string {
	return TypeName(f.Type)
}

// trace is embedded into the error types of the family. Frames are stored
// innermost first.
type trace struct {
	frames []Frame
}

func (t *trace) traceFrames() []Frame { return t.frames }

func (t *trace) pushFrame(f Frame) { t.frames = append(t.frames, f) }

type traced interface {
	error
	traceFrames() []Frame
	pushFrame(Frame)
}

// tracedError carries a trace for errors outside the family, such as those
// returned by user hooks.
type tracedError struct {
	err error
	trace
}

func (e *tracedError) Error() string { return e.err.Error() }

func (e *tracedError) Unwrap() error { return e.err }

// Embed records that err happened while structuring item into t. The frame
// is appended to the trace already on err; the error keeps its identity
// whenever it can carry a trace itself.
func Embed(err error, item any, t reflect.Type) error {
	if err == nil {
		return nil
	}

	frame := Frame{Item: item, Type: t}

	if tr, ok := err.(traced); ok {
		tr.pushFrame(frame)
		return err
	}

	wrapped := &tracedError{err: err}
	wrapped.frames = append(innermostFirst(err), frame)

	return wrapped
}

// Extract returns the frames attached to err from the outermost item to the
// innermost one, or nil when nothing was recorded.
func Extract(err error) []Frame {
	frames := innermostFirst(err)
	if len(frames) == 0 {
		return nil
	}

	res := slices.Clone(frames)
	slices.Reverse(res)

	return res
}

// TypePath lists the type names of the frames, outermost first.
func TypePath(err error) []string {
	frames := Extract(err)

	res := make([]string, 0, len(frames))
	for _, f := range frames {
		res = append(res, f.TypeName())
	}

	return res
}

func innermostFirst(err error) []Frame {
	var tr traced
	if err == nil || !errors.As(err, &tr) {
		return nil
	}

	return slices.Clone(tr.traceFrames())
}
