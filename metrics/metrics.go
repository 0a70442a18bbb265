// Package metrics counts structuring failures for Prometheus.
package metrics

import (
	"errors"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"typecats/cats"
	"typecats/diagnostic"
)

// Metrics tracks failures reported through a cats.FailureHook.
type Metrics struct {
	Failures      *prometheus.CounterVec
	FailureLeaves *prometheus.CounterVec
}

// New registers the metrics with reg; a nil reg means the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "typecats_structuring_failures_total",
			Help: "Total number of failed structuring calls by top-level type",
		}, []string{"type"}),
		FailureLeaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "typecats_structuring_failure_leaves_total",
			Help: "Individual field failures by leaf type and error kind",
		}, []string{"type", "kind"}),
	}
}

// Hook counts each failure and then calls next, when set.
func (m *Metrics) Hook(next cats.FailureHook) cats.FailureHook {
	return func(err error, item any, t reflect.Type, stack []diagnostic.Frame) {
		m.Failures.WithLabelValues(diagnostic.TypeName(t)).Inc()

		leaf := t
		if len(stack) > 0 {
			leaf = stack[len(stack)-1].Type
		}

		for _, k := range kinds(err) {
			m.FailureLeaves.WithLabelValues(diagnostic.TypeName(leaf), k).Inc()
		}

		if next != nil {
			next(err, item, t, stack)
		}
	}
}

// NewFailureHook registers fresh metrics with reg and returns their hook.
func NewFailureHook(reg prometheus.Registerer, next cats.FailureHook) cats.FailureHook {
	return New(reg).Hook(next)
}

func kinds(err error) []string {
	leaves := []error{err}

	var ve *diagnostic.ValidationError
	if errors.As(err, &ve) {
		leaves = ve.Leaves()
	}

	res := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		var fe *diagnostic.FieldError
		if errors.As(leaf, &fe) {
			res = append(res, fe.Kind.String())
		} else {
			res = append(res, "other")
		}
	}

	return res
}
