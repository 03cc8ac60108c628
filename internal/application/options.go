package application

import (
	"time"

	"github.com/shareit-app/shareit-server/internal/metrics"
)

// Option customizes a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the wall clock used for time-dependent rules.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// observe counts a failed operation.
func observe(operation string, err error) {
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
	}
}
