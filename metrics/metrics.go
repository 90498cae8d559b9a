// Package metrics exports the completion traffic of codec sessions to Prometheus.
package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xaionaro-go/c2module"
	"github.com/xaionaro-go/c2module/types"
)

const namespace = "c2module"

// Metrics holds the collectors; one instance is shared by all sessions and
// the sessions are told apart by the "component" label.
type Metrics struct {
	FramesAvailable *prometheus.CounterVec
	FrameBytes      *prometheus.HistogramVec
	FramesDropped   *prometheus.CounterVec
	EndOfStream     *prometheus.CounterVec
	Errors          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
// (prometheus.DefaultRegisterer if nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FramesAvailable: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_available_total",
				Help:      "Total number of output frames reported by the components",
			},
			[]string{"component"},
		),
		FrameBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frame_bytes",
				Help:      "Size of the linear output buffers",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10), // 256B to 64MiB
			},
			[]string{"component"},
		),
		FramesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_dropped_total",
				Help:      "Total number of frames dropped or discarded by the components",
			},
			[]string{"component"},
		),
		EndOfStream: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "end_of_stream_total",
				Help:      "Total number of end-of-stream events",
			},
			[]string{"component"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors reported asynchronously by the components",
			},
			[]string{"component", "code"},
		),
	}
}

// Notifier counts what passes through it and forwards everything to Next.
type Notifier struct {
	Next      c2module.Notifier
	Metrics   *Metrics
	Component string
}

var (
	_ c2module.Notifier       = (*Notifier)(nil)
	_ c2module.TrippedHandler = (*Notifier)(nil)
)

// WrapNotifier returns a function suitable for engine.Params.WrapNotifier.
func (m *Metrics) WrapNotifier(component string) func(c2module.Notifier) c2module.Notifier {
	return func(next c2module.Notifier) c2module.Notifier {
		return &Notifier{
			Next:      next,
			Metrics:   m,
			Component: component,
		}
	}
}

func (n *Notifier) EventHandler(
	ctx context.Context,
	event types.EventType,
	payload any,
) {
	switch event {
	case types.EventTypeEndOfStream:
		n.Metrics.EndOfStream.WithLabelValues(n.Component).Inc()
	case types.EventTypeDrop:
		n.Metrics.FramesDropped.WithLabelValues(n.Component).Inc()
	case types.EventTypeError:
		code, _ := payload.(uint32)
		n.Metrics.Errors.WithLabelValues(n.Component, strconv.FormatUint(uint64(code), 10)).Inc()
	}
	n.Next.EventHandler(ctx, event, payload)
}

func (n *Notifier) FrameAvailable(
	ctx context.Context,
	buffer types.Buffer,
	frameIndex uint64,
	timestamp uint64,
	flags types.FrameFlags,
) {
	n.Metrics.FramesAvailable.WithLabelValues(n.Component).Inc()
	if buf, ok := buffer.(*types.LinearBuffer); ok {
		n.Metrics.FrameBytes.WithLabelValues(n.Component).Observe(float64(buf.Size))
	}
	n.Next.FrameAvailable(ctx, buffer, frameIndex, timestamp, flags)
}

// OnTripped forwards to Next if it handles trips.
func (n *Notifier) OnTripped(ctx context.Context, results []types.SettingResult) {
	if h, ok := n.Next.(c2module.TrippedHandler); ok {
		h.OnTripped(ctx, results)
	}
}
