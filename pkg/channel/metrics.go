/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package channel

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a prometheus.Collector fed by channel events. One Metrics can
// observe many channels; series are labelled by channel name.
type Metrics struct {
	operations *prometheus.CounterVec
	discarded  *prometheus.CounterVec
	depth      *prometheus.GaugeVec
	waits      *prometheus.HistogramVec
}

var _ prometheus.Collector = (*Metrics)(nil)

// NewMetrics creates the collectors under namespace. Register the result
// with a prometheus.Registerer to export it.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ringchan",
			Name:      "operations_total",
			Help:      "Channel operations by kind and result.",
		}, []string{"channel", "op", "result"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ringchan",
			Name:      "discarded_total",
			Help:      "Buffered values dropped by close.",
		}, []string{"channel"}),
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ringchan",
			Name:      "buffered",
			Help:      "Values currently buffered.",
		}, []string{"channel"}),
		waits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ringchan",
			Name:      "wait_seconds",
			Help:      "Time blocking operations spent waiting for space or data.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"channel", "op"}),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.operations.Describe(ch)
	m.discarded.Describe(ch)
	m.depth.Describe(ch)
	m.waits.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.operations.Collect(ch)
	m.discarded.Collect(ch)
	m.depth.Collect(ch)
	m.waits.Collect(ch)
}

// Observe implements Observer.
func (m *Metrics) Observe(ev Event) {
	op := ev.Op.String()
	m.operations.WithLabelValues(ev.Channel, op, resultLabel(ev.Err)).Inc()
	if ev.Waited > 0 {
		m.waits.WithLabelValues(ev.Channel, op).Observe(ev.Waited.Seconds())
	}
	if ev.Discarded > 0 {
		m.discarded.WithLabelValues(ev.Channel).Add(float64(ev.Discarded))
	}
	if ev.Err == nil {
		m.depth.WithLabelValues(ev.Channel).Set(float64(ev.Len))
	}
}
