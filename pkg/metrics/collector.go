// Package metrics exposes queue registry stats as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/huynhanx03/xk6-queue/pkg/queue"
)

const namespace = "xk6_queue"

var (
	descSize = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "items"),
		"Number of items currently stored in the queue.",
		[]string{"queue"}, nil,
	)
	descWaiters = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "waiters"),
		"Number of pops currently blocked on the queue.",
		[]string{"queue"}, nil,
	)
	descPushed = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "pushed_total"),
		"Items accepted by the queue.",
		[]string{"queue"}, nil,
	)
	descPopped = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "popped_total"),
		"Items delivered by the queue, including direct hand-offs to waiters.",
		[]string{"queue"}, nil,
	)
	descTimedOut = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "pop_timeouts_total"),
		"Blocking pops that reached their deadline.",
		[]string{"queue"}, nil,
	)
	descCancelled = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "pop_cancellations_total"),
		"Blocking pops abandoned because their context ended.",
		[]string{"queue"}, nil,
	)
	descCleared = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "cleared_total"),
		"Items removed by clear.",
		[]string{"queue"}, nil,
	)
	descQueues = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "queues"),
		"Number of named queues in the registry.",
		nil, nil,
	)
)

// StatsSource is anything that can report per-queue stats.
type StatsSource interface {
	Stats() []queue.Stats
}

type registryCollector struct {
	src StatsSource
}

var _ prometheus.Collector = &registryCollector{}

// NewCollector returns a collector that reads src on every scrape.
func NewCollector(src StatsSource) prometheus.Collector {
	return &registryCollector{src: src}
}

// Describe implements the prometheus.Collector interface.
func (c *registryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descSize
	ch <- descWaiters
	ch <- descPushed
	ch <- descPopped
	ch <- descTimedOut
	ch <- descCancelled
	ch <- descCleared
	ch <- descQueues
}

// Collect implements the prometheus.Collector interface.
func (c *registryCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(descQueues, prometheus.GaugeValue, float64(len(stats)))

	for _, st := range stats {
		ch <- prometheus.MustNewConstMetric(descSize, prometheus.GaugeValue, float64(st.Size), st.Name)
		ch <- prometheus.MustNewConstMetric(descWaiters, prometheus.GaugeValue, float64(st.Waiters), st.Name)
		ch <- prometheus.MustNewConstMetric(descPushed, prometheus.CounterValue, float64(st.Pushed), st.Name)
		ch <- prometheus.MustNewConstMetric(descPopped, prometheus.CounterValue, float64(st.Popped), st.Name)
		ch <- prometheus.MustNewConstMetric(descTimedOut, prometheus.CounterValue, float64(st.TimedOut), st.Name)
		ch <- prometheus.MustNewConstMetric(descCancelled, prometheus.CounterValue, float64(st.Cancelled), st.Name)
		ch <- prometheus.MustNewConstMetric(descCleared, prometheus.CounterValue, float64(st.Cleared), st.Name)
	}
}

// NewRegistry returns a Prometheus registry with the queue collector and the
// standard Go and process collectors.
func NewRegistry(src StatsSource) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCollector(src),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
