package metric

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Collector pings storage at scrape time and reports tracker_storage_up.
type Collector struct {
	pinger  Pinger
	timeout time.Duration
	up      *prometheus.Desc
}

// NewCollector creates a collector for the storage driver named driver.
func NewCollector(pinger Pinger, driver string) *Collector {
	return &Collector{
		pinger:  pinger,
		timeout: 2 * time.Second,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "storage", "up"),
			"Whether the storage driver answered a ping (1) or not (0)",
			nil,
			prometheus.Labels{"driver": driver},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	value := 1.0
	if err := c.pinger.Ping(ctx); err != nil {
		value = 0
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, value)
}
