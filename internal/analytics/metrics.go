package analytics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "flashprefs"

// MetricsSink counts toggle events per setting. When a textfile path is
// set, Close writes the registry there in the node exporter textfile
// format.
type MetricsSink struct {
	Toggles  *prometheus.CounterVec
	registry *prometheus.Registry
	textfile string
}

// NewMetricsSink registers the toggle counter on a private registry.
func NewMetricsSink(textfile string) *MetricsSink {
	m := &MetricsSink{
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "settings",
			Name:      "toggle_total",
			Help:      "Toggle requests by setting and danger flag.",
		}, []string{"setting", "dangerous"}),
		registry: prometheus.NewRegistry(),
		textfile: textfile,
	}
	m.registry.MustRegister(m.Collectors()...)
	return m
}

// Collectors returns the sink's metrics for registration elsewhere.
func (m *MetricsSink) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{m.Toggles}
}

// Registry exposes the private registry.
func (m *MetricsSink) Registry() *prometheus.Registry {
	return m.registry
}

// LogEvent implements Sink. Events without a setting are ignored.
func (m *MetricsSink) LogEvent(_ string, properties map[string]any) {
	setting, ok := properties[PropSetting].(string)
	if !ok || setting == "" {
		return
	}
	dangerous, _ := properties[PropDangerous].(bool)
	m.Toggles.WithLabelValues(setting, strconv.FormatBool(dangerous)).Inc()
}

// Close flushes the registry to the textfile, if one is configured.
func (m *MetricsSink) Close() error {
	if m.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
