package metrics

import (
	"github.com/x-xyz/marketledger/base/log"
)

// LogClient stands in for statsd when datadog_host is empty, every metric becomes a debug line
type LogClient struct{}

func (lc *LogClient) write(kind, name string, value interface{}, tags []string) error {
	log.Log().WithFields(log.Fields{
		"metric": name,
		"kind":   kind,
		"value":  value,
		"tags":   tags,
	}).Debug("metric")
	return nil
}

func (lc *LogClient) Gauge(name string, value float64, tags []string, _ float64) error {
	return lc.write("gauge", name, value, tags)
}

func (lc *LogClient) Count(name string, value int64, tags []string, _ float64) error {
	return lc.write("count", name, value, tags)
}

func (lc *LogClient) Histogram(name string, value float64, tags []string, _ float64) error {
	return lc.write("histogram", name, value, tags)
}

// TimeInMilliseconds values are already in ms
func (lc *LogClient) TimeInMilliseconds(name string, value float64, tags []string, _ float64) error {
	return lc.write("time_ms", name, value, tags)
}
