// Package metrics records pipeline timing and usage samples to a
// time-series backend. Recording is best-effort: failures are logged
// and never fail the pipeline.
package metrics

import "time"

// Recorder receives pipeline measurement samples
type Recorder interface {
	// WriteMetric writes one named float sample with tags
	WriteMetric(measurement string, tags map[string]string, value float64)
	// WriteLatency records how long a pipeline component took
	WriteLatency(component string, d time.Duration)
	// WriteThroughput records items processed per second for a component
	WriteThroughput(component string, itemsPerSecond float64)
	// WriteTokenUsage records LLM token consumption and estimated cost
	WriteTokenUsage(service string, promptTokens, completionTokens int, cost float64)
	// Close flushes any buffered samples
	Close() error
}

// Nop discards all samples. Used when metrics are disabled.
type Nop struct{}

func (Nop) WriteMetric(string, map[string]string, float64) {}
func (Nop) WriteLatency(string, time.Duration)             {}
func (Nop) WriteThroughput(string, float64)                {}
func (Nop) WriteTokenUsage(string, int, int, float64)      {}

func (Nop) Close() error { return nil }
