// Package metrics defines the events a pipeline run reports and the sink
// interfaces that record them. Sinks like PromSink and InfluxSink live in
// infra/metrics and register themselves with the factory here, so a list of
// sink configs can be turned into one Sink with NewMetricsSink. Several
// configured sinks are combined into a MultiSink.
package metrics
