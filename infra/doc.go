// Package infra contains the adapters the pipeline runs on: fetchers,
// outputs, the MQTT client, metrics exporters and the error monitor. These
// packages should depend only on the interfaces defined in the core packages.
package infra
