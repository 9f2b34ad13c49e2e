// Package metrics provides build and document pipeline metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics stay
// optional:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	proc := pipeline.NewProcessor(stages, pipeline.WithRecorder(recorder))
//
// One-shot CLI builds have no scrape endpoint; WriteTextfile dumps the
// registry to a file for node_exporter's textfile collector instead.
package metrics
