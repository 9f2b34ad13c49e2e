// Package build renders a content directory of markdown documents into HTML
// fragments plus a manifest.
//
// Builder.Build is the single entry point used by the CLI, the watcher and
// tests. Documents flow through the pipeline package; the previous manifest
// lets unchanged documents be skipped.
package build
