// Package orchestration runs population queries across several strategies
// concurrently and cross-validates their results. It decouples the
// computation from presentation via the ProgressReporter, ResultPresenter
// and ErrorHandler interfaces, and traces every query with OpenTelemetry.
package orchestration
