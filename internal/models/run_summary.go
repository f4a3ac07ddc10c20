package models

import "time"

// RunStatus is the terminal state of one pipeline run.
type RunStatus string

const (
	RunStatusClean    RunStatus = "clean"
	RunStatusFindings RunStatus = "findings"
	RunStatusSkipped  RunStatus = "skipped"
	// RunStatusUploaded is used by pipelines that publish an inventory rather
	// than findings.
	RunStatusUploaded RunStatus = "uploaded"
)

// RunSummary is what a pipeline reports once it has finished.
type RunSummary struct {
	RunID      string
	Pipeline   string
	Status     RunStatus
	ReportPath string
	// Reported is what the scanner found, Retained what survived filtering
	// and was uploaded.
	Reported int
	Retained int
	Uploaded bool
	Duration time.Duration
}
