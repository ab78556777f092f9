package domain

import "time"

// AdaptResult is the outcome of adapting a single file
type AdaptResult struct {
	File  TestFile // File that was adapted
	Case  TestCase // Generated case, zero when Error is set
	Error error    // Error if the case could not be built
}

// InstanceSummary contains counts for one concrete pass instance
type InstanceSummary struct {
	Pass     string        `json:"pass"`
	Instance string        `json:"instance"`
	Files    int           `json:"files"`
	Tests    int           `json:"tests"`
	Skipped  int           `json:"skipped"`
	Errors   int           `json:"errors"`
	Duration time.Duration `json:"-"`
}

// RunMeta contains metadata about a generation run
type RunMeta struct {
	Passes          []string `json:"passes"`
	TotalFiles      int      `json:"total_files"`
	TotalTests      int      `json:"total_tests"`
	TotalSkipped    int      `json:"total_skipped"`
	TotalErrors     int      `json:"total_errors"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Workers         int      `json:"workers"`
	Artifact        string   `json:"artifact"`
	Timestamp       string   `json:"timestamp"`
}

// RunSummary is the complete summary structure of a generation run
type RunSummary struct {
	Meta      RunMeta           `json:"meta"`
	Instances []InstanceSummary `json:"instances"`
}

// Add folds an instance summary into the run totals
func (s *RunSummary) Add(inst InstanceSummary) {
	s.Instances = append(s.Instances, inst)
	s.Meta.TotalFiles += inst.Files
	s.Meta.TotalTests += inst.Tests
	s.Meta.TotalSkipped += inst.Skipped
	s.Meta.TotalErrors += inst.Errors
}
