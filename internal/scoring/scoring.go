// Package scoring judges resume-role fit. The workflow only depends on the
// Analyzer capability so a real scoring backend can be substituted without
// touching the state machine.
package scoring

import "context"

// Analyzer returns a selection verdict and feedback for a resume against a
// role. Implementations must not fail for well-formed input: an internal
// failure is reported as (false, <error message>).
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, roleID string) (selected bool, feedback string)
}

// StubAnalyzer is the deterministic reference scorer: every candidate is
// selected with fixed feedback.
type StubAnalyzer struct{}

func (StubAnalyzer) Analyze(ctx context.Context, resumeText, roleID string) (bool, string) {
	return true, "The candidate meets over 70% of the required skills for the role."
}
