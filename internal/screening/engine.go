// Package screening runs the multiple-choice screening test for one
// (role, session) pair: one question at a time, no skipping, scored against
// a fixed percentage threshold on completion.
package screening

import (
	"fmt"
	"strings"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
)

// DefaultPassThreshold is the passing percentage used when no override is
// configured.
const DefaultPassThreshold = 70.0

// Result is the outcome of a completed test.
type Result struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// Session tracks one candidate's progress through a role's question list.
// Not safe for concurrent use; the owning application serializes access.
type Session struct {
	roleID    string
	questions []store.Question
	index     int
	answers   []string
	completed bool
	threshold float64
}

// NewSession starts a fresh test over the given ordered question list.
// A role with zero questions yields an already-completed session that scores
// as an automatic pass (reference behavior, kept intentionally).
func NewSession(roleID string, questions []store.Question, threshold float64) *Session {
	if threshold <= 0 {
		threshold = DefaultPassThreshold
	}
	return &Session{
		roleID:    roleID,
		questions: questions,
		answers:   make([]string, 0, len(questions)),
		completed: len(questions) == 0,
		threshold: threshold,
	}
}

func (s *Session) RoleID() string { return s.roleID }

// Completed reports whether every question has been answered.
func (s *Session) Completed() bool { return s.completed }

// Progress returns the current question index and the total question count.
func (s *Session) Progress() (index, total int) {
	return s.index, len(s.questions)
}

// Current returns the question awaiting an answer. ok is false once the test
// is complete.
func (s *Session) Current() (q store.Question, ok bool) {
	if s.completed || s.index >= len(s.questions) {
		return store.Question{}, false
	}
	return s.questions[s.index], true
}

// Submit records the chosen option text verbatim and advances to the next
// question. An empty selection or an option not offered by the current
// question is rejected without advancing.
func (s *Session) Submit(answer string) error {
	if s.completed {
		return fmt.Errorf("test already completed")
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("an answer must be selected before continuing")
	}

	q := s.questions[s.index]
	valid := false
	for _, opt := range q.Options {
		if opt == answer {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("answer %q is not one of the offered options", answer)
	}

	s.answers = append(s.answers, answer)
	s.index++
	if s.index >= len(s.questions) {
		s.completed = true
	}
	return nil
}

// Score computes the final result. A zero-question test scores 100 and
// passes automatically.
func (s *Session) Score() Result {
	total := len(s.questions)
	if total == 0 {
		return Result{Correct: 0, Total: 0, Percentage: 100.0, Passed: true}
	}

	correct := 0
	for i, answer := range s.answers {
		if answer == s.questions[i].Answer {
			correct++
		}
	}
	percentage := 100.0 * float64(correct) / float64(total)
	return Result{
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
		Passed:     percentage >= s.threshold,
	}
}

// Reset clears all progress: index zero, no answers, not completed.
func (s *Session) Reset() {
	s.index = 0
	s.answers = s.answers[:0]
	s.completed = len(s.questions) == 0
}
