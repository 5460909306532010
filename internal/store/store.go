package store

import (
	"context"
	"fmt"
	"strings"
)

// Question is one multiple-choice screening question. Answer must match one
// of Options verbatim.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Interview is one booked interview, appended to the analytics log.
type Interview struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Time  string `json:"time"`
	Link  string `json:"link"`
}

// RoleCounters are the per-role funnel counters. All four are monotonically
// non-decreasing.
type RoleCounters struct {
	TotalApplicants int `json:"total_applicants"`
	SelectedForTest int `json:"selected_for_test"`
	Passed          int `json:"passed"`
	Failed          int `json:"failed"`
}

// Snapshot is a point-in-time view of the analytics store.
type Snapshot struct {
	Roles      map[string]RoleCounters `json:"roles"`
	Interviews []Interview             `json:"interviews"`
}

// RoleStore holds role requirements and per-role question banks.
// Deleting a role orphans its questions rather than cascading.
type RoleStore interface {
	ListRoles(ctx context.Context) ([]string, error)
	GetRequirement(ctx context.Context, roleID string) (string, error)
	UpsertRole(ctx context.Context, roleID, requirement string) error
	DeleteRole(ctx context.Context, roleID string) error

	ListQuestions(ctx context.Context, roleID string) ([]Question, error)
	AddQuestion(ctx context.Context, roleID string, q Question) error
	UpdateQuestion(ctx context.Context, roleID string, index int, q Question) error
	DeleteQuestion(ctx context.Context, roleID string, index int) error
}

// AnalyticsStore records the applicant funnel and interview bookings.
// A missing or corrupt backing document loads as all-zero counters and an
// empty interview list.
type AnalyticsStore interface {
	RecordApplicant(ctx context.Context, roleID string) error
	RecordTestOutcome(ctx context.Context, roleID string, passed bool) error
	RecordInterview(ctx context.Context, iv Interview) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

// SlotStore holds the recruiter-curated pool of offerable interview
// timestamps. Booked slots are not removed from the pool (matching the
// reference behavior); Remove exists so a deployment can opt in.
type SlotStore interface {
	ListSlots(ctx context.Context) ([]string, error)
	AddSlot(ctx context.Context, t string) error
	RemoveSlot(ctx context.Context, t string) error
}

// ErrRoleNotFound is returned for lookups of unknown role identifiers.
var ErrRoleNotFound = fmt.Errorf("role not found")

// ErrQuestionIndex is returned when a question index is out of range for the
// role's question list.
var ErrQuestionIndex = fmt.Errorf("question index out of range")

// ValidateQuestion rejects malformed questions: a blank prompt, fewer than
// two distinct options, or an answer that is not among the options.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question prompt must not be empty")
	}

	distinct := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("options must not be empty")
		}
		distinct[opt] = struct{}{}
	}
	if len(distinct) < 2 {
		return fmt.Errorf("question needs at least 2 distinct options")
	}

	if _, ok := distinct[q.Answer]; !ok {
		return fmt.Errorf("answer %q is not among the options", q.Answer)
	}
	return nil
}
