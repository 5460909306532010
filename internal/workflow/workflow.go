package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/events"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/screening"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
)

// ResumeAnalyzer judges resume-role fit. Implementations must not fail for
// well-formed input; internal failures surface as (false, <error message>).
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText, roleID string) (selected bool, feedback string)
}

// Notifier sends templated candidate mail.
type Notifier interface {
	SendSelection(ctx context.Context, to, role string) error
	SendRejection(ctx context.Context, to, role, feedback string) error
	SendInvite(ctx context.Context, to, role, link, slotTime string) error
}

// Scheduler creates a video interview and returns the join link.
type Scheduler interface {
	CreateMeeting(ctx context.Context, topic, startTimeUTC string, durationMinutes int) (string, error)
}

// Deps are the collaborators and tuning knobs for one application.
type Deps struct {
	Roles     store.RoleStore
	Analytics store.AnalyticsStore
	Slots     store.SlotStore
	Analyzer  ResumeAnalyzer
	Notifier  Notifier
	Scheduler Scheduler
	Events    events.Publisher
	Logger    *zap.Logger

	PassThreshold   float64
	MaxReschedules  int
	MeetingDuration time.Duration
}

// TransitionRecord is one entry in the application's transition log.
type TransitionRecord struct {
	From  State     `json:"from"`
	To    State     `json:"to"`
	Input string    `json:"input"`
	At    time.Time `json:"at"`
}

// Application is one in-progress workflow instance for a single
// candidate/role pair. Exactly one live application exists per session and
// the owning session serializes access; methods are not safe for concurrent
// use.
type Application struct {
	deps Deps

	id         uuid.UUID
	state      State
	roleID     string
	email      string
	resumeText string

	verdictSet bool
	selected   bool
	feedback   string

	test            *screening.Session
	outcomeRecorded bool

	slot        string
	reschedules int

	joinURL           string
	interviewRecorded bool

	// set when a terminal rejection was reached but its notification is
	// still outstanding
	pendingNotify bool

	transitions []TransitionRecord
}

// New creates an application in INTAKE.
func New(deps Deps) *Application {
	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.PassThreshold <= 0 {
		deps.PassThreshold = screening.DefaultPassThreshold
	}
	if deps.MeetingDuration <= 0 {
		deps.MeetingDuration = time.Hour
	}
	return &Application{
		deps:  deps,
		id:    uuid.New(),
		state: StateIntake,
	}
}

// ─── Accessors ───────────────────────────────────────────────────────────────

func (a *Application) ID() string       { return a.id.String() }
func (a *Application) State() State     { return a.state }
func (a *Application) RoleID() string   { return a.roleID }
func (a *Application) Email() string    { return a.email }
func (a *Application) Feedback() string { return a.feedback }
func (a *Application) Slot() string     { return a.slot }
func (a *Application) JoinURL() string  { return a.joinURL }
func (a *Application) ResumeLoaded() bool {
	return a.resumeText != ""
}

// Verdict returns whether a verdict exists and whether it selected the
// candidate.
func (a *Application) Verdict() (set, selected bool) {
	return a.verdictSet, a.selected
}

// Transitions returns a copy of the transition log.
func (a *Application) Transitions() []TransitionRecord {
	return append([]TransitionRecord(nil), a.transitions...)
}

// ─── Intake ──────────────────────────────────────────────────────────────────

// SetRole selects the role applied for. Valid only in INTAKE.
func (a *Application) SetRole(ctx context.Context, roleID string) error {
	if a.state != StateIntake {
		return &InvalidStateError{State: a.state, Input: "set_role"}
	}
	if _, err := a.deps.Roles.GetRequirement(ctx, roleID); err != nil {
		if err == store.ErrRoleNotFound {
			return &ValidationError{Msg: fmt.Sprintf("unknown role %q", roleID)}
		}
		return &CollaboratorError{Op: "role lookup", Err: err}
	}
	a.roleID = roleID
	return nil
}

// SetEmail records the candidate's address. Valid only in INTAKE.
func (a *Application) SetEmail(email string) error {
	if a.state != StateIntake {
		return &InvalidStateError{State: a.state, Input: "set_email"}
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return &ValidationError{Msg: "a valid candidate email is required"}
	}
	a.email = email
	return nil
}

// SetResume records the extracted resume text. Valid only in INTAKE.
func (a *Application) SetResume(text string) error {
	if a.state != StateIntake {
		return &InvalidStateError{State: a.state, Input: "set_resume"}
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Msg: "resume text must not be empty"}
	}
	a.resumeText = text
	return nil
}

// ─── Analysis ────────────────────────────────────────────────────────────────

// Analyze scores the resume against the selected role. total_applicants is
// incremented once per scoring attempt before the verdict resolves. A
// selected verdict advances to SELECTED_PENDING_TEST; a rejection lands in
// REJECTED_BY_ANALYSIS and triggers a rejection notification.
func (a *Application) Analyze(ctx context.Context) (selected bool, feedback string, err error) {
	if a.state != StateIntake {
		return false, "", &InvalidStateError{State: a.state, Input: "analyze"}
	}
	if a.roleID == "" {
		return false, "", &ValidationError{Msg: "a role must be selected before analysis"}
	}
	if a.email == "" {
		return false, "", &ValidationError{Msg: "candidate email is required before analysis"}
	}
	if a.resumeText == "" {
		return false, "", &ValidationError{Msg: "a resume must be uploaded before analysis"}
	}

	if err := a.deps.Analytics.RecordApplicant(ctx, a.roleID); err != nil {
		return false, "", &CollaboratorError{Op: "analytics update", Err: err}
	}
	a.transition(ctx, StateAnalyzedPending, "analyze")

	a.selected, a.feedback = a.deps.Analyzer.Analyze(ctx, a.resumeText, a.roleID)
	a.verdictSet = true

	if a.selected {
		a.transition(ctx, StateSelectedPendingTest, "verdict_selected")
		return true, a.feedback, nil
	}

	a.transition(ctx, StateRejectedByAnalysis, "verdict_rejected")
	if err := a.deps.Notifier.SendRejection(ctx, a.email, a.roleID, a.feedback); err != nil {
		a.pendingNotify = true
		a.deps.Logger.Error("rejection notification failed",
			zap.String("application_id", a.ID()),
			zap.Error(err),
		)
		return false, a.feedback, &CollaboratorError{Op: "rejection notification", Err: err}
	}
	return false, a.feedback, nil
}

// RetryNotification re-sends a rejection notification that failed when the
// application reached a terminal rejection state.
func (a *Application) RetryNotification(ctx context.Context) error {
	if !a.pendingNotify {
		return &ValidationError{Msg: "no notification is pending"}
	}
	if err := a.deps.Notifier.SendRejection(ctx, a.email, a.roleID, a.feedback); err != nil {
		return &CollaboratorError{Op: "rejection notification", Err: err}
	}
	a.pendingNotify = false
	return nil
}

// ─── Screening test ──────────────────────────────────────────────────────────

// StartTest loads the role's question list and resets all progress. A role
// with zero questions finalizes immediately as an automatic pass; the
// returned result is non-nil in that case.
func (a *Application) StartTest(ctx context.Context) (*screening.Result, error) {
	if a.state != StateSelectedPendingTest {
		return nil, &InvalidStateError{State: a.state, Input: "start_test"}
	}

	questions, err := a.deps.Roles.ListQuestions(ctx, a.roleID)
	if err != nil {
		return nil, &CollaboratorError{Op: "question load", Err: err}
	}
	a.test = screening.NewSession(a.roleID, questions, a.deps.PassThreshold)
	a.outcomeRecorded = false

	if a.test.Completed() {
		return a.finalizeTest(ctx)
	}
	return nil, nil
}

// Question returns the question awaiting an answer, with its index and the
// total count.
func (a *Application) Question() (q store.Question, index, total int, err error) {
	if a.state != StateSelectedPendingTest || a.test == nil {
		return store.Question{}, 0, 0, &InvalidStateError{State: a.state, Input: "current_question"}
	}
	index, total = a.test.Progress()
	q, ok := a.test.Current()
	if !ok {
		return store.Question{}, index, total, &ValidationError{Msg: "test already completed"}
	}
	return q, index, total, nil
}

// SubmitAnswer records the chosen option. Completing the final question
// scores the test and resolves the transition; the returned result is
// non-nil once the test has been scored.
func (a *Application) SubmitAnswer(ctx context.Context, answer string) (*screening.Result, error) {
	if a.state != StateSelectedPendingTest || a.test == nil {
		return nil, &InvalidStateError{State: a.state, Input: "submit_answer"}
	}

	if !a.test.Completed() {
		if err := a.test.Submit(answer); err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
	}
	if a.test.Completed() {
		return a.finalizeTest(ctx)
	}
	return nil, nil
}

// finalizeTest scores a completed test, records the outcome exactly once,
// clears progress and resolves the pass/fail transition.
func (a *Application) finalizeTest(ctx context.Context) (*screening.Result, error) {
	result := a.test.Score()

	if !a.outcomeRecorded {
		if err := a.deps.Analytics.RecordTestOutcome(ctx, a.roleID, result.Passed); err != nil {
			return nil, &CollaboratorError{Op: "analytics update", Err: err}
		}
		a.outcomeRecorded = true
	}

	a.test = nil

	if result.Passed {
		a.transition(ctx, StateTestPassedPendingConfirm, "test_passed")
		return &result, nil
	}

	a.transition(ctx, StateRejectedByTest, "test_failed")
	a.feedback = fmt.Sprintf("Screening test score %.1f%% is below the passing threshold of %.1f%%.",
		result.Percentage, a.deps.PassThreshold)
	if err := a.deps.Notifier.SendRejection(ctx, a.email, a.roleID, a.feedback); err != nil {
		a.pendingNotify = true
		a.deps.Logger.Error("rejection notification failed",
			zap.String("application_id", a.ID()),
			zap.Error(err),
		)
		return &result, &CollaboratorError{Op: "rejection notification", Err: err}
	}
	return &result, nil
}

// ─── Confirmation & scheduling ───────────────────────────────────────────────

// Confirm is the candidate's explicit "proceed". The selection notification
// must succeed before the state advances; on failure the same call may be
// retried.
func (a *Application) Confirm(ctx context.Context) error {
	if a.state != StateTestPassedPendingConfirm {
		return &InvalidStateError{State: a.state, Input: "confirm"}
	}
	if err := a.deps.Notifier.SendSelection(ctx, a.email, a.roleID); err != nil {
		return &CollaboratorError{Op: "selection notification", Err: err}
	}
	a.transition(ctx, StateConfirmedPendingSchedule, "confirm")
	return nil
}

// OfferedSlots lists the recruiter-curated pool of interview timestamps.
func (a *Application) OfferedSlots(ctx context.Context) ([]string, error) {
	slots, err := a.deps.Slots.ListSlots(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "slot load", Err: err}
	}
	return slots, nil
}

// ChooseSlot picks an interview slot from the pool. Changing an already
// chosen slot counts as one re-pick, bounded by MaxReschedules.
func (a *Application) ChooseSlot(ctx context.Context, slot string) error {
	if a.state != StateConfirmedPendingSchedule {
		return &InvalidStateError{State: a.state, Input: "choose_slot"}
	}
	if _, err := parseSlot(slot); err != nil {
		return &ValidationError{Msg: fmt.Sprintf("unparsable slot time %q", slot)}
	}

	slots, err := a.deps.Slots.ListSlots(ctx)
	if err != nil {
		return &CollaboratorError{Op: "slot load", Err: err}
	}
	offered := false
	for _, s := range slots {
		if s == slot {
			offered = true
			break
		}
	}
	if !offered {
		return &ValidationError{Msg: fmt.Sprintf("slot %q is not offered", slot)}
	}

	if a.slot != "" && a.slot != slot {
		if a.reschedules >= a.deps.MaxReschedules {
			return ErrRescheduleLimit
		}
		a.reschedules++
	}
	a.slot = slot
	return nil
}

// Schedule books the interview for the chosen slot: creates the meeting,
// records it in analytics and sends the invite. It is only reachable after a
// passed test and an explicit confirmation; any other state fails closed
// before a single collaborator call. Retries after a partial failure reuse
// the already-created meeting and never double-book.
func (a *Application) Schedule(ctx context.Context) (string, error) {
	if a.state != StateConfirmedPendingSchedule {
		return "", &InvalidStateError{State: a.state, Input: "schedule"}
	}
	if a.slot == "" {
		return "", &ValidationError{Msg: "an interview slot must be chosen first"}
	}

	startTime, err := parseSlot(a.slot)
	if err != nil {
		return "", &ValidationError{Msg: fmt.Sprintf("unparsable slot time %q", a.slot)}
	}

	if a.joinURL == "" {
		// the application id doubles as the idempotency key
		topic := fmt.Sprintf("Interview for %s [%s]", a.roleID, a.ID())
		link, err := a.deps.Scheduler.CreateMeeting(ctx,
			topic,
			startTime.UTC().Format("2006-01-02T15:04:05Z"),
			int(a.deps.MeetingDuration.Minutes()),
		)
		if err != nil {
			return "", &CollaboratorError{Op: "meeting creation", Err: err}
		}
		a.joinURL = link
	}

	if !a.interviewRecorded {
		err := a.deps.Analytics.RecordInterview(ctx, store.Interview{
			Email: a.email,
			Role:  a.roleID,
			Time:  a.slot,
			Link:  a.joinURL,
		})
		if err != nil {
			return "", &CollaboratorError{Op: "analytics update", Err: err}
		}
		a.interviewRecorded = true
	}

	if err := a.deps.Notifier.SendInvite(ctx, a.email, a.roleID, a.joinURL, a.slot); err != nil {
		return "", &CollaboratorError{Op: "invite notification", Err: err}
	}

	a.transition(ctx, StateScheduled, "schedule")
	return a.joinURL, nil
}

// ─── Reset ───────────────────────────────────────────────────────────────────

// Reset returns to INTAKE from any state with every per-application field
// cleared. Stores and analytics are untouched.
func (a *Application) Reset(ctx context.Context) {
	a.record(ctx, a.state, StateIntake, "reset")
	a.state = StateIntake
	a.id = uuid.New()
	a.roleID = ""
	a.email = ""
	a.resumeText = ""
	a.verdictSet = false
	a.selected = false
	a.feedback = ""
	a.test = nil
	a.outcomeRecorded = false
	a.slot = ""
	a.reschedules = 0
	a.joinURL = ""
	a.interviewRecorded = false
	a.pendingNotify = false
}

// NewApplication is the lighter reset: it clears the candidate email, resume
// text and analysis/test state for a fresh application, but keeps the
// selected role and any in-flight slot choice.
func (a *Application) NewApplication(ctx context.Context) {
	a.record(ctx, a.state, StateIntake, "new_application")
	a.state = StateIntake
	a.id = uuid.New()
	a.email = ""
	a.resumeText = ""
	a.verdictSet = false
	a.selected = false
	a.feedback = ""
	a.test = nil
	a.outcomeRecorded = false
	// scheduling artifacts belong to the finished application instance
	a.joinURL = ""
	a.interviewRecorded = false
	a.pendingNotify = false
}

// ─── Internals ───────────────────────────────────────────────────────────────

// transition moves to a state permitted by the table. Guarded callers make a
// violation impossible; it panics on one to surface a programming error.
func (a *Application) transition(ctx context.Context, to State, input string) {
	if !Allowed(a.state, to) {
		panic(fmt.Sprintf("transition %s -> %s is not allowed", a.state, to))
	}
	a.record(ctx, a.state, to, input)
	a.state = to
}

func (a *Application) record(ctx context.Context, from, to State, input string) {
	now := time.Now().UTC()
	a.transitions = append(a.transitions, TransitionRecord{
		From:  from,
		To:    to,
		Input: input,
		At:    now,
	})
	a.deps.Events.Publish(ctx, events.Event{
		ApplicationID: a.ID(),
		Role:          a.roleID,
		From:          string(from),
		To:            string(to),
		Input:         input,
		At:            now.Format(time.RFC3339),
	})
	a.deps.Logger.Info("application transition",
		zap.String("application_id", a.ID()),
		zap.String("role", a.roleID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("input", input),
	)
}

var slotLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseSlot(slot string) (time.Time, error) {
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, slot); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized slot time %q", slot)
}
