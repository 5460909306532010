package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/workflow"
)

// ── Fake collaborators ─────────────────────────────────────────────────────

type fakeRoles struct {
	requirements map[string]string
	questions    map[string][]store.Question
}

func (f *fakeRoles) ListRoles(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.requirements))
	for id := range f.requirements {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRoles) GetRequirement(ctx context.Context, roleID string) (string, error) {
	req, ok := f.requirements[roleID]
	if !ok {
		return "", store.ErrRoleNotFound
	}
	return req, nil
}

func (f *fakeRoles) UpsertRole(ctx context.Context, roleID, requirement string) error {
	f.requirements[roleID] = requirement
	return nil
}

func (f *fakeRoles) DeleteRole(ctx context.Context, roleID string) error {
	delete(f.requirements, roleID)
	return nil
}

func (f *fakeRoles) ListQuestions(ctx context.Context, roleID string) ([]store.Question, error) {
	return f.questions[roleID], nil
}

func (f *fakeRoles) AddQuestion(ctx context.Context, roleID string, q store.Question) error {
	f.questions[roleID] = append(f.questions[roleID], q)
	return nil
}

func (f *fakeRoles) UpdateQuestion(ctx context.Context, roleID string, index int, q store.Question) error {
	f.questions[roleID][index] = q
	return nil
}

func (f *fakeRoles) DeleteQuestion(ctx context.Context, roleID string, index int) error {
	f.questions[roleID] = append(f.questions[roleID][:index], f.questions[roleID][index+1:]...)
	return nil
}

type fakeAnalytics struct {
	counters   map[string]store.RoleCounters
	interviews []store.Interview
	failNext   bool
}

func (f *fakeAnalytics) RecordApplicant(ctx context.Context, roleID string) error {
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("analytics store down")
	}
	c := f.counters[roleID]
	c.TotalApplicants++
	f.counters[roleID] = c
	return nil
}

func (f *fakeAnalytics) RecordTestOutcome(ctx context.Context, roleID string, passed bool) error {
	c := f.counters[roleID]
	c.SelectedForTest++
	if passed {
		c.Passed++
	} else {
		c.Failed++
	}
	f.counters[roleID] = c
	return nil
}

func (f *fakeAnalytics) RecordInterview(ctx context.Context, iv store.Interview) error {
	f.interviews = append(f.interviews, iv)
	return nil
}

func (f *fakeAnalytics) Snapshot(ctx context.Context) (store.Snapshot, error) {
	return store.Snapshot{Roles: f.counters, Interviews: f.interviews}, nil
}

type fakeSlots struct {
	slots []string
}

func (f *fakeSlots) ListSlots(ctx context.Context) ([]string, error) { return f.slots, nil }
func (f *fakeSlots) AddSlot(ctx context.Context, t string) error {
	f.slots = append(f.slots, t)
	return nil
}
func (f *fakeSlots) RemoveSlot(ctx context.Context, t string) error { return nil }

type fakeAnalyzer struct {
	selected bool
	feedback string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, resumeText, roleID string) (bool, string) {
	return f.selected, f.feedback
}

type fakeNotifier struct {
	selections int
	rejections int
	invites    int

	failRejection bool
	failSelection bool
	failInvite    bool
}

func (f *fakeNotifier) SendSelection(ctx context.Context, to, role string) error {
	if f.failSelection {
		return fmt.Errorf("smtp unavailable")
	}
	f.selections++
	return nil
}

func (f *fakeNotifier) SendRejection(ctx context.Context, to, role, feedback string) error {
	if f.failRejection {
		return fmt.Errorf("smtp unavailable")
	}
	f.rejections++
	return nil
}

func (f *fakeNotifier) SendInvite(ctx context.Context, to, role, link, slotTime string) error {
	if f.failInvite {
		return fmt.Errorf("smtp unavailable")
	}
	f.invites++
	return nil
}

type fakeScheduler struct {
	meetings int
	fail     bool
}

func (f *fakeScheduler) CreateMeeting(ctx context.Context, topic, startTimeUTC string, durationMinutes int) (string, error) {
	if f.fail {
		return "", fmt.Errorf("meeting provider unavailable")
	}
	f.meetings++
	return fmt.Sprintf("https://zoom.example/j/%d", f.meetings), nil
}

// ── Harness ────────────────────────────────────────────────────────────────

const testSlot = "2026-03-15 10:00:00"

type harness struct {
	roles     *fakeRoles
	analytics *fakeAnalytics
	slots     *fakeSlots
	analyzer  *fakeAnalyzer
	notifier  *fakeNotifier
	scheduler *fakeScheduler
	app       *workflow.Application
}

func newHarness() *harness {
	h := &harness{
		roles: &fakeRoles{
			requirements: map[string]string{
				"backend_engineer": "Go, PostgreSQL, Redis",
			},
			questions: map[string][]store.Question{
				"backend_engineer": {
					{Question: "Q1", Options: []string{"a", "b"}, Answer: "a"},
					{Question: "Q2", Options: []string{"c", "d"}, Answer: "c"},
					{Question: "Q3", Options: []string{"e", "f"}, Answer: "e"},
				},
			},
		},
		analytics: &fakeAnalytics{counters: map[string]store.RoleCounters{}},
		slots:     &fakeSlots{slots: []string{testSlot, "2026-03-16 14:00:00"}},
		analyzer:  &fakeAnalyzer{selected: true, feedback: "strong fit"},
		notifier:  &fakeNotifier{},
		scheduler: &fakeScheduler{},
	}
	h.app = workflow.New(workflow.Deps{
		Roles:          h.roles,
		Analytics:      h.analytics,
		Slots:          h.slots,
		Analyzer:       h.analyzer,
		Notifier:       h.notifier,
		Scheduler:      h.scheduler,
		MaxReschedules: 3,
	})
	return h
}

// intake moves a fresh application through role/email/resume setup.
func (h *harness) intake(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := h.app.SetRole(ctx, "backend_engineer"); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if err := h.app.SetEmail("jane@example.com"); err != nil {
		t.Fatalf("SetEmail: %v", err)
	}
	if err := h.app.SetResume("ten years of Go"); err != nil {
		t.Fatalf("SetResume: %v", err)
	}
}

// toConfirmed drives the application to CONFIRMED_PENDING_SCHEDULE by passing
// the test with all-correct answers and confirming.
func (h *harness) toConfirmed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := h.app.StartTest(ctx); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	for _, answer := range []string{"a", "c", "e"} {
		if _, err := h.app.SubmitAnswer(ctx, answer); err != nil {
			t.Fatalf("SubmitAnswer(%q): %v", answer, err)
		}
	}
	if h.app.State() != workflow.StateTestPassedPendingConfirm {
		t.Fatalf("state after passing test = %s, want TEST_PASSED_PENDING_CONFIRM", h.app.State())
	}
	if err := h.app.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
}

// ── Happy path ─────────────────────────────────────────────────────────────

func TestApplication_HappyPath(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.toConfirmed(t)

	if err := h.app.ChooseSlot(ctx, testSlot); err != nil {
		t.Fatalf("ChooseSlot: %v", err)
	}
	link, err := h.app.Schedule(ctx)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if link == "" {
		t.Error("Schedule returned an empty join link")
	}
	if h.app.State() != workflow.StateScheduled {
		t.Errorf("final state = %s, want SCHEDULED", h.app.State())
	}

	if h.notifier.selections != 1 {
		t.Errorf("selection mails = %d, want 1", h.notifier.selections)
	}
	if h.notifier.invites != 1 {
		t.Errorf("invite mails = %d, want 1", h.notifier.invites)
	}
	if h.notifier.rejections != 0 {
		t.Errorf("rejection mails = %d, want 0", h.notifier.rejections)
	}
	if h.scheduler.meetings != 1 {
		t.Errorf("meetings created = %d, want 1", h.scheduler.meetings)
	}

	c := h.analytics.counters["backend_engineer"]
	want := store.RoleCounters{TotalApplicants: 1, SelectedForTest: 1, Passed: 1, Failed: 0}
	if c != want {
		t.Errorf("counters = %+v, want %+v", c, want)
	}
	if len(h.analytics.interviews) != 1 {
		t.Fatalf("interviews recorded = %d, want 1", len(h.analytics.interviews))
	}
	if h.analytics.interviews[0].Email != "jane@example.com" {
		t.Errorf("interview email = %q", h.analytics.interviews[0].Email)
	}
}

// ── Analysis rejection ─────────────────────────────────────────────────────

func TestAnalyze_RejectionIsTerminal(t *testing.T) {
	h := newHarness()
	h.analyzer.selected = false
	h.analyzer.feedback = "missing required skills"
	ctx := context.Background()

	h.intake(t)
	selected, feedback, err := h.app.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if selected {
		t.Error("selected = true, want false")
	}
	if feedback != "missing required skills" {
		t.Errorf("feedback = %q", feedback)
	}
	if h.app.State() != workflow.StateRejectedByAnalysis {
		t.Errorf("state = %s, want REJECTED_BY_ANALYSIS", h.app.State())
	}
	if h.notifier.rejections != 1 {
		t.Errorf("rejection mails = %d, want 1", h.notifier.rejections)
	}

	// no test is reachable from a rejected application
	if _, err := h.app.StartTest(ctx); err == nil {
		t.Error("StartTest after rejection expected error, got nil")
	}

	c := h.analytics.counters["backend_engineer"]
	if c.TotalApplicants != 1 {
		t.Errorf("total_applicants = %d, want 1", c.TotalApplicants)
	}
	if c.SelectedForTest != 0 || c.Passed != 0 || c.Failed != 0 {
		t.Errorf("test counters moved on analysis rejection: %+v", c)
	}
}

// A failed rejection mail still lands the application in the terminal state;
// the notification stays pending and can be retried.
func TestAnalyze_RejectionMailFailureStillTerminal(t *testing.T) {
	h := newHarness()
	h.analyzer.selected = false
	h.notifier.failRejection = true
	ctx := context.Background()

	h.intake(t)
	_, _, err := h.app.Analyze(ctx)
	if !workflow.IsRetryable(err) {
		t.Fatalf("Analyze error = %v, want retryable collaborator error", err)
	}
	if h.app.State() != workflow.StateRejectedByAnalysis {
		t.Errorf("state = %s, want REJECTED_BY_ANALYSIS", h.app.State())
	}

	h.notifier.failRejection = false
	if err := h.app.RetryNotification(ctx); err != nil {
		t.Fatalf("RetryNotification: %v", err)
	}
	if h.notifier.rejections != 1 {
		t.Errorf("rejection mails after retry = %d, want 1", h.notifier.rejections)
	}
	// a second retry has nothing to do
	if err := h.app.RetryNotification(ctx); err == nil {
		t.Error("RetryNotification with nothing pending expected error, got nil")
	}
}

// An analytics failure before the verdict must not advance the state; the
// applicant can retry and is counted exactly once.
func TestAnalyze_AnalyticsFailureDoesNotAdvance(t *testing.T) {
	h := newHarness()
	h.analytics.failNext = true
	ctx := context.Background()

	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); !workflow.IsRetryable(err) {
		t.Fatalf("Analyze error = %v, want retryable collaborator error", err)
	}
	if h.app.State() != workflow.StateIntake {
		t.Errorf("state = %s, want INTAKE", h.app.State())
	}

	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze retry: %v", err)
	}
	if got := h.analytics.counters["backend_engineer"].TotalApplicants; got != 1 {
		t.Errorf("total_applicants = %d, want 1", got)
	}
}

func TestAnalyze_RequiresIntakeFields(t *testing.T) {
	ctx := context.Background()

	h := newHarness()
	if _, _, err := h.app.Analyze(ctx); err == nil {
		t.Error("Analyze without role expected error, got nil")
	}

	h = newHarness()
	if err := h.app.SetRole(ctx, "backend_engineer"); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if _, _, err := h.app.Analyze(ctx); err == nil {
		t.Error("Analyze without email expected error, got nil")
	}

	if err := h.app.SetEmail("jane@example.com"); err != nil {
		t.Fatalf("SetEmail: %v", err)
	}
	if _, _, err := h.app.Analyze(ctx); err == nil {
		t.Error("Analyze without resume expected error, got nil")
	}
}

func TestSetRole_UnknownRole(t *testing.T) {
	h := newHarness()
	err := h.app.SetRole(context.Background(), "astronaut")
	var ve *workflow.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("SetRole error = %v, want ValidationError", err)
	}
}

// ── Test failure path ──────────────────────────────────────────────────────

func TestSubmitAnswer_FailingScoreRejects(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := h.app.StartTest(ctx); err != nil {
		t.Fatalf("StartTest: %v", err)
	}

	// one of three correct: 33.3% is below the 70% threshold
	var last error
	for _, answer := range []string{"a", "d", "f"} {
		_, last = h.app.SubmitAnswer(ctx, answer)
	}
	if last != nil {
		t.Fatalf("SubmitAnswer: %v", last)
	}
	if h.app.State() != workflow.StateRejectedByTest {
		t.Errorf("state = %s, want REJECTED_BY_TEST", h.app.State())
	}
	if h.notifier.rejections != 1 {
		t.Errorf("rejection mails = %d, want 1", h.notifier.rejections)
	}

	c := h.analytics.counters["backend_engineer"]
	want := store.RoleCounters{TotalApplicants: 1, SelectedForTest: 1, Passed: 0, Failed: 1}
	if c != want {
		t.Errorf("counters = %+v, want %+v", c, want)
	}
	if c.SelectedForTest != c.Passed+c.Failed {
		t.Errorf("selected_for_test %d != passed %d + failed %d", c.SelectedForTest, c.Passed, c.Failed)
	}
}

// A role with no questions auto-passes on StartTest.
func TestStartTest_ZeroQuestionsAutoPass(t *testing.T) {
	h := newHarness()
	h.roles.questions["backend_engineer"] = nil
	ctx := context.Background()

	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	result, err := h.app.StartTest(ctx)
	if err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	if result == nil {
		t.Fatal("StartTest returned nil result for a zero-question role")
	}
	if !result.Passed || result.Percentage != 100.0 {
		t.Errorf("result = %+v, want auto-pass at 100", result)
	}
	if h.app.State() != workflow.StateTestPassedPendingConfirm {
		t.Errorf("state = %s, want TEST_PASSED_PENDING_CONFIRM", h.app.State())
	}
}

func TestSubmitAnswer_RejectsInvalidOption(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := h.app.StartTest(ctx); err != nil {
		t.Fatalf("StartTest: %v", err)
	}

	var ve *workflow.ValidationError
	if _, err := h.app.SubmitAnswer(ctx, ""); !errors.As(err, &ve) {
		t.Errorf("empty answer error = %v, want ValidationError", err)
	}
	if _, err := h.app.SubmitAnswer(ctx, "z"); !errors.As(err, &ve) {
		t.Errorf("off-list answer error = %v, want ValidationError", err)
	}

	// rejected answers must not advance the question
	if _, index, _, err := h.app.Question(); err != nil || index != 0 {
		t.Errorf("Question after rejected answers: index = %d, err = %v, want 0, nil", index, err)
	}
}

// ── Confirmation ───────────────────────────────────────────────────────────

// Confirm must not advance when the selection mail fails; the retry succeeds.
func TestConfirm_MailFailureDoesNotAdvance(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := h.app.StartTest(ctx); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	for _, answer := range []string{"a", "c", "e"} {
		if _, err := h.app.SubmitAnswer(ctx, answer); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}

	h.notifier.failSelection = true
	if err := h.app.Confirm(ctx); !workflow.IsRetryable(err) {
		t.Fatalf("Confirm error = %v, want retryable collaborator error", err)
	}
	if h.app.State() != workflow.StateTestPassedPendingConfirm {
		t.Errorf("state after failed Confirm = %s, want TEST_PASSED_PENDING_CONFIRM", h.app.State())
	}

	h.notifier.failSelection = false
	if err := h.app.Confirm(ctx); err != nil {
		t.Fatalf("Confirm retry: %v", err)
	}
	if h.app.State() != workflow.StateConfirmedPendingSchedule {
		t.Errorf("state = %s, want CONFIRMED_PENDING_SCHEDULE", h.app.State())
	}
	if h.notifier.selections != 1 {
		t.Errorf("selection mails = %d, want 1", h.notifier.selections)
	}
}

// ── Scheduling ─────────────────────────────────────────────────────────────

// Schedule fails closed from every state except CONFIRMED_PENDING_SCHEDULE,
// before any collaborator is called.
func TestSchedule_FailsClosedOutsideConfirmed(t *testing.T) {
	ctx := context.Background()

	// INTAKE
	h := newHarness()
	if _, err := h.app.Schedule(ctx); err == nil {
		t.Error("Schedule from INTAKE expected error, got nil")
	}
	if h.scheduler.meetings != 0 {
		t.Error("Schedule from INTAKE reached the meeting provider")
	}

	// SELECTED_PENDING_TEST
	h = newHarness()
	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := h.app.Schedule(ctx); err == nil {
		t.Error("Schedule from SELECTED_PENDING_TEST expected error, got nil")
	}

	// REJECTED_BY_ANALYSIS
	h = newHarness()
	h.analyzer.selected = false
	h.intake(t)
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := h.app.Schedule(ctx); err == nil {
		t.Error("Schedule from REJECTED_BY_ANALYSIS expected error, got nil")
	}
	if h.scheduler.meetings != 0 || h.notifier.invites != 0 {
		t.Error("Schedule from a rejected state reached a collaborator")
	}

	var ise *workflow.InvalidStateError
	_, err := h.app.Schedule(ctx)
	if !errors.As(err, &ise) {
		t.Errorf("Schedule error = %v, want InvalidStateError", err)
	}
}

func TestChooseSlot_Validation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.toConfirmed(t)

	var ve *workflow.ValidationError
	if err := h.app.ChooseSlot(ctx, "next tuesday"); !errors.As(err, &ve) {
		t.Errorf("unparsable slot error = %v, want ValidationError", err)
	}
	if err := h.app.ChooseSlot(ctx, "2026-12-01 09:00:00"); !errors.As(err, &ve) {
		t.Errorf("unoffered slot error = %v, want ValidationError", err)
	}
	if err := h.app.ChooseSlot(ctx, testSlot); err != nil {
		t.Errorf("ChooseSlot(valid): %v", err)
	}
}

func TestChooseSlot_RescheduleLimit(t *testing.T) {
	h := newHarness()
	h.slots.slots = []string{testSlot, "2026-03-16 14:00:00"}
	ctx := context.Background()
	h.toConfirmed(t)

	// MaxReschedules is 3: the initial pick is free, then three re-picks
	picks := []string{testSlot, "2026-03-16 14:00:00", testSlot, "2026-03-16 14:00:00"}
	for i, slot := range picks {
		if err := h.app.ChooseSlot(ctx, slot); err != nil {
			t.Fatalf("ChooseSlot #%d: %v", i, err)
		}
	}
	// re-picking the same slot is not a reschedule
	if err := h.app.ChooseSlot(ctx, "2026-03-16 14:00:00"); err != nil {
		t.Fatalf("ChooseSlot(same slot): %v", err)
	}
	if err := h.app.ChooseSlot(ctx, testSlot); !errors.Is(err, workflow.ErrRescheduleLimit) {
		t.Errorf("ChooseSlot past limit error = %v, want ErrRescheduleLimit", err)
	}
}

// A retry after a failed invite reuses the created meeting and never
// double-books or double-records.
func TestSchedule_RetryIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.toConfirmed(t)

	if err := h.app.ChooseSlot(ctx, testSlot); err != nil {
		t.Fatalf("ChooseSlot: %v", err)
	}

	h.notifier.failInvite = true
	if _, err := h.app.Schedule(ctx); !workflow.IsRetryable(err) {
		t.Fatalf("Schedule error = %v, want retryable collaborator error", err)
	}
	if h.app.State() != workflow.StateConfirmedPendingSchedule {
		t.Errorf("state after failed Schedule = %s, want CONFIRMED_PENDING_SCHEDULE", h.app.State())
	}

	h.notifier.failInvite = false
	link, err := h.app.Schedule(ctx)
	if err != nil {
		t.Fatalf("Schedule retry: %v", err)
	}
	if link == "" {
		t.Error("Schedule retry returned an empty join link")
	}
	if h.scheduler.meetings != 1 {
		t.Errorf("meetings created = %d, want 1 (retry must reuse the meeting)", h.scheduler.meetings)
	}
	if len(h.analytics.interviews) != 1 {
		t.Errorf("interviews recorded = %d, want 1", len(h.analytics.interviews))
	}
	if h.app.State() != workflow.StateScheduled {
		t.Errorf("state = %s, want SCHEDULED", h.app.State())
	}
}

func TestSchedule_RequiresChosenSlot(t *testing.T) {
	h := newHarness()
	h.toConfirmed(t)

	var ve *workflow.ValidationError
	if _, err := h.app.Schedule(context.Background()); !errors.As(err, &ve) {
		t.Errorf("Schedule without slot error = %v, want ValidationError", err)
	}
}

// ── Reset semantics ────────────────────────────────────────────────────────

func TestReset_ClearsEverything(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.toConfirmed(t)
	if err := h.app.ChooseSlot(ctx, testSlot); err != nil {
		t.Fatalf("ChooseSlot: %v", err)
	}
	if _, err := h.app.Schedule(ctx); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	oldID := h.app.ID()
	h.app.Reset(ctx)

	if h.app.State() != workflow.StateIntake {
		t.Errorf("state = %s, want INTAKE", h.app.State())
	}
	if h.app.ID() == oldID {
		t.Error("Reset kept the old application id")
	}
	if h.app.RoleID() != "" || h.app.Email() != "" || h.app.ResumeLoaded() {
		t.Error("Reset left intake fields populated")
	}
	if h.app.Slot() != "" || h.app.JoinURL() != "" {
		t.Error("Reset left scheduling fields populated")
	}
	if set, _ := h.app.Verdict(); set {
		t.Error("Reset left a verdict set")
	}

	// analytics survive a reset
	if h.analytics.counters["backend_engineer"].TotalApplicants != 1 {
		t.Error("Reset touched analytics counters")
	}
}

func TestNewApplication_KeepsRoleAndSlot(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.toConfirmed(t)
	if err := h.app.ChooseSlot(ctx, testSlot); err != nil {
		t.Fatalf("ChooseSlot: %v", err)
	}

	h.app.NewApplication(ctx)

	if h.app.State() != workflow.StateIntake {
		t.Errorf("state = %s, want INTAKE", h.app.State())
	}
	if h.app.RoleID() != "backend_engineer" {
		t.Errorf("role = %q, want it kept", h.app.RoleID())
	}
	if h.app.Slot() != testSlot {
		t.Errorf("slot = %q, want it kept", h.app.Slot())
	}
	if h.app.Email() != "" || h.app.ResumeLoaded() {
		t.Error("NewApplication left candidate fields populated")
	}
	if set, _ := h.app.Verdict(); set {
		t.Error("NewApplication left a verdict set")
	}

	// the kept role is immediately usable
	if err := h.app.SetEmail("john@example.com"); err != nil {
		t.Fatalf("SetEmail after NewApplication: %v", err)
	}
	if err := h.app.SetResume("five years of Go"); err != nil {
		t.Fatalf("SetResume after NewApplication: %v", err)
	}
	if _, _, err := h.app.Analyze(ctx); err != nil {
		t.Fatalf("Analyze after NewApplication: %v", err)
	}
}

// ── Transition log ─────────────────────────────────────────────────────────

func TestTransitions_RecordedInOrder(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.toConfirmed(t)
	if err := h.app.ChooseSlot(ctx, testSlot); err != nil {
		t.Fatalf("ChooseSlot: %v", err)
	}
	if _, err := h.app.Schedule(ctx); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	wantInputs := []string{"analyze", "verdict_selected", "test_passed", "confirm", "schedule"}
	got := h.app.Transitions()
	if len(got) != len(wantInputs) {
		t.Fatalf("transition count = %d, want %d", len(got), len(wantInputs))
	}
	for i, want := range wantInputs {
		if got[i].Input != want {
			t.Errorf("transition[%d].Input = %q, want %q", i, got[i].Input, want)
		}
	}
	if got[0].From != workflow.StateIntake {
		t.Errorf("first transition from %s, want INTAKE", got[0].From)
	}
	if got[len(got)-1].To != workflow.StateScheduled {
		t.Errorf("last transition to %s, want SCHEDULED", got[len(got)-1].To)
	}
}
