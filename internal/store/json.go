package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSON-file backed stores. Every mutation rewrites the whole document so a
// reader in another session sees committed state on next load. There is no
// cross-process locking: concurrent writers can lose updates, which is
// acceptable only under a single active administrator.

const (
	rolesFile     = "roles.json"
	questionsFile = "questions.json"
	analyticsFile = "analytics.json"
	slotsFile     = "slots.json"
)

// readDoc loads a JSON document into dst. A missing or corrupt file leaves
// dst at its zero value and is not an error.
func readDoc(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// corrupt document: treat as empty
		return nil
	}
	return nil
}

func writeDoc(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ─── RoleStore ───────────────────────────────────────────────────────────────

// JSONRoleStore persists the role-requirements map and the question bank as
// two independent documents under dir.
type JSONRoleStore struct {
	mu  sync.Mutex
	dir string
}

func NewJSONRoleStore(dir string) *JSONRoleStore {
	return &JSONRoleStore{dir: dir}
}

func (s *JSONRoleStore) rolesPath() string     { return filepath.Join(s.dir, rolesFile) }
func (s *JSONRoleStore) questionsPath() string { return filepath.Join(s.dir, questionsFile) }

func (s *JSONRoleStore) loadRoles() (map[string]string, error) {
	roles := make(map[string]string)
	if err := readDoc(s.rolesPath(), &roles); err != nil {
		return nil, err
	}
	if roles == nil {
		roles = make(map[string]string)
	}
	return roles, nil
}

func (s *JSONRoleStore) loadQuestions() (map[string][]Question, error) {
	bank := make(map[string][]Question)
	if err := readDoc(s.questionsPath(), &bank); err != nil {
		return nil, err
	}
	if bank == nil {
		bank = make(map[string][]Question)
	}
	return bank, nil
}

func (s *JSONRoleStore) ListRoles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.loadRoles()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(roles))
	for id := range roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *JSONRoleStore) GetRequirement(ctx context.Context, roleID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.loadRoles()
	if err != nil {
		return "", err
	}
	req, ok := roles[roleID]
	if !ok {
		return "", ErrRoleNotFound
	}
	return req, nil
}

func (s *JSONRoleStore) UpsertRole(ctx context.Context, roleID, requirement string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.loadRoles()
	if err != nil {
		return err
	}
	roles[roleID] = requirement
	return writeDoc(s.rolesPath(), roles)
}

// DeleteRole removes the role's requirement entry only. Its question bank is
// intentionally left orphaned.
func (s *JSONRoleStore) DeleteRole(ctx context.Context, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.loadRoles()
	if err != nil {
		return err
	}
	if _, ok := roles[roleID]; !ok {
		return ErrRoleNotFound
	}
	delete(roles, roleID)
	return writeDoc(s.rolesPath(), roles)
}

func (s *JSONRoleStore) ListQuestions(ctx context.Context, roleID string) ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bank, err := s.loadQuestions()
	if err != nil {
		return nil, err
	}
	return bank[roleID], nil
}

func (s *JSONRoleStore) AddQuestion(ctx context.Context, roleID string, q Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bank, err := s.loadQuestions()
	if err != nil {
		return err
	}
	bank[roleID] = append(bank[roleID], q)
	return writeDoc(s.questionsPath(), bank)
}

func (s *JSONRoleStore) UpdateQuestion(ctx context.Context, roleID string, index int, q Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bank, err := s.loadQuestions()
	if err != nil {
		return err
	}
	qs := bank[roleID]
	if index < 0 || index >= len(qs) {
		return ErrQuestionIndex
	}
	qs[index] = q
	bank[roleID] = qs
	return writeDoc(s.questionsPath(), bank)
}

func (s *JSONRoleStore) DeleteQuestion(ctx context.Context, roleID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bank, err := s.loadQuestions()
	if err != nil {
		return err
	}
	qs := bank[roleID]
	if index < 0 || index >= len(qs) {
		return ErrQuestionIndex
	}
	bank[roleID] = append(qs[:index], qs[index+1:]...)
	return writeDoc(s.questionsPath(), bank)
}

// ─── AnalyticsStore ──────────────────────────────────────────────────────────

type analyticsDoc struct {
	Roles      map[string]RoleCounters `json:"roles"`
	Interviews []Interview             `json:"interviews"`
}

// JSONAnalyticsStore persists the funnel counters and interview log as one
// document under dir.
type JSONAnalyticsStore struct {
	mu  sync.Mutex
	dir string
}

func NewJSONAnalyticsStore(dir string) *JSONAnalyticsStore {
	return &JSONAnalyticsStore{dir: dir}
}

func (s *JSONAnalyticsStore) path() string { return filepath.Join(s.dir, analyticsFile) }

func (s *JSONAnalyticsStore) load() (analyticsDoc, error) {
	var doc analyticsDoc
	if err := readDoc(s.path(), &doc); err != nil {
		return analyticsDoc{}, err
	}
	if doc.Roles == nil {
		doc.Roles = make(map[string]RoleCounters)
	}
	if doc.Interviews == nil {
		doc.Interviews = []Interview{}
	}
	return doc, nil
}

func (s *JSONAnalyticsStore) RecordApplicant(ctx context.Context, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	counters := doc.Roles[roleID]
	counters.TotalApplicants++
	doc.Roles[roleID] = counters
	return writeDoc(s.path(), doc)
}

// RecordTestOutcome increments selected_for_test together with passed or
// failed, so selected_for_test == passed + failed holds at every point.
func (s *JSONAnalyticsStore) RecordTestOutcome(ctx context.Context, roleID string, passed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	counters := doc.Roles[roleID]
	counters.SelectedForTest++
	if passed {
		counters.Passed++
	} else {
		counters.Failed++
	}
	doc.Roles[roleID] = counters
	return writeDoc(s.path(), doc)
}

func (s *JSONAnalyticsStore) RecordInterview(ctx context.Context, iv Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Interviews = append(doc.Interviews, iv)
	return writeDoc(s.path(), doc)
}

func (s *JSONAnalyticsStore) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	// copy so callers cannot mutate the backing document
	out := Snapshot{
		Roles:      make(map[string]RoleCounters, len(doc.Roles)),
		Interviews: append([]Interview(nil), doc.Interviews...),
	}
	for id, c := range doc.Roles {
		out.Roles[id] = c
	}
	return out, nil
}

// ─── SlotStore ───────────────────────────────────────────────────────────────

type slotsDoc struct {
	AvailableTimes []string `json:"available_times"`
}

// JSONSlotStore persists the offerable interview timestamps under dir.
type JSONSlotStore struct {
	mu  sync.Mutex
	dir string
}

func NewJSONSlotStore(dir string) *JSONSlotStore {
	return &JSONSlotStore{dir: dir}
}

func (s *JSONSlotStore) path() string { return filepath.Join(s.dir, slotsFile) }

func (s *JSONSlotStore) load() (slotsDoc, error) {
	var doc slotsDoc
	if err := readDoc(s.path(), &doc); err != nil {
		return slotsDoc{}, err
	}
	if doc.AvailableTimes == nil {
		doc.AvailableTimes = []string{}
	}
	return doc, nil
}

func (s *JSONSlotStore) ListSlots(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), doc.AvailableTimes...), nil
}

func (s *JSONSlotStore) AddSlot(ctx context.Context, t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range doc.AvailableTimes {
		if existing == t {
			return nil
		}
	}
	doc.AvailableTimes = append(doc.AvailableTimes, t)
	return writeDoc(s.path(), doc)
}

func (s *JSONSlotStore) RemoveSlot(ctx context.Context, t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	kept := doc.AvailableTimes[:0]
	for _, existing := range doc.AvailableTimes {
		if existing != t {
			kept = append(kept, existing)
		}
	}
	doc.AvailableTimes = kept
	return writeDoc(s.path(), doc)
}
