package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres-backed stores for deployments that outgrow the flat JSON
// documents. Schema lives in migrations/001_init.sql.

type PostgresRoleStore struct {
	db *pgxpool.Pool
}

func NewPostgresRoleStore(db *pgxpool.Pool) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

func (s *PostgresRoleStore) ListRoles(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT role_id FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresRoleStore) GetRequirement(ctx context.Context, roleID string) (string, error) {
	var req string
	err := s.db.QueryRow(ctx,
		`SELECT requirement FROM roles WHERE role_id = $1`, roleID,
	).Scan(&req)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRoleNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query requirement: %w", err)
	}
	return req, nil
}

func (s *PostgresRoleStore) UpsertRole(ctx context.Context, roleID, requirement string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO roles (role_id, requirement) VALUES ($1, $2)
		 ON CONFLICT (role_id) DO UPDATE SET requirement = EXCLUDED.requirement`,
		roleID, requirement,
	)
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}

// DeleteRole removes the requirement row only; the role's questions are left
// orphaned on purpose.
func (s *PostgresRoleStore) DeleteRole(ctx context.Context, roleID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM roles WHERE role_id = $1`, roleID)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *PostgresRoleStore) ListQuestions(ctx context.Context, roleID string) ([]Question, error) {
	rows, err := s.db.Query(ctx,
		`SELECT question, options, answer FROM questions
		 WHERE role_id = $1 ORDER BY position ASC`, roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.Question, &q.Options, &q.Answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *PostgresRoleStore) AddQuestion(ctx context.Context, roleID string, q Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO questions (role_id, position, question, options, answer)
		 VALUES ($1,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM questions WHERE role_id = $1),
		         $2, $3, $4)`,
		roleID, q.Question, q.Options, q.Answer,
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *PostgresRoleStore) UpdateQuestion(ctx context.Context, roleID string, index int, q Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE questions SET question = $3, options = $4, answer = $5
		 WHERE id = (SELECT id FROM questions WHERE role_id = $1
		             ORDER BY position ASC OFFSET $2 LIMIT 1)`,
		roleID, index, q.Question, q.Options, q.Answer,
	)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionIndex
	}
	return nil
}

func (s *PostgresRoleStore) DeleteQuestion(ctx context.Context, roleID string, index int) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM questions
		 WHERE id = (SELECT id FROM questions WHERE role_id = $1
		             ORDER BY position ASC OFFSET $2 LIMIT 1)`,
		roleID, index,
	)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionIndex
	}
	return nil
}

// ─── AnalyticsStore ──────────────────────────────────────────────────────────

type PostgresAnalyticsStore struct {
	db *pgxpool.Pool
}

func NewPostgresAnalyticsStore(db *pgxpool.Pool) *PostgresAnalyticsStore {
	return &PostgresAnalyticsStore{db: db}
}

func (s *PostgresAnalyticsStore) RecordApplicant(ctx context.Context, roleID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO role_stats (role_id, total_applicants) VALUES ($1, 1)
		 ON CONFLICT (role_id) DO UPDATE
		   SET total_applicants = role_stats.total_applicants + 1`,
		roleID,
	)
	if err != nil {
		return fmt.Errorf("record applicant: %w", err)
	}
	return nil
}

func (s *PostgresAnalyticsStore) RecordTestOutcome(ctx context.Context, roleID string, passed bool) error {
	passedInc, failedInc := 0, 1
	if passed {
		passedInc, failedInc = 1, 0
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO role_stats (role_id, selected_for_test, passed, failed)
		 VALUES ($1, 1, $2, $3)
		 ON CONFLICT (role_id) DO UPDATE
		   SET selected_for_test = role_stats.selected_for_test + 1,
		       passed            = role_stats.passed + $2,
		       failed            = role_stats.failed + $3`,
		roleID, passedInc, failedInc,
	)
	if err != nil {
		return fmt.Errorf("record test outcome: %w", err)
	}
	return nil
}

func (s *PostgresAnalyticsStore) RecordInterview(ctx context.Context, iv Interview) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO interviews (email, role_id, interview_time, join_link)
		 VALUES ($1, $2, $3, $4)`,
		iv.Email, iv.Role, iv.Time, iv.Link,
	)
	if err != nil {
		return fmt.Errorf("record interview: %w", err)
	}
	return nil
}

func (s *PostgresAnalyticsStore) Snapshot(ctx context.Context) (Snapshot, error) {
	out := Snapshot{
		Roles:      make(map[string]RoleCounters),
		Interviews: []Interview{},
	}

	rows, err := s.db.Query(ctx,
		`SELECT role_id, total_applicants, selected_for_test, passed, failed FROM role_stats`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query role_stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var c RoleCounters
		if err := rows.Scan(&id, &c.TotalApplicants, &c.SelectedForTest, &c.Passed, &c.Failed); err != nil {
			return Snapshot{}, fmt.Errorf("scan role_stats: %w", err)
		}
		out.Roles[id] = c
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	ivRows, err := s.db.Query(ctx,
		`SELECT email, role_id, interview_time, join_link FROM interviews ORDER BY id ASC`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query interviews: %w", err)
	}
	defer ivRows.Close()
	for ivRows.Next() {
		var iv Interview
		if err := ivRows.Scan(&iv.Email, &iv.Role, &iv.Time, &iv.Link); err != nil {
			return Snapshot{}, fmt.Errorf("scan interview: %w", err)
		}
		out.Interviews = append(out.Interviews, iv)
	}
	return out, ivRows.Err()
}

// ─── SlotStore ───────────────────────────────────────────────────────────────

type PostgresSlotStore struct {
	db *pgxpool.Pool
}

func NewPostgresSlotStore(db *pgxpool.Pool) *PostgresSlotStore {
	return &PostgresSlotStore{db: db}
}

func (s *PostgresSlotStore) ListSlots(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT slot_time FROM slots ORDER BY slot_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresSlotStore) AddSlot(ctx context.Context, t string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO slots (slot_time) VALUES ($1) ON CONFLICT DO NOTHING`, t)
	if err != nil {
		return fmt.Errorf("add slot: %w", err)
	}
	return nil
}

func (s *PostgresSlotStore) RemoveSlot(ctx context.Context, t string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM slots WHERE slot_time = $1`, t)
	if err != nil {
		return fmt.Errorf("remove slot: %w", err)
	}
	return nil
}
