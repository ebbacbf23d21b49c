package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

const submissionColumns = `id, test_id, student_name, encrypted_submission_data,
       time_logs, is_suspicious, score, submitted_at, expires_at`

// Create inserts a new submission row. Resubmission is allowed; every attempt
// is its own row.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (test_id, student_name, encrypted_submission_data,
		                          time_logs, is_suspicious, submitted_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		s.TestID, s.StudentName, s.EncryptedSubmissionData,
		s.TimeLogs, s.IsSuspicious, s.SubmittedAt, s.ExpiresAt,
	).Scan(&s.ID)
}

// GetByID retrieves a submission by id, or nil when missing.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.TestID, &s.StudentName, &s.EncryptedSubmissionData,
		&s.TimeLogs, &s.IsSuspicious, &s.Score, &s.SubmittedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByTest retrieves all submissions for a test, newest first.
func (r *SubmissionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE test_id = $1
		 ORDER BY submitted_at DESC`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

// ListSuspiciousByTeacher retrieves flagged submissions across every test the
// teacher owns, newest first.
func (r *SubmissionRepository) ListSuspiciousByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.test_id, s.student_name, s.encrypted_submission_data,
		        s.time_logs, s.is_suspicious, s.score, s.submitted_at, s.expires_at
		 FROM submissions s
		 JOIN tests t ON s.test_id = t.id
		 WHERE t.teacher_id = $1 AND s.is_suspicious
		 ORDER BY s.submitted_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

// UpdateScore sets the score on a submission, constrained to tests owned by
// the given teacher. Reports whether a row was updated.
func (r *SubmissionRepository) UpdateScore(ctx context.Context, submissionID, teacherID uuid.UUID, score float64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE submissions s SET score = $1
		 FROM tests t
		 WHERE s.id = $2 AND s.test_id = t.id AND t.teacher_id = $3`,
		score, submissionID, teacherID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteExpired removes expired submissions that no correction references
// anymore and returns the number of rows deleted. A submission with a
// correction waits for the correction's own expiry.
func (r *SubmissionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM submissions
		 WHERE expires_at < NOW()
		   AND NOT EXISTS (SELECT 1 FROM corrections c WHERE c.submission_id = submissions.id)`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSubmissions(rows pgx.Rows) ([]model.Submission, error) {
	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(
			&s.ID, &s.TestID, &s.StudentName, &s.EncryptedSubmissionData,
			&s.TimeLogs, &s.IsSuspicious, &s.Score, &s.SubmittedAt, &s.ExpiresAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
