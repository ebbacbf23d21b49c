package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// TestRepository handles test data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

const testColumns = `id, test_code, encrypted_test_data, duration_minutes,
       allow_corrections, teacher_id, created_at, expires_at`

// CreateIfVacant inserts the test unless a live row with the same code
// already exists, and reports whether the insert happened. Creations for the
// same code are serialized by an advisory transaction lock: a plain unique
// index cannot express "unique among live rows" because expired rows keep
// their code until purge runs.
func (r *TestRepository) CreateIfVacant(ctx context.Context, t *model.Test) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, t.TestCode); err != nil {
		return false, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO tests (test_code, encrypted_test_data, duration_minutes,
		                    allow_corrections, teacher_id, created_at, expires_at)
		 SELECT $1, $2, $3, $4, $5, $6, $7
		 WHERE NOT EXISTS (
		     SELECT 1 FROM tests WHERE test_code = $1 AND expires_at > NOW()
		 )
		 RETURNING id`,
		t.TestCode, t.EncryptedTestData, t.DurationMinutes,
		t.AllowCorrections, t.TeacherID, t.CreatedAt, t.ExpiresAt,
	).Scan(&t.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// FindLiveByCode retrieves the live test with the given code, or nil when no
// such test exists. Liveness is evaluated by the database at query time.
func (r *TestRepository) FindLiveByCode(ctx context.Context, code string) (*model.Test, error) {
	return r.findByCode(ctx, code, true)
}

// FindByCode retrieves the most recent test with the given code regardless of
// liveness, or nil when none exists. Submission resolution must still work
// against expired tests.
func (r *TestRepository) FindByCode(ctx context.Context, code string) (*model.Test, error) {
	return r.findByCode(ctx, code, false)
}

func (r *TestRepository) findByCode(ctx context.Context, code string, liveOnly bool) (*model.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests WHERE test_code = $1`
	if liveOnly {
		query += ` AND expires_at > NOW()`
	}
	query += ` ORDER BY expires_at DESC LIMIT 1`

	t := &model.Test{}
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&t.ID, &t.TestCode, &t.EncryptedTestData, &t.DurationMinutes,
		&t.AllowCorrections, &t.TeacherID, &t.CreatedAt, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a test by id regardless of liveness, or nil when missing.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+testColumns+` FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.TestCode, &t.EncryptedTestData, &t.DurationMinutes,
		&t.AllowCorrections, &t.TeacherID, &t.CreatedAt, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByTeacher retrieves all tests created by a teacher, newest first.
func (r *TestRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testColumns+` FROM tests
		 WHERE teacher_id = $1
		 ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(
			&t.ID, &t.TestCode, &t.EncryptedTestData, &t.DurationMinutes,
			&t.AllowCorrections, &t.TeacherID, &t.CreatedAt, &t.ExpiresAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// DeleteExpired removes expired tests that no submission references anymore
// and returns the number of rows deleted. A test still carrying submissions
// is kept until those are purged in their own right, so the review window on
// them survives the test's expiry.
func (r *TestRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tests
		 WHERE expires_at < NOW()
		   AND NOT EXISTS (SELECT 1 FROM submissions s WHERE s.test_id = tests.id)`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
