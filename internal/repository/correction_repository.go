package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaultexam/vaultexam-backend/internal/model"
)

// CorrectionRepository handles correction data access.
type CorrectionRepository struct {
	pool *pgxpool.Pool
}

// NewCorrectionRepository creates a new CorrectionRepository.
func NewCorrectionRepository(pool *pgxpool.Pool) *CorrectionRepository {
	return &CorrectionRepository{pool: pool}
}

// Create inserts a correction unless the submission already has one, and
// reports whether the insert happened. The submission_id unique constraint
// makes the conflict check atomic with the insert.
func (r *CorrectionRepository) Create(ctx context.Context, c *model.Correction) (bool, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO corrections (submission_id, encrypted_correction_data,
		                          teacher_notes, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (submission_id) DO NOTHING
		 RETURNING id`,
		c.SubmissionID, c.EncryptedCorrectionData, c.TeacherNotes,
		c.CreatedAt, c.ExpiresAt,
	).Scan(&c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetBySubmission retrieves the correction for a submission, or nil when none
// exists.
func (r *CorrectionRepository) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.Correction, error) {
	c := &model.Correction{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, submission_id, encrypted_correction_data, teacher_notes,
		        created_at, expires_at
		 FROM corrections WHERE submission_id = $1`, submissionID,
	).Scan(&c.ID, &c.SubmissionID, &c.EncryptedCorrectionData, &c.TeacherNotes,
		&c.CreatedAt, &c.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteExpired removes every correction whose expiry has passed and returns
// the number of rows deleted.
func (r *CorrectionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM corrections WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
