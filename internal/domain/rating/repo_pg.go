package rating

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/internal/platform/apperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const docCols = `id, name, speciality, fees, available, rating, total_ratings,
	COALESCE(patient_reviews, '[]'::jsonb), created_at, updated_at`

// submitAttempts bounds the retry loop around serialization failures before
// the write surfaces as a Conflict.
const submitAttempts = 3

func (r *repoPG) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+docCols+` FROM doctor WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "get doctor")
	}
	return d, nil
}

// SubmitReview runs the read-modify-write inside a transaction holding the
// doctor's row lock, so concurrent submissions for the same doctor serialize
// while different doctors proceed in parallel.
func (r *repoPG) SubmitReview(ctx context.Context, doctorID uuid.UUID, rev Review) (*Doctor, error) {
	for attempt := 0; attempt < submitAttempts; attempt++ {
		d, err := r.submitOnce(ctx, doctorID, rev)
		if err == nil {
			return d, nil
		}
		if !retryable(err) {
			return nil, err
		}
	}
	return nil, apperr.Conflict("concurrent rating updates, please retry")
}

func (r *repoPG) submitOnce(ctx context.Context, doctorID uuid.UUID, rev Review) (*Doctor, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "begin review transaction")
	}
	defer tx.Rollback(ctx)

	var reviews []Review
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(patient_reviews, '[]'::jsonb)
		FROM doctor WHERE id = $1
		FOR UPDATE`, doctorID).Scan(&reviews)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor not found")
	}
	if err != nil {
		return nil, err
	}

	updated, mean, count := applyReview(reviews, rev)

	d, err := scanDoctor(tx.QueryRow(ctx, `
		UPDATE doctor
		SET patient_reviews = $2, rating = $3, total_ratings = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+docCols,
		doctorID, updated, mean, count))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// retryable reports whether the error is a transient concurrency failure
// (serialization failure or deadlock) worth another attempt.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func (r *repoPG) ListTop(ctx context.Context, limit int) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+docCols+` FROM doctor
		WHERE available
		ORDER BY rating DESC, total_ratings DESC, name
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperr.Persistence(err, "list top doctors")
	}
	defer rows.Close()

	var docs []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, apperr.Persistence(err, "list top doctors")
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err, "list top doctors")
	}
	return docs, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID, &d.Name, &d.Speciality, &d.Fees, &d.Available,
		&d.Rating, &d.TotalRatings, &d.Reviews, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
