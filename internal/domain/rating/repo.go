package rating

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	// SubmitReview upserts the review by patient id and recomputes the
	// doctor's mean rating and count in the same logical transaction,
	// serialized per doctor. Returns the doctor as stored after the write.
	SubmitReview(ctx context.Context, doctorID uuid.UUID, r Review) (*Doctor, error)
	ListTop(ctx context.Context, limit int) ([]*Doctor, error)
}
