package rating

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

const (
	MinRating = 1
	MaxRating = 5

	defaultTopLimit = 10
	maxTopLimit     = 50
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SubmitRating records a patient's rating for a doctor. One review per
// patient: a resubmission replaces the earlier one without growing the count.
func (s *Service) SubmitRating(ctx context.Context, doctorID uuid.UUID, patientID string, rating int, review string) (*Doctor, error) {
	if patientID == "" {
		return nil, apperr.Validation("patient id is required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, apperr.Validation("rating must be between %d and %d", MinRating, MaxRating)
	}

	return s.repo.SubmitReview(ctx, doctorID, Review{
		PatientID: patientID,
		Rating:    rating,
		Review:    review,
		Date:      time.Now().UTC(),
	})
}

func (s *Service) ListReviews(ctx context.Context, doctorID uuid.UUID) ([]Review, error) {
	d, err := s.repo.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return d.Reviews, nil
}

func (s *Service) TopDoctors(ctx context.Context, limit int) ([]*Doctor, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.repo.ListTop(ctx, limit)
}
