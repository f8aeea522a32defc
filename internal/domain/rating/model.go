package rating

import (
	"time"

	"github.com/google/uuid"
)

// Review is one patient's opinion of a doctor. A doctor holds at most one
// review per patient; resubmission replaces the earlier entry.
type Review struct {
	PatientID string    `json:"patient_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	Date      time.Time `json:"date"`
}

// Doctor carries its review collection embedded, with rating and
// total_ratings as caches of that collection. They are recomputed on every
// review write and never updated independently.
type Doctor struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Speciality   string    `json:"speciality,omitempty"`
	Fees         float64   `json:"fees"`
	Available    bool      `json:"available"`
	Rating       float64   `json:"rating"`
	TotalRatings int       `json:"total_ratings"`
	Reviews      []Review  `json:"patient_reviews"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// applyReview upserts r into the collection by patient id and returns the new
// collection with its recomputed mean and count. Replacing an existing review
// keeps the count unchanged; the mean is always a full recompute over the
// post-mutation collection rather than an incremental adjustment.
func applyReview(reviews []Review, r Review) ([]Review, float64, int) {
	out := make([]Review, len(reviews))
	copy(out, reviews)

	replaced := false
	for i := range out {
		if out[i].PatientID == r.PatientID {
			out[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		out = append(out, r)
	}

	sum := 0
	for _, rev := range out {
		sum += rev.Rating
	}
	return out, float64(sum) / float64(len(out)), len(out)
}
