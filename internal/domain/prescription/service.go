package prescription

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

type Service struct {
	repo Repository
	meds MedicineFinder
}

func NewService(repo Repository, meds MedicineFinder) *Service {
	return &Service{repo: repo, meds: meds}
}

// Reconcile matches each prescription line against the pharmacy's in-stock
// inventory and reports availability per line. The report preserves the
// prescription's line order and always contains one entry per line, so a
// pharmacist can work through it top to bottom as written. Read-only: racing
// stock adjustments just make the snapshot momentarily stale.
func (s *Service) Reconcile(ctx context.Context, prescriptionID, pharmacyID uuid.UUID) ([]LineAvailability, error) {
	p, err := s.repo.GetByAppointment(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	report := make([]LineAvailability, 0, len(p.Medicines))
	for _, line := range p.Medicines {
		entry := LineAvailability{
			MedicineName: line.Name,
			Prescribed:   true,
		}

		m, err := s.meds.FindFirstAvailable(ctx, pharmacyID, line.Name)
		switch {
		case err == nil:
			entry.Available = true
			entry.InStock = m.Quantity
			price := m.Price
			entry.Price = &price
		case apperr.IsNotFound(err):
			// No in-stock match; the line stays in the report as unavailable.
		default:
			return nil, err
		}

		report = append(report, entry)
	}
	return report, nil
}

func (s *Service) GetPrescription(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

func (s *Service) ListPrescriptions(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListCompleted(ctx, limit, offset)
}
