package prescription

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/inventory"
)

// Repository reads prescriptions out of the appointment store. The scheduling
// subsystem owns the writes; this package never mutates appointments.
type Repository interface {
	// GetByAppointment returns NotFound when the appointment is missing or
	// carries no prescription payload.
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error)
	ListCompleted(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
}

// MedicineFinder is the slice of the inventory ledger the reconciler needs.
// Satisfied by inventory.Repository.
type MedicineFinder interface {
	FindFirstAvailable(ctx context.Context, pharmacyID uuid.UUID, prescribedName string) (*inventory.Medicine, error)
}
