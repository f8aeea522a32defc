package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists Medicine aggregates. All reads and writes are scoped to
// the owning pharmacy; a medicine under another pharmacy behaves as absent.
type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id, pharmacyID uuid.UUID) (*Medicine, error)
	// UpdateQuantity sets the stock level and re-derives availability in a
	// single atomic write, returning the updated row.
	UpdateQuantity(ctx context.Context, id, pharmacyID uuid.UUID, quantity int) (*Medicine, error)
	Delete(ctx context.Context, id, pharmacyID uuid.UUID) error
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, limit, offset int) ([]*Medicine, int, error)
	Counts(ctx context.Context, pharmacyID uuid.UUID) (total, available, expired int, err error)
	ListLowStock(ctx context.Context, pharmacyID uuid.UUID) ([]*Medicine, error)
	// FindFirstAvailable returns the oldest in-stock medicine of the pharmacy
	// whose name fuzzily matches the prescribed free-text name, or NotFound.
	FindFirstAvailable(ctx context.Context, pharmacyID uuid.UUID, prescribedName string) (*Medicine, error)
}
