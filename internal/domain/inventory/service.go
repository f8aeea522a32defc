package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddMedicine(ctx context.Context, pharmacyID uuid.UUID, in AddMedicineInput) (*Medicine, error) {
	if in.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.Quantity == nil {
		return nil, apperr.Validation("quantity is required")
	}
	if *in.Quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}
	if in.Price == nil {
		return nil, apperr.Validation("price is required")
	}
	if *in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if in.ExpiryDate == nil {
		return nil, apperr.Validation("expiry_date is required")
	}

	minStock := DefaultMinStockLevel
	if in.MinStockLevel != nil && *in.MinStockLevel > 0 {
		minStock = *in.MinStockLevel
	}

	m := &Medicine{
		PharmacyID:    pharmacyID,
		Name:          in.Name,
		GenericName:   in.GenericName,
		Manufacturer:  in.Manufacturer,
		Category:      in.Category,
		BatchNumber:   in.BatchNumber,
		Description:   in.Description,
		Price:         *in.Price,
		MinStockLevel: minStock,
		ExpiryDate:    *in.ExpiryDate,
	}
	m.SetQuantity(*in.Quantity)

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AdjustStock sets the absolute stock level of a medicine owned by the
// pharmacy. Availability is re-derived by the repository in the same write.
func (s *Service) AdjustStock(ctx context.Context, medicineID, pharmacyID uuid.UUID, quantity int) (*Medicine, error) {
	if quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}
	return s.repo.UpdateQuantity(ctx, medicineID, pharmacyID, quantity)
}

func (s *Service) RemoveMedicine(ctx context.Context, medicineID, pharmacyID uuid.UUID) error {
	return s.repo.Delete(ctx, medicineID, pharmacyID)
}

func (s *Service) GetMedicine(ctx context.Context, medicineID, pharmacyID uuid.UUID) (*Medicine, error) {
	return s.repo.GetByID(ctx, medicineID, pharmacyID)
}

func (s *Service) ListMedicines(ctx context.Context, pharmacyID uuid.UUID, limit, offset int) ([]*Medicine, int, error) {
	return s.repo.ListByPharmacy(ctx, pharmacyID, limit, offset)
}

// Dashboard assembles the stock report: aggregate counts plus a preview of
// the low-stock set capped at LowStockPreviewCap. Expiry is evaluated at
// query time.
func (s *Service) Dashboard(ctx context.Context, pharmacyID uuid.UUID) (*StockReport, error) {
	total, available, expired, err := s.repo.Counts(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	low, err := s.repo.ListLowStock(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	report := &StockReport{
		Total:         total,
		Available:     available,
		LowStockCount: len(low),
		ExpiredCount:  expired,
		LowStock:      low,
	}
	if len(report.LowStock) > LowStockPreviewCap {
		report.LowStock = report.LowStock[:LowStockPreviewCap]
	}
	return report, nil
}
