package inventory

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	medicines map[uuid.UUID]*Medicine
	order     []uuid.UUID // insertion order, oldest first
}

func newMockRepo() *mockRepo {
	return &mockRepo{medicines: make(map[uuid.UUID]*Medicine)}
}

func (m *mockRepo) Create(_ context.Context, med *Medicine) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.medicines[med.ID] = med
	m.order = append(m.order, med.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id, pharmacyID uuid.UUID) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok || med.PharmacyID != pharmacyID {
		return nil, apperr.NotFound("medicine not found")
	}
	return med, nil
}

func (m *mockRepo) UpdateQuantity(_ context.Context, id, pharmacyID uuid.UUID, quantity int) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok || med.PharmacyID != pharmacyID {
		return nil, apperr.NotFound("medicine not found")
	}
	med.SetQuantity(quantity)
	med.UpdatedAt = time.Now()
	return med, nil
}

func (m *mockRepo) Delete(_ context.Context, id, pharmacyID uuid.UUID) error {
	if med, ok := m.medicines[id]; ok && med.PharmacyID == pharmacyID {
		delete(m.medicines, id)
	}
	return nil
}

func (m *mockRepo) ListByPharmacy(_ context.Context, pharmacyID uuid.UUID, limit, offset int) ([]*Medicine, int, error) {
	var meds []*Medicine
	for _, med := range m.medicines {
		if med.PharmacyID == pharmacyID {
			meds = append(meds, med)
		}
	}
	sort.Slice(meds, func(i, j int) bool { return meds[i].Name < meds[j].Name })
	return meds, len(meds), nil
}

func (m *mockRepo) Counts(_ context.Context, pharmacyID uuid.UUID) (total, available, expired int, err error) {
	now := time.Now()
	for _, med := range m.medicines {
		if med.PharmacyID != pharmacyID {
			continue
		}
		total++
		if med.Available {
			available++
		}
		if med.Expired(now) {
			expired++
		}
	}
	return total, available, expired, nil
}

func (m *mockRepo) ListLowStock(_ context.Context, pharmacyID uuid.UUID) ([]*Medicine, error) {
	var meds []*Medicine
	for _, med := range m.medicines {
		if med.PharmacyID == pharmacyID && med.LowStock() {
			meds = append(meds, med)
		}
	}
	sort.Slice(meds, func(i, j int) bool { return meds[i].Quantity < meds[j].Quantity })
	return meds, nil
}

func (m *mockRepo) FindFirstAvailable(_ context.Context, pharmacyID uuid.UUID, prescribedName string) (*Medicine, error) {
	for _, id := range m.order {
		med, ok := m.medicines[id]
		if !ok {
			continue
		}
		if med.PharmacyID == pharmacyID && med.Available && med.NameMatches(prescribedName) {
			return med, nil
		}
	}
	return nil, apperr.NotFound("no matching medicine")
}

// -- Helpers --

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func validInput(name string, quantity int) AddMedicineInput {
	return AddMedicineInput{
		Name:       name,
		Quantity:   intPtr(quantity),
		Price:      floatPtr(9.99),
		ExpiryDate: timePtr(time.Now().Add(365 * 24 * time.Hour)),
	}
}

// -- Tests --

func TestAddMedicine(t *testing.T) {
	svc, _ := newTestService()
	pharmacy := uuid.New()

	m, err := svc.AddMedicine(context.Background(), pharmacy, validInput("Paracetamol", 50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Available {
		t.Error("expected available=true for quantity 50")
	}
	if m.MinStockLevel != DefaultMinStockLevel {
		t.Errorf("expected default min stock level %d, got %d", DefaultMinStockLevel, m.MinStockLevel)
	}
	if m.PharmacyID != pharmacy {
		t.Error("expected medicine owned by calling pharmacy")
	}
}

func TestAddMedicine_ZeroQuantityNotAvailable(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.AddMedicine(context.Background(), uuid.New(), validInput("Aspirin", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Available {
		t.Error("expected available=false for quantity 0")
	}
}

func TestAddMedicine_Validation(t *testing.T) {
	svc, _ := newTestService()
	pharmacy := uuid.New()

	cases := []struct {
		name string
		in   AddMedicineInput
	}{
		{"missing name", AddMedicineInput{Quantity: intPtr(1), Price: floatPtr(1), ExpiryDate: timePtr(time.Now())}},
		{"missing quantity", AddMedicineInput{Name: "X", Price: floatPtr(1), ExpiryDate: timePtr(time.Now())}},
		{"missing price", AddMedicineInput{Name: "X", Quantity: intPtr(1), ExpiryDate: timePtr(time.Now())}},
		{"missing expiry", AddMedicineInput{Name: "X", Quantity: intPtr(1), Price: floatPtr(1)}},
		{"negative quantity", AddMedicineInput{Name: "X", Quantity: intPtr(-1), Price: floatPtr(1), ExpiryDate: timePtr(time.Now())}},
	}

	for _, tc := range cases {
		_, err := svc.AddMedicine(context.Background(), pharmacy, tc.in)
		if !apperr.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestAddMedicine_ExplicitMinStockLevel(t *testing.T) {
	svc, _ := newTestService()

	in := validInput("Insulin", 100)
	in.MinStockLevel = intPtr(25)
	m, err := svc.AddMedicine(context.Background(), uuid.New(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MinStockLevel != 25 {
		t.Errorf("expected min stock level 25, got %d", m.MinStockLevel)
	}

	in = validInput("Insulin", 100)
	in.MinStockLevel = intPtr(-3)
	m, _ = svc.AddMedicine(context.Background(), uuid.New(), in)
	if m.MinStockLevel != DefaultMinStockLevel {
		t.Errorf("expected default for non-positive threshold, got %d", m.MinStockLevel)
	}
}

func TestAdjustStock(t *testing.T) {
	svc, _ := newTestService()
	pharmacy := uuid.New()

	m, _ := svc.AddMedicine(context.Background(), pharmacy, validInput("Paracetamol", 50))

	updated, err := svc.AdjustStock(context.Background(), m.ID, pharmacy, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Available {
		t.Error("expected available=false after adjusting to 0")
	}

	updated, err = svc.AdjustStock(context.Background(), m.ID, pharmacy, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Available || updated.Quantity != 7 {
		t.Errorf("expected quantity 7 available, got %+v", updated)
	}
}

func TestAdjustStock_NegativeQuantity(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AdjustStock(context.Background(), uuid.New(), uuid.New(), -1)
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAdjustStock_WrongPharmacy(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()

	m, _ := svc.AddMedicine(context.Background(), owner, validInput("Paracetamol", 50))

	_, err := svc.AdjustStock(context.Background(), m.ID, uuid.New(), 10)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found for foreign pharmacy, got %v", err)
	}
}

func TestRemoveMedicine_Idempotent(t *testing.T) {
	svc, repo := newTestService()
	pharmacy := uuid.New()

	m, _ := svc.AddMedicine(context.Background(), pharmacy, validInput("Paracetamol", 50))

	if err := svc.RemoveMedicine(context.Background(), m.ID, pharmacy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.medicines[m.ID]; ok {
		t.Error("expected medicine removed")
	}

	// Removing again is a no-op success.
	if err := svc.RemoveMedicine(context.Background(), m.ID, pharmacy); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
	if err := svc.RemoveMedicine(context.Background(), uuid.New(), pharmacy); err != nil {
		t.Errorf("expected no error for unknown id, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService()
	pharmacy := uuid.New()
	ctx := context.Background()

	// Two healthy, one out of stock, one expired.
	svc.AddMedicine(ctx, pharmacy, validInput("Amoxicillin", 100))
	svc.AddMedicine(ctx, pharmacy, validInput("Ibuprofen", 40))
	svc.AddMedicine(ctx, pharmacy, validInput("Paracetamol", 0))
	expired := validInput("Old Syrup", 30)
	expired.ExpiryDate = timePtr(time.Now().Add(-24 * time.Hour))
	svc.AddMedicine(ctx, pharmacy, expired)

	report, err := svc.Dashboard(ctx, pharmacy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Total != 4 {
		t.Errorf("expected total 4, got %d", report.Total)
	}
	if report.Available != 3 {
		t.Errorf("expected available 3, got %d", report.Available)
	}
	if report.ExpiredCount != 1 {
		t.Errorf("expected 1 expired, got %d", report.ExpiredCount)
	}
	if report.LowStockCount != 1 {
		t.Errorf("expected 1 low stock, got %d", report.LowStockCount)
	}
}

func TestDashboard_PreviewCap(t *testing.T) {
	svc, _ := newTestService()
	pharmacy := uuid.New()
	ctx := context.Background()

	for i := 0; i < LowStockPreviewCap+3; i++ {
		svc.AddMedicine(ctx, pharmacy, validInput(fmt.Sprintf("Med %d", i), i))
	}

	report, err := svc.Dashboard(ctx, pharmacy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.LowStockCount != LowStockPreviewCap+3 {
		t.Errorf("expected low stock count %d, got %d", LowStockPreviewCap+3, report.LowStockCount)
	}
	if len(report.LowStock) != LowStockPreviewCap {
		t.Errorf("expected preview capped at %d, got %d", LowStockPreviewCap, len(report.LowStock))
	}
}

func TestDashboard_ScopedToPharmacy(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mine := uuid.New()
	svc.AddMedicine(ctx, mine, validInput("Paracetamol", 50))
	svc.AddMedicine(ctx, uuid.New(), validInput("Ibuprofen", 50))

	report, err := svc.Dashboard(ctx, mine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Total != 1 {
		t.Errorf("expected only own medicines counted, got %d", report.Total)
	}
}
