package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMinStockLevel is applied when a medicine is added without an
	// explicit reorder threshold.
	DefaultMinStockLevel = 10

	// LowStockPreviewCap bounds the low-stock list embedded in the dashboard.
	LowStockPreviewCap = 5
)

type Medicine struct {
	ID            uuid.UUID `json:"id"`
	PharmacyID    uuid.UUID `json:"pharmacy_id"`
	Name          string    `json:"name"`
	GenericName   string    `json:"generic_name,omitempty"`
	Manufacturer  string    `json:"manufacturer,omitempty"`
	Category      string    `json:"category,omitempty"`
	BatchNumber   string    `json:"batch_number,omitempty"`
	Description   string    `json:"description,omitempty"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	MinStockLevel int       `json:"min_stock_level"`
	ExpiryDate    time.Time `json:"expiry_date"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SetQuantity is the only write path for stock. Availability is derived from
// the quantity here so the two can never drift apart.
func (m *Medicine) SetQuantity(q int) {
	m.Quantity = q
	m.Available = q > 0
}

func (m *Medicine) LowStock() bool {
	return m.Quantity <= m.MinStockLevel
}

func (m *Medicine) Expired(now time.Time) bool {
	return m.ExpiryDate.Before(now)
}

// NameMatches reports whether a free-text prescribed name refers to this
// medicine. Prescribed names carry dosage suffixes and brand variants, so the
// comparison is a case-insensitive substring check in both directions.
func (m *Medicine) NameMatches(prescribed string) bool {
	name := strings.ToLower(strings.TrimSpace(m.Name))
	term := strings.ToLower(strings.TrimSpace(prescribed))
	if name == "" || term == "" {
		return false
	}
	return strings.Contains(name, term) || strings.Contains(term, name)
}

// AddMedicineInput uses pointers for the fields whose absence must be
// distinguishable from a zero value.
type AddMedicineInput struct {
	Name          string     `json:"name"`
	GenericName   string     `json:"generic_name"`
	Manufacturer  string     `json:"manufacturer"`
	Category      string     `json:"category"`
	BatchNumber   string     `json:"batch_number"`
	Description   string     `json:"description"`
	Quantity      *int       `json:"quantity"`
	Price         *float64   `json:"price"`
	MinStockLevel *int       `json:"min_stock_level"`
	ExpiryDate    *time.Time `json:"expiry_date"`
}

// StockReport is the pharmacy dashboard: aggregate counts plus a bounded
// preview of the medicines at or below their reorder threshold.
type StockReport struct {
	Total         int         `json:"total"`
	Available     int         `json:"available"`
	LowStockCount int         `json:"low_stock_count"`
	ExpiredCount  int         `json:"expired_count"`
	LowStock      []*Medicine `json:"low_stock"`
}
