package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/internal/platform/apperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const medCols = `id, pharmacy_id, name, generic_name, manufacturer, category, batch_number,
	description, quantity, price, min_stock_level, expiry_date, available, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO medicine (
			id, pharmacy_id, name, generic_name, manufacturer, category, batch_number,
			description, quantity, price, min_stock_level, expiry_date, available
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$9>0)
		RETURNING created_at, updated_at`,
		m.ID, m.PharmacyID, m.Name, m.GenericName, m.Manufacturer, m.Category, m.BatchNumber,
		m.Description, m.Quantity, m.Price, m.MinStockLevel, m.ExpiryDate,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return apperr.Persistence(err, "create medicine")
	}
	m.Available = m.Quantity > 0
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id, pharmacyID uuid.UUID) (*Medicine, error) {
	m, err := scanMed(r.pool.QueryRow(ctx,
		`SELECT `+medCols+` FROM medicine WHERE id = $1 AND pharmacy_id = $2`, id, pharmacyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("medicine not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "get medicine")
	}
	return m, nil
}

// UpdateQuantity derives availability inside the statement itself, so a
// concurrent adjustment can never leave the flag inconsistent with the stored
// quantity.
func (r *repoPG) UpdateQuantity(ctx context.Context, id, pharmacyID uuid.UUID, quantity int) (*Medicine, error) {
	m, err := scanMed(r.pool.QueryRow(ctx, `
		UPDATE medicine
		SET quantity = $3, available = $3 > 0, updated_at = NOW()
		WHERE id = $1 AND pharmacy_id = $2
		RETURNING `+medCols,
		id, pharmacyID, quantity))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("medicine not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "update medicine quantity")
	}
	return m, nil
}

func (r *repoPG) Delete(ctx context.Context, id, pharmacyID uuid.UUID) error {
	// Deleting an absent medicine is a no-op success.
	_, err := r.pool.Exec(ctx,
		`DELETE FROM medicine WHERE id = $1 AND pharmacy_id = $2`, id, pharmacyID)
	if err != nil {
		return apperr.Persistence(err, "delete medicine")
	}
	return nil
}

func (r *repoPG) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, limit, offset int) ([]*Medicine, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM medicine WHERE pharmacy_id = $1`, pharmacyID).Scan(&total); err != nil {
		return nil, 0, apperr.Persistence(err, "count medicines")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+medCols+` FROM medicine WHERE pharmacy_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		pharmacyID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list medicines")
	}
	defer rows.Close()

	meds, err := collectMeds(rows)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list medicines")
	}
	return meds, total, nil
}

func (r *repoPG) Counts(ctx context.Context, pharmacyID uuid.UUID) (total, available, expired int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE available),
		       COUNT(*) FILTER (WHERE expiry_date < NOW())
		FROM medicine WHERE pharmacy_id = $1`, pharmacyID).Scan(&total, &available, &expired)
	if err != nil {
		return 0, 0, 0, apperr.Persistence(err, "count medicines")
	}
	return total, available, expired, nil
}

func (r *repoPG) ListLowStock(ctx context.Context, pharmacyID uuid.UUID) ([]*Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+medCols+` FROM medicine
		WHERE pharmacy_id = $1 AND quantity <= min_stock_level
		ORDER BY quantity, name`, pharmacyID)
	if err != nil {
		return nil, apperr.Persistence(err, "list low stock")
	}
	defer rows.Close()

	meds, err := collectMeds(rows)
	if err != nil {
		return nil, apperr.Persistence(err, "list low stock")
	}
	return meds, nil
}

func (r *repoPG) FindFirstAvailable(ctx context.Context, pharmacyID uuid.UUID, prescribedName string) (*Medicine, error) {
	term := strings.TrimSpace(prescribedName)
	if term == "" {
		return nil, apperr.NotFound("no matching medicine")
	}

	// Substring match in both directions: the stored name may be a fragment
	// of the prescribed text ("Paracetamol" vs "paracetamol 500mg") or the
	// other way around. The oldest matching row wins.
	m, err := scanMed(r.pool.QueryRow(ctx, `
		SELECT `+medCols+` FROM medicine
		WHERE pharmacy_id = $1 AND available
		  AND (name ILIKE '%' || $2 || '%' OR POSITION(LOWER(name) IN LOWER($3)) > 0)
		ORDER BY created_at
		LIMIT 1`,
		pharmacyID, escapeLike(term), term))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no matching medicine")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "match medicine")
	}
	return m, nil
}

// escapeLike neutralizes LIKE metacharacters in free-text input so a
// prescribed name like "50% dextrose" matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanMed(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(
		&m.ID, &m.PharmacyID, &m.Name, &m.GenericName, &m.Manufacturer, &m.Category, &m.BatchNumber,
		&m.Description, &m.Quantity, &m.Price, &m.MinStockLevel, &m.ExpiryDate, &m.Available,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMeds(rows pgx.Rows) ([]*Medicine, error) {
	var meds []*Medicine
	for rows.Next() {
		m, err := scanMed(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}
