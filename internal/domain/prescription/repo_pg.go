package prescription

import (
	"context"
	"errors"
	"time"

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

// prescriptionDoc mirrors the jsonb payload stored on the appointment row.
type prescriptionDoc struct {
	Diagnosis      string             `json:"diagnosis"`
	Notes          string             `json:"notes"`
	PrescribedDate time.Time          `json:"prescribed_date"`
	Medicines      []PrescriptionLine `json:"medicines"`
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Prescription, error) {
	var (
		doctorID  uuid.UUID
		patientID uuid.UUID
		doc       *prescriptionDoc
	)
	err := r.pool.QueryRow(ctx, `
		SELECT doctor_id, user_id, prescription
		FROM appointment WHERE id = $1`, appointmentID).
		Scan(&doctorID, &patientID, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("prescription not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err, "get prescription")
	}
	if doc == nil || len(doc.Medicines) == 0 {
		return nil, apperr.NotFound("appointment has no prescription")
	}

	return &Prescription{
		AppointmentID:  appointmentID,
		DoctorID:       doctorID,
		PatientID:      patientID,
		Diagnosis:      doc.Diagnosis,
		Notes:          doc.Notes,
		PrescribedDate: doc.PrescribedDate,
		Medicines:      doc.Medicines,
	}, nil
}

func (r *repoPG) ListCompleted(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE is_completed AND prescription IS NOT NULL`).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "count prescriptions")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, user_id, prescription
		FROM appointment
		WHERE is_completed AND prescription IS NOT NULL
		ORDER BY slot_date DESC, slot_time DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence(err, "list prescriptions")
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		var (
			p   Prescription
			doc prescriptionDoc
		)
		if err := rows.Scan(&p.AppointmentID, &p.DoctorID, &p.PatientID, &doc); err != nil {
			return nil, 0, apperr.Persistence(err, "list prescriptions")
		}
		p.Diagnosis = doc.Diagnosis
		p.Notes = doc.Notes
		p.PrescribedDate = doc.PrescribedDate
		p.Medicines = doc.Medicines
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Persistence(err, "list prescriptions")
	}
	return out, total, nil
}
