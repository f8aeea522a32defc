package prescription

import (
	"time"

	"github.com/google/uuid"
)

// PrescriptionLine is a single prescribed medicine. The name is free text
// written by the doctor, not a reference into any pharmacy's inventory.
type PrescriptionLine struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is the payload a doctor records on a completed appointment.
type Prescription struct {
	AppointmentID  uuid.UUID          `json:"appointment_id"`
	DoctorID       uuid.UUID          `json:"doctor_id"`
	PatientID      uuid.UUID          `json:"patient_id"`
	Diagnosis      string             `json:"diagnosis,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	PrescribedDate time.Time          `json:"prescribed_date"`
	Medicines      []PrescriptionLine `json:"medicines"`
}

// LineAvailability reports one prescription line against a pharmacy's stock.
// Price is absent when nothing matched.
type LineAvailability struct {
	MedicineName string   `json:"medicine_name"`
	Prescribed   bool     `json:"prescribed"`
	Available    bool     `json:"available"`
	InStock      int      `json:"in_stock"`
	Price        *float64 `json:"price,omitempty"`
}
