package records

import (
	"context"
	"errors"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrEHRNotFound     = errors.New("ehr not found")
)

// Store is the persistence contract for the six clinic collections. Two
// implementations exist: the gorm-backed Repository and the MemoryStore.
// Create operations resolve foreign keys before writing and return the fully
// materialized record, with the owning patient joined in where the entity
// embeds one.
type Store interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	GetPatient(ctx context.Context, id string) (models.Patient, error)
	CreatePatient(ctx context.Context, req models.CreatePatientRequest) (models.Patient, error)

	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, req models.CreateAppointmentRequest) (models.Appointment, error)

	ListPrescriptions(ctx context.Context) ([]models.Prescription, error)
	CreatePrescription(ctx context.Context, req models.CreatePrescriptionRequest) (models.Prescription, error)

	ListBillingClaims(ctx context.Context) ([]models.BillingClaim, error)

	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	ToggleTask(ctx context.Context, id string, currentStatus bool) (models.Task, error)
	CreateTask(ctx context.Context, userID, text string) (models.Task, error)

	GetEHR(ctx context.Context, patientID string) (models.EHR, error)
	ListLabResults(ctx context.Context, patientID string) ([]models.LabResult, error)
	ListRadiologyImages(ctx context.Context, patientID string) ([]models.RadiologyImage, error)
}

// DateLayout is the wire format for clinic dates. Agenda matching compares
// these values with exact string equality.
const DateLayout = "2006-01-02"

func today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// prescriptionActive is evaluated once at creation time and stored; it is
// never re-evaluated against the current date afterwards.
func prescriptionActive(endDate string, now time.Time) bool {
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return false
	}
	creation, _ := time.Parse(DateLayout, today(now))
	return !end.Before(creation)
}

const (
	defaultRefills  = 1
	defaultPharmacy = "Default Pharmacy"
	absentField     = "N/A"
)
