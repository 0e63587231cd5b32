package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/clinicdesk/platform/pkg/records"
	"github.com/clinicdesk/platform/pkg/viewstate"
)

// ErrValidation is the sentinel every field-level ValidationError unwraps to.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// StateDispatcher advances a UI session after a successful mutation. The
// view-state manager satisfies this.
type StateDispatcher interface {
	Dispatch(ctx context.Context, sessionID string, e viewstate.Event) (viewstate.State, error)
}

// Handler validates intake forms, writes through the records service, and
// then dispatches a MutationSucceeded event so the session's data version
// advances and any open modal closes.
type Handler struct {
	records *records.Service
	state   StateDispatcher
}

func NewHandler(recordsService *records.Service, state StateDispatcher) *Handler {
	return &Handler{records: recordsService, state: state}
}

func (h *Handler) SubmitPatient(ctx context.Context, sessionID, actor string, req models.CreatePatientRequest) (models.Patient, error) {
	if req.Name == "" {
		return models.Patient{}, missing("name")
	}
	if req.DOB == "" {
		return models.Patient{}, missing("dob")
	}
	if req.Gender == "" {
		return models.Patient{}, missing("gender")
	}
	if req.Gender != models.GenderMale && req.Gender != models.GenderFemale && req.Gender != models.GenderOther {
		return models.Patient{}, &ValidationError{Field: "gender", Reason: "must be Male, Female or Other"}
	}
	if req.Contact == "" {
		return models.Patient{}, missing("contact")
	}

	patient, err := h.records.CreatePatient(ctx, req, actor)
	if err != nil {
		return models.Patient{}, err
	}
	h.advance(ctx, sessionID)
	return patient, nil
}

func (h *Handler) SubmitAppointment(ctx context.Context, sessionID, actor string, req models.CreateAppointmentRequest) (models.Appointment, error) {
	if req.PatientID == "" {
		return models.Appointment{}, missing("patient_id")
	}
	if req.Doctor == "" {
		return models.Appointment{}, missing("doctor")
	}
	if req.Date == "" {
		return models.Appointment{}, missing("date")
	}
	if req.Time == "" {
		return models.Appointment{}, missing("time")
	}
	if req.Reason == "" {
		return models.Appointment{}, missing("reason")
	}

	appointment, err := h.records.CreateAppointment(ctx, req, actor)
	if err != nil {
		return models.Appointment{}, err
	}
	h.advance(ctx, sessionID)
	return appointment, nil
}

func (h *Handler) SubmitPrescription(ctx context.Context, sessionID, actor string, req models.CreatePrescriptionRequest) (models.Prescription, error) {
	if req.PatientID == "" {
		return models.Prescription{}, missing("patient_id")
	}
	if req.Medication == "" {
		return models.Prescription{}, missing("medication")
	}
	if req.Dosage == "" {
		return models.Prescription{}, missing("dosage")
	}
	if req.Frequency == "" {
		return models.Prescription{}, missing("frequency")
	}
	if req.StartDate == "" {
		return models.Prescription{}, missing("start_date")
	}
	if req.EndDate == "" {
		return models.Prescription{}, missing("end_date")
	}

	prescription, err := h.records.CreatePrescription(ctx, req, actor)
	if err != nil {
		return models.Prescription{}, err
	}
	h.advance(ctx, sessionID)
	return prescription, nil
}

// advance is best-effort: the record is already committed, so a failed state
// dispatch only costs the client a stale data version.
func (h *Handler) advance(ctx context.Context, sessionID string) {
	if h.state == nil || sessionID == "" {
		return
	}
	if _, err := h.state.Dispatch(ctx, sessionID, viewstate.MutationSucceeded{}); err != nil {
		logger.Log.WithError(err).WithField("session_id", sessionID).Warn("failed to advance view state after mutation")
	}
}
