package records

import (
	"context"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
)

// EventPublisher receives one event per successful mutation. A nil publisher
// disables publication.
type EventPublisher interface {
	PublishMutation(ctx context.Context, eventType, actor, entity, entityID string, payload map[string]interface{}) error
}

type Service struct {
	store     Store
	publisher EventPublisher
}

func NewService(store Store, publisher EventPublisher) *Service {
	return &Service{store: store, publisher: publisher}
}

func (s *Service) Store() Store {
	return s.store
}

func (s *Service) ListPatients(ctx context.Context) ([]models.Patient, error) {
	return s.store.ListPatients(ctx)
}

func (s *Service) GetPatient(ctx context.Context, id string) (models.Patient, error) {
	return s.store.GetPatient(ctx, id)
}

func (s *Service) CreatePatient(ctx context.Context, req models.CreatePatientRequest, actor string) (models.Patient, error) {
	patient, err := s.store.CreatePatient(ctx, req)
	if err != nil {
		return models.Patient{}, err
	}
	s.publish(ctx, "patient_created", actor, "patient", patient.ID, map[string]interface{}{"name": patient.Name})
	return patient, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return s.store.ListAppointments(ctx)
}

func (s *Service) CreateAppointment(ctx context.Context, req models.CreateAppointmentRequest, actor string) (models.Appointment, error) {
	appointment, err := s.store.CreateAppointment(ctx, req)
	if err != nil {
		return models.Appointment{}, err
	}
	s.publish(ctx, "appointment_created", actor, "appointment", appointment.ID, map[string]interface{}{
		"patient_id": appointment.Patient.ID,
		"date":       appointment.Date,
	})
	return appointment, nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	return s.store.ListPrescriptions(ctx)
}

func (s *Service) CreatePrescription(ctx context.Context, req models.CreatePrescriptionRequest, actor string) (models.Prescription, error) {
	prescription, err := s.store.CreatePrescription(ctx, req)
	if err != nil {
		return models.Prescription{}, err
	}
	s.publish(ctx, "prescription_created", actor, "prescription", prescription.ID, map[string]interface{}{
		"patient_id": prescription.Patient.ID,
		"medication": prescription.Medication,
	})
	return prescription, nil
}

func (s *Service) ListBillingClaims(ctx context.Context) ([]models.BillingClaim, error) {
	return s.store.ListBillingClaims(ctx)
}

func (s *Service) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return s.store.ListTasks(ctx, userID)
}

func (s *Service) ToggleTask(ctx context.Context, id string, currentStatus bool, actor string) (models.Task, error) {
	task, err := s.store.ToggleTask(ctx, id, currentStatus)
	if err != nil {
		return models.Task{}, err
	}
	s.publish(ctx, "task_toggled", actor, "task", task.ID, map[string]interface{}{"completed": task.Completed})
	return task, nil
}

func (s *Service) CreateTask(ctx context.Context, userID, text string) (models.Task, error) {
	task, err := s.store.CreateTask(ctx, userID, text)
	if err != nil {
		return models.Task{}, err
	}
	s.publish(ctx, "task_created", userID, "task", task.ID, map[string]interface{}{"text": task.Text})
	return task, nil
}

func (s *Service) GetEHR(ctx context.Context, patientID string) (models.EHR, error) {
	return s.store.GetEHR(ctx, patientID)
}

func (s *Service) ListLabResults(ctx context.Context, patientID string) ([]models.LabResult, error) {
	return s.store.ListLabResults(ctx, patientID)
}

func (s *Service) ListRadiologyImages(ctx context.Context, patientID string) ([]models.RadiologyImage, error) {
	return s.store.ListRadiologyImages(ctx, patientID)
}

// publish is fire-and-forget: a broker outage must never fail the write that
// already happened.
func (s *Service) publish(ctx context.Context, eventType, actor, entity, entityID string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMutation(ctx, eventType, actor, entity, entityID, payload); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish mutation event")
	}
}
