package records

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
)

// MemoryStore is the in-memory record store. It backs local development and
// tests, mirroring the mock data module the clinic UI originally shipped
// with. All methods are safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	patients      []models.Patient
	appointments  []models.Appointment
	prescriptions []models.Prescription
	billing       []models.BillingClaim
	tasks         []models.Task
	ehrs          map[string]models.EHR
	labResults    []models.LabResult
	radiology     []models.RadiologyImage
	nowFunc       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ehrs:    make(map[string]models.EHR),
		nowFunc: time.Now,
	}
}

func (m *MemoryStore) ListPatients(ctx context.Context) ([]models.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Patient, len(m.patients))
	copy(out, m.patients)
	return out, nil
}

func (m *MemoryStore) GetPatient(ctx context.Context, id string) (models.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findPatient(id)
}

func (m *MemoryStore) findPatient(id string) (models.Patient, error) {
	for _, patient := range m.patients {
		if patient.ID == id {
			return patient, nil
		}
	}
	return models.Patient{}, ErrPatientNotFound
}

func (m *MemoryStore) CreatePatient(ctx context.Context, req models.CreatePatientRequest) (models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.nowFunc().UTC()
	patient := models.Patient{
		ID:        uuid.New().String(),
		Name:      req.Name,
		AvatarURL: fmt.Sprintf("https://picsum.photos/id/%d/200/200", 1020+rand.Intn(50)),
		LastVisit: today(now),
		Demographics: &models.Demographics{
			DOB:              req.DOB,
			Gender:           req.Gender,
			Contact:          req.Contact,
			Address:          absentField,
			EmergencyContact: absentField,
		},
		Insurance: []models.Insurance{},
		CreatedAt: now,
	}
	m.patients = append(m.patients, patient)
	return patient, nil
}

func (m *MemoryStore) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Appointment, len(m.appointments))
	copy(out, m.appointments)
	return out, nil
}

func (m *MemoryStore) CreateAppointment(ctx context.Context, req models.CreateAppointmentRequest) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	patient, err := m.findPatient(req.PatientID)
	if err != nil {
		return models.Appointment{}, err
	}
	appointment := models.Appointment{
		ID:        uuid.New().String(),
		Patient:   patient,
		Doctor:    req.Doctor,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    models.AppointmentScheduled,
		CreatedAt: m.nowFunc().UTC(),
	}
	// Newest first, matching the original mock module.
	m.appointments = append([]models.Appointment{appointment}, m.appointments...)
	return appointment, nil
}

func (m *MemoryStore) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Prescription, len(m.prescriptions))
	copy(out, m.prescriptions)
	return out, nil
}

func (m *MemoryStore) CreatePrescription(ctx context.Context, req models.CreatePrescriptionRequest) (models.Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	patient, err := m.findPatient(req.PatientID)
	if err != nil {
		return models.Prescription{}, err
	}
	now := m.nowFunc().UTC()
	refills := defaultRefills
	if req.Refills != nil {
		refills = *req.Refills
	}
	pharmacy := req.Pharmacy
	if pharmacy == "" {
		pharmacy = defaultPharmacy
	}
	prescription := models.Prescription{
		ID:         uuid.New().String(),
		Patient:    patient,
		Medication: req.Medication,
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Active:     prescriptionActive(req.EndDate, now),
		Refills:    refills,
		Pharmacy:   pharmacy,
		CreatedAt:  now,
	}
	m.prescriptions = append([]models.Prescription{prescription}, m.prescriptions...)
	return prescription, nil
}

func (m *MemoryStore) ListBillingClaims(ctx context.Context) ([]models.BillingClaim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.BillingClaim, len(m.billing))
	copy(out, m.billing)
	return out, nil
}

func (m *MemoryStore) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Task, 0)
	for _, task := range m.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *MemoryStore) ToggleTask(ctx context.Context, id string, currentStatus bool) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = !currentStatus
			return m.tasks[i], nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}

func (m *MemoryStore) CreateTask(ctx context.Context, userID, text string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := models.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: m.nowFunc().UTC(),
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MemoryStore) GetEHR(ctx context.Context, patientID string) (models.EHR, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ehr, ok := m.ehrs[patientID]
	if !ok {
		return models.EHR{}, ErrEHRNotFound
	}
	return ehr, nil
}

func (m *MemoryStore) ListLabResults(ctx context.Context, patientID string) ([]models.LabResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.LabResult, 0)
	for _, result := range m.labResults {
		if result.PatientID == patientID {
			out = append(out, result)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListRadiologyImages(ctx context.Context, patientID string) ([]models.RadiologyImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.RadiologyImage, 0)
	for _, image := range m.radiology {
		if image.PatientID == patientID {
			out = append(out, image)
		}
	}
	return out, nil
}

// Fixture loaders, used by Seed and by tests for the read-only collections.

func (m *MemoryStore) PutPatient(patient models.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients = append(m.patients, patient)
}

func (m *MemoryStore) PutAppointment(appointment models.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = append(m.appointments, appointment)
}

func (m *MemoryStore) PutPrescription(prescription models.Prescription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prescriptions = append(m.prescriptions, prescription)
}

func (m *MemoryStore) PutBillingClaim(claim models.BillingClaim) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.billing = append(m.billing, claim)
}

func (m *MemoryStore) PutTask(task models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

func (m *MemoryStore) PutEHR(ehr models.EHR) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ehrs[ehr.PatientID] = ehr
}

func (m *MemoryStore) PutLabResult(result models.LabResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labResults = append(m.labResults, result)
}

func (m *MemoryStore) PutRadiologyImage(image models.RadiologyImage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.radiology = append(m.radiology, image)
}
