package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type patientModel struct {
	ID           string         `gorm:"primaryKey;column:id"`
	Name         string         `gorm:"column:name"`
	AvatarURL    string         `gorm:"column:avatar_url"`
	LastVisit    string         `gorm:"column:last_visit"`
	Demographics datatypes.JSON `gorm:"column:demographics"`
	Insurance    datatypes.JSON `gorm:"column:insurance"`
	IoTData      datatypes.JSON `gorm:"column:iot_data"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
}

func (patientModel) TableName() string { return "patients" }

type appointmentModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	PatientID string    `gorm:"column:patient_id;index"`
	Doctor    string    `gorm:"column:doctor"`
	Date      string    `gorm:"column:date;index"`
	Time      string    `gorm:"column:time"`
	Reason    string    `gorm:"column:reason"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (appointmentModel) TableName() string { return "appointments" }

type prescriptionModel struct {
	ID         string    `gorm:"primaryKey;column:id"`
	PatientID  string    `gorm:"column:patient_id;index"`
	Medication string    `gorm:"column:medication"`
	Dosage     string    `gorm:"column:dosage"`
	Frequency  string    `gorm:"column:frequency"`
	StartDate  string    `gorm:"column:start_date"`
	EndDate    string    `gorm:"column:end_date"`
	Active     bool      `gorm:"column:active"`
	Refills    int       `gorm:"column:refills"`
	Pharmacy   string    `gorm:"column:pharmacy"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (prescriptionModel) TableName() string { return "prescriptions" }

type billingClaimModel struct {
	ID            string  `gorm:"primaryKey;column:id"`
	PatientID     string  `gorm:"column:patient_id;index"`
	DateOfService string  `gorm:"column:date_of_service"`
	Amount        float64 `gorm:"column:amount"`
	Status        string  `gorm:"column:status"`
	Details       string  `gorm:"column:details"`
}

func (billingClaimModel) TableName() string { return "billing_claims" }

type taskModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	UserID    string    `gorm:"column:user_id;index"`
	Text      string    `gorm:"column:text"`
	Completed bool      `gorm:"column:completed"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (taskModel) TableName() string { return "tasks" }

type ehrModel struct {
	PatientID      string         `gorm:"primaryKey;column:patient_id"`
	MedicalHistory datatypes.JSON `gorm:"column:medical_history"`
	Allergies      datatypes.JSON `gorm:"column:allergies"`
	Diagnoses      datatypes.JSON `gorm:"column:diagnoses"`
	Medications    datatypes.JSON `gorm:"column:medications"`
	Immunizations  datatypes.JSON `gorm:"column:immunizations"`
	Notes          datatypes.JSON `gorm:"column:notes"`
}

func (ehrModel) TableName() string { return "ehr_records" }

type labResultModel struct {
	ID             string `gorm:"primaryKey;column:id"`
	PatientID      string `gorm:"column:patient_id;index"`
	TestName       string `gorm:"column:test_name"`
	Result         string `gorm:"column:result"`
	ReferenceRange string `gorm:"column:reference_range"`
	Date           string `gorm:"column:date"`
}

func (labResultModel) TableName() string { return "lab_results" }

type radiologyImageModel struct {
	ID        string `gorm:"primaryKey;column:id"`
	PatientID string `gorm:"column:patient_id;index"`
	Type      string `gorm:"column:type"`
	BodyPart  string `gorm:"column:body_part"`
	ImageURL  string `gorm:"column:image_url"`
	Date      string `gorm:"column:date"`
}

func (radiologyImageModel) TableName() string { return "radiology_images" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&patientModel{},
		&appointmentModel{},
		&prescriptionModel{},
		&billingClaimModel{},
		&taskModel{},
		&ehrModel{},
		&labResultModel{},
		&radiologyImageModel{},
	)
}

func (r *Repository) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var rows []patientModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	patients := make([]models.Patient, 0, len(rows))
	for i := range rows {
		patients = append(patients, buildPatient(&rows[i]))
	}
	return patients, nil
}

func (r *Repository) GetPatient(ctx context.Context, id string) (models.Patient, error) {
	var row patientModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, err
	}
	return buildPatient(&row), nil
}

func (r *Repository) CreatePatient(ctx context.Context, req models.CreatePatientRequest) (models.Patient, error) {
	now := time.Now().UTC()
	row := &patientModel{
		ID:        uuid.New().String(),
		Name:      req.Name,
		AvatarURL: fmt.Sprintf("https://picsum.photos/id/%d/200/200", 1020+rand.Intn(50)),
		LastVisit: today(now),
		CreatedAt: now,
	}
	demographics := models.Demographics{
		DOB:              req.DOB,
		Gender:           req.Gender,
		Contact:          req.Contact,
		Address:          absentField,
		EmergencyContact: absentField,
	}
	if data, err := json.Marshal(demographics); err == nil {
		row.Demographics = datatypes.JSON(data)
	}
	if data, err := json.Marshal([]models.Insurance{}); err == nil {
		row.Insurance = datatypes.JSON(data)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Patient{}, err
	}
	return buildPatient(row), nil
}

func (r *Repository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var rows []appointmentModel
	if err := r.db.WithContext(ctx).Order("date DESC, time DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	appointments := make([]models.Appointment, 0, len(rows))
	for i := range rows {
		patient, err := r.GetPatient(ctx, rows[i].PatientID)
		if err != nil && !errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		appointments = append(appointments, buildAppointment(&rows[i], patient))
	}
	return appointments, nil
}

func (r *Repository) CreateAppointment(ctx context.Context, req models.CreateAppointmentRequest) (models.Appointment, error) {
	// Resolve the patient before any write.
	patient, err := r.GetPatient(ctx, req.PatientID)
	if err != nil {
		return models.Appointment{}, err
	}
	row := &appointmentModel{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		Doctor:    req.Doctor,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    models.AppointmentScheduled,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Appointment{}, err
	}
	return buildAppointment(row, patient), nil
}

func (r *Repository) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	var rows []prescriptionModel
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	prescriptions := make([]models.Prescription, 0, len(rows))
	for i := range rows {
		patient, err := r.GetPatient(ctx, rows[i].PatientID)
		if err != nil && !errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		prescriptions = append(prescriptions, buildPrescription(&rows[i], patient))
	}
	return prescriptions, nil
}

func (r *Repository) CreatePrescription(ctx context.Context, req models.CreatePrescriptionRequest) (models.Prescription, error) {
	patient, err := r.GetPatient(ctx, req.PatientID)
	if err != nil {
		return models.Prescription{}, err
	}
	now := time.Now().UTC()
	refills := defaultRefills
	if req.Refills != nil {
		refills = *req.Refills
	}
	pharmacy := req.Pharmacy
	if pharmacy == "" {
		pharmacy = defaultPharmacy
	}
	row := &prescriptionModel{
		ID:         uuid.New().String(),
		PatientID:  req.PatientID,
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
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Prescription{}, err
	}
	return buildPrescription(row, patient), nil
}

func (r *Repository) ListBillingClaims(ctx context.Context) ([]models.BillingClaim, error) {
	var rows []billingClaimModel
	if err := r.db.WithContext(ctx).Order("date_of_service DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	claims := make([]models.BillingClaim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, models.BillingClaim{
			ID:            row.ID,
			PatientID:     row.PatientID,
			DateOfService: row.DateOfService,
			Amount:        row.Amount,
			Status:        row.Status,
			Details:       row.Details,
		})
	}
	return claims, nil
}

func (r *Repository) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var rows []taskModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, buildTask(&row))
	}
	return tasks, nil
}

// ToggleTask writes the inverse of the caller-supplied previous value rather
// than re-reading the stored flag first. Two sequential calls with correctly
// tracked previous state restore the original value.
func (r *Repository) ToggleTask(ctx context.Context, id string, currentStatus bool) (models.Task, error) {
	result := r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", id).Update("completed", !currentStatus)
	if result.Error != nil {
		return models.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Task{}, ErrTaskNotFound
	}
	var row taskModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return models.Task{}, err
	}
	return buildTask(&row), nil
}

func (r *Repository) CreateTask(ctx context.Context, userID, text string) (models.Task, error) {
	row := &taskModel{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.Task{}, err
	}
	return buildTask(row), nil
}

func (r *Repository) GetEHR(ctx context.Context, patientID string) (models.EHR, error) {
	var row ehrModel
	if err := r.db.WithContext(ctx).First(&row, "patient_id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.EHR{}, ErrEHRNotFound
		}
		return models.EHR{}, err
	}
	ehr := models.EHR{PatientID: row.PatientID}
	decodeJSON(row.MedicalHistory, &ehr.MedicalHistory)
	decodeJSON(row.Allergies, &ehr.Allergies)
	decodeJSON(row.Diagnoses, &ehr.Diagnoses)
	decodeJSON(row.Medications, &ehr.Medications)
	decodeJSON(row.Immunizations, &ehr.Immunizations)
	decodeJSON(row.Notes, &ehr.Notes)
	return ehr, nil
}

func (r *Repository) ListLabResults(ctx context.Context, patientID string) ([]models.LabResult, error) {
	var rows []labResultModel
	if err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	results := make([]models.LabResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.LabResult{
			ID:             row.ID,
			PatientID:      row.PatientID,
			TestName:       row.TestName,
			Result:         row.Result,
			ReferenceRange: row.ReferenceRange,
			Date:           row.Date,
		})
	}
	return results, nil
}

func (r *Repository) ListRadiologyImages(ctx context.Context, patientID string) ([]models.RadiologyImage, error) {
	var rows []radiologyImageModel
	if err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	images := make([]models.RadiologyImage, 0, len(rows))
	for _, row := range rows {
		images = append(images, models.RadiologyImage{
			ID:        row.ID,
			PatientID: row.PatientID,
			Type:      row.Type,
			BodyPart:  row.BodyPart,
			ImageURL:  row.ImageURL,
			Date:      row.Date,
		})
	}
	return images, nil
}

func buildPatient(row *patientModel) models.Patient {
	patient := models.Patient{
		ID:        row.ID,
		Name:      row.Name,
		AvatarURL: row.AvatarURL,
		LastVisit: row.LastVisit,
		Insurance: []models.Insurance{},
		CreatedAt: row.CreatedAt,
	}
	if len(row.Demographics) > 0 {
		var demographics models.Demographics
		if err := json.Unmarshal(row.Demographics, &demographics); err == nil {
			patient.Demographics = &demographics
		}
	}
	decodeJSON(row.Insurance, &patient.Insurance)
	if len(row.IoTData) > 0 {
		var iot models.IoTSnapshot
		if err := json.Unmarshal(row.IoTData, &iot); err == nil {
			patient.IoTData = &iot
		}
	}
	return patient
}

func buildAppointment(row *appointmentModel, patient models.Patient) models.Appointment {
	return models.Appointment{
		ID:        row.ID,
		Patient:   patient,
		Doctor:    row.Doctor,
		Date:      row.Date,
		Time:      row.Time,
		Reason:    row.Reason,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
}

func buildPrescription(row *prescriptionModel, patient models.Patient) models.Prescription {
	return models.Prescription{
		ID:         row.ID,
		Patient:    patient,
		Medication: row.Medication,
		Dosage:     row.Dosage,
		Frequency:  row.Frequency,
		StartDate:  row.StartDate,
		EndDate:    row.EndDate,
		Active:     row.Active,
		Refills:    row.Refills,
		Pharmacy:   row.Pharmacy,
		CreatedAt:  row.CreatedAt,
	}
}

func buildTask(row *taskModel) models.Task {
	return models.Task{
		ID:        row.ID,
		UserID:    row.UserID,
		Text:      row.Text,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt,
	}
}

func decodeJSON(data datatypes.JSON, dst interface{}) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, dst)
}
