package models

import (
	"time"

	"github.com/google/uuid"
)

// Pages the clinic UI can show.
const (
	PageDashboard     = "Dashboard"
	PagePatients      = "Patients"
	PageAppointments  = "Appointments"
	PagePrescriptions = "Prescriptions"
	PageSettings      = "Settings"
	PagePublicHealth  = "Public Health"
)

// Appointment status values. Appointments are created Scheduled and no
// operation mutates the status afterwards.
const (
	AppointmentScheduled = "Scheduled"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
)

// Billing claim status values.
const (
	ClaimSubmitted = "Submitted"
	ClaimApproved  = "Approved"
	ClaimDenied    = "Denied"
	ClaimPending   = "Pending"
)

// Genders accepted in patient demographics.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Demographics is stored as a single structured blob on the patient row.
// Address and emergency contact are filled with "N/A" at creation when the
// intake form does not collect them.
type Demographics struct {
	DOB              string `json:"dob"`
	Gender           string `json:"gender"`
	Contact          string `json:"contact"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
}

type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
	GroupNumber  string `json:"group_number"`
	IsPrimary    bool   `json:"is_primary"`
}

// IoTSnapshot is the last reported wearable reading for a patient, if any.
type IoTSnapshot struct {
	HeartRate int `json:"heart_rate"`
	Steps     int `json:"steps"`
}

type Patient struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	AvatarURL    string        `json:"avatar_url"`
	LastVisit    string        `json:"last_visit"`
	Demographics *Demographics `json:"demographics,omitempty"`
	Insurance    []Insurance   `json:"insurance"`
	IoTData      *IoTSnapshot  `json:"iot_data,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Appointment embeds its patient, joined at read time.
type Appointment struct {
	ID        string    `json:"id"`
	Patient   Patient   `json:"patient"`
	Doctor    string    `json:"doctor"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Prescription embeds its patient, joined at read time. Active is computed
// once at creation (end date on or after the creation date) and never
// re-evaluated against the current date.
type Prescription struct {
	ID         string    `json:"id"`
	Patient    Patient   `json:"patient"`
	Medication string    `json:"medication"`
	Dosage     string    `json:"dosage"`
	Frequency  string    `json:"frequency"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Active     bool      `json:"active"`
	Refills    int       `json:"refills"`
	Pharmacy   string    `json:"pharmacy"`
	CreatedAt  time.Time `json:"created_at"`
}

type BillingClaim struct {
	ID            string  `json:"id"`
	PatientID     string  `json:"patient_id"`
	DateOfService string  `json:"date_of_service"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Details       string  `json:"details"`
}

type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type Diagnosis struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Code        string `json:"code"`
	Description string `json:"description"`
	IsChronic   bool   `json:"is_chronic"`
}

type Medication struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

type Immunization struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Vaccine       string `json:"vaccine"`
	Administrator string `json:"administrator"`
}

type ClinicalNote struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Author string `json:"author"`
	Note   string `json:"note"`
}

// EHR is the per-patient clinical record. At most one per patient; read-only
// in this system.
type EHR struct {
	PatientID      string         `json:"patient_id"`
	MedicalHistory []string       `json:"medical_history"`
	Allergies      []string       `json:"allergies"`
	Diagnoses      []Diagnosis    `json:"diagnoses"`
	Medications    []Medication   `json:"medications"`
	Immunizations  []Immunization `json:"immunizations"`
	Notes          []ClinicalNote `json:"notes"`
}

type LabResult struct {
	ID             string `json:"id"`
	PatientID      string `json:"patient_id"`
	TestName       string `json:"test_name"`
	Result         string `json:"result"`
	ReferenceRange string `json:"reference_range"`
	Date           string `json:"date"`
}

type RadiologyImage struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	Type      string `json:"type"`
	BodyPart  string `json:"body_part"`
	ImageURL  string `json:"image_url"`
	Date      string `json:"date"`
}

type PublicHealthStat struct {
	Region string `json:"region" yaml:"region"`
	Metric string `json:"metric" yaml:"metric"`
	Value  string `json:"value" yaml:"value"`
	Trend  string `json:"trend" yaml:"trend"`
}

// Create requests

type CreatePatientRequest struct {
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	Gender  string `json:"gender"`
	Contact string `json:"contact"`
}

type CreateAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	Doctor    string `json:"doctor"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
}

type CreatePrescriptionRequest struct {
	PatientID  string `json:"patient_id"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Refills    *int   `json:"refills,omitempty"`
	Pharmacy   string `json:"pharmacy,omitempty"`
}

// Aggregation views

// Agenda combines one day's appointments with the user's open task list.
type Agenda struct {
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
	Tasks        []Task        `json:"tasks"`
}

type AgeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DemographicsHistogram struct {
	Buckets []AgeBucket `json:"buckets"`
}

// PatientDetailBundle is the joined clinical view for one patient. Slices
// whose lookup failed degrade to absent/empty rather than failing the bundle.
type PatientDetailBundle struct {
	PatientID       string           `json:"patient_id"`
	EHR             *EHR             `json:"ehr,omitempty"`
	LabResults      []LabResult      `json:"lab_results"`
	RadiologyImages []RadiologyImage `json:"radiology_images"`
}

type DashboardSummary struct {
	ActivePatients int                   `json:"active_patients"`
	Demographics   DemographicsHistogram `json:"demographics"`
	Agenda         Agenda                `json:"agenda"`
}

// Identity

type User struct {
	ID        uuid.UUID              `json:"id"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Role      string                 `json:"role"`
	AvatarURL string                 `json:"avatar_url,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MutationEvent is published to the mutation topic after every successful
// write and consumed by the audit worker.
type MutationEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Actor     string                 `json:"actor"`
	Entity    string                 `json:"entity"`
	EntityID  string                 `json:"entity_id"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
