package forms

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/clinicdesk/platform/pkg/aggregate"
	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/clinicdesk/platform/pkg/identity"
	"github.com/clinicdesk/platform/pkg/records"
	"github.com/clinicdesk/platform/pkg/viewstate"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newFixture() (*Handler, *records.MemoryStore, *viewstate.Manager) {
	store := records.NewMemoryStore()
	manager := viewstate.NewManager(viewstate.NewMemoryStateStore(), time.Hour)
	handler := NewHandler(records.NewService(store, nil), manager)
	return handler, store, manager
}

func TestSubmitPatientValidatesRequiredFields(t *testing.T) {
	handler, _, _ := newFixture()
	ctx := context.Background()

	cases := []struct {
		field string
		req   models.CreatePatientRequest
	}{
		{"name", models.CreatePatientRequest{DOB: "1990-01-01", Gender: models.GenderFemale, Contact: "555"}},
		{"dob", models.CreatePatientRequest{Name: "A", Gender: models.GenderFemale, Contact: "555"}},
		{"gender", models.CreatePatientRequest{Name: "A", DOB: "1990-01-01", Contact: "555"}},
		{"contact", models.CreatePatientRequest{Name: "A", DOB: "1990-01-01", Gender: models.GenderFemale}},
	}
	for _, tc := range cases {
		_, err := handler.SubmitPatient(ctx, "s", "doc@clinic.test", tc.req)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("missing %s: expected validation error, got %v", tc.field, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("expected field %q flagged, got %v", tc.field, err)
		}
	}
}

func TestSubmitPatientRejectsUnknownGender(t *testing.T) {
	handler, store, _ := newFixture()

	_, err := handler.SubmitPatient(context.Background(), "s", "doc@clinic.test", models.CreatePatientRequest{
		Name: "A", DOB: "1990-01-01", Gender: "Unknown", Contact: "555",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	patients, _ := store.ListPatients(context.Background())
	if len(patients) != 0 {
		t.Fatalf("rejected submission must not write, got %v", patients)
	}
}

func TestSubmitAppointmentUnknownPatient(t *testing.T) {
	handler, _, _ := newFixture()

	_, err := handler.SubmitAppointment(context.Background(), "s", "doc@clinic.test", models.CreateAppointmentRequest{
		PatientID: "missing", Doctor: "Dr. Adams", Date: "2026-03-11", Time: "10:00", Reason: "Checkup",
	})
	if !errors.Is(err, records.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestFailedSubmissionDoesNotAdvanceState(t *testing.T) {
	handler, _, manager := newFixture()
	ctx := context.Background()
	if _, err := manager.Dispatch(ctx, "s", viewstate.LoginSucceeded{}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, err := handler.SubmitPatient(ctx, "s", "doc@clinic.test", models.CreatePatientRequest{Name: "Only Name"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	state, _ := manager.Current(ctx, "s")
	if state.DataVersion != 0 {
		t.Fatalf("failed submission must not bump the data version, got %d", state.DataVersion)
	}
}

// Full intake flow: sign up, open the add-patient modal, submit the form,
// and verify the record, the session state, and the dashboard histogram.
func TestPatientIntakeFlow(t *testing.T) {
	store := records.NewMemoryStore()
	recordService := records.NewService(store, nil)
	manager := viewstate.NewManager(viewstate.NewMemoryStateStore(), time.Hour)
	handler := NewHandler(recordService, manager)

	users := identity.NewService(identity.NewMemoryRepository())
	ctx := context.Background()

	user, err := users.SignUp(ctx, models.SignUpRequest{Email: "doc@clinic.test", Password: "hunter22", Name: "Dr. Doe"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	sessionID := "session-jti"
	if _, err := manager.Dispatch(ctx, sessionID, viewstate.LoginSucceeded{}); err != nil {
		t.Fatalf("login dispatch failed: %v", err)
	}
	if _, err := manager.Dispatch(ctx, sessionID, viewstate.Navigated{Page: models.PagePatients}); err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if _, err := manager.Dispatch(ctx, sessionID, viewstate.ModalOpened{Modal: viewstate.ModalAddPatient}); err != nil {
		t.Fatalf("open modal failed: %v", err)
	}

	patient, err := handler.SubmitPatient(ctx, sessionID, user.Email, models.CreatePatientRequest{
		Name:    "Jane Roe",
		DOB:     "1990-01-01",
		Gender:  models.GenderFemale,
		Contact: "555-0000",
	})
	if err != nil {
		t.Fatalf("submit patient failed: %v", err)
	}
	if patient.Name != "Jane Roe" {
		t.Fatalf("expected Jane Roe, got %q", patient.Name)
	}

	state, err := manager.Current(ctx, sessionID)
	if err != nil {
		t.Fatalf("current state failed: %v", err)
	}
	if state.ActiveModal != viewstate.ModalNone {
		t.Fatalf("expected modal closed after mutation, got %q", state.ActiveModal)
	}
	if state.DataVersion != 1 {
		t.Fatalf("expected data version 1, got %d", state.DataVersion)
	}
	if state.ActivePage != models.PagePatients {
		t.Fatalf("submission must not navigate away, got %q", state.ActivePage)
	}

	patients, _ := store.ListPatients(ctx)
	count := 0
	for _, p := range patients {
		if p.Name == "Jane Roe" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Jane Roe, got %d", count)
	}

	summary, err := aggregate.NewService(store).DashboardSummary(ctx, user.ID.String(), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("dashboard summary failed: %v", err)
	}
	for _, bucket := range summary.Demographics.Buckets {
		if bucket.Label == "19-40" && bucket.Count != 1 {
			t.Fatalf("expected Jane Roe in the 19-40 bucket, got %+v", summary.Demographics)
		}
	}
}

// Booking an appointment for today makes it show up on the agenda.
func TestAppointmentAppearsOnTodaysAgenda(t *testing.T) {
	store := records.NewMemoryStore()
	manager := viewstate.NewManager(viewstate.NewMemoryStateStore(), time.Hour)
	handler := NewHandler(records.NewService(store, nil), manager)
	ctx := context.Background()

	if _, err := manager.Dispatch(ctx, "s", viewstate.LoginSucceeded{}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	patient, err := handler.SubmitPatient(ctx, "s", "doc@clinic.test", models.CreatePatientRequest{
		Name: "Noel Gallagher", DOB: "1967-05-29", Gender: models.GenderMale, Contact: "555-0101",
	})
	if err != nil {
		t.Fatalf("submit patient failed: %v", err)
	}

	todayStr := time.Now().UTC().Format(records.DateLayout)
	if _, err := handler.SubmitAppointment(ctx, "s", "doc@clinic.test", models.CreateAppointmentRequest{
		PatientID: patient.ID, Doctor: "Dr. Sharma", Date: todayStr, Time: "10:00 AM", Reason: "Checkup",
	}); err != nil {
		t.Fatalf("submit appointment failed: %v", err)
	}

	agenda, err := aggregate.NewService(store).BuildAgenda(ctx, todayStr, "whoever")
	if err != nil {
		t.Fatalf("build agenda failed: %v", err)
	}
	if len(agenda.Appointments) != 1 || agenda.Appointments[0].Patient.ID != patient.ID {
		t.Fatalf("expected the new appointment on today's agenda, got %v", agenda.Appointments)
	}

	state, _ := manager.Current(ctx, "s")
	if state.DataVersion != 2 {
		t.Fatalf("expected two mutations recorded, got version %d", state.DataVersion)
	}
}
