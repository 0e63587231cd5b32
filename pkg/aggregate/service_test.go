package aggregate

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/clinicdesk/platform/pkg/records"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// flakyStore wraps a MemoryStore and fails selected detail lookups.
type flakyStore struct {
	records.Store
	failEHR  bool
	failLabs bool
	failRads bool
}

var errBackend = errors.New("backend unavailable")

func (s *flakyStore) GetEHR(ctx context.Context, patientID string) (models.EHR, error) {
	if s.failEHR {
		return models.EHR{}, errBackend
	}
	return s.Store.GetEHR(ctx, patientID)
}

func (s *flakyStore) ListLabResults(ctx context.Context, patientID string) ([]models.LabResult, error) {
	if s.failLabs {
		return nil, errBackend
	}
	return s.Store.ListLabResults(ctx, patientID)
}

func (s *flakyStore) ListRadiologyImages(ctx context.Context, patientID string) ([]models.RadiologyImage, error) {
	if s.failRads {
		return nil, errBackend
	}
	return s.Store.ListRadiologyImages(ctx, patientID)
}

func seededStore() *records.MemoryStore {
	store := records.NewMemoryStore()
	records.Seed(store)
	return store
}

func TestBuildAgendaMatchesDateExactly(t *testing.T) {
	store := records.NewMemoryStore()
	store.PutPatient(models.Patient{ID: "p1", Name: "Liam Gallagher"})
	store.PutAppointment(models.Appointment{ID: "a1", Patient: models.Patient{ID: "p1"}, Date: "2026-03-10", Time: "10:00 AM"})
	store.PutAppointment(models.Appointment{ID: "a2", Patient: models.Patient{ID: "p1"}, Date: "2026-03-11", Time: "09:00 AM"})
	store.PutTask(models.Task{ID: "t1", UserID: "u1", Text: "Review charts"})
	store.PutTask(models.Task{ID: "t2", UserID: "someone-else", Text: "Not mine"})

	service := NewService(store)
	agenda, err := service.BuildAgenda(context.Background(), "2026-03-10", "u1")
	if err != nil {
		t.Fatalf("build agenda failed: %v", err)
	}
	if agenda.Date != "2026-03-10" {
		t.Fatalf("expected agenda date 2026-03-10, got %q", agenda.Date)
	}
	if len(agenda.Appointments) != 1 || agenda.Appointments[0].ID != "a1" {
		t.Fatalf("expected only the matching appointment, got %v", agenda.Appointments)
	}
	if len(agenda.Tasks) != 1 || agenda.Tasks[0].ID != "t1" {
		t.Fatalf("expected only the user's tasks, got %v", agenda.Tasks)
	}
}

func TestBuildAgendaDefaultsToToday(t *testing.T) {
	store := seededStore()
	service := NewService(store)

	agenda, err := service.BuildAgenda(context.Background(), "", "demo")
	if err != nil {
		t.Fatalf("build agenda failed: %v", err)
	}
	todayStr := time.Now().UTC().Format(records.DateLayout)
	if agenda.Date != todayStr {
		t.Fatalf("expected today %s, got %q", todayStr, agenda.Date)
	}
	// The demo dataset schedules a1 and a2 on the current date.
	if len(agenda.Appointments) != 2 {
		t.Fatalf("expected 2 appointments today, got %d", len(agenda.Appointments))
	}
}

func TestBundleCombinesAllThreeSources(t *testing.T) {
	store := seededStore()
	service := NewService(store)

	bundle, err := service.BuildPatientDetailBundle(context.Background(), "p1")
	if err != nil {
		t.Fatalf("build bundle failed: %v", err)
	}
	if bundle.EHR == nil {
		t.Fatal("expected p1 ehr present")
	}
	if len(bundle.LabResults) != 1 {
		t.Fatalf("expected 1 lab result, got %d", len(bundle.LabResults))
	}
	if len(bundle.RadiologyImages) != 0 {
		t.Fatalf("expected no radiology for p1, got %d", len(bundle.RadiologyImages))
	}
}

func TestBundleMissingEHRIsNotAFailure(t *testing.T) {
	store := seededStore()
	service := NewService(store)

	// p2 has a radiology image but no clinical record.
	bundle, err := service.BuildPatientDetailBundle(context.Background(), "p2")
	if err != nil {
		t.Fatalf("build bundle failed: %v", err)
	}
	if bundle.EHR != nil {
		t.Fatalf("expected absent ehr, got %+v", bundle.EHR)
	}
	if len(bundle.RadiologyImages) != 1 {
		t.Fatalf("expected 1 radiology image, got %d", len(bundle.RadiologyImages))
	}
}

func TestBundleDegradesOnPartialFailure(t *testing.T) {
	store := &flakyStore{Store: seededStore(), failLabs: true}
	service := NewService(store)

	bundle, err := service.BuildPatientDetailBundle(context.Background(), "p1")
	if err != nil {
		t.Fatalf("partial failure must not fail the bundle: %v", err)
	}
	if bundle.EHR == nil {
		t.Fatal("expected ehr despite lab failure")
	}
	if len(bundle.LabResults) != 0 {
		t.Fatalf("expected empty lab results on failure, got %v", bundle.LabResults)
	}
}

func TestBundleFailsOnlyWhenAllSourcesFail(t *testing.T) {
	store := &flakyStore{Store: seededStore(), failEHR: true, failLabs: true, failRads: true}
	service := NewService(store)

	if _, err := service.BuildPatientDetailBundle(context.Background(), "p1"); err == nil {
		t.Fatal("expected error when every lookup fails")
	}
}

func TestDashboardSummary(t *testing.T) {
	store := seededStore()
	service := NewService(store)

	summary, err := service.DashboardSummary(context.Background(), "demo", time.Now())
	if err != nil {
		t.Fatalf("dashboard summary failed: %v", err)
	}
	if summary.ActivePatients != 5 {
		t.Fatalf("expected 5 active patients, got %d", summary.ActivePatients)
	}
	if len(summary.Demographics.Buckets) != 5 {
		t.Fatalf("expected full histogram, got %+v", summary.Demographics)
	}
	if len(summary.Agenda.Tasks) != 3 {
		t.Fatalf("expected 3 demo tasks on the agenda, got %d", len(summary.Agenda.Tasks))
	}
}
