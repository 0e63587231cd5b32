package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/clinicdesk/platform/pkg/records"
)

type Service struct {
	store records.Store
}

func NewService(store records.Store) *Service {
	return &Service{store: store}
}

// BuildAgenda returns the appointments whose date equals referenceDate
// exactly, plus the user's full task list. Both slices keep store-returned
// order; no sort is imposed here. Read-only.
func (s *Service) BuildAgenda(ctx context.Context, referenceDate, userID string) (models.Agenda, error) {
	if referenceDate == "" {
		referenceDate = time.Now().UTC().Format(records.DateLayout)
	}

	appointments, err := s.store.ListAppointments(ctx)
	if err != nil {
		return models.Agenda{}, fmt.Errorf("list appointments: %w", err)
	}
	todays := make([]models.Appointment, 0)
	for _, appointment := range appointments {
		if appointment.Date == referenceDate {
			todays = append(todays, appointment)
		}
	}

	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return models.Agenda{}, fmt.Errorf("list tasks: %w", err)
	}

	return models.Agenda{
		Date:         referenceDate,
		Appointments: todays,
		Tasks:        tasks,
	}, nil
}

// BuildPatientDetailBundle issues three independent lookups and combines
// them. A failing slice degrades to empty/absent rather than suppressing the
// other two; only when all three lookups fail does the bundle itself fail.
// An absent EHR is a normal outcome, not a failure.
func (s *Service) BuildPatientDetailBundle(ctx context.Context, patientID string) (models.PatientDetailBundle, error) {
	bundle := models.PatientDetailBundle{
		PatientID:       patientID,
		LabResults:      []models.LabResult{},
		RadiologyImages: []models.RadiologyImage{},
	}
	var failures int

	ehr, err := s.store.GetEHR(ctx, patientID)
	switch {
	case err == nil:
		bundle.EHR = &ehr
	case errors.Is(err, records.ErrEHRNotFound):
		// no clinical record for this patient
	default:
		failures++
		logger.Log.WithError(err).WithField("patient_id", patientID).Warn("ehr lookup failed, degrading")
	}

	labs, err := s.store.ListLabResults(ctx, patientID)
	if err != nil {
		failures++
		logger.Log.WithError(err).WithField("patient_id", patientID).Warn("lab results lookup failed, degrading")
	} else {
		bundle.LabResults = labs
	}

	images, err := s.store.ListRadiologyImages(ctx, patientID)
	if err != nil {
		failures++
		logger.Log.WithError(err).WithField("patient_id", patientID).Warn("radiology lookup failed, degrading")
	} else {
		bundle.RadiologyImages = images
	}

	if failures == 3 {
		return models.PatientDetailBundle{}, fmt.Errorf("patient detail bundle unavailable for %s", patientID)
	}
	return bundle, nil
}

// DashboardSummary composes the dashboard view: active patient count, the
// age histogram, and today's agenda.
func (s *Service) DashboardSummary(ctx context.Context, userID string, now time.Time) (models.DashboardSummary, error) {
	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("list patients: %w", err)
	}

	agenda, err := s.BuildAgenda(ctx, now.UTC().Format(records.DateLayout), userID)
	if err != nil {
		return models.DashboardSummary{}, err
	}

	return models.DashboardSummary{
		ActivePatients: len(patients),
		Demographics:   DemographicsHistogram(patients, now),
		Agenda:         agenda,
	}, nil
}
