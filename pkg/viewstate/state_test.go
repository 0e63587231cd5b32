package viewstate

import (
	"errors"
	"testing"

	"github.com/clinicdesk/platform/pkg/common/models"
)

func authenticated(t *testing.T) State {
	t.Helper()
	state, err := Apply(Initial(), LoginSucceeded{})
	if err != nil {
		t.Fatalf("login transition failed: %v", err)
	}
	return state
}

func TestInitialState(t *testing.T) {
	state := Initial()
	if state.Authenticated {
		t.Fatal("initial state must not be authenticated")
	}
	if state.ActivePage != models.PageDashboard {
		t.Fatalf("expected dashboard, got %q", state.ActivePage)
	}
	if state.DataVersion != 0 {
		t.Fatalf("expected data version 0, got %d", state.DataVersion)
	}
}

func TestLoginResetsToFreshAuthenticatedState(t *testing.T) {
	dirty := State{
		Authenticated:     true,
		ActivePage:        models.PagePatients,
		SelectedPatientID: "p1",
		ActiveModal:       ModalAddPatient,
		DataVersion:       7,
	}
	state, err := Apply(dirty, LoginSucceeded{})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !state.Authenticated {
		t.Fatal("expected authenticated state")
	}
	if state.ActivePage != models.PageDashboard || state.SelectedPatientID != "" || state.ActiveModal != ModalNone || state.DataVersion != 0 {
		t.Fatalf("expected fresh session state, got %+v", state)
	}
}

func TestLogoutReturnsToInitial(t *testing.T) {
	state := authenticated(t)
	state, _ = Apply(state, PatientSelected{PatientID: "p2"})

	state, err := Apply(state, LoggedOut{})
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if state != Initial() {
		t.Fatalf("expected initial state after logout, got %+v", state)
	}
}

func TestSelectPatientHighlightsPatientsPage(t *testing.T) {
	state := authenticated(t)
	state, err := Apply(state, Navigated{Page: models.PageAppointments})
	if err != nil {
		t.Fatalf("navigate failed: %v", err)
	}

	state, err = Apply(state, PatientSelected{PatientID: "p3"})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if state.SelectedPatientID != "p3" {
		t.Fatalf("expected selected patient p3, got %q", state.SelectedPatientID)
	}
	if state.ActivePage != models.PagePatients {
		t.Fatalf("expected Patients page active, got %q", state.ActivePage)
	}

	state, err = Apply(state, BackToList{})
	if err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if state.SelectedPatientID != "" {
		t.Fatal("expected selection cleared")
	}
	if state.ActivePage != models.PagePatients {
		t.Fatalf("back must keep the Patients page, got %q", state.ActivePage)
	}
}

func TestNavigateClearsSelection(t *testing.T) {
	state := authenticated(t)
	state, _ = Apply(state, PatientSelected{PatientID: "p1"})

	state, err := Apply(state, Navigated{Page: models.PageSettings})
	if err != nil {
		t.Fatalf("navigate failed: %v", err)
	}
	if state.ActivePage != models.PageSettings {
		t.Fatalf("expected Settings page, got %q", state.ActivePage)
	}
	if state.SelectedPatientID != "" {
		t.Fatal("navigation must clear the selected patient")
	}
}

func TestNavigateRejectsUnknownPage(t *testing.T) {
	state := authenticated(t)
	next, err := Apply(state, Navigated{Page: "Reports"})
	if !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
	if next != state {
		t.Fatalf("rejected event must not change state, got %+v", next)
	}
}

func TestMutationBumpsVersionAndClosesModal(t *testing.T) {
	state := authenticated(t)
	state, _ = Apply(state, ModalOpened{Modal: ModalAddPatient})

	state, err := Apply(state, MutationSucceeded{})
	if err != nil {
		t.Fatalf("mutation event failed: %v", err)
	}
	if state.DataVersion != 1 {
		t.Fatalf("expected data version 1, got %d", state.DataVersion)
	}
	if state.ActiveModal != ModalNone {
		t.Fatalf("expected modal closed, got %q", state.ActiveModal)
	}

	state, _ = Apply(state, MutationSucceeded{})
	if state.DataVersion != 2 {
		t.Fatalf("expected data version 2, got %d", state.DataVersion)
	}
}

func TestStaleSnapshotRejected(t *testing.T) {
	state := authenticated(t)

	// A client tags its fetch with the version current at request time.
	gen := state.DataVersion

	state, _ = Apply(state, MutationSucceeded{})
	if state.AcceptsSnapshot(gen) {
		t.Fatal("snapshot fetched before the mutation must be discarded")
	}
	if !state.AcceptsSnapshot(state.DataVersion) {
		t.Fatal("snapshot at the current version must be accepted")
	}
}

func TestUIEventsRequireAuthentication(t *testing.T) {
	events := []Event{
		PatientSelected{PatientID: "p1"},
		BackToList{},
		Navigated{Page: models.PagePatients},
		ModalOpened{Modal: ModalProfile},
		ModalClosed{},
		MutationSucceeded{},
	}
	for _, event := range events {
		if _, err := Apply(Initial(), event); !errors.Is(err, ErrNotAuthenticated) {
			t.Fatalf("event %T: expected ErrNotAuthenticated, got %v", event, err)
		}
	}
}

func TestModalOpenClose(t *testing.T) {
	state := authenticated(t)
	state, err := Apply(state, ModalOpened{Modal: ModalAddPrescription})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if state.ActiveModal != ModalAddPrescription {
		t.Fatalf("expected add_prescription modal, got %q", state.ActiveModal)
	}
	state, err = Apply(state, ModalClosed{})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if state.ActiveModal != ModalNone {
		t.Fatalf("expected no modal, got %q", state.ActiveModal)
	}
}
