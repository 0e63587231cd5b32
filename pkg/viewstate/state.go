package viewstate

import (
	"errors"
	"fmt"

	"github.com/clinicdesk/platform/pkg/common/models"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownPage      = errors.New("unknown page")
)

type Modal string

const (
	ModalNone            Modal = ""
	ModalAddPatient      Modal = "add_patient"
	ModalAddAppointment  Modal = "add_appointment"
	ModalAddPrescription Modal = "add_prescription"
	ModalProfile         Modal = "profile"
)

// State is the complete UI session state. DataVersion is a monotonic counter
// bumped after every successful mutation; it is the sole invalidation signal
// for top-level list re-fetch, and doubles as the fetch generation a client
// tags its list requests with.
type State struct {
	Authenticated     bool   `json:"authenticated"`
	ActivePage        string `json:"active_page"`
	SelectedPatientID string `json:"selected_patient_id,omitempty"`
	ActiveModal       Modal  `json:"active_modal,omitempty"`
	DataVersion       uint64 `json:"data_version"`
}

func Initial() State {
	return State{ActivePage: models.PageDashboard}
}

// AcceptsSnapshot reports whether a list snapshot fetched at generation gen
// is still current. A response that raced with a mutation carries a stale
// generation and must be discarded instead of overwriting fresher data.
func (s State) AcceptsSnapshot(gen uint64) bool {
	return gen == s.DataVersion
}

type Event interface {
	isEvent()
}

type LoginSucceeded struct{}
type SignUpSucceeded struct{}
type LoggedOut struct{}
type PatientSelected struct{ PatientID string }
type BackToList struct{}
type Navigated struct{ Page string }
type ModalOpened struct{ Modal Modal }
type ModalClosed struct{}
type MutationSucceeded struct{}

func (LoginSucceeded) isEvent()    {}
func (SignUpSucceeded) isEvent()   {}
func (LoggedOut) isEvent()         {}
func (PatientSelected) isEvent()   {}
func (BackToList) isEvent()        {}
func (Navigated) isEvent()         {}
func (ModalOpened) isEvent()       {}
func (ModalClosed) isEvent()       {}
func (MutationSucceeded) isEvent() {}

var pages = map[string]bool{
	models.PageDashboard:     true,
	models.PagePatients:      true,
	models.PageAppointments:  true,
	models.PagePrescriptions: true,
	models.PageSettings:      true,
	models.PagePublicHealth:  true,
}

func ValidPage(page string) bool {
	return pages[page]
}

// Apply is the pure transition function from (state, event) to the next
// state. Unknown pages are rejected rather than silently falling back to the
// dashboard, and UI events require an authenticated session.
func Apply(s State, e Event) (State, error) {
	switch event := e.(type) {
	case LoginSucceeded, SignUpSucceeded:
		next := Initial()
		next.Authenticated = true
		return next, nil
	case LoggedOut:
		return Initial(), nil
	case PatientSelected:
		if !s.Authenticated {
			return s, ErrNotAuthenticated
		}
		s.SelectedPatientID = event.PatientID
		// Keep the Patients tab highlighted while in detail view.
		s.ActivePage = models.PagePatients
		return s, nil
	case BackToList:
		if !s.Authenticated {
			return s, ErrNotAuthenticated
		}
		s.SelectedPatientID = ""
		return s, nil
	case Navigated:
		if !s.Authenticated {
			return s, ErrNotAuthenticated
		}
		if !ValidPage(event.Page) {
			return s, fmt.Errorf("%w: %q", ErrUnknownPage, event.Page)
		}
		s.ActivePage = event.Page
		s.SelectedPatientID = ""
		return s, nil
	case ModalOpened:
		if !s.Authenticated {
			return s, ErrNotAuthenticated
		}
		s.ActiveModal = event.Modal
		return s, nil
	case ModalClosed:
		if !s.Authenticated {
			return s, ErrNotAuthenticated
		}
		s.ActiveModal = ModalNone
		return s, nil
	case MutationSucceeded:
		if !s.Authenticated {
			return s, ErrNotAuthenticated
		}
		s.DataVersion++
		s.ActiveModal = ModalNone
		return s, nil
	default:
		return s, fmt.Errorf("unknown event %T", e)
	}
}
