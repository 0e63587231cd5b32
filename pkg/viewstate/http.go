package viewstate

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/middleware"
	"github.com/gorilla/mux"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ui/state", h.handleState).Methods(http.MethodGet)
	r.HandleFunc("/ui/events", h.handleEvent).Methods(http.MethodPost)
}

type eventRequest struct {
	Type      string `json:"type"`
	PatientID string `json:"patient_id,omitempty"`
	Page      string `json:"page,omitempty"`
	Modal     string `json:"modal,omitempty"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	state, err := h.manager.Current(r.Context(), claims.ID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load view state")
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	event, ok := req.toEvent()
	if !ok {
		http.Error(w, "unknown event type", http.StatusBadRequest)
		return
	}
	state, err := h.manager.Dispatch(r.Context(), claims.ID, event)
	if err != nil {
		logger.Log.WithError(err).WithField("event", req.Type).Warn("view state transition rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (r eventRequest) toEvent() (Event, bool) {
	switch r.Type {
	case "select_patient":
		return PatientSelected{PatientID: r.PatientID}, true
	case "back_to_list":
		return BackToList{}, true
	case "navigate":
		return Navigated{Page: r.Page}, true
	case "open_modal":
		return ModalOpened{Modal: Modal(r.Modal)}, true
	case "close_modal":
		return ModalClosed{}, true
	default:
		return nil, false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
