package records

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/middleware"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/patients", h.handleListPatients).Methods(http.MethodGet)
	r.HandleFunc("/patients/{id}", h.handleGetPatient).Methods(http.MethodGet)
	r.HandleFunc("/appointments", h.handleListAppointments).Methods(http.MethodGet)
	r.HandleFunc("/prescriptions", h.handleListPrescriptions).Methods(http.MethodGet)
	r.HandleFunc("/billing", h.handleListBilling).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.handleListTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.handleCreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/toggle", h.handleToggleTask).Methods(http.MethodPost)
}

func (h *Handler) handleListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.ListPatients(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list patients")
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": patients})
}

func (h *Handler) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get patient")
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"patient": patient})
}

func (h *Handler) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAppointments(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list appointments")
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": appointments})
}

func (h *Handler) handleListPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.service.ListPrescriptions(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list prescriptions")
		http.Error(w, "failed to list prescriptions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": prescriptions})
}

func (h *Handler) handleListBilling(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.ListBillingClaims(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list billing claims")
		http.Error(w, "failed to list billing claims", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": claims})
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	tasks, err := h.service.ListTasks(r.Context(), user.UserID.String())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list tasks")
		http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": tasks})
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	task, err := h.service.CreateTask(r.Context(), user.UserID.String(), req.Text)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create task")
		http.Error(w, "failed to create task", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"task": task})
}

func (h *Handler) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		CurrentStatus bool `json:"current_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	task, err := h.service.ToggleTask(r.Context(), mux.Vars(r)["id"], req.CurrentStatus, user.Email)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to toggle task")
		http.Error(w, "failed to toggle task", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"task": task})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
