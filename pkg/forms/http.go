package forms

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/clinicdesk/platform/pkg/middleware"
	"github.com/clinicdesk/platform/pkg/records"
	"github.com/gorilla/mux"
)

type HTTPHandler struct {
	handler *Handler
}

func NewHTTPHandler(handler *Handler) *HTTPHandler {
	return &HTTPHandler{handler: handler}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/forms/patient", h.handlePatient).Methods(http.MethodPost)
	r.HandleFunc("/forms/appointment", h.handleAppointment).Methods(http.MethodPost)
	r.HandleFunc("/forms/prescription", h.handlePrescription).Methods(http.MethodPost)
}

func (h *HTTPHandler) handlePatient(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	patient, err := h.handler.SubmitPatient(r.Context(), user.ID, user.Email, req)
	if err != nil {
		h.writeError(w, err, "failed to create patient")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"patient": patient})
}

func (h *HTTPHandler) handleAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	appointment, err := h.handler.SubmitAppointment(r.Context(), user.ID, user.Email, req)
	if err != nil {
		h.writeError(w, err, "failed to create appointment")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"appointment": appointment})
}

func (h *HTTPHandler) handlePrescription(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	prescription, err := h.handler.SubmitPrescription(r.Context(), user.ID, user.Email, req)
	if err != nil {
		h.writeError(w, err, "failed to create prescription")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"prescription": prescription})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]string{"field": ve.Field, "reason": ve.Reason},
		})
	case errors.Is(err, records.ErrPatientNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	default:
		logger.Log.WithError(err).Error(logMsg)
		http.Error(w, logMsg, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
