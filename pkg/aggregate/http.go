package aggregate

import (
	"encoding/json"
	"net/http"
	"time"

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
	r.HandleFunc("/dashboard", h.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/agenda", h.handleAgenda).Methods(http.MethodGet)
	r.HandleFunc("/patients/{id}/bundle", h.handlePatientBundle).Methods(http.MethodGet)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	summary, err := h.service.DashboardSummary(r.Context(), user.UserID.String(), time.Now())
	if err != nil {
		logger.Log.WithError(err).Error("failed to build dashboard summary")
		http.Error(w, "failed to build dashboard summary", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleAgenda(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	agenda, err := h.service.BuildAgenda(r.Context(), r.URL.Query().Get("date"), user.UserID.String())
	if err != nil {
		logger.Log.WithError(err).Error("failed to build agenda")
		http.Error(w, "failed to build agenda", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, agenda)
}

func (h *Handler) handlePatientBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.BuildPatientDetailBundle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Log.WithError(err).Error("failed to build patient detail bundle")
		http.Error(w, "patient details unavailable", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
