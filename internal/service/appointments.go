// Package service exposes the HTTP JSON API the application layer mutates
// the store through. The appointment update endpoint doubles as the
// data-change trigger: it hands before/after snapshots to the billing creator.
package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage"
	"github.com/arttherapy/planandbill-backend/internal/task"
)

// AppointmentHandler serves the /v1/appointments endpoints.
type AppointmentHandler struct {
	store   storage.Store
	billing *task.BillingCreator
}

// NewAppointmentHandler creates the appointment endpoints. The billing
// creator receives before/after snapshots on every update.
func NewAppointmentHandler(store storage.Store, billing *task.BillingCreator) *AppointmentHandler {
	return &AppointmentHandler{store: store, billing: billing}
}

// Register mounts the appointment routes on mux.
func (h *AppointmentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/appointments", h.create)
	mux.HandleFunc("GET /v1/appointments/{id}", h.get)
	mux.HandleFunc("PUT /v1/appointments/{id}", h.update)
}

type appointmentRequest struct {
	UserID     string    `json:"userId"`
	ClientName string    `json:"clientName"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
}

type appointmentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ClientName string    `json:"clientName"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toAppointmentResponse(appt *models.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:         appt.ID,
		UserID:     appt.UserID,
		ClientName: appt.ClientName,
		Date:       appt.Date,
		Status:     string(appt.Status),
		CreatedAt:  appt.CreatedAt,
	}
}

func (h *AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Date.IsZero() {
		http.Error(w, "userId and date are required", http.StatusBadRequest)
		return
	}

	status := models.AppointmentStatus(req.Status)
	if status == "" {
		status = models.StatusScheduled
	}

	appt := &models.Appointment{
		UserID:     req.UserID,
		ClientName: req.ClientName,
		Date:       req.Date,
		Status:     status,
	}
	if err := h.store.CreateAppointment(r.Context(), appt); err != nil {
		slog.Error("Create appointment failed", "error", err)
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *AppointmentHandler) get(w http.ResponseWriter, r *http.Request) {
	appt, err := h.store.GetAppointment(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Get appointment failed", "error", err)
		http.Error(w, "failed to get appointment", http.StatusInternalServerError)
		return
	}
	if appt == nil {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *AppointmentHandler) update(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	existing, err := h.store.GetAppointment(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Get appointment failed", "error", err)
		http.Error(w, "failed to get appointment", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}

	updated := &models.Appointment{
		ID:         existing.ID,
		UserID:     existing.UserID,
		ClientName: existing.ClientName,
		Date:       existing.Date,
		Status:     existing.Status,
	}
	if req.UserID != "" {
		updated.UserID = req.UserID
	}
	if req.ClientName != "" {
		updated.ClientName = req.ClientName
	}
	if !req.Date.IsZero() {
		updated.Date = req.Date
	}
	if req.Status != "" {
		updated.Status = models.AppointmentStatus(req.Status)
	}

	before, err := h.store.UpdateAppointment(r.Context(), updated)
	if err != nil {
		slog.Error("Update appointment failed", "error", err)
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}

	// The trigger outcome never fails the update itself; a billing failure
	// is an operational-log concern, same as on the original platform.
	if err := h.billing.HandleAppointmentUpdate(r.Context(), before, updated); err != nil {
		slog.Error("Billing trigger failed", "appointment_id", updated.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(updated))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
