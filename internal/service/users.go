package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage"
)

// UserHandler serves the /v1/users endpoints. Accounts are created by the
// application layer; the backend tasks only read them.
type UserHandler struct {
	store storage.Store
}

// NewUserHandler creates the user endpoints.
func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// Register mounts the user routes on mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/users", h.create)
	mux.HandleFunc("GET /v1/users/{id}", h.get)
}

type userRequest struct {
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email"`
	FCMToken    string  `json:"fcmToken"`
	AutoBilling bool    `json:"autoBilling"`
	DefaultRate float64 `json:"defaultRate"`
}

type userResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	FCMToken    string    `json:"fcmToken,omitempty"`
	AutoBilling bool      `json:"autoBilling"`
	DefaultRate float64   `json:"defaultRate"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.DefaultRate < 0 {
		http.Error(w, "defaultRate must not be negative", http.StatusBadRequest)
		return
	}

	user := &models.User{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		FCMToken:    req.FCMToken,
		AutoBilling: req.AutoBilling,
		DefaultRate: req.DefaultRate,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		slog.Error("Create user failed", "error", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Get user failed", "error", err)
		http.Error(w, "failed to get user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		FCMToken:    user.FCMToken,
		AutoBilling: user.AutoBilling,
		DefaultRate: user.DefaultRate,
		CreatedAt:   user.CreatedAt,
	}
}
