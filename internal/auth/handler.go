package auth

import (
	"encoding/json"
	"net/http"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/models"
)

// Handler holds the REST auth endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var input models.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.WriteJSON(w, apperr.New(apperr.ValidationFailed, "Invalid request body."))
		return
	}

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "User created!",
		"userId":  user.ID.Hex(),
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.WriteJSON(w, apperr.New(apperr.ValidationFailed, "Invalid request body."))
		return
	}

	data, err := h.svc.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
