package handlers

import (
	"encoding/json"
	"net/http"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/middleware"
	"waterbill-backend/internal/services"
	"waterbill-backend/pkg/utils"

	"waterbill-backend/internal/models"
)

type AuthHandler struct {
	profiles *services.ProfileService
}

func NewAuthHandler(profiles *services.ProfileService) *AuthHandler {
	return &AuthHandler{profiles: profiles}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	resp, err := h.profiles.Signup(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	resp, err := h.profiles.Login(r.Context(), &req)
	if err != nil {
		if apperrors.IsAuthorization(err) {
			utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}
