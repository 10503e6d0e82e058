package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/services"
	"waterbill-backend/pkg/utils"
)

type CustomerHandler struct {
	profiles *services.ProfileService
}

func NewCustomerHandler(profiles *services.ProfileService) *CustomerHandler {
	return &CustomerHandler{profiles: profiles}
}

// List handles GET /api/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.profiles.ListCustomers(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, customers)
}

// AssignAccountNumber handles POST /api/customers/{id}/account-number
func (h *CustomerHandler) AssignAccountNumber(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, apperrors.Validation("invalid customer id"))
		return
	}

	profile, err := h.profiles.AssignAccountNumber(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}
