package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/middleware"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/services"
	"waterbill-backend/pkg/utils"
)

type BillHandler struct {
	bills      *services.BillService
	billingRun *services.BillingRunService
}

func NewBillHandler(bills *services.BillService, billingRun *services.BillingRunService) *BillHandler {
	return &BillHandler{bills: bills, billingRun: billingRun}
}

// Create handles POST /api/bills
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	var req models.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	bill, err := h.bills.CreateBill(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, bill)
}

// List handles GET /api/bills
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	bills, err := h.bills.ListBills(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bills)
}

// Get handles GET /api/bills/{id}
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, apperrors.Validation("invalid bill id"))
		return
	}

	bill, err := h.bills.GetBill(r.Context(), id, userID, role)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bill)
}

// ListMine handles GET /api/bills/my
func (h *BillHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	bills, err := h.bills.ListCustomerBills(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bills)
}

// ListByCustomer handles GET /api/customers/{id}/bills
func (h *BillHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, apperrors.Validation("invalid customer id"))
		return
	}

	bills, err := h.bills.ListCustomerBills(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, bills)
}

// DueBills handles GET /api/bills/due
func (h *BillHandler) DueBills(w http.ResponseWriter, r *http.Request) {
	report, err := h.bills.DueBills(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// Generate handles POST /api/billing-runs
func (h *BillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	var req models.GenerateBillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	report, err := h.billingRun.GenerateMonthlyBills(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}
