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

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create handles POST /api/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	payment, err := h.payments.ProcessPayment(r.Context(), &req, userID, role)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, payment)
}

// List handles GET /api/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListPayments(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payments)
}

// ListMine handles GET /api/payments/my
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	payments, err := h.payments.ListCustomerPayments(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payments)
}

// ListByBill handles GET /api/bills/{id}/payments
func (h *PaymentHandler) ListByBill(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	billID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, apperrors.Validation("invalid bill id"))
		return
	}

	payments, err := h.payments.ListBillPayments(r.Context(), billID, userID, role)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payments)
}

// GetByReceipt handles GET /api/payments/receipt/{receiptNumber}
func (h *PaymentHandler) GetByReceipt(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	receiptNumber := mux.Vars(r)["receiptNumber"]

	payment, err := h.payments.GetByReceiptNumber(r.Context(), receiptNumber, userID, role)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payment)
}
