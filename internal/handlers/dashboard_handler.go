package handlers

import (
	"net/http"

	"waterbill-backend/internal/middleware"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/services"
	"waterbill-backend/pkg/utils"
)

type DashboardHandler struct {
	dashboards *services.DashboardService
	activity   *services.ActivityService
}

func NewDashboardHandler(dashboards *services.DashboardService, activity *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, activity: activity}
}

// Dashboard handles GET /api/dashboard. Cashiers get the staff view,
// everyone else gets their own customer view.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	if role == models.RoleCashier {
		dash, err := h.dashboards.CashierDashboard(r.Context())
		if err != nil {
			utils.Error(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, dash)
		return
	}

	dash, err := h.dashboards.CustomerDashboard(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, dash)
}

// Activity handles GET /api/activity
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	feed, err := h.activity.Feed(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, feed)
}
