package handlers

import (
	"net/http"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/internal/services"
)

type DashboardHandler struct {
	stats *services.DashboardService
}

func NewDashboardHandler(stats *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, st)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	render(w, r, http.StatusOK, "dashboard.html", map[string]any{
		"Stats":             st,
		"UserID":            uid,
		"QuotationStatuses": models.QuotationStatuses(),
		"JobStatuses":       models.JobStatuses(),
	})
}
