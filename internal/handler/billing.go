package handler

import (
	"net/http"
	"time"

	"github.com/appbank/credit-engine/internal/service"
	"github.com/appbank/credit-engine/pkg/response"
)

// BillingHandler exposes the manual billing-tick trigger, an operational
// escape hatch for a missed scheduled run.
type BillingHandler struct {
	billing *service.BillingService
}

func NewBillingHandler(billing *service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// RunDailyTick handles POST /api/v1/billing/run?date=YYYY-MM-DD
// The date defaults to today when absent.
func (h *BillingHandler) RunDailyTick(w http.ResponseWriter, r *http.Request) {
	day := time.Now()

	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "date must be formatted as YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	if err := h.billing.RunDailyTick(r.Context(), day); err != nil {
		response.InternalServerError(w, "billing run failed", err)
		return
	}

	response.Success(w, map[string]string{
		"status": "completed",
		"date":   day.Format("2006-01-02"),
	})
}
