package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-service/internal/repositories"
	"travel-booking-service/internal/services"
)

// GET /api/admin/reports/revenue?start_date=...&end_date=...
func RevenueReport(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		RespondError(c, http.StatusBadRequest, "start_date and end_date are required", nil)
		return
	}

	svc := services.ReportService{
		BookingRepo: repositories.BookingRepo{},
		PaymentRepo: repositories.PaymentRepo{},
		DateRepo:    repositories.PackageDateRepo{},
	}
	report, err := svc.Revenue(c.Request.Context(), start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
