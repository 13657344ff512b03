package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "travel-booking-service/internal/config"
	h "travel-booking-service/internal/http/handlers"
	"travel-booking-service/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Init(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(),
		middleware.Deadline(env.QueryTimeout))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Public browsing
		api.GET("/packages", h.ListAvailablePackages)
		api.GET("/packages/:id", h.GetPackage)
		api.GET("/packages/:id/available-dates", h.GetAvailableDates)

		// Authenticated user actions
		user := api.Group("")
		user.Use(middleware.Auth(env.JWTSecret))
		{
			bookings := user.Group("/bookings")
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.MyBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PUT("/:id/cancel", h.CancelBooking)
			bookings.GET("/:id/receipt", h.GetBookingReceipt)
			bookings.POST("/:id/payments", h.RecordPayment)
			bookings.GET("/:id/payments", h.ListBookingPayments)
		}

		// Administrator surface
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(env.JWTSecret), middleware.RequireAdmin())
		{
			admin.GET("/packages", h.AdminListPackages)
			admin.POST("/packages", h.CreatePackage)
			admin.PUT("/packages/:id", h.UpdatePackage)
			admin.DELETE("/packages/:id", h.DeactivatePackage)
			admin.POST("/packages/:id/dates", h.AddPackageDate)
			admin.DELETE("/dates/:id", h.RemovePackageDate)

			admin.GET("/bookings", h.AdminListBookings)
			admin.PUT("/bookings/:id/confirm", h.ConfirmBooking)
			admin.PUT("/bookings/:id/complete", h.CompleteBooking)
			admin.POST("/bookings/expire-stale", h.ExpireStaleBookings)

			admin.PUT("/payments/:id/verify", h.VerifyPayment)
			admin.PUT("/payments/:id/approve", h.ApprovePayment)
			admin.PUT("/payments/:id/reject", h.RejectPayment)

			admin.GET("/reports/revenue", h.RevenueReport)
		}
	}

	return r
}
