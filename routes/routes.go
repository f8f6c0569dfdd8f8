package routes

import (
	"net/http"

	"admitboard/handlers"
	"admitboard/middleware"
	"admitboard/utils"

	"github.com/gin-gonic/gin"
)

// RegisterSlotRoutes registers slot lifecycle and booking endpoints.
func RegisterSlotRoutes(r *gin.Engine, sh *handlers.SlotHandler, ih *handlers.InterviewHandler) {
	api := r.Group("/api/slots")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.POST("", sh.CreateSlotHandler)
		api.GET("", sh.ListSlotsHandler)
		api.PUT("/:slotID", sh.EditSlotHandler)
		api.DELETE("/:slotID", sh.DeleteSlotHandler)
		api.POST("/:slotID/book", ih.BookSlotHandler)
	}
}

// RegisterInterviewRoutes registers interview administration endpoints.
func RegisterInterviewRoutes(r *gin.Engine, ih *handlers.InterviewHandler) {
	api := r.Group("/api/interviews")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.GET("", ih.ListInterviewsHandler)
		api.POST("/:interviewID/cancel", ih.CancelInterviewHandler)
		api.POST("/:interviewID/complete", ih.CompleteInterviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backends": utils.GetHealthStatus()})
	})
}
