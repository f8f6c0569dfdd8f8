package handlers

import (
	"net/http"

	"admitboard/models"
	"admitboard/services/scheduling"
	"admitboard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InterviewHandler exposes booking and interview administration endpoints.
type InterviewHandler struct {
	Service scheduling.BookingService
}

func NewInterviewHandler(svc scheduling.BookingService) *InterviewHandler {
	return &InterviewHandler{Service: svc}
}

func (h *InterviewHandler) BookSlotHandler(c *gin.Context) {
	logger := utils.GetLogger()

	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing slot ID in path"})
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "message": err.Error()})
		return
	}

	rec, err := h.Service.Book(c.Request.Context(), slotID, req)
	if err != nil {
		logger.Warn("booking rejected",
			zap.String("slot_id", slotID),
			zap.Error(err),
		)
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"interview": rec})
}

func (h *InterviewHandler) CancelInterviewHandler(c *gin.Context) {
	interviewID := c.Param("interviewID")
	if interviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing interview ID in path"})
		return
	}

	if err := h.Service.Cancel(c.Request.Context(), interviewID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "interview cancelled"})
}

func (h *InterviewHandler) CompleteInterviewHandler(c *gin.Context) {
	interviewID := c.Param("interviewID")
	if interviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing interview ID in path"})
		return
	}

	if err := h.Service.Complete(c.Request.Context(), interviewID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "interview completed"})
}

func (h *InterviewHandler) ListInterviewsHandler(c *gin.Context) {
	filter := models.InterviewFilter{
		Date:     c.Query("date"),
		SlotType: models.SlotType(c.Query("type")),
		Status:   models.InterviewStatus(c.Query("status")),
		Text:     c.Query("q"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", models.DefaultPageSize),
	}

	records, total, err := h.Service.ListInterviews(c.Request.Context(), filter)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interviews": records,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
	})
}
