package handlers

import (
	"net/http"
	"strconv"

	"admitboard/models"
	"admitboard/services/scheduling"
	"admitboard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SlotHandler exposes slot lifecycle endpoints.
type SlotHandler struct {
	Service scheduling.SlotLifecycleService
}

func NewSlotHandler(svc scheduling.SlotLifecycleService) *SlotHandler {
	return &SlotHandler{Service: svc}
}

func (h *SlotHandler) CreateSlotHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "message": err.Error()})
		return
	}

	slot, err := h.Service.CreateSlot(c.Request.Context(), req)
	if err != nil {
		logger.Warn("slot creation rejected", zap.Error(err))
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

func (h *SlotHandler) EditSlotHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing slot ID in path"})
		return
	}

	var req models.EditSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "message": err.Error()})
		return
	}

	slot, err := h.Service.EditSlot(c.Request.Context(), slotID, req)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (h *SlotHandler) DeleteSlotHandler(c *gin.Context) {
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing slot ID in path"})
		return
	}

	if err := h.Service.DeleteSlot(c.Request.Context(), slotID); err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "slot removed"})
}

func (h *SlotHandler) ListSlotsHandler(c *gin.Context) {
	filter := models.SlotFilter{
		Date:     c.Query("date"),
		SlotType: models.SlotType(c.Query("type")),
		State:    models.SlotState(c.Query("state")),
		OwnerID:  c.Query("ownerId"),
		Text:     c.Query("q"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", models.DefaultPageSize),
	}

	slots, total, err := h.Service.ListSlots(c.Request.Context(), filter)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slots":    slots,
		"total":    total,
		"page":     filter.Page,
		"pageSize": filter.PageSize,
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
