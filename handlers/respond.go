package handlers

import (
	"net/http"

	"admitboard/services/scheduling"
	"admitboard/utils"

	"github.com/gin-gonic/gin"
)

// respondSchedulingError maps the scheduling error taxonomy onto HTTP
// statuses. Anything without a code is an internal error.
func respondSchedulingError(c *gin.Context, err error) {
	code, ok := scheduling.CodeOf(err)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch code {
	case scheduling.CodeInvalidInput:
		status = http.StatusBadRequest
	case scheduling.CodeNotFound:
		status = http.StatusNotFound
	case scheduling.CodeInvalidState, scheduling.CodeSlotUnavailable:
		status = http.StatusConflict
	case scheduling.CodePastWindow:
		status = http.StatusUnprocessableEntity
	case scheduling.CodeProvisioningFailed:
		status = http.StatusBadGateway
	case scheduling.CodeBookingPersistFailed, scheduling.CodeBookingInconsistent:
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{"error": string(code), "message": err.Error()})
}
