package handlers

import (
	"net/http"

	"clinicbook/services/scheduling"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

// respondEngineError maps the engine's typed errors onto HTTP statuses.
// Conflicts are expected under concurrent use; the client is told to
// re-fetch availability before retrying.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case scheduling.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
	case scheduling.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "slot no longer available, refresh availability", err.Error())
	case scheduling.IsInvalidState(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, "booking state does not allow this operation", err.Error())
	case scheduling.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case scheduling.IsStoreUnavailable(err):
		utils.JSONError(c, http.StatusServiceUnavailable, "store temporarily unavailable", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
