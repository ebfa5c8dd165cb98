package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// tagCodes maps the clinic binding tags onto the codes the use cases return,
// so a bad enum value reads the same whichever layer catches it.
var tagCodes = map[string]string{
	"clinic_service": "invalid_service",
	"time_slot":      "invalid_time_slot",
	"role":           "invalid_roles",
	"email":          "invalid_email",
}

func bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if code, ok := tagCodes[fe.Tag()]; ok {
				httperr.Unprocessable(c, code, httperr.MessageFor(code))
				return false
			}
		}
	}

	httperr.BadRequest(c, "invalid_request", "Invalid request body.")
	return false
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}
