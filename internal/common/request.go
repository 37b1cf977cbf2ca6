package common

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BindJSON binds the request body into obj and writes the error response
// itself when binding fails.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			RespondWithError(c, NewValidationAPIError(FormatValidationErrors(ve)))
			return false
		}
		RespondWithError(c, ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

// UUIDParam parses the named path parameter as a UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondWithError(c, ErrBadRequest.WithDetails(fmt.Sprintf("Invalid %s format.", name)))
		return uuid.Nil, false
	}
	return id, true
}
