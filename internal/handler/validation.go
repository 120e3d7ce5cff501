package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondBindingError reports a request that could not be bound or validated.
func respondBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			fields[fe.Field()] = describeFieldError(fe)
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Fields: fields})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
