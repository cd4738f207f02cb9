package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/01moynul/campusmart/internal/models"
)

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("productstatus", func(fl validator.FieldLevel) bool {
			return models.ProductStatus(fl.Field().String()).Valid()
		})
	}
}
