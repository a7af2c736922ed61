package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	Init()
}

// Init builds the struct validator and registers the custom tags on gin's
// binding engine as well.
func Init() {
	validate = validator.New()
	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("mongouri", validateMongoURI)
}

// Validate runs struct tag validation on s.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

func validateMongoURI(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return strings.HasPrefix(value, "mongodb://") || strings.HasPrefix(value, "mongodb+srv://")
}
