package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type validEnum interface {
	Valid() bool
}

// RegisterValidators installs the custom binding tags used by request DTOs.
// "enum" accepts any value whose type reports Valid().
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("enum", validateEnum)
}

func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if !field.CanInterface() {
		return false
	}
	if e, ok := field.Interface().(validEnum); ok {
		return e.Valid()
	}
	return false
}
