package webserver

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PayloadValidator adapts go-playground/validator to echo's Validator
// interface. Field names in validation errors follow the json tag so
// error maps match the wire format.
type PayloadValidator struct {
	validate *validator.Validate
}

func NewValidator() *PayloadValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PayloadValidator{validate: v}
}

func (p *PayloadValidator) Validate(i interface{}) error {
	return p.validate.Struct(i)
}
