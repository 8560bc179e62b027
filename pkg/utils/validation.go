package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
)

var validate *validator.Validate

var jamPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("prioritas", func(fl validator.FieldLevel) bool {
		return models.IsValidPrioritas(fl.Field().String())
	})
	validate.RegisterValidation("ket", func(fl validator.FieldLevel) bool {
		return models.IsValidKet(fl.Field().String())
	})
	validate.RegisterValidation("jam", validateJam)
}

// ValidateStruct memvalidasi payload form sesuai tag `validate`.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateJam menerima "HH:MM" atau sentinel "-".
func validateJam(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return v == models.JamKosong || jamPattern.MatchString(v)
}

// ValidationMessage merangkum error validator menjadi satu kalimat.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s tidak valid (%s)", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
