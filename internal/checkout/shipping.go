package checkout

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ShippingInfo is the address captured on the shipping step.
type ShippingInfo struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"required,usphone"`
	Address   string `validate:"required"`
	Apartment string
	City      string `validate:"required"`
	State     string `validate:"required"`
	ZipCode   string `validate:"required,uszip"`
	Country   string
}

var (
	// digits, spaces, parentheses, hyphens, optional leading plus
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)
	// 5-digit or 5+4 US format
	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("usphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("uszip", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
}

// FieldErrors maps a shipping field name to a message for display.
type FieldErrors map[string]string

// ValidateShipping checks the shipping info and returns per-field
// messages. An empty map means the info is valid.
func ValidateShipping(info ShippingInfo) FieldErrors {
	errs := make(FieldErrors)

	err := validate.Struct(info)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "Invalid shipping information"
		return errs
	}

	for _, e := range validationErrors {
		errs[e.Field()] = shippingErrorMessage(e)
	}
	return errs
}

func shippingErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "usphone":
		return "Please enter a valid phone number"
	case "uszip":
		return "Please enter a valid ZIP code (e.g., 12345 or 12345-6789)"
	default:
		return "Invalid value"
	}
}
