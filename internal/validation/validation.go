// Package validation checks submitted forms with go-playground/validator and
// turns failures into the messages shown next to the form.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const MinPasswordLength = 12

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("modelyear", func(fl validator.FieldLevel) bool {
		y := int(fl.Field().Int())
		return y >= 1900 && y <= MaxModelYear()
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// StrongPassword requires MinPasswordLength characters with at least one
// lowercase letter, uppercase letter, digit and symbol.
func StrongPassword(pw string) bool {
	if len([]rune(pw)) < MinPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// MaxModelYear allows next year's models.
func MaxModelYear() int {
	return time.Now().Year() + 1
}

type normalizer interface {
	Normalize()
}

// Bind decodes the request into dst, trims it and validates it. A decode
// failure comes back as the binder's *echo.HTTPError, a rule failure as
// validator.ValidationErrors.
func Bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return c.Validate(dst)
}

// Messages maps err to user-facing lines, in field order and without
// duplicates. Errors that are not rule failures produce fallback.
func Messages(err error, fallback string) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fallback}
	}
	seen := map[string]bool{}
	var out []string
	for _, fe := range verrs {
		m := message(fe)
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	if fe.Field() == "inv_year" && fe.Tag() == "modelyear" {
		return fmt.Sprintf("Year must be between 1900 and %d.", MaxModelYear())
	}
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := messages[fe.Field()]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

var messages = map[string]string{
	"account_firstname": "Please provide a first name.",
	"account_lastname":  "Please provide a last name.",
	"account_email":     "A valid email is required.",

	"account_password":          "Password does not meet requirements.",
	"account_password.required": "Please provide a password.",

	"account_id":          "Invalid account identifier.",
	"account_id.required": "Missing account identifier.",

	"classification_name":          "Only letters and numbers allowed (no spaces or special characters).",
	"classification_name.required": "Classification name is required.",
	"classification_name.min":      "Classification name must be 3–30 characters.",
	"classification_name.max":      "Classification name must be 3–30 characters.",

	"classification_id":          "Classification is invalid.",
	"classification_id.required": "Please select a classification.",

	"inv_make":                 "Make must be 2–50 characters.",
	"inv_make.required":        "Make is required.",
	"inv_model":                "Model must be 1–50 characters.",
	"inv_model.required":       "Model is required.",
	"inv_year.required":        "Year is required.",
	"inv_description":          "Description must be at least 8 characters.",
	"inv_description.required": "Description is required.",
	"inv_image":                "Image path is too long.",
	"inv_image.required":       "Image path/URL is required.",
	"inv_thumbnail":            "Thumbnail path is too long.",
	"inv_thumbnail.required":   "Thumbnail path/URL is required.",
	"inv_price":                "Price must be a positive number.",
	"inv_miles":                "Miles must be 0 or greater.",
	"inv_color":                "Color must be 3–50 characters.",
	"inv_color.required":       "Color is required.",

	"inv_id":          "Invalid vehicle id.",
	"inv_id.required": "Missing vehicle id.",
}

const (
	MsgEmailExists          = "Email exists. Please log in or use different email"
	MsgEmailTaken           = "Email exists. Please use a different email address."
	MsgClassificationExists = "That classification already exists."
	MsgBadCredentials       = "Please check your credentials and try again."
)
