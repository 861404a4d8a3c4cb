package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedImageContentTypes is the set of allowed content types for image uploads.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxUploadSize is the maximum allowed decoded image size (5MB).
const MaxUploadSize = 5 << 20

// ValidateImage checks that an inline image has an allowed content type and
// does not exceed the maximum size.
func ValidateImage(d DataURL) error {
	if len(d.Data) == 0 {
		return fmt.Errorf("image is empty")
	}
	if len(d.Data) > MaxUploadSize {
		return fmt.Errorf("image size %d bytes exceeds maximum allowed size of 5MB", len(d.Data))
	}
	if !AllowedImageContentTypes[d.ContentType] {
		return fmt.Errorf("invalid image type '%s'; allowed types: image/jpeg, image/png, image/webp, image/gif", d.ContentType)
	}
	return nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "gt", "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", field, map[string]string{"gt": "greater than", "gte": "at least"}[fe.Tag()], fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "latitude", "longitude":
			messages = append(messages, fmt.Sprintf("%s must be a valid %s", field, fe.Tag()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
