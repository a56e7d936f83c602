package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"campuscrafter.id/academy/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Request DTOs that are checked after authorization carry `validate` tags instead of
// gin's `binding` tags, so binding only decodes them.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("validate")
	return v
}

// DecodeJSON decodes the request body without running any field rules.
// An empty body leaves obj at its zero value.
func DecodeJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return BindingError(err)
	}
	return nil
}

// Validate applies the `validate` tags of obj.
func Validate(obj any) error {
	if err := validate.Struct(obj); err != nil {
		return BindingError(err)
	}
	return nil
}

// FormatValidationError turns binding failures into a single readable sentence.
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "request body is not valid JSON"
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}

	return err.Error()
}

// BindingError wraps a gin binding failure as a validation error.
func BindingError(err error) error {
	return apperror.Validation(FormatValidationError(err))
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":             "name",
		"Email":            "email",
		"Password":         "password",
		"Role":             "role",
		"Title":            "title",
		"StartDate":        "start_date",
		"DueDate":          "due_date",
		"Credits":          "credits",
		"EnrollmentLimit":  "enrollment_limit",
		"Status":           "status",
		"MaxScore":         "max_score",
		"SubmissionFormat": "submission_format",
		"StudentID":        "student_id",
		"Score":            "score",
		"Bio":              "bio",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
