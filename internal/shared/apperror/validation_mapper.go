package apperror

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns a json field name into a label: base_salary and
// baseSalary both become "Base Salary".
func formatFieldName(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if r == '_' {
			b.WriteRune(' ')
			prev = r
			continue
		}
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	caser := cases.Title(language.English)
	return caser.String(b.String())
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return ErrInvalidInput
}

// BindError reports a request binding failure as VALIDATION_ERROR with the
// first field problem as message and the raw binder error as details.
func BindError(err error) *AppError {
	message := ErrInvalidInput.Message
	var appErr *AppError
	if errors.As(MapValidationError(err), &appErr) {
		message = appErr.Message
	}
	return New(CodeValidation, message, http.StatusBadRequest).WithDetails(err.Error())
}
