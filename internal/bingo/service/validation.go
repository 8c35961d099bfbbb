package service

import (
	"errors"
	"strings"
	"unicode"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("letterdigit", func(fl validator.FieldLevel) bool {
		return hasLetterAndDigit(fl.Field().String())
	})
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return domain.ValidEmail(fl.Field().String())
	})
	return v
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// fieldMessages holds the client message for a struct field. Required is
// used when the "required" tag failed, Invalid for every other tag.
type fieldMessages struct {
	Required string
	Invalid  string
}

// check validates v and folds every failing field into one validation error,
// messages joined with ", " in field order.
func check(v any, messages map[string]fieldMessages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err)
	}

	var out []string
	seen := make(map[string]bool)
	for _, fe := range verrs {
		// Dive errors are reported as "Squares[3]".
		field, _, _ := strings.Cut(fe.StructField(), "[")
		m := messages[field]
		msg := m.Invalid
		if fe.Tag() == "required" && m.Required != "" {
			msg = m.Required
		}
		if msg == "" {
			msg = field + " is invalid"
		}
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	return domain.Validation(strings.Join(out, ", "))
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
