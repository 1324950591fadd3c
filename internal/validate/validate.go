// Package validate holds the pure field validators. Each function checks
// one field class and returns zero or more violations; callers aggregate
// across all fields of a request before touching any state.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nikhilv/blogfeed/internal/apperr"
)

var v = validator.New()

// Email checks standard address syntax.
func Email(email string) []apperr.Violation {
	if err := v.Var(email, "required,email"); err != nil {
		return []apperr.Violation{{Field: "email", Message: "E-Mail is invalid."}}
	}
	return nil
}

// Password requires a non-empty value of at least 5 characters.
func Password(password string) []apperr.Violation {
	if err := v.Var(strings.TrimSpace(password), "required,min=5"); err != nil {
		return []apperr.Violation{{Field: "password", Message: "Password too short!"}}
	}
	return nil
}

// Title requires at least 5 characters after trimming whitespace.
func Title(title string) []apperr.Violation {
	if err := v.Var(strings.TrimSpace(title), "required,min=5"); err != nil {
		return []apperr.Violation{{Field: "title", Message: "Title is invalid."}}
	}
	return nil
}

// Content requires at least 5 characters after trimming whitespace.
func Content(content string) []apperr.Violation {
	if err := v.Var(strings.TrimSpace(content), "required,min=5"); err != nil {
		return []apperr.Violation{{Field: "content", Message: "Content is invalid."}}
	}
	return nil
}

// UserInput aggregates violations for a signup payload.
func UserInput(email, password string) []apperr.Violation {
	var out []apperr.Violation
	out = append(out, Email(email)...)
	out = append(out, Password(password)...)
	return out
}

// PostInput aggregates violations for a post create/update payload.
func PostInput(title, content string) []apperr.Violation {
	var out []apperr.Violation
	out = append(out, Title(title)...)
	out = append(out, Content(content)...)
	return out
}
