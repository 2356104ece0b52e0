// Package inputval validates request input using struct tags.
//
// Rules are declared on input structs:
//
//	type createInput struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	    Email string `validate:"required,email" label:"Email"`
//	    ID    string `validate:"required,objectid" label:"Project ID"`
//	}
//
// Supported rules: required, max=N, email, oneof=a b c, objectid.
// The label tag supplies the human-readable field name used in messages.
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
)

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first failure message, or "" when valid.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every failure message joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validate applies the tag rules of every string field of input (a struct
// or pointer to struct). Non-string fields and fields without a validate
// tag are skipped.
func Validate(input any) *Result {
	result := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return result
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}

		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}

		value := v.Field(i).String()
		if msg := checkRules(value, tag, label); msg != "" {
			result.Errors = append(result.Errors, FieldError{Field: field.Name, Message: msg})
		}
	}

	return result
}

// checkRules evaluates the comma-separated rule list against value,
// returning the first failure message or "".
func checkRules(value, tag, label string) string {
	trimmed := strings.TrimSpace(value)

	for _, rule := range strings.Split(tag, ",") {
		rule = strings.TrimSpace(rule)
		switch {
		case rule == "required":
			if trimmed == "" {
				return fmt.Sprintf("%s is required.", label)
			}
		case strings.HasPrefix(rule, "max="):
			n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
			if err == nil && len(value) > n {
				return fmt.Sprintf("%s must be at most %d characters.", label, n)
			}
		case rule == "email":
			if trimmed != "" && !IsValidEmail(trimmed) {
				return "A valid email address is required."
			}
		case strings.HasPrefix(rule, "oneof="):
			if trimmed == "" {
				continue // required handles empties
			}
			allowed := strings.Fields(strings.TrimPrefix(rule, "oneof="))
			if !containsFold(allowed, trimmed) {
				return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(allowed, ", "))
			}
		case rule == "objectid":
			if trimmed != "" && !IsValidObjectID(trimmed) {
				return fmt.Sprintf("%s is not a valid ID.", label)
			}
		}
	}
	return ""
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// IsValidEmail reports whether s is a plausible bare email address.
// Display-name forms ("Name <a@b>") are rejected, as are leading,
// trailing, or consecutive dots in the local part or domain. Single-label
// domains are allowed (useful for dev/test environments).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}

	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// IsValidObjectID reports whether s (after trimming) is a 24-character
// hex string, the textual form of a Mongo ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}
