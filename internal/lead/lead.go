// Package lead defines the canonical lead record and the validation and
// normalization steps that turn untrusted candidate input into one.
//
// Input arrives as a RawCandidate: an arbitrary key/value object decoded
// from JSON, with no guarantees about field presence or types. Validation
// is a pure predicate over that shape; normalization produces an immutable
// Lead value or signals that the candidate is invalid. Record-level
// failures never abort a batch.
package lead

import (
	"regexp"
	"strings"
)

// RawCandidate is an untyped, caller-controlled lead object as decoded
// from a JSON payload. Values are commonly strings but may be any type.
type RawCandidate = map[string]any

// Lead is a validated, normalized lead record. Required fields are
// trimmed non-empty strings; optional fields are either a trimmed
// non-empty string or nil, never "".
type Lead struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	JobTitle        *string `json:"jobTitle"`
	CompanyName     *string `json:"companyName"`
	CountryCode     *string `json:"countryCode"`
	PhoneNumber     *string `json:"phoneNumber"`
	YearsAtCompany  *string `json:"yearsAtCompany"`
	LinkedinProfile *string `json:"linkedinProfile"`
}

// requiredFields must be present, string-typed, and non-empty.
var requiredFields = []string{"firstName", "lastName", "email"}

// optionalFields may be absent, but when present and truthy must be strings.
var optionalFields = []string{
	"jobTitle",
	"companyName",
	"countryCode",
	"phoneNumber",
	"yearsAtCompany",
	"linkedinProfile",
}

// emailRegex is a shape check only: one "@" with at least one "." after
// it, no whitespace or extra "@" on either side. Not RFC-5322 complete.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s has a plausible email shape.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidLead reports whether a raw candidate is structurally acceptable:
// firstName, lastName and email are present, string-typed and non-empty,
// and every populated optional field is a string. The email format check
// runs last since the regex is the most expensive step.
//
// Emptiness is a falsy check on the untrimmed value, so a whitespace-only
// required field passes here and normalizes to an empty string. That
// matches the historical behavior of the import path and is deliberately
// not re-validated post-trim.
func IsValidLead(raw RawCandidate) bool {
	for _, field := range requiredFields {
		s, ok := raw[field].(string)
		if !ok || s == "" {
			return false
		}
	}

	for _, field := range optionalFields {
		v, present := raw[field]
		if !present || !truthy(v) {
			continue
		}
		if _, ok := v.(string); !ok {
			return false
		}
	}

	email := raw["email"].(string)
	return IsValidEmail(strings.TrimSpace(email))
}

// truthy mirrors loose JSON truthiness for the values encoding/json
// produces: nil, false, zero numbers and empty strings are falsy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
