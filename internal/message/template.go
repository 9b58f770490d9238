// Package message renders outreach messages by substituting {field}
// tokens in a template with values from a persisted lead.
package message

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prospecta/leadpipe/internal/store"
)

// tokenRegex matches {word} template variables.
var tokenRegex = regexp.MustCompile(`\{(\w+)\}`)

// Generate substitutes every {field} token in template with the lead's
// value for that field. A token naming an unknown field, or a known
// field whose value is missing or empty, fails the whole render.
func Generate(template string, rec store.Record) (string, error) {
	fields := map[string]*string{
		"firstName":   &rec.FirstName,
		"lastName":    &rec.LastName,
		"email":       &rec.Email,
		"jobTitle":    rec.JobTitle,
		"companyName": rec.CompanyName,
		"countryCode": rec.CountryCode,
	}

	result := template
	for _, match := range tokenRegex.FindAllStringSubmatch(template, -1) {
		token, name := match[0], match[1]

		value, known := fields[name]
		if !known {
			return "", fmt.Errorf("Unknown field in template: %s", name)
		}
		if value == nil || *value == "" {
			return "", fmt.Errorf("Missing required field: %s", name)
		}

		result = strings.ReplaceAll(result, token, *value)
	}

	return result, nil
}
