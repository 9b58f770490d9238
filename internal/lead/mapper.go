package lead

import "strings"

// MapToLead validates and normalizes a raw candidate. It returns the
// canonical lead and true, or a zero Lead and false when the candidate
// fails IsValidLead. All string fields are trimmed; optional fields that
// trim to "" become nil.
func MapToLead(raw RawCandidate) (Lead, bool) {
	if !IsValidLead(raw) {
		return Lead{}, false
	}

	return Lead{
		FirstName:       strings.TrimSpace(raw["firstName"].(string)),
		LastName:        strings.TrimSpace(raw["lastName"].(string)),
		Email:           strings.TrimSpace(raw["email"].(string)),
		JobTitle:        optionalString(raw, "jobTitle"),
		CompanyName:     optionalString(raw, "companyName"),
		CountryCode:     optionalString(raw, "countryCode"),
		PhoneNumber:     optionalString(raw, "phoneNumber"),
		YearsAtCompany:  optionalString(raw, "yearsAtCompany"),
		LinkedinProfile: optionalString(raw, "linkedinProfile"),
	}, true
}

// MapValidLeads normalizes a batch, silently omitting candidates that
// fail validation. Survivor order follows input order; a bad record
// never aborts the batch.
func MapValidLeads(raws []RawCandidate) []Lead {
	leads := make([]Lead, 0, len(raws))
	for _, raw := range raws {
		if l, ok := MapToLead(raw); ok {
			leads = append(leads, l)
		}
	}
	return leads
}

// optionalString returns the trimmed string value for an optional field,
// or nil when the field is absent, non-string, or trims to empty.
func optionalString(raw RawCandidate, field string) *string {
	s, ok := raw[field].(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
