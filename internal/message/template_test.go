package message

import (
	"strings"
	"testing"

	"github.com/prospecta/leadpipe/internal/store"
)

func strptr(s string) *string { return &s }

func record() store.Record {
	return store.Record{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@x.com",
		JobTitle:    strptr("Engineer"),
		CompanyName: strptr("Acme"),
		CountryCode: strptr("US"),
	}
}

func TestGenerate_SubstitutesFields(t *testing.T) {
	got, err := Generate("Hi {firstName} {lastName}, I saw you work at {companyName} as {jobTitle}.", record())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	want := "Hi John Doe, I saw you work at Acme as Engineer."
	if got != want {
		t.Errorf("Generate = %q, want %q", got, want)
	}
}

func TestGenerate_RepeatedToken(t *testing.T) {
	got, err := Generate("{firstName}, yes you, {firstName}!", record())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got != "John, yes you, John!" {
		t.Errorf("Generate = %q", got)
	}
}

func TestGenerate_NoTokens(t *testing.T) {
	got, err := Generate("Hello there.", record())
	if err != nil || got != "Hello there." {
		t.Errorf("Generate = %q, %v", got, err)
	}
}

func TestGenerate_UnknownField(t *testing.T) {
	_, err := Generate("Hi {nickname}", record())
	if err == nil || !strings.Contains(err.Error(), "Unknown field in template: nickname") {
		t.Errorf("error = %v", err)
	}
}

func TestGenerate_MissingValue(t *testing.T) {
	rec := record()
	rec.CompanyName = nil

	_, err := Generate("Works at {companyName}", rec)
	if err == nil || !strings.Contains(err.Error(), "Missing required field: companyName") {
		t.Errorf("error = %v", err)
	}

	rec.CompanyName = strptr("")
	_, err = Generate("Works at {companyName}", rec)
	if err == nil || !strings.Contains(err.Error(), "Missing required field: companyName") {
		t.Errorf("error = %v", err)
	}
}

func TestGenerate_UnsupportedRecordFieldIsUnknown(t *testing.T) {
	// phoneNumber is persisted but not exposed to templates.
	_, err := Generate("Call {phoneNumber}", record())
	if err == nil || !strings.Contains(err.Error(), "Unknown field in template: phoneNumber") {
		t.Errorf("error = %v", err)
	}
}
