package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/statementai/statement-parser/internal/entity"
)

// IdentityKind selects which identity-document prompt a call uses.
type IdentityKind string

const (
	KindPassport       IdentityKind = "passport"
	KindDrivingLicense IdentityKind = "driving_license"
)

// IdentityPrompt returns the catalog prompt for the given document kind.
func (c Catalog) IdentityPrompt(kind IdentityKind) (string, error) {
	switch kind {
	case KindPassport:
		return c.Passport, nil
	case KindDrivingLicense:
		return c.DrivingLicense, nil
	default:
		return "", fmt.Errorf("unknown identity document kind %q", kind)
	}
}

const passportPrompt = `Please parse the attached passport scan and provide a JSON response consisting of the identity data only. The response should have the following structure:

{
  "documentType": "passport",
  "documentData": {
    "fullName": "John Testuser",
    "dateOfBirth": "01 Jan 1980",
    "passportNumber": "123456789",
    "issueDate": "01 Jan 2020",
    "expiryDate": "01 Jan 2030",
    "nationality": "British",
    "placeOfBirth": "London",
    "issuingAuthority": "HMPO",
    "gender": "M"
  }
}

Use an empty string for any field that cannot be read. Do not provide any other response, commentary or data.`

const drivingLicensePrompt = `Please parse the attached driving licence scan and provide a JSON response consisting of the identity data only. The response should have the following structure:

{
  "documentType": "driving_license",
  "documentData": {
    "fullName": "John Testuser",
    "dateOfBirth": "01 Jan 1980",
    "licenseNumber": "TESTU801011JT9XY",
    "issueDate": "01 Jan 2020",
    "expiryDate": "01 Jan 2030",
    "address": "123 Test Lane, Testville, TX 00000",
    "licenseCategories": "B, B1",
    "issuingAuthority": "DVLA"
  }
}

Use an empty string for any field that cannot be read. Do not provide any other response, commentary or data.`

// identityKeys maps normalized response keys onto IdentityDocument fields.
// Keys are matched in compact form (lowercased, separators stripped) so
// "fullName", "Full Name" and "full_name" all land on the same field.
// passportNumber and licenseNumber both land on DocumentNumber.
var identityKeys = map[string]func(*entity.IdentityDocument, string){
	"documenttype":      func(d *entity.IdentityDocument, v string) { d.DocumentType = v },
	"fullname":          func(d *entity.IdentityDocument, v string) { d.FullName = v },
	"name":              func(d *entity.IdentityDocument, v string) { d.FullName = v },
	"dateofbirth":       func(d *entity.IdentityDocument, v string) { d.DateOfBirth = v },
	"documentnumber":    func(d *entity.IdentityDocument, v string) { d.DocumentNumber = v },
	"passportnumber":    func(d *entity.IdentityDocument, v string) { d.DocumentNumber = v },
	"licensenumber":     func(d *entity.IdentityDocument, v string) { d.DocumentNumber = v },
	"licencenumber":     func(d *entity.IdentityDocument, v string) { d.DocumentNumber = v },
	"issuedate":         func(d *entity.IdentityDocument, v string) { d.IssueDate = v },
	"dateofissue":       func(d *entity.IdentityDocument, v string) { d.IssueDate = v },
	"expirydate":        func(d *entity.IdentityDocument, v string) { d.ExpiryDate = v },
	"dateofexpiry":      func(d *entity.IdentityDocument, v string) { d.ExpiryDate = v },
	"nationality":       func(d *entity.IdentityDocument, v string) { d.Nationality = v },
	"placeofbirth":      func(d *entity.IdentityDocument, v string) { d.PlaceOfBirth = v },
	"address":           func(d *entity.IdentityDocument, v string) { d.Address = v },
	"licensecategories": func(d *entity.IdentityDocument, v string) { d.LicenseCategories = v },
	"licencecategories": func(d *entity.IdentityDocument, v string) { d.LicenseCategories = v },
	"issuingauthority":  func(d *entity.IdentityDocument, v string) { d.IssuingAuthority = v },
	"gender":            func(d *entity.IdentityDocument, v string) { d.Gender = v },
}

// compactKey reduces a response key to lowercase with all separators removed.
func compactKey(k string) string {
	return strings.Join(strings.Fields(normalizeKey(k)), "")
}

// ParseIdentityDocument normalizes an identity-document response into an
// IdentityDocument. It accepts a JSON object, optionally fenced, with the
// field block either at the top level or nested under "documentData".
// Unknown keys are dropped with a log line; it fails when the response is
// not JSON or carries no recognizable field.
func ParseIdentityDocument(raw string, logger *slog.Logger) (entity.IdentityDocument, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := StripCodeFence(raw)

	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return entity.IdentityDocument{}, fmt.Errorf("identity document response is not a JSON object")
	}

	var doc entity.IdentityDocument

	// Pull the documentType tag before unwrapping the field envelope.
	for k, v := range m {
		if compactKey(k) != "documenttype" {
			continue
		}
		if s, ok := v.(string); ok {
			doc.DocumentType = strings.TrimSpace(s)
		}
	}
	for k, v := range m {
		if compactKey(k) == "documentdata" {
			if inner, ok := v.(map[string]any); ok {
				m = inner
			}
			break
		}
	}

	var dropped []string
	matched := false
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprintf("%v", v)
		}
		s = strings.TrimSpace(s)
		if setter, ok := identityKeys[compactKey(k)]; ok {
			if s != "" {
				setter(&doc, s)
			}
			matched = true
		} else {
			dropped = append(dropped, k)
		}
	}
	if len(dropped) > 0 {
		logger.Warn("llm.identity.unknown_keys", "dropped", dropped)
	}
	if !matched {
		return entity.IdentityDocument{}, fmt.Errorf("identity document response has no recognizable fields")
	}
	return doc, nil
}
