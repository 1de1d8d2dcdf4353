package entity

// IdentityDocument is the field block extracted from a passport or driving
// licence scan. All fields are best-effort strings exactly as the document
// presents them; fields the document type does not carry stay empty.
type IdentityDocument struct {
	DocumentType      string `json:"documentType,omitempty"`
	FullName          string `json:"fullName,omitempty"`
	DateOfBirth       string `json:"dateOfBirth,omitempty"`
	DocumentNumber    string `json:"documentNumber,omitempty"`
	IssueDate         string `json:"issueDate,omitempty"`
	ExpiryDate        string `json:"expiryDate,omitempty"`
	Nationality       string `json:"nationality,omitempty"`
	PlaceOfBirth      string `json:"placeOfBirth,omitempty"`
	Address           string `json:"address,omitempty"`
	LicenseCategories string `json:"licenseCategories,omitempty"`
	IssuingAuthority  string `json:"issuingAuthority,omitempty"`
	Gender            string `json:"gender,omitempty"`
}

// Empty reports whether nothing at all was extracted.
func (d IdentityDocument) Empty() bool {
	return d == IdentityDocument{}
}
