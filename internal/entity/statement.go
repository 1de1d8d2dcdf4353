package entity

import "encoding/json"

// PersonalInfo is the flat identity/account block extracted once per run,
// normally from the first chunk. All fields are best-effort strings exactly
// as the statement presents them.
type PersonalInfo struct {
	FullName         string `json:"Full Name,omitempty"`
	Address          string `json:"Address,omitempty"`
	AccountNumber    string `json:"Account Number,omitempty"`
	SortCode         string `json:"Sort Code,omitempty"`
	StartingBalance  string `json:"Statement Starting Balance,omitempty"`
	FinishingBalance string `json:"Statement Finishing Balance,omitempty"`
	StatementPeriod  string `json:"Statement Period Date,omitempty"`
	BankProvider     string `json:"Bank Provider,omitempty"`
	TotalPaidIn      string `json:"Total Paid In,omitempty"`
	TotalWithdrawn   string `json:"Total Withdrawn,omitempty"`
}

// Empty reports whether nothing at all was extracted.
func (p PersonalInfo) Empty() bool {
	return p == PersonalInfo{}
}

// Summary is the final-stage model output. Structured holds the parsed JSON
// object when the response validated; otherwise RawText carries the verbatim
// response and Structured is nil.
type Summary struct {
	Structured json.RawMessage `json:"summary,omitempty"`
	RawText    string          `json:"raw_summary,omitempty"`
}

// StatementResult is the final aggregate returned to the caller. Immutable
// once returned; the caller decides whether and where to persist it.
type StatementResult struct {
	PersonalInfo PersonalInfo        `json:"Personal Information"`
	Transactions []TransactionRecord `json:"Transactions"`
	Summary      *Summary            `json:"Summary,omitempty"`
}
