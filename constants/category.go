package constants

import (
	"strings"
)

type Category string

const (
	EssentialHome             Category = "Essential Home"
	EssentialHousehold        Category = "Essential Household"
	NonEssentialHousehold     Category = "Non-Essential Household"
	Salary                    Category = "Salary"
	NonEssentialEntertainment Category = "Non-Essential Entertainment"
	Gambling                  Category = "Gambling"
	CashWithdrawal            Category = "Cash Withdrawal"
	BankTransfer              Category = "Bank Transfer"
	Unknown                   Category = "Unknown"
)

var allCategories = []Category{
	EssentialHome,
	EssentialHousehold,
	NonEssentialHousehold,
	Salary,
	NonEssentialEntertainment,
	Gambling,
	CashWithdrawal,
	BankTransfer,
	Unknown,
}

// Canonicalize maps a free-text category label from a model response onto the
// canonical taxonomy. Unrecognized labels map to Unknown.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Unknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// labels the model tends to emit for taxonomy entries
	synonyms := map[string]Category{
		"rent":                           EssentialHome,
		"mortgage":                       EssentialHome,
		"rent/mortgage":                  EssentialHome,
		"essential home - rent/mortgage": EssentialHome,
		"utilities":                      EssentialHousehold,
		"council tax":                    EssentialHousehold,
		"subscriptions":                  NonEssentialHousehold,
		"entertainment":                  NonEssentialEntertainment,
		"dining out":                     NonEssentialEntertainment,
		"non -essential entertainment":   NonEssentialEntertainment,
		"wages":                          Salary,
		"income":                         Salary,
		"betting":                        Gambling,
		"atm":                            CashWithdrawal,
		"cash":                           CashWithdrawal,
		"cash withdrawals":               CashWithdrawal,
		"transfer":                       BankTransfer,
		"other":                          Unknown,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Unknown, false
}
