package llm

import "strings"

// Catalog holds the prompt for each pipeline stage. The pipeline treats the
// wording as opaque and depends only on the expected response shape: the
// parse and categorize stages expect headerless CSV rows; personal info,
// summary and the identity-document prompts each expect a JSON object.
type Catalog struct {
	StatementParse string
	Categorize     string
	PersonalInfo   string
	Summary        string
	Passport       string
	DrivingLicense string
}

// DefaultCatalog returns the stock prompts.
func DefaultCatalog() Catalog {
	return Catalog{
		StatementParse: statementParsePrompt,
		Categorize:     categorizePrompt,
		PersonalInfo:   personalInfoPrompt,
		Summary:        summaryPrompt,
		Passport:       passportPrompt,
		DrivingLicense: drivingLicensePrompt,
	}
}

const statementParsePrompt = `Please parse the attached financial statement PDF and provide a CSV response. Only return a valid CSV, no other text or comments.

For every single transaction identified, output one row with the following columns:
Date of transaction,Description of transaction,Amount of transaction,Direction (either paid in or withdrawn),Balance remaining

Any dates must be output in the format dd-mm-yyyy. If the date is not clear, parse the description data to infer it.

Note that the balance remaining may be negative or overdrawn, possibly denoted with a minus sign, in brackets, or with an OD or overdrawn marker. This must be represented in the balance remaining as a negative number.

No headers should be returned, just transaction data. Provide exactly one row per transaction identified; do not skip any transactions for any reason, even missing or incomplete data.

If the file does not seem to contain any transactions then return an empty CSV.`

const categorizePrompt = `You are given CSV rows of bank transactions with the columns:
Date,Description,Amount,Direction,Balance

Return the same rows as CSV with one extra Category column appended to every row. The category must be inferred from the transaction description and must be exactly one of:

1. Essential Home - Rent/Mortgage, monthly or weekly consistent payment - must be outgoing
2. Essential Household - Council Tax, Water, Electricity, Gas, Internet, TV Licence, Phone, Mobile, etc. - must be outgoing
3. Non-Essential Household - Sky TV, Netflix, Spotify, Disney+, Apple Music, cleaners, gardeners, etc. - must be outgoing
4. Salary - Money received from a salary or other regular payment - must be incoming
5. Non-Essential Entertainment - Going out, dining out, cinema, theatre, Uber, takeaways - must be outgoing
6. Gambling - Betting, Casino, Lotteries, etc. - can be incoming or outgoing
7. Cash Withdrawal - Cash withdrawals from ATMs, banks, etc. - must be outgoing
8. Bank Transfer - Money transferred from one account to another - can be outgoing or incoming
9. Unknown - Any other category that does not fit into the above

Only return valid CSV rows, no headers, no commentary. Keep the row order unchanged and do not drop any rows.`

const personalInfoPrompt = `Please parse the attached financial statement PDF and provide a JSON response consisting of personal data only; ignore any transaction data. The data required is as follows:

full name, address, account number, sort code, statement starting balance, statement finishing balance, statement period date, bank provider, total paid in, total withdrawn.

The response should have the following structure:

{
  "Full Name": "John Testuser",
  "Address": "123 Test Lane, Testville, TX 00000",
  "Account Number": "11111111",
  "Sort Code": "00-00-00",
  "Statement Starting Balance": "£100.00",
  "Statement Finishing Balance": "£1,000.00",
  "Statement Period Date": "01 JAN 2023 to 31 JAN 2023",
  "Bank Provider": "Test Bank",
  "Total Paid In": "£3,250.00",
  "Total Withdrawn": "£250.75"
}

Do not provide any other response, commentary or data.`

const summaryPrompt = `You are an expert at summarising financial transactions. You are given some personal information and a list of financial transactions in CSV form with the columns:
Date,Description,Amount,Direction,Balance,Category

Summarise the transactions, in and out, on a category by category basis, and then give a general summary of the list from a financial health point of view: are there any red flags, anything to be concerned about?

Return ONLY a valid JSON object with the keys "personalInformation", "summaryOfIncomeAndOutgoings" (with "income" and "outgoings" objects keyed by category), "generalSummaryAndFinancialHealthCommentary", "potentialRedFlagsAndConcerns" (array of strings) and "recommendations" (array of strings).`

// SummaryPayload prefixes the merged tabular representation with the
// personal-info block the way the summary prompt expects it.
func SummaryPayload(personalInfo string, transactionsCSV string) string {
	if strings.TrimSpace(personalInfo) == "" {
		return transactionsCSV
	}
	return "# Personal Information: " + personalInfo + "\n" + transactionsCSV
}
