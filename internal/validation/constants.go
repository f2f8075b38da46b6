package validation

const (
	// Transaction amount limits, KRW
	MinTransactionAmount = 1.0
	MaxTransactionAmount = 100_000_000.0

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxDescriptionLength = 500
	MaxSummaryLength     = 2000
	MaxFindingsLength    = 10000
)
