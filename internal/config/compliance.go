package config

// Korean regulatory reporting thresholds, in KRW. Fixed per regime; injected
// into the compliance engines at construction so tests can exercise alternate
// thresholds.
const (
	DefaultCTRThreshold = 10_000_000
	DefaultSTRThreshold = 5_000_000
)

// ComplianceConfig carries the regulatory constants the FDS/AML engines gate
// on. Treated as immutable after construction.
type ComplianceConfig struct {
	// CTRThreshold is the currency-transaction-report floor: transactions at
	// or above it require a CTR.
	CTRThreshold float64
	// STRThreshold is the suspicious-transaction-report reference amount used
	// by volume-based screening indicators.
	STRThreshold float64
}

// DefaultComplianceConfig returns the production thresholds, overridable via
// CTR_THRESHOLD / STR_THRESHOLD for non-production regimes.
func DefaultComplianceConfig() ComplianceConfig {
	return ComplianceConfig{
		CTRThreshold: GetFloatEnv("CTR_THRESHOLD", DefaultCTRThreshold),
		STRThreshold: GetFloatEnv("STR_THRESHOLD", DefaultSTRThreshold),
	}
}
