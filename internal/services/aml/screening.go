package aml

import (
	"fmt"
	"time"

	"localpay/internal/config"
	"localpay/internal/models"
	"localpay/internal/services/fds"
)

// Indicator severity weights and level thresholds for screening scores.
var indicatorWeights = map[string]int{
	models.SeverityCritical: 30,
	models.SeverityHigh:     20,
	models.SeverityMedium:   10,
	models.SeverityLow:      5,
}

const (
	screeningCriticalThreshold = 70
	screeningHighThreshold     = 50
	screeningMediumThreshold   = 25

	maxRiskScore = 100

	// High-volume indicator: trailing 30-day volume at or above this many
	// STR thresholds.
	highVolumeSTRMultiple = 3
	volumeWindowDays      = 30

	// Structuring indicator: this many transactions in the band just under
	// the CTR threshold.
	structuringBandFactor = 0.8
	structuringMinCount   = 3

	// Rapid-transaction indicator: among the most recent transactions,
	// adjacent pairs closer than the gap threshold.
	rapidWindowSize   = 20
	rapidGapSeconds   = 60
	rapidMinPairCount = 5
)

// screeningLevelForScore maps a screening score to its risk level.
func screeningLevelForScore(score int) string {
	switch {
	case score >= screeningCriticalThreshold:
		return fds.RiskLevelCritical
	case score >= screeningHighThreshold:
		return fds.RiskLevelHigh
	case score >= screeningMediumThreshold:
		return fds.RiskLevelMedium
	default:
		return fds.RiskLevelLow
	}
}

// Screener computes risk indicators over a subject's transaction history.
// It is pure: the history snapshot and verification flag are its only
// inputs.
type Screener struct {
	cfg config.ComplianceConfig
	now func() time.Time
}

func NewScreener(cfg config.ComplianceConfig) *Screener {
	return &Screener{cfg: cfg, now: time.Now}
}

// Screen evaluates the fixed indicator set against a history snapshot.
// History must be ordered newest-first, as the transaction repository
// returns it.
func (s *Screener) Screen(history []models.Transaction, verified bool) (int, string, []Indicator, TransactionSummary) {
	summary := s.summarize(history)
	var indicators []Indicator

	// 1. High 30-day volume relative to the STR threshold.
	volumeFloor := highVolumeSTRMultiple * s.cfg.STRThreshold
	if summary.Volume30Days >= volumeFloor {
		indicators = append(indicators, Indicator{
			Type:        IndicatorHighVolume,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("30-day volume %.0f KRW is at or above %.0f KRW", summary.Volume30Days, volumeFloor),
			Value:       summary.Volume30Days,
		})
	}

	// 2. Transactions at or above the CTR threshold.
	if summary.CTRCount > 0 {
		indicators = append(indicators, Indicator{
			Type:        IndicatorCTRTransactions,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("%d transactions at or above the CTR threshold", summary.CTRCount),
			Value:       float64(summary.CTRCount),
		})
	}

	// 3. Structuring: repeated amounts just under the CTR threshold.
	if summary.NearThresholdCount >= structuringMinCount {
		indicators = append(indicators, Indicator{
			Type:        IndicatorStructuring,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("%d transactions between %.0f%% and 100%% of the CTR threshold", summary.NearThresholdCount, structuringBandFactor*100),
			Value:       float64(summary.NearThresholdCount),
		})
	}

	// 4. Rapid back-to-back transactions among the most recent.
	if rapid := countRapidPairs(history); rapid >= rapidMinPairCount {
		indicators = append(indicators, Indicator{
			Type:        IndicatorRapidTransactions,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("%d transaction pairs less than %d seconds apart", rapid, rapidGapSeconds),
			Value:       float64(rapid),
		})
	}

	// 5. Unverified identity.
	if !verified {
		indicators = append(indicators, Indicator{
			Type:        IndicatorUnverifiedIdentity,
			Severity:    models.SeverityMedium,
			Description: "subject has not completed identity verification",
		})
	}

	score := 0
	for _, ind := range indicators {
		score += indicatorWeights[ind.Severity]
	}
	if score > maxRiskScore {
		score = maxRiskScore
	}

	return score, screeningLevelForScore(score), indicators, summary
}

func (s *Screener) summarize(history []models.Transaction) TransactionSummary {
	summary := TransactionSummary{Count: len(history)}
	if len(history) == 0 {
		return summary
	}

	windowStart := s.now().AddDate(0, 0, -volumeWindowDays)
	structuringFloor := structuringBandFactor * s.cfg.CTRThreshold

	for _, tx := range history {
		summary.TotalAmount += tx.Amount
		if !tx.CreatedAt.Before(windowStart) {
			summary.Volume30Days += tx.Amount
		}
		if tx.Amount >= s.cfg.CTRThreshold {
			summary.CTRCount++
		}
		if tx.Amount >= structuringFloor && tx.Amount < s.cfg.CTRThreshold {
			summary.NearThresholdCount++
		}
	}

	// History is newest-first.
	last := history[0].CreatedAt
	first := history[len(history)-1].CreatedAt
	summary.LastAt = &last
	summary.FirstAt = &first
	return summary
}

// countRapidPairs counts adjacent pairs among the most recent transactions
// whose timestamps are less than rapidGapSeconds apart.
func countRapidPairs(history []models.Transaction) int {
	window := history
	if len(window) > rapidWindowSize {
		window = window[:rapidWindowSize]
	}

	pairs := 0
	for i := 0; i+1 < len(window); i++ {
		gap := window[i].CreatedAt.Sub(window[i+1].CreatedAt)
		if gap < 0 {
			gap = -gap
		}
		if gap < rapidGapSeconds*time.Second {
			pairs++
		}
	}
	return pairs
}
