package aml

import (
	"testing"
	"time"

	"localpay/internal/config"
	"localpay/internal/models"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestScreener() *Screener {
	s := NewScreener(config.ComplianceConfig{
		CTRThreshold: 10_000_000,
		STRThreshold: 5_000_000,
	})
	s.now = func() time.Time { return testNow }
	return s
}

// history builds a newest-first transaction list with the given amounts,
// one day apart starting yesterday.
func history(amounts ...float64) []models.Transaction {
	txs := make([]models.Transaction, len(amounts))
	for i, amount := range amounts {
		txs[i] = models.Transaction{
			ID:        uint(i + 1),
			UserID:    7,
			Amount:    amount,
			Status:    models.TransactionStatusCompleted,
			CreatedAt: testNow.AddDate(0, 0, -(i + 1)),
		}
	}
	return txs
}

func indicatorTypes(indicators []Indicator) []string {
	types := make([]string, len(indicators))
	for i, ind := range indicators {
		types[i] = ind.Type
	}
	return types
}

func TestScreener_CleanSubject(t *testing.T) {
	s := newTestScreener()
	score, level, indicators, summary := s.Screen(history(50_000, 30_000), true)

	assert.Equal(t, 0, score)
	assert.Equal(t, "low", level)
	assert.Empty(t, indicators)
	assert.Equal(t, 2, summary.Count)
}

func TestScreener_UnverifiedIdentity(t *testing.T) {
	s := newTestScreener()
	score, level, indicators, _ := s.Screen(history(50_000), false)

	assert.Equal(t, 10, score)
	assert.Equal(t, "low", level)
	assert.Equal(t, []string{IndicatorUnverifiedIdentity}, indicatorTypes(indicators))
}

func TestScreener_CTRTransactions(t *testing.T) {
	s := newTestScreener()
	score, _, indicators, summary := s.Screen(history(12_000_000), true)

	assert.Equal(t, []string{IndicatorCTRTransactions}, indicatorTypes(indicators))
	assert.Equal(t, 1, summary.CTRCount)
	assert.Equal(t, 10, score)
}

func TestScreener_Structuring(t *testing.T) {
	t.Run("three near-threshold transactions trigger", func(t *testing.T) {
		s := newTestScreener()
		_, _, indicators, summary := s.Screen(history(9_000_000, 9_500_000, 8_500_000), true)

		assert.Contains(t, indicatorTypes(indicators), IndicatorStructuring)
		assert.Equal(t, 3, summary.NearThresholdCount)
	})

	t.Run("two near-threshold transactions do not", func(t *testing.T) {
		s := newTestScreener()
		_, _, indicators, summary := s.Screen(history(9_000_000, 9_500_000), true)

		assert.NotContains(t, indicatorTypes(indicators), IndicatorStructuring)
		assert.Equal(t, 2, summary.NearThresholdCount)
	})

	t.Run("band boundaries", func(t *testing.T) {
		s := newTestScreener()
		// 8M is exactly 0.8x CTR and counts; 10M is the CTR itself and
		// does not.
		_, _, _, summary := s.Screen(history(8_000_000, 10_000_000, 7_999_999), true)
		assert.Equal(t, 1, summary.NearThresholdCount)
		assert.Equal(t, 1, summary.CTRCount)
	})
}

func TestScreener_HighVolume(t *testing.T) {
	t.Run("30-day volume at 3x STR triggers", func(t *testing.T) {
		s := newTestScreener()
		_, _, indicators, summary := s.Screen(history(7_500_000, 7_500_000), true)

		assert.Contains(t, indicatorTypes(indicators), IndicatorHighVolume)
		assert.Equal(t, 15_000_000.0, summary.Volume30Days)
	})

	t.Run("old transactions fall outside the window", func(t *testing.T) {
		s := newTestScreener()
		old := []models.Transaction{
			{ID: 1, Amount: 7_500_000, CreatedAt: testNow.AddDate(0, 0, -40)},
			{ID: 2, Amount: 7_500_000, CreatedAt: testNow.AddDate(0, 0, -45)},
		}
		_, _, indicators, summary := s.Screen(old, true)

		assert.NotContains(t, indicatorTypes(indicators), IndicatorHighVolume)
		assert.Equal(t, 0.0, summary.Volume30Days)
		assert.Equal(t, 15_000_000.0, summary.TotalAmount)
	})
}

func TestScreener_RapidTransactions(t *testing.T) {
	rapidHistory := func(n int, gap time.Duration) []models.Transaction {
		txs := make([]models.Transaction, n)
		for i := 0; i < n; i++ {
			txs[i] = models.Transaction{
				ID:        uint(i + 1),
				Amount:    10_000,
				CreatedAt: testNow.Add(-time.Duration(i) * gap),
			}
		}
		return txs
	}

	t.Run("six transactions seconds apart trigger", func(t *testing.T) {
		s := newTestScreener()
		_, _, indicators, _ := s.Screen(rapidHistory(6, 10*time.Second), true)
		assert.Contains(t, indicatorTypes(indicators), IndicatorRapidTransactions)
	})

	t.Run("five transactions yield only four pairs", func(t *testing.T) {
		s := newTestScreener()
		_, _, indicators, _ := s.Screen(rapidHistory(5, 10*time.Second), true)
		assert.NotContains(t, indicatorTypes(indicators), IndicatorRapidTransactions)
	})

	t.Run("spaced transactions do not trigger", func(t *testing.T) {
		s := newTestScreener()
		_, _, indicators, _ := s.Screen(rapidHistory(10, 5*time.Minute), true)
		assert.NotContains(t, indicatorTypes(indicators), IndicatorRapidTransactions)
	})
}

func TestScreener_StructuringScenario(t *testing.T) {
	// An unverified subject splitting deposits just under the reporting
	// threshold: four 9M transactions in a week.
	s := newTestScreener()
	score, level, indicators, _ := s.Screen(history(9_000_000, 9_000_000, 9_000_000, 9_000_000), false)

	types := indicatorTypes(indicators)
	assert.Contains(t, types, IndicatorStructuring)
	assert.Contains(t, types, IndicatorHighVolume)
	assert.Contains(t, types, IndicatorUnverifiedIdentity)

	// structuring(high,20) + volume(high,20) + unverified(medium,10)
	assert.Equal(t, 50, score)
	assert.Equal(t, "high", level)
}

func TestScreener_ScoreCap(t *testing.T) {
	// Every indicator at once stays within the cap.
	s := newTestScreener()
	rapid := make([]models.Transaction, 8)
	for i := range rapid {
		amount := 9_000_000.0
		if i == 0 {
			amount = 12_000_000
		}
		rapid[i] = models.Transaction{
			ID:        uint(i + 1),
			Amount:    amount,
			CreatedAt: testNow.Add(-time.Duration(i) * 10 * time.Second),
		}
	}

	score, level, indicators, _ := s.Screen(rapid, false)
	assert.Len(t, indicators, 5)
	// 20+10+20+10+10 = 70, critical threshold.
	assert.Equal(t, 70, score)
	assert.Equal(t, "critical", level)
	assert.LessOrEqual(t, score, 100)
}

func TestScreener_EmptyHistory(t *testing.T) {
	s := newTestScreener()
	score, level, indicators, summary := s.Screen(nil, true)

	assert.Equal(t, 0, score)
	assert.Equal(t, "low", level)
	assert.Empty(t, indicators)
	assert.Equal(t, 0, summary.Count)
	assert.Nil(t, summary.FirstAt)
	assert.Nil(t, summary.LastAt)
}
