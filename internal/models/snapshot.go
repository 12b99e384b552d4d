package models

import "time"

// PortfolioAnalysis is the result of one aggregation pass over the holdings.
type PortfolioAnalysis struct {
	Performance   *PortfolioPerformance     `json:"performance"`
	Score         *PortfolioScore           `json:"score"`
	Assessment    *PortfolioAssessment      `json:"assessment"`
	Securities    map[string]SecurityBundle `json:"securities"`
	FailedTickers []string                  `json:"failed_tickers"`
}

// Cleared reports whether the analysis carries no portfolio-level data.
func (a *PortfolioAnalysis) Cleared() bool {
	return a == nil || (a.Performance == nil && a.Score == nil && a.Assessment == nil)
}

// Snapshot is the immutable view of everything the dashboard renders.
// A published Snapshot is never mutated; updates replace it wholesale.
type Snapshot struct {
	Generation    uint64                    `json:"generation"`
	BuiltAt       time.Time                 `json:"built_at"`
	Performance   *PortfolioPerformance     `json:"performance"`
	Score         *PortfolioScore           `json:"score"`
	Assessment    *PortfolioAssessment      `json:"assessment"`
	Securities    map[string]SecurityBundle `json:"securities"`
	FailedTickers []string                  `json:"failed_tickers"`
	Market        *MarketOverview           `json:"market"`
}

// EmptySnapshot returns the cleared snapshot a session starts with.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Securities: map[string]SecurityBundle{}}
}

// WithAnalysis returns a copy of s carrying a, stamped with generation gen.
func (s *Snapshot) WithAnalysis(gen uint64, a *PortfolioAnalysis, now time.Time) *Snapshot {
	next := &Snapshot{
		Generation: gen,
		BuiltAt:    now,
		Securities: map[string]SecurityBundle{},
	}
	if s != nil {
		next.Market = s.Market
	}
	if a != nil {
		next.Performance = a.Performance
		next.Score = a.Score
		next.Assessment = a.Assessment
		for k, v := range a.Securities {
			next.Securities[k] = v
		}
		next.FailedTickers = append([]string(nil), a.FailedTickers...)
	}
	return next
}

// WithMarket returns a copy of s carrying the market overview m.
func (s *Snapshot) WithMarket(m *MarketOverview) *Snapshot {
	next := *s
	next.Market = m
	return &next
}
