// Package models defines the data shapes exchanged with the remote
// financial-data service and the snapshot built from them.
package models

// Holding is one portfolio position: a ticker and the amount invested in USD.
type Holding struct {
	Ticker string  `json:"ticker"`
	Amount float64 `json:"amount"`
}

// PortfolioPerformance holds portfolio-level return statistics.
type PortfolioPerformance struct {
	Returns     float64 `json:"returns"`
	Risk        float64 `json:"risk"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// PortfolioScore is the remote service's composite portfolio rating.
type PortfolioScore struct {
	PortfolioScore          float64  `json:"portfolio_score"`
	ScoreRemark             string   `json:"score_remark"`
	PercentileRank          float64  `json:"percentile_rank"`
	RiskMatchScore          *float64 `json:"risk_match_score"`
	SharpeRatioScore        float64  `json:"sharpe_ratio_score"`
	DownsideProtectionScore float64  `json:"downside_protection_score"`
}

// PortfolioAssessment is a free-text assessment of the portfolio.
type PortfolioAssessment struct {
	Assessment string `json:"assessment"`
}
