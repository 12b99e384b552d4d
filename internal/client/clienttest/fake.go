// Package clienttest provides an in-memory PortfolioDataClient for tests.
package clienttest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/bobmcallan/folio-dashboard/internal/client"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
)

var _ interfaces.PortfolioDataClient = (*Fake)(nil)

// Endpoint names accepted by Fake.Fail and reported by Fake.Calls.
const (
	DailyInsights       = "daily_insights"
	PortfolioAssessment = "portfolio_assessment"
	PortfolioPerf       = "portfolio_performance"
	PortfolioScore      = "portfolio_score"
	Anomalies           = "anomalies"
	SecurityHistory     = "security_history"
	SecurityPerf        = "security_performance"
	SecurityDetails     = "security_details"
	MacroHistory        = "macro_history"
	Forecast            = "forecast"
	AllSeries           = "all_series"
)

// Fake serves canned data. Failures are configured per endpoint, optionally
// per ticker or series id, and surface as *client.ResponseError.
type Fake struct {
	mu       sync.Mutex
	failures map[string]bool
	calls    map[string]int

	// Hook, when set, runs at the start of every call with the endpoint
	// name and key (ticker, series id or ""). A non-nil error is returned
	// as-is.
	Hook func(ctx context.Context, endpoint, key string) error

	Performance models.PortfolioPerformance
	Score       models.PortfolioScore
	Assessment  models.PortfolioAssessment
	Insights    []models.DailyInsight
	AnomalyList []models.Anomaly
	Series      []models.MacroSeries
	Sentiments  map[string]string
}

// New returns a Fake with plausible default data.
func New() *Fake {
	return &Fake{
		failures:    make(map[string]bool),
		calls:       make(map[string]int),
		Performance: models.PortfolioPerformance{Returns: 12.5, Risk: 18.2, SharpeRatio: 1.1},
		Score: models.PortfolioScore{
			PortfolioScore:          712,
			ScoreRemark:             "Good",
			PercentileRank:          81,
			SharpeRatioScore:        64,
			DownsideProtectionScore: 70,
		},
		Assessment: models.PortfolioAssessment{Assessment: "Concentrated in large-cap technology."},
		Insights: []models.DailyInsight{
			{Insight: "Tech leads gains", Category: "markets", Tickers: "AAPL,MSFT"},
			{Insight: "Bond yields ease", Category: "rates"},
			{Insight: "Oil slips", Category: "commodities"},
			{Insight: "Dollar firm", Category: "fx"},
		},
		AnomalyList: []models.Anomaly{{Ticker: "GME", Description: "Volume spike"}},
		Series: []models.MacroSeries{
			{SeriesID: "1", SeriesName: "CPI", Country: "US"},
			{SeriesID: "2", SeriesName: "Unemployment", Country: "US"},
		},
		Sentiments: map[string]string{},
	}
}

// Fail makes endpoint fail. With keys, only those tickers or series ids fail.
func (f *Fake) Fail(endpoint string, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(keys) == 0 {
		f.failures[endpoint] = true
		return
	}
	for _, k := range keys {
		f.failures[endpoint+":"+k] = true
	}
}

// Recover clears every configured failure.
func (f *Fake) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]bool)
}

// Calls returns how many times endpoint was invoked.
func (f *Fake) Calls(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *Fake) enter(ctx context.Context, endpoint, key string) error {
	f.mu.Lock()
	f.calls[endpoint]++
	fail := f.failures[endpoint] || (key != "" && f.failures[endpoint+":"+key])
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, endpoint, key); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return &client.TransportError{Endpoint: endpoint, Err: err}
	}
	if fail {
		return &client.ResponseError{
			Endpoint:   endpoint,
			StatusCode: http.StatusInternalServerError,
			Message:    fmt.Sprintf("%s unavailable", endpoint),
		}
	}
	return nil
}

func (f *Fake) GetDailyInsights(ctx context.Context) ([]models.DailyInsight, error) {
	if err := f.enter(ctx, DailyInsights, ""); err != nil {
		return nil, err
	}
	return append([]models.DailyInsight(nil), f.Insights...), nil
}

func (f *Fake) GetPortfolioAssessment(ctx context.Context, holdings []models.Holding) (*models.PortfolioAssessment, error) {
	if err := f.enter(ctx, PortfolioAssessment, ""); err != nil {
		return nil, err
	}
	a := f.Assessment
	return &a, nil
}

func (f *Fake) GetPortfolioPerformance(ctx context.Context, holdings []models.Holding) (*models.PortfolioPerformance, error) {
	if err := f.enter(ctx, PortfolioPerf, ""); err != nil {
		return nil, err
	}
	p := f.Performance
	return &p, nil
}

func (f *Fake) GetPortfolioScore(ctx context.Context, holdings []models.Holding) (*models.PortfolioScore, error) {
	if err := f.enter(ctx, PortfolioScore, ""); err != nil {
		return nil, err
	}
	s := f.Score
	return &s, nil
}

func (f *Fake) GetSecurityAnomalies(ctx context.Context) ([]models.Anomaly, error) {
	if err := f.enter(ctx, Anomalies, ""); err != nil {
		return nil, err
	}
	return append([]models.Anomaly(nil), f.AnomalyList...), nil
}

func (f *Fake) GetSecurityHistory(ctx context.Context, ticker string) ([]models.HistoryPoint, error) {
	if err := f.enter(ctx, SecurityHistory, ticker); err != nil {
		return nil, err
	}
	return []models.HistoryPoint{
		{Date: "2026-01-02", Value: 100},
		{Date: "2026-01-03", Value: 101.5},
		{Date: "2026-01-04", Value: 99.8},
	}, nil
}

func (f *Fake) GetSecurityPerformance(ctx context.Context, ticker string) (*models.SecurityPerformance, error) {
	if err := f.enter(ctx, SecurityPerf, ticker); err != nil {
		return nil, err
	}
	return &models.SecurityPerformance{ExpectedReturn: 0.1, Volatility: 0.2}, nil
}

func (f *Fake) GetSecurityDetails(ctx context.Context, ticker string, includeNews bool) (*models.SecurityDetails, error) {
	if err := f.enter(ctx, SecurityDetails, ticker); err != nil {
		return nil, err
	}
	d := &models.SecurityDetails{
		Ticker:    ticker,
		Price:     100,
		MarketCap: 2.5e12,
		Beta:      1.1,
	}
	if includeNews {
		f.mu.Lock()
		if s, ok := f.Sentiments[ticker]; ok {
			d.AISentiment = &s
		}
		f.mu.Unlock()
		for i := 1; i <= 4; i++ {
			d.News = append(d.News, models.SecurityNews{
				Headline: fmt.Sprintf("%s headline %d", ticker, i),
				Source:   "Wire",
				URL:      fmt.Sprintf("https://news.example/%s/%d", ticker, i),
			})
		}
	}
	return d, nil
}

func (f *Fake) GetMacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error) {
	if err := f.enter(ctx, MacroHistory, seriesID); err != nil {
		return nil, err
	}
	return []models.HistoryPoint{{Date: "2025-01-01", Value: 3.1}, {Date: "2025-02-01", Value: 3.0}}, nil
}

func (f *Fake) GetForecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error) {
	if err := f.enter(ctx, Forecast, seriesID); err != nil {
		return nil, err
	}
	return []models.ForecastPoint{{Date: "2026-01-01", Value: 2.9, High: 3.4, Low: 2.4}}, nil
}

func (f *Fake) GetAllSeries(ctx context.Context) ([]models.MacroSeries, error) {
	if err := f.enter(ctx, AllSeries, ""); err != nil {
		return nil, err
	}
	return append([]models.MacroSeries(nil), f.Series...), nil
}

// ErrBlocked is returned by hooks built with Gate when the gate is abandoned.
var ErrBlocked = errors.New("clienttest: call blocked")

// Gate returns a hook that blocks calls to endpoint until release is closed.
func Gate(endpoint string, release <-chan struct{}) func(context.Context, string, string) error {
	return func(ctx context.Context, ep, _ string) error {
		if ep != endpoint {
			return nil
		}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ErrBlocked
		}
	}
}
