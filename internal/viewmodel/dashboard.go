package viewmodel

import (
	"net/url"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/notify"
)

const (
	maxNewsPerSecurity = 3
	maxTopInsights     = 3
	maxMacroSeries     = 12
)

// Tab identifiers.
const (
	TabOverview    = "overview"
	TabPerformance = "performance"
	TabHoldings    = "holdings"
	TabMarket      = "market"
)

// Tab is one dashboard tab.
type Tab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// HoldingView is a portfolio row.
type HoldingView struct {
	Ticker     string  `json:"ticker"`
	Amount     float64 `json:"amount"`
	AmountText string  `json:"amount_text"`
	Percentage float64 `json:"percentage"`
	ShareText  string  `json:"share_text"`
	Color      string  `json:"color"`
}

// OverviewView holds the headline metric cards.
type OverviewView struct {
	Returns     string    `json:"returns"`
	Risk        string    `json:"risk"`
	SharpeRatio string    `json:"sharpe_ratio"`
	Score       string    `json:"score"`
	ScoreRemark string    `json:"score_remark"`
	ScoreBand   ScoreBand `json:"score_band"`
	Assessment  string    `json:"assessment,omitempty"`
}

// PerformanceView holds the score breakdown and chart links.
type PerformanceView struct {
	Score              string          `json:"score"`
	ScoreRemark        string          `json:"score_remark"`
	ScoreBand          ScoreBand       `json:"score_band"`
	PercentileRank     string          `json:"percentile_rank"`
	SharpeRatioScore   string          `json:"sharpe_ratio_score"`
	DownsideProtection string          `json:"downside_protection"`
	RiskMatchScore     string          `json:"risk_match_score,omitempty"`
	Charts             []ChartLinkView `json:"charts"`
}

// ChartLinkView points at a rendered chart.
type ChartLinkView struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewsView is one headline.
type NewsView struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	URL      string `json:"url"`
	Summary  string `json:"summary,omitempty"`
}

// SecurityView is one holding's detail card.
type SecurityView struct {
	Ticker         string     `json:"ticker"`
	Sector         string     `json:"sector,omitempty"`
	Industry       string     `json:"industry,omitempty"`
	Price          string     `json:"price"`
	MarketCap      string     `json:"market_cap"`
	Beta           string     `json:"beta"`
	Volatility     string     `json:"volatility"`
	SharpeRatio    string     `json:"sharpe_ratio"`
	Revenue        string     `json:"revenue"`
	EPS            string     `json:"eps"`
	ProfitMargin   string     `json:"profit_margin"`
	ExpectedReturn string     `json:"expected_return"`
	Sentiment      Sentiment  `json:"sentiment"`
	SentimentLabel string     `json:"sentiment_label,omitempty"`
	SentimentColor string     `json:"sentiment_color"`
	SentimentIcon  string     `json:"sentiment_icon"`
	News           []NewsView `json:"news"`
	HistoryChart   string     `json:"history_chart"`
}

// InsightView is a daily market insight.
type InsightView struct {
	Insight     string `json:"insight"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// MacroSeriesView is a macro series with its chart link.
type MacroSeriesView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Chart   string `json:"chart"`
}

// MarketView holds the market tab and the landing insights card.
type MarketView struct {
	Loaded      bool              `json:"loaded"`
	Insights    []InsightView     `json:"insights"`
	TopInsights []InsightView     `json:"top_insights"`
	Anomalies   []models.Anomaly  `json:"anomalies"`
	MacroSeries []MacroSeriesView `json:"macro_series"`
}

// Dashboard is everything the tabbed dashboard renders.
type Dashboard struct {
	Generation     uint64                `json:"generation"`
	PortfolioValue string                `json:"portfolio_value"`
	TotalValue     float64               `json:"total_value"`
	Holdings       []HoldingView         `json:"holdings"`
	HasHoldings    bool                  `json:"has_holdings"`
	HasAnalysis    bool                  `json:"has_analysis"`
	Loading        bool                  `json:"loading"`
	Tabs           []Tab                 `json:"tabs"`
	Overview       *OverviewView         `json:"overview,omitempty"`
	Performance    *PerformanceView      `json:"performance,omitempty"`
	Securities     []SecurityView        `json:"securities"`
	FailedTickers  []string              `json:"failed_tickers"`
	Market         MarketView            `json:"market"`
	Notifications  []notify.Notification `json:"notifications"`
	AllocationURL  string                `json:"allocation_chart"`
}

// BuildDashboard assembles the dashboard view. activeTab falls back to
// overview when empty or unknown.
func BuildDashboard(holdings []models.Holding, snap *models.Snapshot, notes []notify.Notification, loading bool, activeTab string) *Dashboard {
	if snap == nil {
		snap = models.EmptySnapshot()
	}

	d := &Dashboard{
		Generation:     snap.Generation,
		TotalValue:     TotalValue(holdings),
		PortfolioValue: common.FormatCurrency(TotalValue(holdings)),
		HasHoldings:    len(holdings) > 0,
		Loading:        loading,
		Tabs:           buildTabs(activeTab),
		Notifications:  notes,
		FailedTickers:  snap.FailedTickers,
		Holdings:       []HoldingView{},
		Securities:     []SecurityView{},
		AllocationURL:  "/api/charts/allocation.png",
	}

	for _, a := range Allocation(holdings) {
		d.Holdings = append(d.Holdings, HoldingView{
			Ticker:     a.Ticker,
			Amount:     a.Amount,
			AmountText: common.FormatCurrency(a.Amount),
			Percentage: a.Percentage,
			ShareText:  common.FormatNumber(a.Percentage, 2) + "%",
			Color:      a.Color,
		})
	}

	d.HasAnalysis = d.HasHoldings && snap.Performance != nil && snap.Score != nil
	if d.HasAnalysis {
		d.Overview = buildOverview(snap)
		d.Performance = buildPerformance(holdings, snap)
		for _, h := range holdings {
			if b, ok := snap.Securities[h.Ticker]; ok {
				d.Securities = append(d.Securities, buildSecurity(h.Ticker, b))
			}
		}
	}

	d.Market = buildMarket(snap.Market)
	return d
}

func buildTabs(active string) []Tab {
	tabs := []Tab{
		{ID: TabOverview, Label: "Overview"},
		{ID: TabPerformance, Label: "Performance"},
		{ID: TabHoldings, Label: "Holdings"},
		{ID: TabMarket, Label: "Market"},
	}
	found := false
	for i := range tabs {
		if tabs[i].ID == active {
			tabs[i].Active = true
			found = true
		}
	}
	if !found {
		tabs[0].Active = true
	}
	return tabs
}

func buildOverview(snap *models.Snapshot) *OverviewView {
	ov := &OverviewView{
		Returns:     common.FormatPercentage(snap.Performance.Returns),
		Risk:        common.FormatNumber(snap.Performance.Risk, 2) + "%",
		SharpeRatio: common.FormatNumber(snap.Performance.SharpeRatio, 2),
		Score:       common.FormatNumber(snap.Score.PortfolioScore, 2),
		ScoreRemark: snap.Score.ScoreRemark,
		ScoreBand:   ScoreBandFor(snap.Score.PortfolioScore),
	}
	if snap.Assessment != nil {
		ov.Assessment = snap.Assessment.Assessment
	}
	return ov
}

func buildPerformance(holdings []models.Holding, snap *models.Snapshot) *PerformanceView {
	sc := snap.Score
	pv := &PerformanceView{
		Score:              common.FormatNumber(sc.PortfolioScore, 2),
		ScoreRemark:        sc.ScoreRemark,
		ScoreBand:          ScoreBandFor(sc.PortfolioScore),
		PercentileRank:     common.FormatNumber(sc.PercentileRank, 2),
		SharpeRatioScore:   common.FormatNumber(sc.SharpeRatioScore, 2),
		DownsideProtection: common.FormatNumber(sc.DownsideProtectionScore, 2),
		Charts:             []ChartLinkView{},
	}
	if sc.RiskMatchScore != nil {
		pv.RiskMatchScore = common.FormatNumber(*sc.RiskMatchScore, 2)
	}
	for _, h := range holdings {
		if _, ok := snap.Securities[h.Ticker]; ok {
			pv.Charts = append(pv.Charts, ChartLinkView{
				Title: h.Ticker + " Price History",
				URL:   historyChartURL(h.Ticker),
			})
		}
	}
	return pv
}

func buildSecurity(ticker string, b models.SecurityBundle) SecurityView {
	det := b.Details
	sent := ClassifySentiment(det.AISentiment)

	sv := SecurityView{
		Ticker:         ticker,
		Sector:         det.Sector,
		Industry:       det.Industry,
		Price:          common.FormatCurrency(det.Price),
		MarketCap:      common.FormatLargeNumber(det.MarketCap),
		Beta:           common.FormatNumber(det.Beta, 2),
		Volatility:     common.FormatNumber(det.Volatility, 2) + "%",
		SharpeRatio:    common.FormatNumber(det.SharpeRatio, 2),
		Revenue:        common.FormatLargeNumber(det.Revenue),
		EPS:            common.FormatCurrency(det.EarningsPerShare),
		ProfitMargin:   common.FormatPercentage(det.ProfitMargin),
		ExpectedReturn: common.FormatPercentage(b.Performance.ExpectedReturn),
		Sentiment:      sent,
		SentimentColor: sent.Color(),
		SentimentIcon:  sent.Icon(),
		News:           []NewsView{},
		HistoryChart:   historyChartURL(ticker),
	}
	if det.AISentiment != nil {
		sv.SentimentLabel = *det.AISentiment
	}
	for i, n := range det.News {
		if i >= maxNewsPerSecurity {
			break
		}
		sv.News = append(sv.News, NewsView{
			Headline: n.Headline,
			Source:   n.Source,
			Date:     n.Date,
			URL:      n.URL,
			Summary:  n.Summary,
		})
	}
	return sv
}

func buildMarket(m *models.MarketOverview) MarketView {
	mv := MarketView{
		Insights:    []InsightView{},
		TopInsights: []InsightView{},
		Anomalies:   []models.Anomaly{},
		MacroSeries: []MacroSeriesView{},
	}
	if m == nil {
		return mv
	}
	mv.Loaded = true

	for i, in := range m.DailyInsights {
		iv := InsightView{
			Insight:   in.Insight,
			Category:  in.Category,
			Timestamp: in.Timestamp,
		}
		if in.Description != nil {
			iv.Description = *in.Description
		}
		if in.URL != nil {
			iv.URL = *in.URL
		}
		mv.Insights = append(mv.Insights, iv)
		if i < maxTopInsights {
			mv.TopInsights = append(mv.TopInsights, iv)
		}
	}
	mv.Anomalies = append(mv.Anomalies, m.Anomalies...)

	for i, s := range m.MacroSeries {
		if i >= maxMacroSeries {
			break
		}
		id := s.SeriesID.String()
		mv.MacroSeries = append(mv.MacroSeries, MacroSeriesView{
			ID:      id,
			Name:    s.SeriesName,
			Country: s.Country,
			Chart:   "/api/charts/macro/" + url.PathEscape(id) + ".png",
		})
	}
	return mv
}

func historyChartURL(ticker string) string {
	return "/api/charts/history/" + url.PathEscape(ticker) + ".png"
}
