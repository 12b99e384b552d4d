package models

// SecurityNews is a single news item attached to a security.
type SecurityNews struct {
	Date       string   `json:"date"`
	Headline   string   `json:"headline"`
	Source     string   `json:"source"`
	URL        string   `json:"url"`
	Summary    string   `json:"summary"`
	ImageURL   string   `json:"image_url"`
	APISource  string   `json:"api_source"`
	Language   *string  `json:"language"`
	Author     *string  `json:"author"`
	HasPaywall *bool    `json:"has_paywall"`
	Category   *string  `json:"category"`
	Relevance  *float64 `json:"relevance"`
	Sentiment  *string  `json:"sentiment"`
	Tickers    string   `json:"tickers"`
}

// SecurityDetails is the flat fundamentals record for one ticker.
type SecurityDetails struct {
	Ticker                 string             `json:"ticker"`
	SeriesType             string             `json:"series_type"`
	Volatility             float64            `json:"volatility"`
	SharpeRatio            float64            `json:"sharpe_ratio"`
	Beta                   float64            `json:"beta"`
	ListedExchange         string             `json:"listed_exchange"`
	IssueType              string             `json:"issue_type"`
	Price                  float64            `json:"price"`
	RevenuePerShare        float64            `json:"revenue_per_share"`
	EarningsPerShare       float64            `json:"earnings_per_share"`
	DividendPerShare       float64            `json:"dividend_per_share"`
	TradingVolume10Day     float64            `json:"trading_volume_10_day"`
	TradingVolume30Day     float64            `json:"trading_volume_30_day"`
	PutCallRatio           float64            `json:"put_call_ratio"`
	EnterpriseValue        float64            `json:"enterprise_value"`
	Revenue                float64            `json:"revenue"`
	RevenuePerEmployee     float64            `json:"revenue_per_employee"`
	ProfitMargin           float64            `json:"profit_margin"`
	DebtToEquity           float64            `json:"debt_to_equity"`
	GrowthFactor           float64            `json:"growth_factor"`
	InflationFactor        float64            `json:"inflation_factor"`
	LiquidityFactor        float64            `json:"liquidity_factor"`
	CommoditiesFactor      float64            `json:"commodities_factor"`
	CreditFactor           float64            `json:"credit_factor"`
	InterestRatesFactor    float64            `json:"interest_rates_factor"`
	NextEarningsDateFactor *float64           `json:"next_earnings_date_factor"`
	NextDividendDate       *string            `json:"next_dividend_date"`
	ExDividendDate         *string            `json:"ex_dividend_date"`
	RelatedSecurities      []string           `json:"related_securities"`
	News                   []SecurityNews     `json:"news"`
	AISentiment            *string            `json:"ai_sentiment"`
	Description            string             `json:"description"`
	Sector                 string             `json:"sector"`
	Industry               string             `json:"industry"`
	Website                string             `json:"website"`
	Employees              float64            `json:"employees"`
	MarketCap              float64            `json:"market_cap"`
	InvestingMethod        *string            `json:"investing_method"`
	Diversified            *bool              `json:"diversified"`
	ExpenseRatio           *float64           `json:"expense_ratio"`
	AssetClass             *string            `json:"asset_class"`
	SectorExposures        map[string]float64 `json:"sector_exposures"`
	CountryExposures       map[string]float64 `json:"country_exposures"`
	HoldingExposures       map[string]float64 `json:"holding_exposures"`
	MoreInfo               string             `json:"more_info"`
}

// HistoryPoint is one dated value of a security price or macro series.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"val"`
}

// SecurityPerformance is the expected-return/volatility pair for a ticker.
type SecurityPerformance struct {
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
}

// SecurityBundle groups everything fetched for one ticker during a refresh.
type SecurityBundle struct {
	Details     SecurityDetails     `json:"details"`
	History     []HistoryPoint      `json:"history"`
	Performance SecurityPerformance `json:"performance"`
}
