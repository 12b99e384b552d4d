package models

import (
	"encoding/json"
	"time"
)

// DailyInsight is a market-wide insight published by the remote service.
type DailyInsight struct {
	Insight     string  `json:"insight"`
	Timestamp   string  `json:"timestamp"`
	Category    string  `json:"category"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Tickers     string  `json:"tickers"`
	ImageURL    *string `json:"image_url"`
}

// Anomaly is an unusual movement flagged by the remote service.
type Anomaly struct {
	Ticker      string `json:"ticker,omitempty"`
	Description string `json:"description"`
}

// MacroSeries describes one macro-economic series in the catalog.
type MacroSeries struct {
	SeriesID   json.Number `json:"series_id"`
	SeriesName string      `json:"series_name"`
	Country    string      `json:"country"`
}

// ForecastPoint is one forecast value with its confidence band.
type ForecastPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"val"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
}

// MarketOverview is the portfolio-independent market data loaded once per session.
type MarketOverview struct {
	DailyInsights []DailyInsight `json:"daily_insights"`
	Anomalies     []Anomaly      `json:"anomalies"`
	MacroSeries   []MacroSeries  `json:"macro_series"`
	LoadedAt      time.Time      `json:"loaded_at"`
}
