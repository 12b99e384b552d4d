package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio-dashboard/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *PortfolioClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewPortfolioClient(srv.URL, "secret-key", WithRateLimit(0))
}

func TestEncodePortfolio_KeepsOrder(t *testing.T) {
	got := EncodePortfolio([]models.Holding{
		{Ticker: "MSFT", Amount: 250.5},
		{Ticker: "AAPL", Amount: 1000},
	})
	assert.Equal(t, `{"MSFT":250.5,"AAPL":1000}`, got)
	assert.Equal(t, "{}", EncodePortfolio(nil))
}

func TestGetPortfolioScore_SendsPortfolioDict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_portfolio_score", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "secret-key", r.URL.Query().Get("api_key"))

		var dict map[string]float64
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("portfolio_dict")), &dict))
		assert.Equal(t, map[string]float64{"AAPL": 1000, "MSFT": 500}, dict)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"portfolio_score":712,"score_remark":"Good","percentile_rank":81.5,"risk_match_score":null,"sharpe_ratio_score":64,"downside_protection_score":70}`))
	})

	score, err := c.GetPortfolioScore(context.Background(), []models.Holding{
		{Ticker: "AAPL", Amount: 1000},
		{Ticker: "MSFT", Amount: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, 712.0, score.PortfolioScore)
	assert.Equal(t, "Good", score.ScoreRemark)
	assert.Nil(t, score.RiskMatchScore)
	assert.Equal(t, 70.0, score.DownsideProtectionScore)
}

func TestGetDailyInsights_UnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_daily_insights", r.URL.Path)
		w.Write([]byte(`{"insights":[{"insight":"Tech rallies","timestamp":"2026-10-01","category":"markets","url":null,"description":null,"tickers":"AAPL,MSFT","image_url":null}]}`))
	})

	insights, err := c.GetDailyInsights(context.Background())
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "Tech rallies", insights[0].Insight)
	assert.Nil(t, insights[0].URL)
}

func TestGetSecurityDetails_UnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_security_details", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
		assert.Equal(t, "true", r.URL.Query().Get("include_news_and_ai_sentiment"))
		w.Write([]byte(`{"security_details":{"ticker":"AAPL","price":189.5,"beta":1.2,"ai_sentiment":"Bullish","news":[{"headline":"iPhone sales up","source":"Wire","url":"https://n.example/1"}]}}`))
	})

	d, err := c.GetSecurityDetails(context.Background(), "AAPL", true)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", d.Ticker)
	assert.Equal(t, 189.5, d.Price)
	require.NotNil(t, d.AISentiment)
	assert.Equal(t, "Bullish", *d.AISentiment)
	require.Len(t, d.News, 1)
	assert.Equal(t, "iPhone sales up", d.News[0].Headline)
}

func TestTickerAndSeriesEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/security_history":
			assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
			w.Write([]byte(`[{"date":"2026-01-01","val":180},{"date":"2026-01-02","val":182.5}]`))
		case "/security_performance":
			w.Write([]byte(`{"expected_return":0.12,"volatility":0.25}`))
		case "/history":
			assert.Equal(t, "42", r.URL.Query().Get("series_id"))
			w.Write([]byte(`[{"date":"2026-01-01","val":3.1}]`))
		case "/forecast":
			w.Write([]byte(`[{"date":"2027-01-01","val":3.3,"high":3.9,"low":2.7}]`))
		case "/all_series":
			w.Write([]byte(`[{"series_id":42,"series_name":"CPI","country":"US"}]`))
		case "/security_anomalies":
			w.Write([]byte(`[{"ticker":"GME","description":"Volume spike"},{"description":"Broad selloff"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	hist, err := c.GetSecurityHistory(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 182.5, hist[1].Value)

	perf, err := c.GetSecurityPerformance(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 0.25, perf.Volatility)

	macro, err := c.GetMacroHistory(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, macro, 1)

	fc, err := c.GetForecast(ctx, "42")
	require.NoError(t, err)
	require.Len(t, fc, 1)
	assert.Equal(t, 2.7, fc[0].Low)

	series, err := c.GetAllSeries(ctx)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "42", series[0].SeriesID.String())

	anomalies, err := c.GetSecurityAnomalies(ctx)
	require.NoError(t, err)
	require.Len(t, anomalies, 2)
	assert.Equal(t, "", anomalies[1].Ticker)
}

func TestGet_NonOKIsResponseError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"scoring backend down"}`))
	})

	_, err := c.GetPortfolioPerformance(context.Background(), []models.Holding{{Ticker: "AAPL", Amount: 1}})
	require.Error(t, err)

	var re *ResponseError
	require.True(t, errors.As(err, &re), "expected *ResponseError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Equal(t, "/get_portfolio_performance_stats", re.Endpoint)
	assert.Contains(t, re.Message, "scoring backend down")
	assert.False(t, IsTransport(err))
}

func TestGet_MalformedBodyIsResponseError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := c.GetSecurityPerformance(context.Background(), "AAPL")
	require.Error(t, err)
	assert.True(t, IsResponse(err))
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestGet_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewPortfolioClient(srv.URL, "k", WithTimeout(50*time.Millisecond), WithRateLimit(0))
	_, err := c.GetAllSeries(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err), "expected transport error, got %v", err)
}

func TestGet_UnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewPortfolioClient(url, "k", WithRateLimit(0))
	_, err := c.GetDailyInsights(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te), "expected *TransportError, got %v", err)
	assert.Equal(t, "/get_daily_insights", te.Endpoint)
}

func TestGet_CancelledContextIsTransportError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetAllSeries(ctx)
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, calls)
}

func TestNewPortfolioClient_TrimsTrailingSlash(t *testing.T) {
	c := NewPortfolioClient("https://api.example.com/", "k")
	assert.Equal(t, "https://api.example.com", c.baseURL)
	assert.Equal(t, 20*time.Second, c.httpClient.Timeout)
}
