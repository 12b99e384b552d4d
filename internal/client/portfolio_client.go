// Package client provides a typed client for the remote financial-data API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
)

const (
	DefaultRateLimit = 10 // requests per second
	maxBodyBytes     = 10 << 20
)

var _ interfaces.PortfolioDataClient = (*PortfolioClient)(nil)

// PortfolioClient implements interfaces.PortfolioDataClient over HTTP.
type PortfolioClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*PortfolioClient)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *PortfolioClient) {
		c.logger = logger
	}
}

// WithRateLimit sets the request rate in requests per second. Zero disables limiting.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *PortfolioClient) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *PortfolioClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept as given.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *PortfolioClient) {
		c.httpClient = hc
	}
}

// NewPortfolioClient creates a client for the API rooted at baseURL.
func NewPortfolioClient(baseURL, apiKey string, opts ...ClientOption) *PortfolioClient {
	c := &PortfolioClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: config.DefaultAPITimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET request and decodes the JSON body into result.
func (c *PortfolioClient) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Endpoint: path, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Endpoint: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Str("endpoint", path).Err(err).Msg("Remote API unreachable")
		return &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Endpoint: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().
		Str("endpoint", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Remote API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(body)), 256),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &ResponseError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return nil
}

// EncodePortfolio renders holdings as the JSON object the API expects in
// portfolio_dict, keys in holding order: {"AAPL":1000,"MSFT":250.5}.
func EncodePortfolio(holdings []models.Holding) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range holdings {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(h.Ticker)
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(h.Amount, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.String()
}

func portfolioParams(holdings []models.Holding) url.Values {
	params := url.Values{}
	params.Set("portfolio_dict", EncodePortfolio(holdings))
	return params
}

func tickerParams(ticker string) url.Values {
	params := url.Values{}
	params.Set("ticker", ticker)
	return params
}

func seriesParams(seriesID string) url.Values {
	params := url.Values{}
	params.Set("series_id", seriesID)
	return params
}

// GetDailyInsights retrieves the market-wide daily insights.
func (c *PortfolioClient) GetDailyInsights(ctx context.Context) ([]models.DailyInsight, error) {
	var resp struct {
		Insights []models.DailyInsight `json:"insights"`
	}
	if err := c.get(ctx, "/get_daily_insights", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Insights, nil
}

// GetPortfolioAssessment retrieves the free-text portfolio assessment.
func (c *PortfolioClient) GetPortfolioAssessment(ctx context.Context, holdings []models.Holding) (*models.PortfolioAssessment, error) {
	var resp models.PortfolioAssessment
	if err := c.get(ctx, "/get_portfolio_assessment", portfolioParams(holdings), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPortfolioPerformance retrieves returns, risk and Sharpe ratio.
func (c *PortfolioClient) GetPortfolioPerformance(ctx context.Context, holdings []models.Holding) (*models.PortfolioPerformance, error) {
	var resp models.PortfolioPerformance
	if err := c.get(ctx, "/get_portfolio_performance_stats", portfolioParams(holdings), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPortfolioScore retrieves the composite portfolio score.
func (c *PortfolioClient) GetPortfolioScore(ctx context.Context, holdings []models.Holding) (*models.PortfolioScore, error) {
	var resp models.PortfolioScore
	if err := c.get(ctx, "/get_portfolio_score", portfolioParams(holdings), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSecurityAnomalies retrieves the current anomaly list.
func (c *PortfolioClient) GetSecurityAnomalies(ctx context.Context) ([]models.Anomaly, error) {
	var resp []models.Anomaly
	if err := c.get(ctx, "/security_anomalies", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetSecurityHistory retrieves the price history for ticker, oldest first as returned.
func (c *PortfolioClient) GetSecurityHistory(ctx context.Context, ticker string) ([]models.HistoryPoint, error) {
	var resp []models.HistoryPoint
	if err := c.get(ctx, "/security_history", tickerParams(ticker), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetSecurityPerformance retrieves expected return and volatility for ticker.
func (c *PortfolioClient) GetSecurityPerformance(ctx context.Context, ticker string) (*models.SecurityPerformance, error) {
	var resp models.SecurityPerformance
	if err := c.get(ctx, "/security_performance", tickerParams(ticker), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSecurityDetails retrieves fundamentals for ticker, optionally with news
// and the AI sentiment label.
func (c *PortfolioClient) GetSecurityDetails(ctx context.Context, ticker string, includeNews bool) (*models.SecurityDetails, error) {
	params := tickerParams(ticker)
	params.Set("include_news_and_ai_sentiment", strconv.FormatBool(includeNews))

	var resp struct {
		SecurityDetails models.SecurityDetails `json:"security_details"`
	}
	if err := c.get(ctx, "/get_security_details", params, &resp); err != nil {
		return nil, err
	}
	return &resp.SecurityDetails, nil
}

// GetMacroHistory retrieves the history of a macro-economic series.
func (c *PortfolioClient) GetMacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error) {
	var resp []models.HistoryPoint
	if err := c.get(ctx, "/history", seriesParams(seriesID), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetForecast retrieves the forecast of a macro-economic series.
func (c *PortfolioClient) GetForecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error) {
	var resp []models.ForecastPoint
	if err := c.get(ctx, "/forecast", seriesParams(seriesID), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAllSeries retrieves the macro series catalog.
func (c *PortfolioClient) GetAllSeries(ctx context.Context) ([]models.MacroSeries, error) {
	var resp []models.MacroSeries
	if err := c.get(ctx, "/all_series", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
