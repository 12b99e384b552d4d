// Package interfaces defines the contracts between folio-dashboard's layers.
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio-dashboard/internal/models"
)

// PortfolioDataClient is the remote financial-data service. One method per
// endpoint; implementations perform no retries.
type PortfolioDataClient interface {
	GetDailyInsights(ctx context.Context) ([]models.DailyInsight, error)
	GetPortfolioAssessment(ctx context.Context, holdings []models.Holding) (*models.PortfolioAssessment, error)
	GetPortfolioPerformance(ctx context.Context, holdings []models.Holding) (*models.PortfolioPerformance, error)
	GetPortfolioScore(ctx context.Context, holdings []models.Holding) (*models.PortfolioScore, error)
	GetSecurityAnomalies(ctx context.Context) ([]models.Anomaly, error)
	GetSecurityHistory(ctx context.Context, ticker string) ([]models.HistoryPoint, error)
	GetSecurityPerformance(ctx context.Context, ticker string) (*models.SecurityPerformance, error)
	GetSecurityDetails(ctx context.Context, ticker string, includeNews bool) (*models.SecurityDetails, error)
	GetMacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error)
	GetForecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error)
	GetAllSeries(ctx context.Context) ([]models.MacroSeries, error)
}
