package interfaces

import (
	"context"

	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/notify"
	"github.com/bobmcallan/folio-dashboard/internal/viewmodel"
)

// AnalysisService aggregates remote data for a set of holdings.
type AnalysisService interface {
	Refresh(ctx context.Context, holdings []models.Holding) (*models.PortfolioAnalysis, error)
}

// MarketService loads portfolio-independent market data.
type MarketService interface {
	LoadOverview(ctx context.Context) (*models.MarketOverview, error)
	MacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error)
	Forecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error)
}

// SessionService is one dashboard session: portfolio edits, analysis and
// the published snapshot.
type SessionService interface {
	AddHolding(ticker string, amount float64) (models.Holding, error)
	RemoveHolding(ticker string) error
	Holdings() []models.Holding
	Snapshot() *models.Snapshot
	Dashboard(activeTab string) *viewmodel.Dashboard
	Notifications() *notify.Center
	Loading() bool
	Analyze(ctx context.Context) (*models.Snapshot, error)
	Refresh(ctx context.Context) (*models.Snapshot, error)
	StartMarketOverview(ctx context.Context) error
	MacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error)
	Forecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error)
}
