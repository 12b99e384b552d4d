// Package market loads portfolio-independent market data: daily insights,
// anomalies and macro-economic series.
package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
)

// ErrSeriesRequired is returned when a macro call has no series id.
var ErrSeriesRequired = errors.New("series id is required")

// MarketOverviewError reports a failed overview load. Nothing from the
// failed load is usable.
type MarketOverviewError struct {
	Err error
}

func (e *MarketOverviewError) Error() string {
	return fmt.Sprintf("market overview failed: %v", e.Err)
}

func (e *MarketOverviewError) Unwrap() error { return e.Err }

var _ interfaces.MarketService = (*Service)(nil)

// Service implements MarketService
type Service struct {
	client interfaces.PortfolioDataClient
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new market service
func NewService(client interfaces.PortfolioDataClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// LoadOverview fetches daily insights, anomalies and the macro series catalog
// together. Any one failing fails the load. No retry.
func (s *Service) LoadOverview(ctx context.Context) (*models.MarketOverview, error) {
	var out models.MarketOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		insights, err := s.client.GetDailyInsights(gctx)
		if err != nil {
			return fmt.Errorf("daily insights: %w", err)
		}
		out.DailyInsights = insights
		return nil
	})
	g.Go(func() error {
		anomalies, err := s.client.GetSecurityAnomalies(gctx)
		if err != nil {
			return fmt.Errorf("anomalies: %w", err)
		}
		out.Anomalies = anomalies
		return nil
	})
	g.Go(func() error {
		series, err := s.client.GetAllSeries(gctx)
		if err != nil {
			return fmt.Errorf("macro series: %w", err)
		}
		out.MacroSeries = series
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Market overview fetch failed")
		return nil, &MarketOverviewError{Err: err}
	}

	out.LoadedAt = s.now()
	s.logger.Info().
		Int("insights", len(out.DailyInsights)).
		Int("anomalies", len(out.Anomalies)).
		Int("series", len(out.MacroSeries)).
		Msg("Market overview loaded")

	return &out, nil
}

// MacroHistory returns the history of one macro series.
func (s *Service) MacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error) {
	id := strings.TrimSpace(seriesID)
	if id == "" {
		return nil, ErrSeriesRequired
	}
	points, err := s.client.GetMacroHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("macro history %s: %w", id, err)
	}
	return points, nil
}

// Forecast returns the forecast of one macro series.
func (s *Service) Forecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error) {
	id := strings.TrimSpace(seriesID)
	if id == "" {
		return nil, ErrSeriesRequired
	}
	points, err := s.client.GetForecast(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", id, err)
	}
	return points, nil
}
