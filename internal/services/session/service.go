// Package session owns one dashboard session: the portfolio, the published
// snapshot and the notification feed.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/notify"
	"github.com/bobmcallan/folio-dashboard/internal/services/holdings"
	"github.com/bobmcallan/folio-dashboard/internal/viewmodel"
)

var (
	// ErrEmptyPortfolio is returned when analysis is requested with no holdings.
	ErrEmptyPortfolio = errors.New("portfolio is empty")
	// ErrSuperseded is returned by a refresh whose result was discarded
	// because a later refresh or edit started after it.
	ErrSuperseded = errors.New("refresh superseded by a newer request")

	ErrInvalidHolding  = holdings.ErrInvalidHolding
	ErrHoldingNotFound = holdings.ErrHoldingNotFound
)

var _ interfaces.SessionService = (*Service)(nil)

// Service is the session-level state container. The snapshot is replaced
// wholesale under mu; readers always see a complete snapshot.
type Service struct {
	holdings *holdings.Store
	analysis interfaces.AnalysisService
	market   interfaces.MarketService
	notify   *notify.Center
	logger   *common.Logger

	mu       sync.RWMutex
	snapshot *models.Snapshot

	generation atomic.Uint64
	inFlight   atomic.Int32

	marketOnce sync.Once
	marketErr  error

	onPublish func(*models.Snapshot)
	now       func() time.Time
}

// Option configures the service
type Option func(*Service)

// WithPublishHook registers fn to run after every snapshot is published.
func WithPublishHook(fn func(*models.Snapshot)) Option {
	return func(s *Service) {
		s.onPublish = fn
	}
}

// NewService creates a session with an empty portfolio and the cleared snapshot.
func NewService(
	store *holdings.Store,
	analysis interfaces.AnalysisService,
	market interfaces.MarketService,
	center *notify.Center,
	logger *common.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		holdings: store,
		analysis: analysis,
		market:   market,
		notify:   center,
		logger:   logger,
		snapshot: models.EmptySnapshot(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddHolding inserts or overwrites a holding.
func (s *Service) AddHolding(ticker string, amount float64) (models.Holding, error) {
	t, err := s.holdings.Add(ticker, amount)
	if err != nil {
		s.notify.Error("Please enter valid ticker and amount")
		return models.Holding{}, err
	}
	s.notify.Success(fmt.Sprintf("Added %s to portfolio", t))
	return models.Holding{Ticker: t, Amount: amount}, nil
}

// RemoveHolding deletes a holding. Removing the last holding publishes the
// cleared snapshot and discards any refresh still in flight.
func (s *Service) RemoveHolding(ticker string) error {
	t, err := s.holdings.Remove(ticker)
	if err != nil {
		return err
	}
	s.notify.Success(fmt.Sprintf("Removed %s from portfolio", t))

	if s.holdings.Len() == 0 {
		gen := s.generation.Add(1)
		s.publish(gen, &models.PortfolioAnalysis{})
	}
	return nil
}

// Holdings returns the portfolio in insertion order.
func (s *Service) Holdings() []models.Holding {
	return s.holdings.List()
}

// Snapshot returns the current published snapshot. It must not be mutated.
func (s *Service) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Notifications returns the notification feed.
func (s *Service) Notifications() *notify.Center {
	return s.notify
}

// Dashboard builds the dashboard view with activeTab selected.
func (s *Service) Dashboard(activeTab string) *viewmodel.Dashboard {
	return viewmodel.BuildDashboard(s.Holdings(), s.Snapshot(), s.notify.List(), s.Loading(), activeTab)
}

// Loading reports whether a refresh is in progress.
func (s *Service) Loading() bool {
	return s.inFlight.Load() > 0
}

// Analyze is the user-triggered refresh. It rejects an empty portfolio.
func (s *Service) Analyze(ctx context.Context) (*models.Snapshot, error) {
	if s.holdings.Len() == 0 {
		s.notify.Error("Please add at least one security before analyzing")
		return nil, ErrEmptyPortfolio
	}
	return s.Refresh(ctx)
}

// Refresh rebuilds the snapshot from the current holdings. The result is
// published only if no newer refresh or clearing edit started meanwhile;
// otherwise it is discarded and ErrSuperseded is returned. On a
// portfolio-level failure the published snapshot is left unchanged.
// Once started, a refresh runs to completion even if ctx is cancelled.
func (s *Service) Refresh(ctx context.Context) (*models.Snapshot, error) {
	ctx = context.WithoutCancel(ctx)

	gen := s.generation.Add(1)
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	list := s.holdings.List()
	analysis, err := s.analysis.Refresh(ctx, list)

	if s.generation.Load() != gen {
		s.logger.Info().Int64("generation", int64(gen)).Msg("Discarding superseded refresh")
		return nil, ErrSuperseded
	}

	if err != nil {
		s.notify.Error("Failed to fetch portfolio data")
		return nil, err
	}

	snap, ok := s.publish(gen, analysis)
	if !ok {
		s.logger.Info().Int64("generation", int64(gen)).Msg("Discarding superseded refresh")
		return nil, ErrSuperseded
	}

	for _, t := range analysis.FailedTickers {
		s.notify.TickerError(t, fmt.Sprintf("Failed to fetch data for %s", t))
	}
	if len(list) > 0 {
		s.notify.Success("Portfolio data updated successfully")
	}
	return snap, nil
}

// publish replaces the snapshot with one built from a, unless gen is no
// longer the latest generation.
func (s *Service) publish(gen uint64, a *models.PortfolioAnalysis) (*models.Snapshot, bool) {
	s.mu.Lock()
	if s.generation.Load() != gen || gen <= s.snapshot.Generation {
		s.mu.Unlock()
		return nil, false
	}
	next := s.snapshot.WithAnalysis(gen, a, s.now())
	s.snapshot = next
	s.mu.Unlock()

	s.logger.Debug().
		Int64("generation", int64(gen)).
		Int("securities", len(next.Securities)).
		Msg("Snapshot published")

	if s.onPublish != nil {
		s.onPublish(next)
	}
	return next, true
}

// StartMarketOverview loads market data once per session. Later calls
// return the first call's error without fetching again.
func (s *Service) StartMarketOverview(ctx context.Context) error {
	s.marketOnce.Do(func() {
		ov, err := s.market.LoadOverview(ctx)
		if err != nil {
			s.notify.Error("Failed to fetch market data")
			s.marketErr = err
			return
		}

		s.mu.Lock()
		s.snapshot = s.snapshot.WithMarket(ov)
		s.mu.Unlock()
	})
	return s.marketErr
}

// MacroHistory returns a macro series history.
func (s *Service) MacroHistory(ctx context.Context, seriesID string) ([]models.HistoryPoint, error) {
	return s.market.MacroHistory(ctx, seriesID)
}

// Forecast returns a macro series forecast.
func (s *Service) Forecast(ctx context.Context, seriesID string) ([]models.ForecastPoint, error) {
	return s.market.Forecast(ctx, seriesID)
}
