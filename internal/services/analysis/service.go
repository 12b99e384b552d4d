// Package analysis aggregates remote portfolio and per-security data into a
// single analysis result.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
)

// DefaultMaxConcurrent bounds how many ticker bundles are fetched at once.
const DefaultMaxConcurrent = 5

// PortfolioAggregationError reports a failed portfolio-level batch. When it is
// returned no part of the analysis is usable.
type PortfolioAggregationError struct {
	Err error
}

func (e *PortfolioAggregationError) Error() string {
	return fmt.Sprintf("portfolio aggregation failed: %v", e.Err)
}

func (e *PortfolioAggregationError) Unwrap() error { return e.Err }

var _ interfaces.AnalysisService = (*Service)(nil)

// Service implements AnalysisService
type Service struct {
	client        interfaces.PortfolioDataClient
	logger        *common.Logger
	maxConcurrent int
	includeNews   bool
}

// Option configures the service
type Option func(*Service)

// WithMaxConcurrent bounds concurrent ticker bundles. Values below 1 mean 1.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n < 1 {
			n = 1
		}
		s.maxConcurrent = n
	}
}

// WithIncludeNews controls whether security details carry news and AI sentiment.
func WithIncludeNews(include bool) Option {
	return func(s *Service) {
		s.includeNews = include
	}
}

// NewService creates a new analysis service
func NewService(client interfaces.PortfolioDataClient, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		client:        client,
		logger:        logger,
		maxConcurrent: DefaultMaxConcurrent,
		includeNews:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches everything the dashboard shows for holdings.
//
// An empty portfolio yields the cleared analysis without any remote call.
// Performance, score and assessment are fetched together; if any of them
// fails the whole call fails with *PortfolioAggregationError. Per-ticker
// bundles then settle independently: a failed ticker is listed in
// FailedTickers and left out of Securities.
func (s *Service) Refresh(ctx context.Context, holdings []models.Holding) (*models.PortfolioAnalysis, error) {
	if len(holdings) == 0 {
		return &models.PortfolioAnalysis{Securities: map[string]models.SecurityBundle{}}, nil
	}

	start := time.Now()
	result, err := s.fetchPortfolioLevel(ctx, holdings)
	if err != nil {
		s.logger.Error().Int("holdings", len(holdings)).Err(err).Msg("Portfolio-level fetch failed")
		return nil, &PortfolioAggregationError{Err: err}
	}

	result.Securities, result.FailedTickers = s.gatherBundles(ctx, holdings)

	s.logger.Info().
		Int("holdings", len(holdings)).
		Int("securities", len(result.Securities)).
		Int("failed", len(result.FailedTickers)).
		Dur("elapsed", time.Since(start)).
		Msg("Portfolio analysis refreshed")

	return result, nil
}

func (s *Service) fetchPortfolioLevel(ctx context.Context, holdings []models.Holding) (*models.PortfolioAnalysis, error) {
	var (
		perf       *models.PortfolioPerformance
		score      *models.PortfolioScore
		assessment *models.PortfolioAssessment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		perf, err = s.client.GetPortfolioPerformance(gctx, holdings)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		score, err = s.client.GetPortfolioScore(gctx, holdings)
		if err != nil {
			return fmt.Errorf("score: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assessment, err = s.client.GetPortfolioAssessment(gctx, holdings)
		if err != nil {
			return fmt.Errorf("assessment: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PortfolioAnalysis{
		Performance: perf,
		Score:       score,
		Assessment:  assessment,
	}, nil
}

// gatherBundles fetches every ticker's bundle with bounded concurrency and
// collects the successes. It never fails.
func (s *Service) gatherBundles(ctx context.Context, holdings []models.Holding) (map[string]models.SecurityBundle, []string) {
	bundles := make(map[string]models.SecurityBundle, len(holdings))
	var failed []string

	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, h := range holdings {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				failed = append(failed, ticker)
				mu.Unlock()
				return
			}

			bundle, err := s.fetchBundle(ctx, ticker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Security bundle fetch failed")
				failed = append(failed, ticker)
				return
			}
			bundles[ticker] = *bundle
		}(h.Ticker)
	}

	wg.Wait()

	// Report failures in portfolio order
	pos := make(map[string]int, len(holdings))
	for i, h := range holdings {
		pos[h.Ticker] = i
	}
	sort.Slice(failed, func(i, j int) bool { return pos[failed[i]] < pos[failed[j]] })

	return bundles, failed
}

// fetchBundle runs details, history and performance for one ticker together.
// Any of the three failing fails the bundle.
func (s *Service) fetchBundle(ctx context.Context, ticker string) (*models.SecurityBundle, error) {
	var bundle models.SecurityBundle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.client.GetSecurityDetails(gctx, ticker, s.includeNews)
		if err != nil {
			return fmt.Errorf("details: %w", err)
		}
		bundle.Details = *d
		return nil
	})
	g.Go(func() error {
		h, err := s.client.GetSecurityHistory(gctx, ticker)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		bundle.History = h
		return nil
	})
	g.Go(func() error {
		p, err := s.client.GetSecurityPerformance(gctx, ticker)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		bundle.Performance = *p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &bundle, nil
}
