package app

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/folio-dashboard/internal/cache"
	"github.com/bobmcallan/folio-dashboard/internal/client"
	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/bobmcallan/folio-dashboard/internal/handlers"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/mcp"
	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/notify"
	"github.com/bobmcallan/folio-dashboard/internal/services/analysis"
	"github.com/bobmcallan/folio-dashboard/internal/services/holdings"
	"github.com/bobmcallan/folio-dashboard/internal/services/market"
	"github.com/bobmcallan/folio-dashboard/internal/services/session"
)

// marketLoadTimeout bounds the background market overview load.
const marketLoadTimeout = 2 * time.Minute

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Client     interfaces.PortfolioDataClient
	Session    *session.Service
	ChartCache *cache.ChartCache

	// HTTP handlers
	HealthHandler        *handlers.HealthHandler
	VersionHandler       *handlers.VersionHandler
	DashboardHandler     *handlers.DashboardHandler
	PortfolioHandler     *handlers.PortfolioHandler
	SnapshotHandler      *handlers.SnapshotHandler
	MarketHandler        *handlers.MarketHandler
	NotificationsHandler *handlers.NotificationsHandler
	ChartHandler         *handlers.ChartHandler
	MCPHandler           *mcp.Handler

	cancel context.CancelFunc
}

// New initializes the application against the configured remote API.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	dataClient := client.NewPortfolioClient(cfg.API.BaseURL, cfg.API.APIKey,
		client.WithLogger(logger),
		client.WithTimeout(cfg.API.GetTimeout()),
		client.WithRateLimit(cfg.API.RateLimit),
	)
	return NewWithClient(cfg, logger, dataClient), nil
}

// NewWithClient initializes the application with the given data client.
func NewWithClient(cfg *config.Config, logger *common.Logger, dataClient interfaces.PortfolioDataClient) *App {
	a := &App{
		Config: cfg,
		Logger: logger,
		Client: dataClient,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "" && env != "development" && env != "dev" && !cfg.IsProduction() {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value")
	}

	a.initServices()
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a
}

// initServices wires the session and its collaborators.
func (a *App) initServices() {
	a.ChartCache = cache.New(a.Config.Charts.GetCacheTTL(), a.Config.Charts.MaxEntries)

	analysisSvc := analysis.NewService(a.Client, a.Logger,
		analysis.WithMaxConcurrent(a.Config.API.MaxConcurrentTickers),
		analysis.WithIncludeNews(a.Config.API.IncludeNews),
	)
	marketSvc := market.NewService(a.Client, a.Logger)

	a.Session = session.NewService(
		holdings.NewStore(),
		analysisSvc,
		marketSvc,
		notify.NewCenter(notify.DefaultCapacity, a.Logger),
		a.Logger,
		session.WithPublishHook(func(snap *models.Snapshot) {
			a.ChartCache.DropGenerationsBefore(snap.Generation)
		}),
	)

	a.Logger.Debug().
		Int("max_concurrent_tickers", a.Config.API.MaxConcurrentTickers).
		Bool("include_news", a.Config.API.IncludeNews).
		Msg("services initialized")
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.DashboardHandler = handlers.NewDashboardHandler(a.Session, a.Logger)
	a.PortfolioHandler = handlers.NewPortfolioHandler(a.Session, a.Logger)
	a.SnapshotHandler = handlers.NewSnapshotHandler(a.Session, a.Logger)
	a.MarketHandler = handlers.NewMarketHandler(a.Session, a.Logger)
	a.NotificationsHandler = handlers.NewNotificationsHandler(a.Session, a.Logger)
	a.ChartHandler = handlers.NewChartHandler(a.Session, a.ChartCache, a.Logger)
	a.MCPHandler = mcp.NewHandler(a.Session, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Start begins background work: the once-per-session market overview load.
// It returns immediately.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, marketLoadTimeout)
		defer cancel()

		if err := a.Session.StartMarketOverview(loadCtx); err != nil {
			a.Logger.Warn().Err(err).Msg("market overview unavailable")
			return
		}
		a.Logger.Info().Msg("market overview loaded")
	}()
}

// Close stops background work.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	return nil
}
