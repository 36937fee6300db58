// Package app assembles the service: storage, usecases, HTTP surface, the
// unlock scheduler, and notification fan-out.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bluelinehq/blueline/external/webhooknotify"
	"github.com/bluelinehq/blueline/internal/config"
	"github.com/bluelinehq/blueline/internal/domain/draftpick"
	"github.com/bluelinehq/blueline/internal/domain/league"
	"github.com/bluelinehq/blueline/internal/domain/player"
	"github.com/bluelinehq/blueline/internal/domain/roster"
	"github.com/bluelinehq/blueline/internal/domain/team"
	"github.com/bluelinehq/blueline/internal/domain/trade"
	"github.com/bluelinehq/blueline/internal/domain/waiver"
	"github.com/bluelinehq/blueline/internal/domain/week"
	"github.com/bluelinehq/blueline/internal/infrastructure/notify"
	"github.com/bluelinehq/blueline/internal/infrastructure/repository/memory"
	"github.com/bluelinehq/blueline/internal/infrastructure/repository/postgres"
	"github.com/bluelinehq/blueline/internal/interfaces/httpapi"
	idgen "github.com/bluelinehq/blueline/internal/platform/id"
	"github.com/bluelinehq/blueline/internal/platform/logging"
	"github.com/bluelinehq/blueline/internal/platform/resilience"
	"github.com/bluelinehq/blueline/internal/scheduler"
	"github.com/bluelinehq/blueline/internal/usecase"
)

// App holds the long-lived pieces of the running service.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	db         *sqlx.DB
	dispatcher *notify.Dispatcher
	logger     *logging.Logger
}

type repositories struct {
	league league.Repository
	team   team.Repository
	player player.Repository
	week   week.Repository
	claim  waiver.Repository
	trade  trade.Repository
	pick   draftpick.Repository
	ledger roster.Ledger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	slogger := logger.Slog()

	a := &App{logger: logger}

	repos, err := a.buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	var notifier usecase.Notifier
	if cfg.WebhookEnabled {
		sender := webhooknotify.NewClient(webhooknotify.ClientConfig{
			EndpointURL: cfg.WebhookURL,
			AuthToken:   cfg.WebhookToken,
			Timeout:     cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, slogger)

		dispatcher, err := notify.NewDispatcher(sender, cfg.NotifyWorkers, cfg.WebhookTimeout, slogger)
		if err != nil {
			a.closeDB()
			return nil, err
		}
		a.dispatcher = dispatcher
		notifier = dispatcher
	} else {
		notifier = usecase.NewNoopNotifier()
	}

	ids := idgen.NewRandomGenerator()

	rosterSvc := usecase.NewRosterService(repos.league, repos.team, repos.player, repos.week, repos.ledger, ids, slogger)
	waiverSvc := usecase.NewWaiverService(repos.league, repos.team, repos.player, repos.claim, repos.ledger, rosterSvc, notifier, ids, slogger)
	tradeSvc := usecase.NewTradeService(repos.league, repos.team, repos.player, repos.pick, repos.week, repos.trade, repos.ledger, rosterSvc, notifier, ids, slogger)
	unlockSvc := usecase.NewUnlockService(
		repos.league,
		repos.week,
		waiverSvc,
		tradeSvc,
		resilience.NewRetryPolicy(cfg.UnlockRetryAttempts, cfg.UnlockRetryBackoff...),
		slogger,
	)

	handler := httpapi.NewHandler(rosterSvc, waiverSvc, tradeSvc, unlockSvc, slogger)
	router := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if a.Server.Addr == "" {
		a.closeAll()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	if cfg.SchedulerEnabled {
		sched, err := scheduler.New(unlockSvc, cfg.UnlockCronSpec, slogger, ctx)
		if err != nil {
			a.closeAll()
			return nil, err
		}
		a.Scheduler = sched
	}

	return a, nil
}

func (a *App) buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		ledger := memory.NewLedger(nil, memory.SeedPicks())
		return repositories{
			league: memory.NewLeagueRepository(memory.SeedLeagues()),
			team:   memory.NewTeamRepository(memory.SeedTeams()),
			player: memory.NewPlayerRepository(memory.SeedPlayers()),
			week:   memory.NewWeekRepository(memory.SeedWeeks()),
			claim:  memory.NewWaiverRepository(),
			trade:  memory.NewTradeRepository(),
			pick:   ledger.Picks(),
			ledger: ledger,
		}, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}
	a.db = db

	return repositories{
		league: postgres.NewLeagueRepository(db),
		team:   postgres.NewTeamRepository(db),
		player: postgres.NewPlayerRepository(db),
		week:   postgres.NewWeekRepository(db),
		claim:  postgres.NewWaiverRepository(db),
		trade:  postgres.NewTradeRepository(db),
		pick:   postgres.NewDraftPickRepository(db),
		ledger: postgres.NewLedger(db),
	}, nil
}

// Close releases everything New opened. Safe to call after a partial build.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	a.closeAll()

	return errors.Join(errs...)
}

func (a *App) closeAll() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
		a.dispatcher = nil
	}
	a.closeDB()
}

func (a *App) closeDB() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}
