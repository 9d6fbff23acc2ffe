package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/segyhp/clinic-scheduler/internal/bootstrap"
	"github.com/segyhp/clinic-scheduler/internal/config"
	"github.com/segyhp/clinic-scheduler/internal/domain"
	"github.com/segyhp/clinic-scheduler/pkg/logger"
	"github.com/segyhp/clinic-scheduler/pkg/utils"
)

// sweeper closes stale appointments for one tenant.
type sweeper interface {
	SweepNoShows(ctx context.Context, tenantID string, before domain.Date) (int, error)
}

// tenantLister yields the tenants a sweep covers.
type tenantLister func(ctx context.Context) ([]string, error)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(os.Stderr, "error", "json", "clinic-scheduler")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format, "clinic-scheduler")
	logger.SetGlobal(log)
	log.Info().Msg("starting no-show scheduler")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer storage.Close()

	redisClient := bootstrap.OpenRedis(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	svc := bootstrap.NewService(cfg, storage, redisClient, log)

	tenants := tenantLister(storage.Doctors.ListTenants)
	if len(cfg.Scheduler.Tenants) > 0 {
		fixed := cfg.Scheduler.Tenants
		tenants = func(context.Context) ([]string, error) { return fixed, nil }
	}

	// Initialize cron scheduler in the clinic's timezone
	cronLogger := cron.PrintfLogger(&log)
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	// Schedule tasks
	if err := setupCronJobs(ctx, c, cfg, svc, tenants, log); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule jobs")
	}

	// Start the scheduler
	c.Start()
	log.Info().Str("cron", cfg.Scheduler.NoShowCron).Str("timezone", cfg.Scheduler.Timezone).Msg("scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()

	log.Info().Msg("shutting down scheduler")
	<-c.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func setupCronJobs(ctx context.Context, c *cron.Cron, cfg *config.Config, svc sweeper, tenants tenantLister, log zerolog.Logger) error {
	loc := cfg.Location()

	// Nightly job closing appointments nobody showed up for
	_, err := c.AddFunc(cfg.Scheduler.NoShowCron, func() {
		runSweep(ctx, svc, tenants, time.Now(), loc, log)
	})
	return err
}

// runSweep marks open appointments of previous days as no_asistio for every
// tenant and returns the total closed. A failing tenant does not stop the others.
func runSweep(ctx context.Context, svc sweeper, tenants tenantLister, now time.Time, loc *time.Location, log zerolog.Logger) int {
	today := domain.DateOf(utils.MidnightIn(now, loc))

	ids, err := tenants(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tenants")
		return 0
	}

	total := 0
	for _, tenantID := range ids {
		closed, err := svc.SweepNoShows(ctx, tenantID, today)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenantID).Msg("no-show sweep failed")
			continue
		}
		total += closed
	}

	log.Info().Str("before", today.String()).Int("tenants", len(ids)).Int("closed", total).Msg("no-show sweep complete")
	return total
}
