package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/segyhp/clinic-scheduler/internal/bootstrap"
	"github.com/segyhp/clinic-scheduler/internal/config"
	"github.com/segyhp/clinic-scheduler/internal/domain"
	"github.com/segyhp/clinic-scheduler/internal/handler"
	"github.com/segyhp/clinic-scheduler/internal/repository"
	"github.com/segyhp/clinic-scheduler/pkg/logger"
	"github.com/segyhp/clinic-scheduler/pkg/response"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic appointment scheduling API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var seedDemo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(seedDemo)
		},
	}
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "seed a demo doctor and patient (memory driver only)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format, "clinic-migrate")

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			db, err := bootstrap.OpenDB(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			applied, err := repository.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.Info().Int("applied", applied).Msg("migrations complete")
			return nil
		},
	}
}

func runServer(seedDemo bool) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format, "clinic-server")
	logger.SetGlobal(log)

	ctx := context.Background()

	// Initialize storage
	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	// Initialize Redis
	redisClient := bootstrap.OpenRedis(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	if seedDemo {
		if storage.Memory == nil {
			return errors.New("--seed-demo requires STORAGE_DRIVER=memory")
		}
		seed(storage.Memory, log)
	}

	svc := bootstrap.NewService(cfg, storage, redisClient, log)

	checks := map[string]handler.Pinger{}
	if storage.DB != nil {
		checks["database"] = handler.DatabasePinger(storage.DB)
	}
	if redisClient != nil {
		checks["redis"] = handler.RedisPinger(redisClient)
	}

	appointmentHandler := handler.NewAppointmentHandler(svc)
	healthHandler := handler.NewHealthHandler(checks, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(appointmentHandler, healthHandler, log)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("storage", cfg.Storage.Driver).
			Bool("redis", redisClient != nil).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

func setupRoutes(appointmentHandler *handler.AppointmentHandler, healthHandler *handler.HealthHandler, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(log))

	healthHandler.RegisterRoutes(router)
	appointmentHandler.RegisterRoutes(router)

	return router
}

// seed adds one doctor working weekdays 09:00-13:00 and one patient to the
// demo tenant.
func seed(store *repository.MemoryStore, log zerolog.Logger) {
	const tenantID = "demo"

	windows := make([]domain.ScheduleWindow, 0, 5)
	for day := 1; day <= 5; day++ {
		windows = append(windows, domain.ScheduleWindow{
			ID:        uuid.New(),
			DayOfWeek: day,
			StartTime: domain.NewTimeOfDay(9, 0),
			EndTime:   domain.NewTimeOfDay(13, 0),
			Active:    true,
		})
	}

	doctor := domain.Doctor{ID: uuid.New(), TenantID: tenantID, Name: "Dr. Demo", Schedule: domain.ScheduleTemplate{Windows: windows}}
	patient := domain.Patient{ID: uuid.New(), TenantID: tenantID, Name: "Paciente Demo"}
	store.AddDoctor(doctor)
	store.AddPatient(patient)

	log.Info().
		Str("tenant_id", tenantID).
		Str("doctor_id", doctor.ID.String()).
		Str("patient_id", patient.ID.String()).
		Msg("demo data seeded")
}
