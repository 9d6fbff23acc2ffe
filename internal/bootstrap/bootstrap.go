// Package bootstrap wires storage, Redis and the appointment service from
// configuration for the server and scheduler binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/segyhp/clinic-scheduler/internal/cache"
	"github.com/segyhp/clinic-scheduler/internal/config"
	"github.com/segyhp/clinic-scheduler/internal/repository"
	"github.com/segyhp/clinic-scheduler/internal/service"
)

// Storage groups the repositories for one storage driver.
type Storage struct {
	Appointments repository.AppointmentRepository
	Doctors      repository.DoctorRepository
	Patients     repository.PatientRepository

	// DB is nil for the memory driver
	DB *sqlx.DB
	// Memory is nil for the postgres driver
	Memory *repository.MemoryStore
}

func (s *Storage) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// OpenDB connects to Postgres with the configured pool limits.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// OpenStorage builds the repositories for the configured driver.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := repository.NewMemoryStore()
		return &Storage{
			Appointments: store.Appointments(),
			Doctors:      store.Doctors(),
			Patients:     store.Patients(),
			Memory:       store,
		}, nil
	case config.StorageDriverPostgres:
		db, err := OpenDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return &Storage{
			Appointments: repository.NewAppointmentRepository(db),
			Doctors:      repository.NewDoctorRepository(db),
			Patients:     repository.NewPatientRepository(db),
			DB:           db,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// OpenRedis returns a client when Redis is enabled, nil otherwise.
func OpenRedis(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewService assembles the appointment service. With a nil client the
// Redis-backed collaborators are left out.
func NewService(cfg *config.Config, storage *Storage, client *redis.Client, logger zerolog.Logger) *service.AppointmentService {
	opts := []service.Option{service.WithLogger(logger)}
	if client != nil {
		opts = append(opts,
			service.WithScheduleCache(cache.NewScheduleCache(client, cfg.Scheduling.ScheduleCacheTTL)),
			service.WithConsultationTimer(cache.NewConsultationTimer(client)),
			service.WithRecordLinker(cache.NewRecordLinkQueue(client)),
		)
	}

	return service.NewAppointmentService(storage.Appointments, storage.Doctors, storage.Patients, service.Config{
		SlotDuration:          cfg.Scheduling.SlotDuration,
		EnforceSlotDuration:   cfg.Scheduling.EnforceSlotDuration,
		RequireWithinSchedule: cfg.Scheduling.RequireWithinSchedule,
	}, opts...)
}
