// Package app assembles the BodyTrack server from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"alcyxob/bodytrack/internal/api"
	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/config"
	"alcyxob/bodytrack/internal/metrics"
	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/repository/memory"
	mongorepo "alcyxob/bodytrack/internal/repository/mongo"
	"alcyxob/bodytrack/internal/service"
	"alcyxob/bodytrack/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Repositories is one persistence backend.
type Repositories struct {
	Tx               repository.Transactor
	Users            repository.UserRepository
	Clients          repository.ClientRepository
	Trainers         repository.TrainerRepository
	Exercises        repository.ExerciseRepository
	Routines         repository.RoutineRepository
	RoutineExercises repository.RoutineExerciseRepository
	Assignments      repository.AssignmentRepository
	Progress         repository.ProgressRepository
	Forum            repository.ForumRepository
	Subscriptions    repository.SubscriptionRepository
}

// MemoryRepositories backs every repository with one in-memory store.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Tx:               store,
		Users:            store.Users(),
		Clients:          store.Clients(),
		Trainers:         store.Trainers(),
		Exercises:        store.Exercises(),
		Routines:         store.Routines(),
		RoutineExercises: store.RoutineExercises(),
		Assignments:      store.Assignments(),
		Progress:         store.Progress(),
		Forum:            store.Forum(),
		Subscriptions:    store.Subscriptions(),
	}
}

// App holds the wired services and the HTTP router.
type App struct {
	Config   config.Config
	Plans    *catalog.Catalog
	Repos    Repositories
	Services api.Services

	health  func(ctx context.Context) error
	closers []func() error
}

// New connects the configured backends and wires every service.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg, Plans: catalog.Default()}

	// 1. Persistence
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("using the in-memory store; data is lost on exit")
		a.Repos = MemoryRepositories(memory.NewStore())
	case config.DriverMongo:
		client, err := mongorepo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() error { return mongorepo.DisconnectDB(client) })
		a.health = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }

		db := client.Database(cfg.Database.Name)
		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		mongorepo.EnsureIndexes(indexCtx, db)
		cancel()

		a.Repos = Repositories{
			Tx:               mongorepo.NewTransactor(client, cfg.Database.Transactions),
			Users:            mongorepo.NewMongoUserRepository(db),
			Clients:          mongorepo.NewMongoClientRepository(db),
			Trainers:         mongorepo.NewMongoTrainerRepository(db),
			Exercises:        mongorepo.NewMongoExerciseRepository(db),
			Routines:         mongorepo.NewMongoRoutineRepository(db),
			RoutineExercises: mongorepo.NewMongoRoutineExerciseRepository(db),
			Assignments:      mongorepo.NewMongoAssignmentRepository(db),
			Progress:         mongorepo.NewMongoProgressRepository(db),
			Forum:            mongorepo.NewMongoForumRepository(db),
			Subscriptions:    mongorepo.NewMongoSubscriptionRepository(db),
		}
		log.WithField("database", cfg.Database.Name).Info("connected to MongoDB")
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	// 2. Object storage
	files := storage.Disabled()
	if cfg.S3.Enabled() {
		s3Files, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		files = s3Files
	} else {
		log.Warn("s3.bucket_name is empty; progress photos are disabled")
	}

	// 3. Services
	a.Services = NewServices(a.Repos, a.Plans, files, cfg.JWT)
	a.Services.HealthCheck = a.health
	return a, nil
}

// NewServices builds every service on top of repos.
func NewServices(repos Repositories, plans *catalog.Catalog, files storage.FileStorage, jwt config.JWTConfig) api.Services {
	return api.Services{
		Auth:       service.NewAuthService(repos.Users, repos.Clients, repos.Trainers, plans, jwt.Secret, jwt.Expiration),
		Client:     service.NewClientService(repos.Clients, repos.Users, repos.Subscriptions, repos.Assignments),
		Trainer:    service.NewTrainerService(repos.Trainers, repos.Clients, repos.Routines, repos.Assignments),
		Exercise:   service.NewExerciseService(repos.Exercises),
		Routine:    service.NewRoutineService(repos.Routines, repos.RoutineExercises, repos.Exercises, repos.Trainers, repos.Assignments),
		Assignment: service.NewAssignmentService(repos.Assignments, repos.Routines, repos.RoutineExercises, repos.Exercises, repos.Clients, repos.Trainers),
		Progress:   service.NewProgressService(repos.Progress, repos.Clients, plans, files),
		Forum:      service.NewForumService(repos.Forum),
		Subscription: service.NewSubscriptionService(
			repos.Tx, repos.Clients, repos.Subscriptions, repos.Assignments, repos.Routines, plans, nil,
		),
		Admin:  service.NewAdminService(repos.Users, repos.Clients, repos.Subscriptions, repos.Routines, repos.Exercises),
		Policy: authz.DefaultPolicy(),
	}
}

// Router builds the gin engine with logging, recovery and metrics.
func (a *App) Router() *gin.Engine {
	gin.SetMode(a.Config.Server.Mode)

	router := gin.New()
	router.Use(api.RequestLogger(), gin.Recovery())
	if a.Config.Metrics.Enabled {
		router.Use(metrics.Middleware())
		router.GET(a.Config.Metrics.Path, metrics.Handler())
	}
	api.SetupRoutes(router, a.Services)
	return router
}

// Close releases the backends in reverse order.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
