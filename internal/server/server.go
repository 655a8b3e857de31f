// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/cache"
	"github.com/deepsea-systems/rovhub/internal/config"
	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/hubservice"
	"github.com/deepsea-systems/rovhub/internal/integrity"
	"github.com/deepsea-systems/rovhub/internal/migrate"
	"github.com/deepsea-systems/rovhub/internal/monitoring"
	"github.com/deepsea-systems/rovhub/internal/repository/sqlstore"
)

// Server owns the data core's lifecycle: database connection, schema
// migrations, service construction, the operational health endpoint, and
// graceful shutdown. The mission REST API and UI live in separate services
// that consume the hub through its service layer.
type Server struct {
	router     *mux.Router
	config     *config.Config
	srv        *http.Server
	db         database.DB
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	router := mux.NewRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, router)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		router: router,
		config: cfg,
		srv:    srv,
	}
}

// Start connects the database, applies pending migrations, builds the hub
// service and serves the health endpoint until a shutdown signal arrives.
func (s *Server) Start() error {
	db, err := openDatabase(s.config.Database)
	if err != nil {
		return err
	}
	s.db = db

	runner := migrate.NewRunner(db)
	if err := runner.Apply(context.Background(), migrate.Log); err != nil {
		return err
	}

	s.hubservice = buildHubService(s.config, db)
	if err := s.hubservice.Validate(); err != nil {
		return err
	}
	s.monitoring = monitoring.NewService(monitoring.Config{})

	s.setupCleanupHandlers()
	s.setupRoutes()

	go func() {
		nuts.L.Infof("[Server] Health endpoint listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing database: %v", err)
	}

	nuts.L.Infof("[Server] Shut down successfully")
	return nil
}

func (s *Server) setupRoutes() {
	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := s.db.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"status":"` + status + `","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup("mission.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Mission %s and all associated data deleted", id)
		s.monitoring.RecordEvent("mission_deletion", map[string]string{
			"mission_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("sensor.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Sensor %s and its calibrations deleted", id)
		s.monitoring.RecordEvent("sensor_deletion", map[string]string{
			"sensor_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("deployment.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Deployment %s deleted", id)
		s.monitoring.RecordEvent("deployment_deletion", map[string]string{
			"deployment_id": id,
		})
	})
}

func openDatabase(cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return database.NewSQLiteDB(cfg.SQLitePath)
	default:
		return database.NewPostgresDB(cfg.Postgres)
	}
}

// buildHubService wires repositories, integrity engine and cache into the
// hub service.
func buildHubService(cfg *config.Config, db database.DB) *hubservice.HubService {
	missions := sqlstore.NewMissionRepository(db)
	sensors := sqlstore.NewSensorRepository(db)
	calibrations := sqlstore.NewCalibrationRepository(db)
	hardware := sqlstore.NewHardwareRepository(db)
	deployments := sqlstore.NewDeploymentRepository(db)
	navSamples := sqlstore.NewNavSampleRepository(db, cfg.Ingest.BatchSize)
	logFiles := sqlstore.NewLogFileRepository(db)

	engine := integrity.New(sqlstore.NewPolicyStore(db))
	c := cache.New(context.Background(), cfg.Redis)

	return hubservice.New(
		missions, sensors, calibrations, hardware, deployments,
		navSamples, logFiles, engine, c,
		cfg.Ingest.LockRetry, cfg.Ingest.LockRetryBackoff,
	)
}
