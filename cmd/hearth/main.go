// Hearth Core - Home Integration Platform
//
// This is the main entry point for the Hearth Core application.
// Hearth Core supervises cloud integrations behind a local-first API:
//   - Persisted issue registry with repair flows
//   - Cloud hub bridge for covers, climate, water heaters and locks
//   - Music streaming services exposed through the service registry
//   - REST + WebSocket API with JWT authentication
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/hearthway/hearth-core/migrations"

	"github.com/hearthway/hearth-core/internal/api"
	"github.com/hearthway/hearth-core/internal/audit"
	"github.com/hearthway/hearth-core/internal/auth"
	"github.com/hearthway/hearth-core/internal/device"
	"github.com/hearthway/hearth-core/internal/events"
	"github.com/hearthway/hearth-core/internal/hub"
	"github.com/hearthway/hearth-core/internal/infrastructure/config"
	"github.com/hearthway/hearth-core/internal/infrastructure/database"
	"github.com/hearthway/hearth-core/internal/infrastructure/influxdb"
	"github.com/hearthway/hearth-core/internal/infrastructure/logging"
	"github.com/hearthway/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/media"
	"github.com/hearthway/hearth-core/internal/repair"
	"github.com/hearthway/hearth-core/internal/service"
	"github.com/hearthway/hearth-core/internal/setup"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Hearth Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load the persisted issue registry
	store := issue.NewStore(cfg.Issues.Path, time.Duration(cfg.Issues.SaveDelayMS)*time.Millisecond)
	issues := issue.NewRegistry(store, version)
	issues.SetLogger(log)
	if loadErr := issues.Load(); loadErr != nil {
		return fmt.Errorf("loading issue registry: %w", loadErr)
	}
	defer func() {
		log.Info("flushing issue store")
		if closeErr := issues.Close(); closeErr != nil {
			log.Error("error flushing issue store", "error", closeErr)
		}
	}()
	log.Info("issue registry loaded", "issues", issues.Len())

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Mirror core state changes onto the bus
	publisher := events.NewPublisher(mqttClient, log)
	issues.OnChange(publisher.HandleIssueEvent)

	// Device registry
	devices := device.NewRegistry()
	devices.SetLogger(log)
	devices.OnStateChange(publisher.HandleDeviceState)

	// Connect to InfluxDB (optional) and record device state history
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		devices.OnStateChange(func(dev device.Device, snapshot map[string]any) {
			influxClient.WriteDeviceState(dev.URL(), string(dev.Class()), snapshot)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Service registry with audit recording
	services := service.NewRegistry()
	services.SetLogger(log)

	auditRepo := audit.NewSQLiteRepository(db.DB)
	recorder := audit.NewCallRecorder(auditRepo)
	recorder.SetLogger(log)
	services.SetRecorder(recorder)

	// User accounts
	users := auth.NewUserRepository(db.DB)
	if _, seedErr := auth.SeedAdmin(ctx, users, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Repair flows
	repairs := repair.NewManager(issues)
	repairs.SetLogger(log)

	// Integration supervisor
	supervisor, err := setup.NewSupervisor(setup.Config{}, issues)
	if err != nil {
		return fmt.Errorf("creating supervisor: %w", err)
	}
	supervisor.SetLogger(log)
	defer func() {
		log.Info("stopping integrations")
		supervisor.Close()
	}()

	if registerErr := registerIntegrations(cfg, supervisor, repairs, devices, services, issues, log); registerErr != nil {
		return fmt.Errorf("registering integrations: %w", registerErr)
	}

	// API server
	apiServer, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log,
		Issues:     issues,
		Devices:    devices,
		Services:   services,
		Repairs:    repairs,
		Supervisor: supervisor,
		Users:      users,
		Audit:      auditRepo,
		MQTT:       mqttClient,
		DB:         db.DB,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Fan state changes out to WebSocket subscribers
	wsHub := apiServer.WSHub()
	issues.OnChange(func(ev issue.Event) {
		wsHub.Broadcast(api.ChannelIssueChanged, ev)
	})
	devices.OnStateChange(func(dev device.Device, snapshot map[string]any) {
		wsHub.Broadcast(api.ChannelDeviceState, map[string]any{
			"device_url": dev.URL(),
			"name":       dev.Name(),
			"class":      dev.Class(),
			"state":      snapshot,
		})
	})
	supervisor.SetOnStatusChange(func(id string, status setup.Status) {
		publisher.HandleIntegrationStatus(id, status)
		wsHub.Broadcast(api.ChannelIntegrationStatus, map[string]any{
			"instance_id": id,
			"status":      status,
		})
	})

	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// First setup attempts run synchronously; retries continue in the
	// background.
	supervisor.Start(ctx)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Supervisor (integration teardown)
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Issue store flush
	// 6. Database

	log.Info("Hearth Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// registerIntegrations adds each enabled integration to the supervisor and
// registers its reauthorization repair flow.
func registerIntegrations(
	cfg *config.Config,
	supervisor *setup.Supervisor,
	repairs *repair.Manager,
	devices *device.Registry,
	services *service.Registry,
	issues *issue.Registry,
	log *logging.Logger,
) error {
	if cfg.Hub.Enabled {
		hubInteg, err := hub.NewIntegration(hub.IntegrationOptions{
			Config: hub.Config{
				URL:      cfg.Hub.URL,
				Username: cfg.Hub.Username,
				Password: cfg.Hub.Password,
			},
			Registry:     devices,
			PollInterval: time.Duration(cfg.Hub.PollInterval) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("creating hub integration: %w", err)
		}
		ictx := &setup.Context{
			InstanceID: "hub",
			Domain:     "hub",
			Logger:     log.With("integration", "hub"),
			Issues:     issues,
			Services:   services,
		}
		if err := supervisor.Add("hub", "hub", hubInteg, ictx); err != nil {
			return fmt.Errorf("adding hub integration: %w", err)
		}
		repairs.RegisterHandler("hub", "auth_required", reauthFactory(supervisor,
			"Update the hub credentials in the configuration, then confirm to retry."))
		log.Info("hub integration registered", "url", cfg.Hub.URL)
	} else {
		log.Info("hub integration disabled")
	}

	if cfg.Media.Enabled {
		mediaInteg := media.NewIntegration(media.Config{
			APIURL: cfg.Media.APIURL,
			Token:  cfg.Media.Token,
			Market: cfg.Media.Market,
		})
		ictx := &setup.Context{
			InstanceID: "media",
			Domain:     "media",
			Logger:     log.With("integration", "media"),
			Issues:     issues,
			Services:   services,
		}
		if err := supervisor.Add("media", "media", mediaInteg, ictx); err != nil {
			return fmt.Errorf("adding media integration: %w", err)
		}
		repairs.RegisterHandler("media", "auth_required", reauthFactory(supervisor,
			"Update the streaming service token in the configuration, then confirm to retry."))
		log.Info("media integration registered", "api_url", cfg.Media.APIURL)
	} else {
		log.Info("media integration disabled")
	}

	return nil
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	// Check InfluxDB (if enabled)
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

// reauthFlow is the repair flow behind auth_required issues: a single
// confirm step that asks the supervisor to retry the instance once the
// user has fixed the credentials.
type reauthFlow struct {
	instanceID  string
	supervisor  *setup.Supervisor
	description string
}

// reauthFactory builds reauth flows bound to the issue's instance.
func reauthFactory(supervisor *setup.Supervisor, description string) repair.Factory {
	return func(iss issue.Issue) repair.Flow {
		instanceID, _ := iss.Data["instance_id"].(string)
		if instanceID == "" {
			instanceID = iss.Domain
		}
		return &reauthFlow{
			instanceID:  instanceID,
			supervisor:  supervisor,
			description: description,
		}
	}
}

// Begin shows the confirm form.
func (f *reauthFlow) Begin(_ context.Context, _ issue.Issue) repair.StepResult {
	return repair.Form("confirm", f.description, service.NewSchema())
}

// Submit retries the instance. A failed retry attempt re-raises the issue
// through the supervisor, so completing the flow here is safe either way.
func (f *reauthFlow) Submit(ctx context.Context, stepID string, _ map[string]any) (repair.StepResult, error) {
	if stepID != "confirm" {
		return repair.StepResult{}, repair.ErrUnexpectedStep
	}
	if err := f.supervisor.Retry(ctx, f.instanceID); err != nil {
		return repair.Abort("retry failed: " + err.Error()), nil
	}
	return repair.Done(), nil
}
