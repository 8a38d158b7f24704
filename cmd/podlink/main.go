// Podlink - Pod Climate Mediation Layer
//
// This is the main entry point for the Podlink application. Podlink
// sits between a host platform and a two-sided bed-climate pod,
// mediating commands and weekly schedules:
//   - Validated command dispatch to the pod's local HTTP API
//   - Per-side weekly schedule writes with partial-failure reporting
//   - Vitals and status polling published over MQTT, WebSocket and InfluxDB
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/awender/podlink/migrations"

	"github.com/awender/podlink/internal/api"
	"github.com/awender/podlink/internal/bridges/freesleep"
	"github.com/awender/podlink/internal/command"
	"github.com/awender/podlink/internal/engine"
	"github.com/awender/podlink/internal/infrastructure/config"
	"github.com/awender/podlink/internal/infrastructure/database"
	"github.com/awender/podlink/internal/infrastructure/influxdb"
	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/infrastructure/mqtt"
	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
	"github.com/awender/podlink/internal/telemetry"
	"github.com/awender/podlink/internal/temperature"
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
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Podlink",
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

	// Build the device identity mapping
	pods, err := pod.NewRegistry(cfg.Registry)
	if err != nil {
		return fmt.Errorf("building pod registry: %w", err)
	}
	log.Info("pod registry initialised",
		"pod_id", cfg.Registry.PodID,
		"left_id", cfg.Registry.LeftID,
		"right_id", cfg.Registry.RightID,
	)

	// Temperature conversion at the device's resolution
	converter, err := temperature.NewConverter(cfg.Temperature.Step)
	if err != nil {
		return fmt.Errorf("building temperature converter: %w", err)
	}

	// Command registry with configured ranges
	commands := command.NewRegistry(command.RegistryConfig{
		TempRange:       command.IntRange{Min: cfg.Temperature.MinF, Max: cfg.Temperature.MaxF},
		BrightnessRange: command.DefaultRegistryConfig().BrightnessRange,
	})

	// Pod device client
	device, err := freesleep.New(cfg.Device, log)
	if err != nil {
		return fmt.Errorf("building device client: %w", err)
	}
	log.Info("device client initialised", "host", cfg.Device.Host)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
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

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
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
	} else {
		log.Info("InfluxDB disabled")
	}

	// Mediation engine
	eng, err := engine.New(engine.Deps{
		Commands:  commands,
		Pods:      pods,
		Device:    device,
		Store:     schedule.NewStore(db),
		Converter: converter,
		Bounds:    schedule.Bounds{MinF: cfg.Temperature.MinF, MaxF: cfg.Temperature.MaxF},
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	if mqttClient != nil {
		eng.AddPublisher(engine.NewMQTTPublisher(mqttClient, byte(cfg.MQTT.QoS), log))
	}

	// Telemetry poller (optional)
	var poller *telemetry.Poller
	if cfg.Telemetry.Enabled {
		poller, err = telemetry.NewPoller(
			device,
			time.Duration(cfg.Telemetry.PollInterval)*time.Second,
			log,
			nil,
		)
		if err != nil {
			return fmt.Errorf("building telemetry poller: %w", err)
		}
		if mqttClient != nil {
			poller.AddSink(telemetry.NewMQTTSink(mqttClient, log))
		}
		if influxClient != nil {
			poller.AddSink(telemetry.NewInfluxSink(influxClient, pods))
		}
		poller.Start(ctx)
		defer func() {
			log.Info("stopping telemetry poller")
			poller.Stop()
		}()
		log.Info("telemetry poller started", "interval_seconds", cfg.Telemetry.PollInterval)
	} else {
		log.Info("telemetry polling disabled")
	}

	// HTTP API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Engine:   eng,
		Poller:   poller,
		Pods:     pods,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("building API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"addr", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Telemetry poller (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)
	// 5. Database

	log.Info("Podlink stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PODLINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PODLINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	// Device reachability is probed by the telemetry poller's first cycle;
	// a pod that is offline at startup must not block initialisation.

	return nil
}
