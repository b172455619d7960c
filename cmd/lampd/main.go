// lampd serves the on/off state of four lamps over HTTP.
//
// State lives in a key-value store (Redis by default, SQLite optionally).
// Every lamp is reset to off at startup. Changes can optionally be pushed
// to WebSocket clients, published on MQTT, written to InfluxDB and kept
// in a local SQLite history.
//
// Configuration is read from configs/config.yaml, or the file named by
// LAMPD_CONFIG, with LAMPD_* environment overrides.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-lamps/internal/api"
	"github.com/nerrad567/gray-logic-lamps/internal/bridges/lampmqtt"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/kvstore"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
	"github.com/nerrad567/gray-logic-lamps/migrations"
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
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // Linear startup sequence
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting lampd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database (sqlite store backend and/or history)
	var db *database.DB
	if cfg.NeedsDatabase() {
		db, err = openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
	}

	// Connect to the lamp store
	store, err := kvstore.Open(ctx, cfg.Store, db)
	if err != nil {
		return fmt.Errorf("opening lamp store: %w", err)
	}
	defer func() {
		log.Info("closing lamp store")
		if closeErr := store.Close(); closeErr != nil {
			log.Error("error closing lamp store", "error", closeErr)
		}
	}()
	log.Info("lamp store connected", "backend", cfg.Store.Backend)

	lamps := lamp.NewService(store, lamp.Options{
		StoreTimeout:   cfg.GetStoreTimeout(),
		StrictHardware: cfg.API.Hardware.Strict,
	})
	lamps.SetLogger(log.With("component", "lamp"))

	// Observers are registered before the startup reset so it is
	// broadcast, published and recorded like any other change.
	hub := api.NewHub(cfg.WebSocket, log.With("component", "websocket"))
	go hub.Run(ctx)
	lamps.AddObserver(hub)

	var history lamp.HistoryRepository
	if cfg.History.Enabled {
		history = lamp.NewSQLiteHistory(db.DB)
		lamps.AddObserver(lamp.HistoryObserver(history, log.With("component", "history")))
		log.Info("lamp history enabled")
	} else {
		log.Info("lamp history disabled")
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	var bridge *lampmqtt.Bridge
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(ctx, cfg.MQTT)
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

		mqttClient.SetLogger(log.With("component", "mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		bridge = lampmqtt.New(mqttClient, lamps, mqttClient.QoS())
		bridge.SetLogger(log.With("component", "lampmqtt"))
		lamps.AddObserver(bridge)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
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
		lamps.AddObserver(lamp.ObserverFunc(func(_ context.Context, c lamp.Change) {
			influxClient.WriteLampState(string(c.Name), string(c.Status), c.Source, c.At)
		}))
	} else {
		log.Info("InfluxDB disabled")
	}

	// Reset every lamp to off. The service must not serve traffic otherwise.
	if err := lamps.Initialize(ctx); err != nil {
		return fmt.Errorf("initialising lamp state: %w", err)
	}
	log.Info("lamp state initialised", "lamps", len(lamp.All()))

	// Accept MQTT commands only once the reset is done.
	if bridge != nil {
		if err := bridge.Start(ctx); err != nil {
			return fmt.Errorf("starting MQTT bridge: %w", err)
		}
	}

	if err := healthCheck(ctx, db, lamps, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	deps := api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log.With("component", "api"),
		Lamps:   lamps,
		History: history,
		Hub:     hub,
		Version: version,
	}
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	if db != nil {
		deps.DB = db
	}
	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("API server: %w", err)
	}
	log.Info("API server listening", "address", server.Addr())

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB, MQTT, lamp store, database.
	log.Info("lampd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LAMPD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LAMPD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// openDatabase opens the SQLite database and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", cfg.Database.Path)

	applied, err := db.Migrate(ctx, migrations.FS)
	if err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete", "applied", applied)

	return db, nil
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check (may be nil if unused)
//   - lamps: Lamp service whose store is checked
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, lamps *lamp.Service, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := lamps.HealthCheck(ctx); err != nil {
		return fmt.Errorf("lamp store: %w", err)
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

	return nil
}
