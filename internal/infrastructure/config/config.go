package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Podlink.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Device      DeviceConfig      `yaml:"device"`
	Registry    RegistryConfig    `yaml:"registry"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Database    DatabaseConfig    `yaml:"database"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
	Security    SecurityConfig    `yaml:"security"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DeviceConfig contains connection settings for the pod device.
type DeviceConfig struct {
	// Host is the base URL of the pod's local HTTP API (e.g. "http://192.168.1.50:3000").
	Host string `yaml:"host"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`

	// Retry controls retry behaviour for idempotent requests.
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig contains retry/backoff settings for device requests.
//
// Retries apply only to network-class failures (timeouts, connection
// errors, 5xx responses) on idempotent operations. Requests the device
// explicitly rejects are never retried.
type RetryConfig struct {
	// MaxAttempts is the total attempt count including the first try.
	MaxAttempts int `yaml:"max_attempts"`

	// InitialDelayMs is the delay before the first retry (milliseconds).
	InitialDelayMs int `yaml:"initial_delay_ms"`

	// MaxDelayMs caps the exponential backoff delay (milliseconds).
	MaxDelayMs int `yaml:"max_delay_ms"`
}

// RegistryConfig contains the fixed external device identifiers.
//
// These map host-platform device IDs onto the pod and its two sides.
// The mapping is built once at startup and immutable afterwards.
type RegistryConfig struct {
	PodID   string `yaml:"pod_id"`
	LeftID  string `yaml:"left_id"`
	RightID string `yaml:"right_id"`
}

// TemperatureConfig contains the device temperature envelope.
//
// The rounding granularity and accepted range mirror the pod firmware,
// so they live in configuration rather than constants.
type TemperatureConfig struct {
	// Step is the device's supported resolution in °F (e.g. 0.5).
	Step float64 `yaml:"step"`

	// MinF and MaxF bound accepted temperatures in °F.
	MinF int `yaml:"min_f"`
	MaxF int `yaml:"max_f"`
}

// TelemetryConfig contains vitals polling settings.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`

	// PollInterval is the number of seconds between vitals polls.
	PollInterval int `yaml:"poll_interval"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains JWT token settings.
//
// When Secret is empty the API runs unauthenticated, which is
// acceptable only on a trusted LAN segment.
type JWTConfig struct {
	Secret         string `yaml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PODLINK_SECTION_KEY
// For example: PODLINK_DEVICE_HOST, PODLINK_DATABASE_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "pod-001",
			Name: "Podlink",
		},
		Device: DeviceConfig{
			Timeout: 10,
			Retry: RetryConfig{
				MaxAttempts:    3,
				InitialDelayMs: 500,
				MaxDelayMs:     5000,
			},
		},
		Registry: RegistryConfig{
			PodID:   "pod",
			LeftID:  "pod-left",
			RightID: "pod-right",
		},
		Temperature: TemperatureConfig{
			Step: 0.5,
			MinF: 55,
			MaxF: 110,
		},
		Telemetry: TelemetryConfig{
			Enabled:      true,
			PollInterval: 30,
		},
		Database: DatabaseConfig{
			Path:        "./data/podlink.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: true,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "podlink-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8093,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL: 15,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PODLINK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("PODLINK_DEVICE_HOST"); v != "" {
		cfg.Device.Host = v
	}

	// Database
	if v := os.Getenv("PODLINK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("PODLINK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PODLINK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PODLINK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("PODLINK_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("PODLINK_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security - JWT secret
	if v := os.Getenv("PODLINK_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.Host == "" {
		errs = append(errs, "device.host is required (set PODLINK_DEVICE_HOST or device.host)")
	} else if !strings.HasPrefix(c.Device.Host, "http://") && !strings.HasPrefix(c.Device.Host, "https://") {
		errs = append(errs, "device.host must start with http:// or https://")
	}
	if c.Device.Timeout <= 0 {
		errs = append(errs, "device.timeout must be positive")
	}
	if c.Device.Retry.MaxAttempts < 1 {
		errs = append(errs, "device.retry.max_attempts must be at least 1")
	}

	// Registry validation - the three identifiers must be distinct
	ids := []struct {
		key string
		val string
	}{
		{"registry.pod_id", c.Registry.PodID},
		{"registry.left_id", c.Registry.LeftID},
		{"registry.right_id", c.Registry.RightID},
	}
	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		if id.val == "" {
			errs = append(errs, id.key+" is required")
			continue
		}
		if other, dup := seen[id.val]; dup {
			errs = append(errs, fmt.Sprintf("%s duplicates %s (%q)", id.key, other, id.val))
		}
		seen[id.val] = id.key
	}

	// Temperature validation
	if c.Temperature.Step <= 0 {
		errs = append(errs, "temperature.step must be positive")
	}
	if c.Temperature.MinF >= c.Temperature.MaxF {
		errs = append(errs, "temperature.min_f must be below temperature.max_f")
	}

	// Telemetry validation
	if c.Telemetry.Enabled && c.Telemetry.PollInterval <= 0 {
		errs = append(errs, "telemetry.poll_interval must be positive")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetDeviceTimeout returns the per-request device timeout as a Duration.
func (c *Config) GetDeviceTimeout() time.Duration {
	return time.Duration(c.Device.Timeout) * time.Second
}

// GetPollInterval returns the telemetry poll interval as a Duration.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Telemetry.PollInterval) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// InitialRetryDelay returns the first retry backoff delay as a Duration.
func (r RetryConfig) InitialRetryDelay() time.Duration {
	return time.Duration(r.InitialDelayMs) * time.Millisecond
}

// MaxRetryDelay returns the backoff delay cap as a Duration.
func (r RetryConfig) MaxRetryDelay() time.Duration {
	return time.Duration(r.MaxDelayMs) * time.Millisecond
}
