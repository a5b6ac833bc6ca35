package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// URIConfig holds URI resolver configuration
type URIConfig struct {
	IPFSGateways []string `mapstructure:"ipfs_gateways"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
// Publishing is disabled when URL is empty
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// MetricsConfig holds the prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// SyncConfig holds the worker pacing configuration shared by all chains
type SyncConfig struct {
	StepInterval       time.Duration `mapstructure:"step_interval"`        // Sleep between two backfill windows
	WorkerRestartDelay time.Duration `mapstructure:"worker_restart_delay"` // Delay before a failed worker is restarted
	ResubscribeDelay   time.Duration `mapstructure:"resubscribe_delay"`    // Delay before a dropped subscription is reopened
	ProfileTimeout     time.Duration `mapstructure:"profile_timeout"`      // Timeout of the best-effort off-chain profile fetch
	MaxLogAttempts     int           `mapstructure:"max_log_attempts"`     // Failed runs at the same log before it is skipped; 0 retries forever
}

// ReconciliationConfig holds the reconciliation poller configuration
type ReconciliationConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	Delay         time.Duration `mapstructure:"delay"`
	BatchSize     int           `mapstructure:"batch_size"`
	LeaseDuration time.Duration `mapstructure:"lease_duration"`
	Worker        WorkerConfig  `mapstructure:"worker"`
}

// EnricherConfig holds the off-chain metadata enricher configuration
type EnricherConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batch_size"`
	MaxRetries  int           `mapstructure:"max_retries"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Worker      WorkerConfig  `mapstructure:"worker"`
}

// ContractConfig holds a watched contract of a chain
type ContractConfig struct {
	Address      string `mapstructure:"address"`
	DeployHeight uint64 `mapstructure:"deploy_height"`
	// Events overrides the event kinds watched on this contract.
	// Empty means every kind the contract emits.
	Events []domain.EventKind `mapstructure:"events"`
}

// Configured reports whether the contract has an address
func (c ContractConfig) Configured() bool {
	return c.Address != ""
}

// WatchedEvents returns the event kinds to run a worker for
func (c ContractConfig) WatchedEvents(kind domain.ContractKind) []domain.EventKind {
	if len(c.Events) > 0 {
		return c.Events
	}
	return domain.ContractEventKinds[kind]
}

// ContractsConfig holds the fixed marketplace contracts of a chain
type ContractsConfig struct {
	Sticker  ContractConfig `mapstructure:"sticker"`
	Pasar    ContractConfig `mapstructure:"pasar"`
	Register ContractConfig `mapstructure:"register"`
}

// Get returns the contract of the given kind
func (c ContractsConfig) Get(kind domain.ContractKind) (ContractConfig, bool) {
	switch kind {
	case domain.ContractSticker:
		return c.Sticker, c.Sticker.Configured()
	case domain.ContractPasar:
		return c.Pasar, c.Pasar.Configured()
	case domain.ContractRegister:
		return c.Register, c.Register.Configured()
	default:
		return ContractConfig{}, false
	}
}

// ChainConfig holds the configuration of one marketplace deployment
type ChainConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	WebSocketURL         string        `mapstructure:"ws_url"`
	RPCURL               string        `mapstructure:"rpc_url"`
	Step                 uint64        `mapstructure:"step"`
	CollectionStep       uint64        `mapstructure:"collection_step"`
	RPCRateLimit         float64       `mapstructure:"rpc_rate_limit"` // requests per second, 0 disables limiting
	RPCBurst             int           `mapstructure:"rpc_burst"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`

	Contracts ContractsConfig `mapstructure:"contracts"`

	// WatermarkSeeds maps an event kind to the contract whose deploy height
	// seeds its watermark when no event has been stored yet
	WatermarkSeeds map[string]domain.ContractKind `mapstructure:"watermark_seeds"`
}

// SeedHeight returns the watermark used for a tuple without stored events.
// An explicit per event kind seed wins over the emitting contract's own deploy height.
// User-registered collections are scanned from genesis.
func (c ChainConfig) SeedHeight(kind domain.EventKind, contract domain.ContractKind) uint64 {
	if seed, ok := c.WatermarkSeeds[string(kind)]; ok {
		if cc, ok := c.Contracts.Get(seed); ok {
			return cc.DeployHeight
		}
	}
	if cc, ok := c.Contracts.Get(contract); ok {
		return cc.DeployHeight
	}
	return 0
}

// SubscriptionURL returns the endpoint used for log subscriptions
func (c ChainConfig) SubscriptionURL() string {
	if c.WebSocketURL != "" {
		return c.WebSocketURL
	}
	return c.RPCURL
}

// ChainSyncConfig holds configuration for chain-sync
type ChainSyncConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Database       DatabaseConfig               `mapstructure:"database"`
	NATS           NATSConfig                   `mapstructure:"nats"`
	URI            URIConfig                    `mapstructure:"uri"`
	Metrics        MetricsConfig                `mapstructure:"metrics"`
	Sync           SyncConfig                   `mapstructure:"sync"`
	Reconciliation ReconciliationConfig         `mapstructure:"reconciliation"`
	Enricher       EnricherConfig               `mapstructure:"enricher"`
	Chains         map[domain.Chain]ChainConfig `mapstructure:"chains"`
}

// EnabledChains returns the enabled chains in a stable order
func (c *ChainSyncConfig) EnabledChains() []domain.Chain {
	var chains []domain.Chain
	for chain, cc := range c.Chains {
		if cc.Enabled {
			chains = append(chains, chain)
		}
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })
	return chains
}

// AdminConfig holds configuration for the operator tools
type AdminConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
}

// LoadSyncConfig loads configuration for chain-sync
func LoadSyncConfig(configFile string, envPath string) (*ChainSyncConfig, error) {
	v := configureViper("chain-sync", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "CHAIN_EVENTS")
	v.SetDefault("nats.connection_name", "ff-chain-sync")
	v.SetDefault("uri.ipfs_gateways", []string{domain.DEFAULT_IPFS_GATEWAY})
	v.SetDefault("metrics.listen", ":9090")
	v.SetDefault("sync.step_interval", "10s")
	v.SetDefault("sync.worker_restart_delay", "1m")
	v.SetDefault("sync.resubscribe_delay", "5s")
	v.SetDefault("sync.profile_timeout", "10s")
	v.SetDefault("sync.max_log_attempts", 10)
	v.SetDefault("reconciliation.poll_interval", "1s")
	v.SetDefault("reconciliation.delay", "1s")
	v.SetDefault("reconciliation.batch_size", 50)
	v.SetDefault("reconciliation.lease_duration", "1m")
	v.SetDefault("reconciliation.worker.pool_size", 10)
	v.SetDefault("reconciliation.worker.queue_size", 100)
	v.SetDefault("enricher.interval", "10s")
	v.SetDefault("enricher.batch_size", 5)
	v.SetDefault("enricher.max_retries", domain.MAX_METADATA_RETRIES)
	v.SetDefault("enricher.http_timeout", "30s")
	v.SetDefault("enricher.worker.pool_size", 5)
	v.SetDefault("enricher.worker.queue_size", 50)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg ChainSyncConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyChainDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadAdminConfig loads configuration for the operator tools
func LoadAdminConfig(configFile string, envPath string) (*AdminConfig, error) {
	v := configureViper("metadata-reset", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 2)
	v.SetDefault("database.max_idle_conns", 1)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AdminConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

// Default per chain values, applied after unmarshal since viper defaults
// cannot address entries of a map keyed by chain
const (
	defaultStep                 = 10000
	defaultCollectionStep       = 20000
	defaultBlockHeadTTL         = 5 * time.Second
	defaultBlockHeadStaleWindow = time.Minute
)

func applyChainDefaults(cfg *ChainSyncConfig) {
	for chain, cc := range cfg.Chains {
		if cc.Step == 0 {
			cc.Step = defaultStep
		}
		if cc.CollectionStep == 0 {
			cc.CollectionStep = defaultCollectionStep
		}
		if cc.BlockHeadTTL == 0 {
			cc.BlockHeadTTL = defaultBlockHeadTTL
		}
		if cc.BlockHeadStaleWindow == 0 {
			cc.BlockHeadStaleWindow = defaultBlockHeadStaleWindow
		}
		if cc.RPCRateLimit > 0 && cc.RPCBurst == 0 {
			cc.RPCBurst = 1
		}
		cfg.Chains[chain] = cc
	}
}

func (c *ChainSyncConfig) validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}

	for chain, cc := range c.Chains {
		if !domain.IsValidChain(chain) {
			return fmt.Errorf("chains.%s: unsupported chain", chain)
		}
		if !cc.Enabled {
			continue
		}
		if cc.WebSocketURL == "" && cc.RPCURL == "" {
			return fmt.Errorf("chains.%s: ws_url or rpc_url is required", chain)
		}
		if !cc.Contracts.Pasar.Configured() {
			return fmt.Errorf("chains.%s: contracts.pasar.address is required", chain)
		}
		for _, kind := range []domain.ContractKind{domain.ContractSticker, domain.ContractPasar, domain.ContractRegister} {
			contract, ok := cc.Contracts.Get(kind)
			if !ok {
				continue
			}
			if !common.IsHexAddress(contract.Address) {
				return fmt.Errorf("chains.%s: contracts.%s.address is not a valid address", chain, kind)
			}
			supported := domain.ContractEventKinds[kind]
			for _, event := range contract.Events {
				if !containsEventKind(supported, event) {
					return fmt.Errorf("chains.%s: contracts.%s does not emit %s", chain, kind, event)
				}
			}
		}
		for kind, seed := range cc.WatermarkSeeds {
			if _, ok := cc.Contracts.Get(seed); !ok {
				return fmt.Errorf("chains.%s: watermark_seeds.%s names an unconfigured contract %q", chain, kind, seed)
			}
		}
	}

	if len(c.EnabledChains()) == 0 {
		return errors.New("at least one chain must be enabled")
	}

	return nil
}

func containsEventKind(kinds []domain.EventKind, kind domain.EventKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/chain-sync/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_CHAIN_SYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// URI
		"uri.ipfs_gateways",
		// Metrics
		"metrics.enabled",
		"metrics.listen",
		// Sync
		"sync.step_interval",
		"sync.worker_restart_delay",
		"sync.resubscribe_delay",
		"sync.profile_timeout",
		"sync.max_log_attempts",
		// Reconciliation
		"reconciliation.poll_interval",
		"reconciliation.delay",
		"reconciliation.batch_size",
		"reconciliation.lease_duration",
		"reconciliation.worker.pool_size",
		"reconciliation.worker.queue_size",
		// Enricher
		"enricher.interval",
		"enricher.batch_size",
		"enricher.max_retries",
		"enricher.http_timeout",
		"enricher.worker.pool_size",
		"enricher.worker.queue_size",
	}

	// Endpoints usually carry API keys, so they can be supplied per chain from the environment
	for _, chain := range domain.Chains {
		commonKeys = append(commonKeys,
			fmt.Sprintf("chains.%s.enabled", chain),
			fmt.Sprintf("chains.%s.ws_url", chain),
			fmt.Sprintf("chains.%s.rpc_url", chain),
		)
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
