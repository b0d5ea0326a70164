package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mantonx/moviecatalog/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Database configuration
	Database DatabaseFullConfig `yaml:"database" json:"database"`

	// Image storage configuration
	Media MediaConfig `yaml:"media" json:"media"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Catalog behaviour
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string        `yaml:"host" json:"host" env:"CATALOG_HOST" default:"0.0.0.0"`
	Port           int           `yaml:"port" json:"port" env:"CATALOG_PORT" default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" json:"read_timeout" env:"CATALOG_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" json:"write_timeout" env:"CATALOG_WRITE_TIMEOUT" default:"30s"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" json:"max_header_bytes" env:"CATALOG_MAX_HEADER_BYTES" default:"1048576"`
	AllowedOrigins []string      `yaml:"allowed_origins" json:"allowed_origins" env:"CATALOG_ALLOWED_ORIGINS"`
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the peer address is the client.
	TrustedProxies []string      `yaml:"trusted_proxies" json:"trusted_proxies" env:"CATALOG_TRUSTED_PROXIES"`
	ReleaseMode    bool          `yaml:"release_mode" json:"release_mode" env:"CATALOG_RELEASE_MODE" default:"false"`
}

// DatabaseFullConfig holds connection and pool options for either backend
type DatabaseFullConfig struct {
	Type            string        `yaml:"type" json:"type" env:"DATABASE_TYPE" default:"sqlite"`
	URL             string        `yaml:"url" json:"url" env:"DATABASE_URL"`
	Host            string        `yaml:"host" json:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port            int           `yaml:"port" json:"port" env:"POSTGRES_PORT" default:"5432"`
	Username        string        `yaml:"username" json:"username" env:"POSTGRES_USER" default:"catalog"`
	Password        string        `yaml:"password" json:"-" env:"POSTGRES_PASSWORD"`
	Database        string        `yaml:"database" json:"database" env:"POSTGRES_DB" default:"catalog"`
	SSLMode         string        `yaml:"ssl_mode" json:"ssl_mode" env:"POSTGRES_SSLMODE" default:"disable"`
	DataDir         string        `yaml:"data_dir" json:"data_dir" env:"CATALOG_DATA_DIR" default:"./catalog-data"`
	DatabasePath    string        `yaml:"database_path" json:"database_path" env:"CATALOG_DATABASE_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	LogQueries      bool          `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES" default:"false"`
}

// MediaConfig selects where uploaded images (posters, stills, portraits) live
type MediaConfig struct {
	Backend     string      `yaml:"backend" json:"backend" env:"MEDIA_BACKEND" default:"local"`
	Root        string      `yaml:"root" json:"root" env:"MEDIA_ROOT"`
	BaseURL     string      `yaml:"base_url" json:"base_url" env:"MEDIA_BASE_URL" default:"/media/"`
	MaxFileSize int64       `yaml:"max_file_size" json:"max_file_size" env:"MEDIA_MAX_FILE_SIZE" default:"10485760"`
	Minio       MinioConfig `yaml:"minio" json:"minio"`
}

// MinioConfig holds S3-compatible object storage settings
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" json:"-" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" json:"-" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" json:"bucket" env:"MINIO_BUCKET" default:"catalog-media"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl" env:"MINIO_USE_SSL" default:"false"`
	PublicURL string `yaml:"public_url" json:"public_url" env:"MINIO_PUBLIC_URL"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"CATALOG_LOG_LEVEL" default:"info"`
	Format string `yaml:"format" json:"format" env:"CATALOG_LOG_FORMAT" default:"text"`
}

// CatalogConfig holds listing defaults for the public API
type CatalogConfig struct {
	DefaultPageSize int   `yaml:"default_page_size" json:"default_page_size" env:"CATALOG_PAGE_SIZE" default:"20"`
	MaxPageSize     int   `yaml:"max_page_size" json:"max_page_size" env:"CATALOG_MAX_PAGE_SIZE" default:"100"`
	SeedStars       []int `yaml:"seed_stars" json:"seed_stars" env:"CATALOG_SEED_STARS"`
}

// ConfigManager manages application configuration with hot-reload support
type ConfigManager struct {
	config     *Config
	configPath string
	watchers   []ConfigWatcher
	mu         sync.RWMutex
}

// ConfigWatcher is called when configuration changes
type ConfigWatcher func(oldConfig, newConfig *Config)

var (
	globalConfigManager *ConfigManager
	configOnce          sync.Once
)

// GetConfigManager returns the global configuration manager instance
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config:   DefaultConfig(),
		watchers: make([]ConfigWatcher, 0),
	}
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseFullConfig{
			Type:            "sqlite",
			Host:            "localhost",
			Port:            5432,
			Username:        "catalog",
			Database:        "catalog",
			SSLMode:         "disable",
			DataDir:         "./catalog-data",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Media: MediaConfig{
			Backend:     "local",
			BaseURL:     "/media/",
			MaxFileSize: 10 * 1024 * 1024,
			Minio: MinioConfig{
				Bucket: "catalog-media",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Catalog: CatalogConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			SeedStars:       []int{1, 2, 3, 4, 5},
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		logger.Info("Loaded environment from %s", f)
	}
	return nil
}

// LoadConfig loads configuration from file and environment variables
func (cm *ConfigManager) LoadConfig(configPath string) error {
	cm.mu.Lock()

	oldConfig := *cm.config
	cm.configPath = configPath

	newConfig := DefaultConfig()

	if configPath != "" && fileExists(configPath) {
		if err := loadFromFile(configPath, newConfig); err != nil {
			cm.mu.Unlock()
			return fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// File values are kept unless an environment variable is explicitly set.
	if err := loadStructFromEnv(reflect.ValueOf(newConfig).Elem()); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validateConfig(newConfig); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDerivedConfig(newConfig)
	cm.config = newConfig
	watchers := append([]ConfigWatcher(nil), cm.watchers...)
	cm.mu.Unlock()

	for _, watcher := range watchers {
		watcher(&oldConfig, newConfig)
	}
	return nil
}

// GetConfig returns the current configuration (thread-safe)
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	configCopy := *cm.config
	return &configCopy
}

// ConfigPath returns the path the configuration was last loaded from
func (cm *ConfigManager) ConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// AddWatcher adds a configuration change watcher
func (cm *ConfigManager) AddWatcher(watcher ConfigWatcher) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.watchers = append(cm.watchers, watcher)
}

// SaveConfig saves the current configuration to file
func (cm *ConfigManager) SaveConfig() error {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.configPath == "" {
		return fmt.Errorf("no config path set")
	}

	return saveToFile(cm.configPath, cm.config)
}

func loadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".json":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
}

func saveToFile(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var data []byte
	var err error

	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadStructFromEnv(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue, ok := os.LookupEnv(envTag)
		if !ok || envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		}
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	case reflect.Slice:
		parts := strings.Split(value, ",")
		switch field.Type().Elem().Kind() {
		case reflect.String:
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			field.Set(reflect.ValueOf(parts))
		case reflect.Int:
			ints := make([]int, len(parts))
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return err
				}
				ints[i] = n
			}
			field.Set(reflect.ValueOf(ints))
		default:
			return fmt.Errorf("unsupported slice element: %v", field.Type().Elem().Kind())
		}
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	for _, proxy := range config.Server.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("invalid trusted proxy: %q", proxy)
		}
	}

	if config.Database.Type != "sqlite" && config.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}

	if config.Media.Backend != "local" && config.Media.Backend != "minio" {
		return fmt.Errorf("unsupported media backend: %s", config.Media.Backend)
	}

	if config.Media.Backend == "minio" && config.Media.Minio.Endpoint == "" {
		return fmt.Errorf("media backend minio requires an endpoint")
	}

	if config.Media.MaxFileSize <= 0 {
		return fmt.Errorf("invalid max file size: %d", config.Media.MaxFileSize)
	}

	if config.Catalog.DefaultPageSize < 1 || config.Catalog.DefaultPageSize > config.Catalog.MaxPageSize {
		return fmt.Errorf("default page size %d must be between 1 and %d",
			config.Catalog.DefaultPageSize, config.Catalog.MaxPageSize)
	}

	return nil
}

func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}

func applyDerivedConfig(config *Config) {
	if config.Database.DatabasePath == "" && config.Database.Type == "sqlite" {
		config.Database.DatabasePath = filepath.Join(config.Database.DataDir, "catalog.db")
	}

	if config.Media.Root == "" {
		config.Media.Root = filepath.Join(config.Database.DataDir, "media")
	}

	if !strings.HasSuffix(config.Media.BaseURL, "/") {
		config.Media.BaseURL += "/"
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Global convenience functions

// Get returns the current global configuration
func Get() *Config {
	return GetConfigManager().GetConfig()
}

// Load loads configuration from the specified path
func Load(configPath string) error {
	return GetConfigManager().LoadConfig(configPath)
}

// AddWatcher adds a global configuration watcher
func AddWatcher(watcher ConfigWatcher) {
	GetConfigManager().AddWatcher(watcher)
}

// Save saves the current configuration
func Save() error {
	return GetConfigManager().SaveConfig()
}
