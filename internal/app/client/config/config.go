package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultLogLevel       = "info"
	defaultEnv            = "local"
	defaultConfigDir      = ".pagient"
	defaultWebsocketPath  = "/api/ws"
	defaultReconnectDelay = 5
)

type Config struct {
	Env            string `mapstructure:"app_env"`
	ServerAddress  string `mapstructure:"server_address"`
	WebsocketPath  string `mapstructure:"websocket_path"`
	LogLevel       string `mapstructure:"log_level"`
	ConfigDir      string `mapstructure:"config_dir"`
	DataPath       string `mapstructure:"data_path"`
	ReconnectDelay int    `mapstructure:"reconnect_delay_seconds"`
	EnableTLS      bool   `mapstructure:"enable_tls"`
	CACertPath     string `mapstructure:"ca_cert_path"`
}

// MustLoad loads the client configuration from the environment, an optional
// .env file and built-in defaults, and prepares the config directory.
func MustLoad() *Config {
	// Look for a .env next to the binary, then one directory up.
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("WEBSOCKET_PATH", defaultWebsocketPath)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("RECONNECT_DELAY_SECONDS", defaultReconnectDelay)
	viper.SetDefault("ENABLE_TLS", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	dataPath := filepath.Join(configDir, "pagient.db")

	config := &Config{
		Env:            viper.GetString("APP_ENV"),
		ServerAddress:  viper.GetString("SERVER_ADDRESS"),
		WebsocketPath:  viper.GetString("WEBSOCKET_PATH"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		ConfigDir:      configDir,
		DataPath:       dataPath,
		ReconnectDelay: viper.GetInt("RECONNECT_DELAY_SECONDS"),
		EnableTLS:      viper.GetBool("ENABLE_TLS"),
		CACertPath:     viper.GetString("CA_CERT_PATH"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must not be empty")
	}
	if c.WebsocketPath == "" {
		return fmt.Errorf("websocket_path must not be empty")
	}
	return nil
}

// BaseURL returns the http(s) root all REST requests are issued against.
func (c *Config) BaseURL() string {
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + c.ServerAddress
}

// WebsocketURL returns the ws(s) endpoint of the live channel.
func (c *Config) WebsocketURL() string {
	scheme := "ws://"
	if c.EnableTLS {
		scheme = "wss://"
	}
	return scheme + c.ServerAddress + c.WebsocketPath
}

// IsProd reports whether the client runs against the production environment.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal reports whether the client runs in a local development setup.
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
