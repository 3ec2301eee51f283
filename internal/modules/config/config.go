package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"fx_terminal/internal/models"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	tokenBrokerENV    = "BROKER_TOKEN"
)

// Config ...
type Config struct {
	// Data source mode: "paper" (simulated ledger) or "live" (broker connector).
	Mode string `yaml:"mode"`

	Account struct {
		Currency     string  `yaml:"currency"`
		StartingCash float64 `yaml:"starting_cash"`
	} `yaml:"account"`

	// Tradable FX spot pairs, keyed by broker UIC.
	Instruments []models.Instrument `yaml:"instruments"`

	// Substituted when the feed cannot produce a price (availability over accuracy).
	DefaultPrices map[int]float64 `yaml:"default_prices"`

	// UICs the ingestion loop polls into the price history.
	Watch []int `yaml:"watch"`

	Feed struct {
		Mode string `yaml:"mode"` // sim | ws
		URL  string `yaml:"url"`
	} `yaml:"feed"`

	Broker struct {
		BaseURL    string `yaml:"base_url"`
		Token      string `yaml:"token"`
		ClientKey  string `yaml:"client_key"`
		AccountKey string `yaml:"account_key"`
	} `yaml:"broker"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Notify string `yaml:"notify"` // stdout | telegram

	MonitorInterval    time.Duration `yaml:"monitor_interval"`
	MonitorStopTimeout time.Duration `yaml:"monitor_stop_timeout"`
	IngestInterval     time.Duration `yaml:"ingest_interval"`

	HistoryLimit int `yaml:"history_limit"`

	Health struct {
		Addr string `yaml:"health_addr"`
	} `yaml:"health"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		Mode: getenvDefault("TERMINAL_MODE", "paper"),

		Notify: getenvDefault("NOTIFY_SINK", "stdout"),

		MonitorInterval:    durationFromEnv("MONITOR_INTERVAL", "500ms"),
		MonitorStopTimeout: durationFromEnv("MONITOR_STOP_TIMEOUT", "2s"),
		IngestInterval:     durationFromEnv("INGEST_INTERVAL", "1s"),

		HistoryLimit: intFromEnv("HISTORY_LIMIT", 1000),
	}
	config.Account.Currency = getenvDefault("ACCOUNT_CURRENCY", "USD")
	config.Account.StartingCash = floatFromEnv("STARTING_CASH", 1_000_000)
	config.Feed.Mode = getenvDefault("FEED_MODE", "sim")
	config.Health.Addr = getenvDefault("HEALTH_ADDR", ":8080")

	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if len(config.Instruments) == 0 {
		config.Instruments = DefaultInstruments()
	}
	if len(config.DefaultPrices) == 0 {
		config.DefaultPrices = DefaultPrices()
	}
	if len(config.Watch) == 0 {
		for _, inst := range config.Instruments {
			config.Watch = append(config.Watch, inst.UIC)
		}
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if token := os.Getenv(tokenBrokerENV); token != "" {
		config.Broker.Token = token
	}

	return &config, nil
}

// DefaultInstruments — the FX spot pairs the terminal ships with.
func DefaultInstruments() []models.Instrument {
	return []models.Instrument{
		{UIC: 16, Symbol: "EUR/DKK"},
		{UIC: 17, Symbol: "EUR/GBP"},
		{UIC: 21, Symbol: "EUR/USD"},
		{UIC: 22, Symbol: "GBP/USD"},
		{UIC: 31, Symbol: "USD/JPY"},
	}
}

// DefaultPrices — per-instrument fallback when the feed has nothing.
func DefaultPrices() map[int]float64 {
	return map[int]float64{
		16: 7.45,
		17: 0.86,
		21: 1.09,
		22: 1.27,
		31: 149.0,
	}
}

// Instrument looks a pair up by UIC.
func (c *Config) Instrument(uic int) (models.Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.UIC == uic {
			return inst, true
		}
	}
	return models.Instrument{}, false
}

// InstrumentBySymbol looks a pair up by display symbol.
func (c *Config) InstrumentBySymbol(symbol string) (models.Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.Symbol == symbol {
			return inst, true
		}
	}
	return models.Instrument{}, false
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
