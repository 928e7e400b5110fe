// Package ops loads and validates process configuration.
package ops

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"

	"main/internal/errors"
	"main/internal/quoter"
)

// ErrBadConfig wraps every validation failure so callers can tell a bad
// config apart from an unreadable file.
var ErrBadConfig = errors.New("bad config")

// Environment overrides for the credential fields, so secrets can stay out
// of the config file. A .env file next to the process is honored when
// present.
const (
	envKeyID     = "ZUBR_API_KEY_ID"
	envKeySecret = "ZUBR_API_KEY_SECRET"
	envURL       = "ZUBR_API_URL"
	envHost      = "ZUBR_API_HOST"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	InstrumentID               int     `json:"instrumentId"`
	Quantity                   int     `json:"quantity"`
	PositionSizeStart          int     `json:"positionSizeStart"`
	PositionSizeMax            int     `json:"positionSizeMax"`
	Shift                      float64 `json:"shift"`
	Interest                   float64 `json:"interest"`
	UseConfigStartPositionSize bool    `json:"useConfigStartPositionSize"`

	LogLevel string `json:"logLevel"`

	API       APIConfig       `json:"api"`
	Profiling ProfilingConfig `json:"profiling"`
}

// APIConfig is the exchange endpoint and credentials.
type APIConfig struct {
	URL       string `json:"url"`
	Host      string `json:"host"`
	KeyID     string `json:"keyId"`
	KeySecret string `json:"keySecret"`
}

// ProfilingConfig enables continuous profiling against a pyroscope server.
type ProfilingConfig struct {
	Enabled       bool   `json:"enabled"`
	ServerAddress string `json:"serverAddress"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Quoter    quoter.Config
	API       APIConfig
	LogLevel  string
	Profiling ProfilingConfig
}

// Load reads a JSON config file, applies environment overrides and
// validates the result.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}

	var cfg FileConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "parse config")
	}

	applyEnv(&cfg.API)

	if err := validate(cfg); err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Quoter: quoter.Config{
			InstrumentID:               cfg.InstrumentID,
			Quantity:                   cfg.Quantity,
			PositionSizeStart:          cfg.PositionSizeStart,
			PositionSizeMax:            cfg.PositionSizeMax,
			Shift:                      cfg.Shift,
			Interest:                   cfg.Interest,
			UseConfigStartPositionSize: cfg.UseConfigStartPositionSize,
		},
		API:       cfg.API,
		LogLevel:  cfg.LogLevel,
		Profiling: cfg.Profiling,
	}, nil
}

func applyEnv(api *APIConfig) {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	if v := os.Getenv(envKeyID); v != "" {
		api.KeyID = v
	}
	if v := os.Getenv(envKeySecret); v != "" {
		api.KeySecret = v
	}
	if v := os.Getenv(envURL); v != "" {
		api.URL = v
	}
	if v := os.Getenv(envHost); v != "" {
		api.Host = v
	}
}

func validate(cfg FileConfig) error {
	if cfg.InstrumentID <= 0 {
		return fmt.Errorf("%w: instrumentId must be > 0", ErrBadConfig)
	}
	if cfg.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrBadConfig)
	}
	if cfg.PositionSizeMax <= 0 {
		return fmt.Errorf("%w: positionSizeMax must be > 0", ErrBadConfig)
	}
	if cfg.Shift < 0 {
		return fmt.Errorf("%w: shift must be >= 0", ErrBadConfig)
	}
	if cfg.Interest < 0 {
		return fmt.Errorf("%w: interest must be >= 0", ErrBadConfig)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown logLevel: %s", ErrBadConfig, cfg.LogLevel)
	}
	if cfg.API.URL == "" {
		return fmt.Errorf("%w: api.url is empty", ErrBadConfig)
	}
	if cfg.API.KeyID == "" {
		return fmt.Errorf("%w: api.keyId is empty", ErrBadConfig)
	}
	if cfg.API.KeySecret == "" {
		return fmt.Errorf("%w: api.keySecret is empty", ErrBadConfig)
	}
	if cfg.Profiling.Enabled && cfg.Profiling.ServerAddress == "" {
		return fmt.Errorf("%w: profiling.serverAddress is empty", ErrBadConfig)
	}
	return nil
}
