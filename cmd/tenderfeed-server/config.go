package main

import (
	"log/slog"
	"os"
	"time"

	"tenderfeed/lib/configutil"
	"tenderfeed/lib/scrapers/fetch"
	"tenderfeed/lib/serviceutil"
	"tenderfeed/lib/telemetry"
)

type SourceConfig struct {
	// leave empty to target the real site
	BaseUrl   string `json:"base_url"`
	PaceMinMs int    `json:"pace_min_ms"`
	PaceMaxMs int    `json:"pace_max_ms"`
}

func (c SourceConfig) ClientOptions() fetch.ClientOptions {
	return fetch.ClientOptions{
		BaseUrl: c.BaseUrl,
		PaceMin: time.Duration(c.PaceMinMs) * time.Millisecond,
		PaceMax: time.Duration(c.PaceMaxMs) * time.Millisecond,
	}
}

type Config struct {
	Port      int              `json:"port"`
	Rostender SourceConfig     `json:"rostender"`
	B2B       SourceConfig     `json:"b2b"`
	Telemetry telemetry.Config `json:"telemetry"`
}

// MustLoadConfig reads the config file at path. A missing file is not
// fatal since every field has a usable default.
func MustLoadConfig(path string) Config {
	config, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		slog.Warn("no config file found, using defaults", "path", path)
		err = nil
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 9000
	}
	return config
}
