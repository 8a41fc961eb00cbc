package config

import "os"

// ValueSource represents where an effective setting comes from.
type ValueSource string

const (
	SourceEnv     ValueSource = "env"
	SourceConfig  ValueSource = "config"
	SourceDefault ValueSource = "default"
)

// EndpointStatus describes one upstream endpoint and where its URL was set.
type EndpointStatus struct {
	Name   string      `json:"name"`
	URL    string      `json:"url"`
	Source ValueSource `json:"source"`
}

// CheckEndpoints returns the effective upstream URLs in report order.
func CheckEndpoints(cfg *Config) []EndpointStatus {
	return []EndpointStatus{
		checkEndpoint("Oil & Coal", cfg.Sources.CommoditiesURL, DefaultCommoditiesURL, "RATEWATCH_SOURCES_COMMODITIES_URL"),
		checkEndpoint("Bunker", cfg.Sources.BunkerURL, DefaultBunkerURL, "RATEWATCH_SOURCES_BUNKER_URL"),
		checkEndpoint("USD/PKR", cfg.Sources.FXURL, DefaultFXURL, "RATEWATCH_SOURCES_FX_URL"),
		checkEndpoint("KIBOR", cfg.Sources.KiborURL, DefaultKiborURL, "RATEWATCH_SOURCES_KIBOR_URL"),
		checkEndpoint("Charter", cfg.Sources.CharterURL, DefaultCharterURL, "RATEWATCH_SOURCES_CHARTER_URL"),
	}
}

// checkEndpoint decides whether value came from env, a config file, or the default.
func checkEndpoint(name, value, def, envVar string) EndpointStatus {
	status := EndpointStatus{Name: name, URL: value}
	switch {
	case os.Getenv(envVar) != "" && os.Getenv(envVar) == value:
		status.Source = SourceEnv
	case value == def:
		status.Source = SourceDefault
	default:
		status.Source = SourceConfig
	}
	return status
}
