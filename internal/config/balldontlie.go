package config

import "time"

const (
	envBdlBaseURL  = "BALLDONTLIE_BASE_URL"
	envBdlAPIKey   = "BALLDONTLIE_API_KEY"
	envBdlTimeout  = "BALLDONTLIE_TIMEOUT"
	envBdlMaxPages = "BALLDONTLIE_MAX_PAGES"

	defaultBdlBaseURL  = "https://api.balldontlie.io/v1"
	defaultBdlTimeout  = 15 * time.Second
	defaultBdlMaxPages = 5
)

// BalldontlieConfig controls how we talk to the balldontlie API.
type BalldontlieConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  Duration
	MaxPages int
}

func defaultBalldontlie() BalldontlieConfig {
	return BalldontlieConfig{
		BaseURL:  defaultBdlBaseURL,
		Timeout:  defaultBdlTimeout,
		MaxPages: defaultBdlMaxPages,
	}
}

func loadBalldontlie(base BalldontlieConfig) BalldontlieConfig {
	return BalldontlieConfig{
		BaseURL:  envOrDefault(envBdlBaseURL, base.BaseURL),
		APIKey:   envOrDefault(envBdlAPIKey, base.APIKey),
		Timeout:  durationEnvOrDefault(envBdlTimeout, base.Timeout),
		MaxPages: intEnvOrDefault(envBdlMaxPages, base.MaxPages),
	}
}
