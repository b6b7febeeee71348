package config

// PredictionConfig holds the defaults applied when query params are omitted.
type PredictionConfig struct {
	Season      int
	PlayerCount int
	TopN        int
}

// WarmerConfig controls the background run that keeps the cache hot.
type WarmerConfig struct {
	Enabled  bool
	Interval Duration
	Season   int
}

func defaultPrediction() PredictionConfig {
	return PredictionConfig{
		Season:      defaultSeason,
		PlayerCount: defaultPlayerCount,
		TopN:        defaultTopN,
	}
}

func loadPrediction(base PredictionConfig) PredictionConfig {
	return PredictionConfig{
		Season:      intEnvOrDefault(envDefaultSeason, base.Season),
		PlayerCount: intEnvOrDefault(envDefaultPlayerCount, base.PlayerCount),
		TopN:        intEnvOrDefault(envDefaultTopN, base.TopN),
	}
}

func defaultWarmer() WarmerConfig {
	return WarmerConfig{
		Enabled:  defaultWarmEnabled,
		Interval: defaultWarmInterval,
	}
}

// loadWarmer falls back to the prediction season when no warm season is set.
func loadWarmer(base WarmerConfig, prediction PredictionConfig) WarmerConfig {
	season := base.Season
	if season <= 0 {
		season = prediction.Season
	}
	return WarmerConfig{
		Enabled:  boolEnvOrDefault(envWarmEnabled, base.Enabled),
		Interval: durationEnvOrDefault(envWarmInterval, base.Interval),
		Season:   intEnvOrDefault(envWarmSeason, season),
	}
}
