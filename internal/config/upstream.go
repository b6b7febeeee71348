package config

// UpstreamConfig bounds how hard we lean on the stats provider.
type UpstreamConfig struct {
	RatePerSecond float64
	Burst         int
	MaxAttempts   int
	Backoff       Duration
}

func defaultUpstream() UpstreamConfig {
	return UpstreamConfig{
		RatePerSecond: defaultUpstreamRate,
		Burst:         defaultUpstreamBurst,
		MaxAttempts:   defaultUpstreamAttempts,
		Backoff:       defaultUpstreamBackoff,
	}
}

func loadUpstream(base UpstreamConfig) UpstreamConfig {
	return UpstreamConfig{
		RatePerSecond: floatEnvOrDefault(envUpstreamRate, base.RatePerSecond),
		Burst:         intEnvOrDefault(envUpstreamBurst, base.Burst),
		MaxAttempts:   intEnvOrDefault(envUpstreamAttempts, base.MaxAttempts),
		Backoff:       durationEnvOrDefault(envUpstreamBackoff, base.Backoff),
	}
}
