package config

// CacheConfig selects the season-average cache backend.
// Backend is one of memory, redis, bolt or none.
type CacheConfig struct {
	Backend   string
	TTL       Duration
	Size      int
	KeyPrefix string
	RedisURL  string
	BoltPath  string
}

func defaultCache() CacheConfig {
	return CacheConfig{
		Backend:   defaultCacheBackend,
		TTL:       defaultCacheTTL,
		Size:      defaultCacheSize,
		KeyPrefix: defaultCachePrefix,
		RedisURL:  defaultRedisURL,
		BoltPath:  defaultCacheBoltPath,
	}
}

func loadCache(base CacheConfig) CacheConfig {
	return CacheConfig{
		Backend:   envOrDefault(envCacheBackend, base.Backend),
		TTL:       durationEnvOrDefault(envCacheTTL, base.TTL),
		Size:      intEnvOrDefault(envCacheSize, base.Size),
		KeyPrefix: envOrDefault(envCachePrefix, base.KeyPrefix),
		RedisURL:  envOrDefault(envRedisURL, base.RedisURL),
		BoltPath:  envOrDefault(envCacheBoltPath, base.BoltPath),
	}
}
