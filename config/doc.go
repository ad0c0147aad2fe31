// Package config loads typedflow configuration with Viper.
//
// Values come from defaults, a config.yml found in the standard locations
// (or given explicitly), and environment variables, optionally seeded from a
// .env file via godotenv. Nested keys map to UPPER_SNAKE variables, so
// store.redis.addr is overridden by STORE_REDIS_ADDR.
//
//	var cfg AppConfig
//	err := config.LoadConfig("typedflow", &cfg, config.WithConfigFile(path))
package config
