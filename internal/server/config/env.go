package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GOPHMEDIA_"

// dotenvFiles are loaded (if present) before the environment is read.
// Variables already set in the process environment win.
var dotenvFiles = []string{".env"}

// parseEnv overlays GOPHMEDIA_* environment variables. Malformed numeric or
// duration values panic, the same way a broken JSON file does.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				panic(fmt.Errorf("load %s: %w", f, err))
			}
		}
	}

	config.EndpointAddrGRPC = getenv("GRPC_ADDR", config.EndpointAddrGRPC)
	config.EndpointAddrHTTP = getenv("HTTP_ADDR", config.EndpointAddrHTTP)
	config.DatabaseDSN = getenv("DATABASE_DSN", config.DatabaseDSN)
	config.DatabaseMaxConns = int32(getenvInt("DATABASE_MAX_CONNS", int(config.DatabaseMaxConns)))
	config.SecretKey = getenv("SECRET_KEY", config.SecretKey)
	config.S3RootUser = getenv("S3_ROOT_USER", config.S3RootUser)
	config.S3RootPassword = getenv("S3_ROOT_PASSWORD", config.S3RootPassword)
	config.S3Bucket = getenv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getenv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getenv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
	config.PresignTTL = getenvDuration("PRESIGN_TTL", config.PresignTTL)
	config.DefaultQuotaMiB = int64(getenvInt("DEFAULT_QUOTA_MIB", int(config.DefaultQuotaMiB)))
	config.MaxMessageSizeBytes = getenvInt("MAX_MESSAGE_SIZE_BYTES", config.MaxMessageSizeBytes)
	config.BusDriver = getenv("BUS_DRIVER", config.BusDriver)
	config.NATSURL = getenv("NATS_URL", config.NATSURL)
	if v := getenv("KAFKA_BROKERS", ""); v != "" {
		config.KafkaBrokers = splitCSV(v)
	}
	config.RedisAddr = getenv("REDIS_ADDR", config.RedisAddr)
	config.AccessCacheTTL = getenvDuration("ACCESS_CACHE_TTL", config.AccessCacheTTL)
	config.LogLevel = getenv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getenv("LOG_FORMAT", config.LogFormat)
}

func getenv(k, def string) string {
	if v := os.Getenv(envPrefix + k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, k, err))
	}
	return n
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, k, err))
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
