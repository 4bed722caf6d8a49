package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophmedia/internal/flagx"
	"github.com/dmitrijs2005/gophmedia/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// Only keys present in the file override the target Config.
type JsonConfig struct {
	EndpointAddrGRPC    string          `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP    string          `json:"endpoint_addr_http"`
	DatabaseDSN         string          `json:"database_dsn"`
	DatabaseMaxConns    int32           `json:"database_max_conns"`
	SecretKey           string          `json:"secret_key"`
	S3RootUser          string          `json:"s3_root_user"`
	S3RootPassword      string          `json:"s3_root_password"`
	S3Bucket            string          `json:"s3_bucket"`
	S3Region            string          `json:"s3_region"`
	S3BaseEndpoint      string          `json:"s3_base_endpoint"`
	PresignTTL          *timex.Duration `json:"presign_ttl"`
	DefaultQuotaMiB     int64           `json:"default_quota_mib"`
	MaxMessageSizeBytes int             `json:"max_message_size_bytes"`
	BusDriver           string          `json:"bus_driver"`
	NATSURL             string          `json:"nats_url"`
	KafkaBrokers        []string        `json:"kafka_brokers"`
	RedisAddr           string          `json:"redis_addr"`
	AccessCacheTTL      *timex.Duration `json:"access_cache_ttl"`
	LogLevel            string          `json:"log_level"`
	LogFormat           string          `json:"log_format"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DatabaseMaxConns > 0 {
		config.DatabaseMaxConns = c.DatabaseMaxConns
	}
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.PresignTTL != nil {
		config.PresignTTL = c.PresignTTL.Duration
	}
	if c.DefaultQuotaMiB > 0 {
		config.DefaultQuotaMiB = c.DefaultQuotaMiB
	}
	if c.MaxMessageSizeBytes > 0 {
		config.MaxMessageSizeBytes = c.MaxMessageSizeBytes
	}
	setString(&config.BusDriver, c.BusDriver)
	setString(&config.NATSURL, c.NATSURL)
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.RedisAddr, c.RedisAddr)
	if c.AccessCacheTTL != nil {
		config.AccessCacheTTL = c.AccessCacheTTL.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
