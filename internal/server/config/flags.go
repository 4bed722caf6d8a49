package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   ops HTTP bind address (metrics, health)
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-q int      default quota, MiB
//	-x string   event bus driver (nats|kafka)
//	-n string   NATS URL
//	-k string   Kafka brokers, comma separated
//	-r string   Redis address
//	-w int      access cache TTL, seconds
//	-l string   log level
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The access cache TTL is accepted as an integer number of seconds.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:],
		"a", "m", "d", "s", "u", "p", "b", "g", "e", "q", "x", "n", "k", "r", "w", "l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "address and port to run ops HTTP server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.Int64Var(&config.DefaultQuotaMiB, "q", config.DefaultQuotaMiB, "default quota (in MiB)")

	fs.StringVar(&config.BusDriver, "x", config.BusDriver, "event bus driver (nats|kafka)")
	fs.StringVar(&config.NATSURL, "n", config.NATSURL, "NATS URL")
	brokers := fs.String("k", "", "Kafka brokers, comma separated")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")

	accessCacheTTL := fs.Int("w", int(config.AccessCacheTTL.Seconds()), "access_cache_ttl (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *brokers != "" {
		config.KafkaBrokers = splitCSV(*brokers)
	}
	config.AccessCacheTTL = time.Duration(*accessCacheTTL) * time.Second
}
