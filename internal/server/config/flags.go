package config

import (
	"flag"
	"os"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-q", "-w", "-m", "-k", "-l", "-v", "-u", "-p", "-b", "-g", "-e", "-i"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-q string     shared QR secret
//	-w int        QR validity, minutes
//	-m duration   refresh margin (e.g., "2m")
//	-k duration   duplicate scan window (e.g., "2s")
//	-l duration   live lookup timeout
//	-v bool       enforce latest QR version
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name (empty disables snapshots)
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-i int        PNG pixels per QR module
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.QRSecret, "q", config.QRSecret, "shared QR secret")

	qrValidity := fs.Int("w", int(config.QRValidity.Minutes()), "qr validity (in minutes)")

	fs.DurationVar(&config.RefreshMargin, "m", config.RefreshMargin, "refresh margin")
	fs.DurationVar(&config.DedupeWindow, "k", config.DedupeWindow, "duplicate scan window")
	fs.DurationVar(&config.LookupTimeout, "l", config.LookupTimeout, "live lookup timeout")
	fs.BoolVar(&config.EnforceLatestVersion, "v", config.EnforceLatestVersion, "deny superseded qr versions")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.IntVar(&config.QRImageScale, "i", config.QRImageScale, "png pixels per qr module")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.QRValidity = time.Duration(*qrValidity) * time.Minute
}
