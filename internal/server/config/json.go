package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/flagx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// use timex.Duration, so both "5m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC     string         `json:"endpoint_addr_grpc"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	QRSecret             string         `json:"qr_secret"`
	QRValidity           timex.Duration `json:"qr_validity"`
	RefreshMargin        timex.Duration `json:"refresh_margin"`
	DedupeWindow         timex.Duration `json:"dedupe_window"`
	LookupTimeout        timex.Duration `json:"lookup_timeout"`
	EnforceLatestVersion *bool          `json:"enforce_latest_version"`
	S3RootUser           string         `json:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	SnapshotURLTTL       timex.Duration `json:"snapshot_url_ttl"`
	QRImageScale         int            `json:"qr_image_scale"`
}

// parseJson overlays values from the file named by -c / -config onto config.
// Keys missing from the file keep their current value. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.QRSecret, c.QRSecret)
	setDuration(&config.QRValidity, c.QRValidity)
	setDuration(&config.RefreshMargin, c.RefreshMargin)
	setDuration(&config.DedupeWindow, c.DedupeWindow)
	setDuration(&config.LookupTimeout, c.LookupTimeout)
	if c.EnforceLatestVersion != nil {
		config.EnforceLatestVersion = *c.EnforceLatestVersion
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.SnapshotURLTTL, c.SnapshotURLTTL)
	if c.QRImageScale > 0 {
		config.QRImageScale = c.QRImageScale
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
