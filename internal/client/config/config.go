package config

import "time"

// Config holds runtime settings for the access CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gateway gRPC endpoint.
//   - AccessToken: HS256 bearer token identifying the holder or admin.
//   - DataDir: directory of the local token cache (created on start).
//   - Location: scanner location recorded with every scan.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - QRSecret: shared QR secret; when set, issued tokens are decoded
//     locally before they are cached or shown.
type Config struct {
	ServerEndpointAddr  string
	AccessToken         string
	DataDir             string
	Location            string
	OnlineCheckInterval time.Duration
	QRSecret            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = ".library"
	c.Location = "main entrance"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
