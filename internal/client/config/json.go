package config

import (
	"encoding/json"
	"os"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/flagx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	AccessToken         string         `json:"access_token"`
	DataDir             string         `json:"data_dir"`
	Location            string         `json:"location"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	QRSecret            string         `json:"qr_secret"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys absent from the file leave the current value alone.
// Read or unmarshal errors panic.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.Location, jc.Location)
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	setString(&cfg.QRSecret, jc.QRSecret)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
