package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dzaky3022/wincal/internal/flagx"
	"github.com/dzaky3022/wincal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "15s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	DatabasePath   string         `json:"database_path"`
	BlobDirName    string         `json:"blob_dir_name"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SyncInterval   timex.Duration `json:"sync_interval"`
	BackoffMin     timex.Duration `json:"backoff_min"`
	SyncMaxRuntime timex.Duration `json:"sync_max_runtime"`
	ProbeAddr      string         `json:"probe_addr"`
	ProbeInterval  timex.Duration `json:"probe_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given the function returns without touching cfg. Absent fields
// keep their earlier values. Panics on read or unmarshal errors.
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.BlobDirName != "" {
		cfg.BlobDirName = jc.BlobDirName
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.SyncInterval.Duration > 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
	if jc.BackoffMin.Duration > 0 {
		cfg.BackoffMin = time.Duration(jc.BackoffMin.Duration)
	}
	if jc.SyncMaxRuntime.Duration > 0 {
		cfg.SyncMaxRuntime = time.Duration(jc.SyncMaxRuntime.Duration)
	}
	if jc.ProbeAddr != "" {
		cfg.ProbeAddr = jc.ProbeAddr
	}
	if jc.ProbeInterval.Duration > 0 {
		cfg.ProbeInterval = time.Duration(jc.ProbeInterval.Duration)
	}
}
