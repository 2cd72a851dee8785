package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/blogdesk/internal/client/images"
	"github.com/dmitrijs2005/blogdesk/internal/flagx"
	"github.com/dmitrijs2005/blogdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero", so a file only overrides the keys
// it mentions.
type JsonConfig struct {
	APIBaseURL        *string          `json:"api_base_url"`
	AuthBaseURL       *string          `json:"auth_base_url"`
	DataDir           *string          `json:"data_dir"`
	RequestTimeout    *timex.Duration  `json:"request_timeout"`
	LogLevel          *string          `json:"log_level"`
	DeleteConcurrency *int             `json:"delete_concurrency"`
	ImageStore        *string          `json:"image_store"`
	S3                *images.S3Config `json:"s3"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. It panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
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

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.AuthBaseURL != nil {
		cfg.AuthBaseURL = *jc.AuthBaseURL
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.DeleteConcurrency != nil {
		cfg.DeleteConcurrency = *jc.DeleteConcurrency
	}
	if jc.ImageStore != nil {
		cfg.ImageStore = *jc.ImageStore
	}
	if jc.S3 != nil {
		cfg.S3 = *jc.S3
	}
}
