package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/blogdesk/internal/client/images"
	"github.com/dmitrijs2005/blogdesk/internal/filex"
)

// Image store kinds accepted in ImageStore.
const (
	ImageStoreDataURL = "dataurl"
	ImageStoreS3      = "s3"
)

// DBFileName is the SQLite file created inside DataDir.
const DBFileName = "blogdesk.db"

// Config holds runtime settings for the blogdesk terminal client.
//
// Fields:
//   - APIBaseURL: base URL of the post endpoints (…/api).
//   - AuthBaseURL: base URL of the /Auth endpoints; may equal APIBaseURL.
//   - DataDir: directory holding the local SQLite database.
//   - RequestTimeout: per-request timeout, 0 for none.
//   - LogLevel: debug, info, warn or error; logs go to stderr.
//   - DeleteConcurrency: requests in flight during a batch delete.
//   - ImageStore / S3: where featured images go.
type Config struct {
	APIBaseURL        string
	AuthBaseURL       string
	DataDir           string
	RequestTimeout    time.Duration
	LogLevel          string
	DeleteConcurrency int
	ImageStore        string
	S3                images.S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.AuthBaseURL = "http://localhost:8081/api"
	c.DataDir = filex.DefaultDataDir()
	c.RequestTimeout = 0
	c.LogLevel = "warn"
	c.DeleteConcurrency = 8
	c.ImageStore = ImageStoreDataURL
}

// DBPath is the location of the local database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
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
