package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "diwan"

	// DefaultBaseURL is the site root that relative links are resolved against.
	DefaultBaseURL = "https://www.aldiwan.net/"

	// DefaultIndexPath is the poet index page, relative to the base URL.
	// It is formatted with the page number.
	DefaultIndexPath = "authers-1?page=%d"

	// DefaultPoetPrefix is the href prefix of poet category links.
	DefaultPoetPrefix = "cat-poet"

	// DefaultConcurrency is the number of poem pages fetched in parallel.
	DefaultConcurrency = 8

	// DefaultIndexConcurrency is the number of index pages fetched in parallel.
	DefaultIndexConcurrency = 4

	// DefaultCheckpointEvery is the number of poets between checkpoints.
	DefaultCheckpointEvery = 10

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultMaxBodySize limits the bytes read per page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultJSONPath is the mapping file read and written by the JSON store.
	DefaultJSONPath = "poets.json"

	// DefaultCredentialsPath is the hosted store credentials file.
	DefaultCredentialsPath = "cred.json"

	// DefaultTextPath is the output of the flattener.
	DefaultTextPath = "poems.txt"
)

// Store kinds.
const (
	StoreJSON  = "json"
	StoreLocal = "local"
	StoreCloud = "cloud"
)

// Report formats.
const (
	ReportText     = "text"
	ReportJSON     = "json"
	ReportMarkdown = "markdown"
)

// Config holds all configuration options for diwan.
// It is populated from defaults, then the config file, then CLI flags.
type Config struct {
	// BaseURL is the site root.
	BaseURL string

	// IndexPath is the poet index path with a %d page placeholder.
	IndexPath string

	// PoetPrefix selects poet links on index pages.
	PoetPrefix string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Headers are extra request headers.
	Headers map[string]string

	// Timeout is the timeout of each HTTP request.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Concurrency is the number of poem pages fetched in parallel.
	Concurrency int

	// IndexConcurrency is the number of index pages fetched in parallel.
	IndexConcurrency int

	// CheckpointEvery is the number of poets between checkpoints.
	CheckpointEvery int

	// RequestsPerSecond throttles all requests. Zero disables throttling.
	RequestsPerSecond float64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .diwan is searched in the current, home and XDG config
	// directories.
	ConfigFilePath string

	// Store selects the persistence backend: json, local or cloud.
	Store string

	// JSONPath is the mapping file of the json store.
	JSONPath string

	// CredentialsPath is the credentials file of the cloud store.
	CredentialsPath string

	// DBDir is the directory of the local store.
	// Defaults to the XDG data directory.
	DBDir string

	// Force re-crawls poets that are already stored.
	Force bool

	// FailPoet drops a poet when any of its poems fails.
	FailPoet bool

	// ReportFormat is text, json or markdown.
	ReportFormat string

	// URLs are poet page URLs. Empty means the whole site.
	URLs []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		IndexPath:        DefaultIndexPath,
		PoetPrefix:       DefaultPoetPrefix,
		UserAgent:        DefaultUserAgent,
		Headers:          make(map[string]string),
		Timeout:          DefaultTimeout,
		MaxBodySize:      DefaultMaxBodySize,
		Concurrency:      DefaultConcurrency,
		IndexConcurrency: DefaultIndexConcurrency,
		CheckpointEvery:  DefaultCheckpointEvery,
		Store:            StoreJSON,
		JSONPath:         DefaultJSONPath,
		CredentialsPath:  DefaultCredentialsPath,
		DBDir:            XDGDataDir(),
		ReportFormat:     ReportText,
	}
}

// IndexURLTemplate joins the base URL and the index path.
func (c *Config) IndexURLTemplate() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.IndexPath, "/")
}

// FirstIndexURL returns the URL of the first index page.
func (c *Config) FirstIndexURL() string {
	return strings.Replace(c.IndexURLTemplate(), "%d", "1", 1)
}

// XDGDataDir returns the XDG data directory for diwan.
// On Linux: ~/.local/share/diwan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for diwan.
// On Linux: ~/.config/diwan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if strings.Count(c.IndexPath, "%d") != 1 {
		return ErrInvalidIndexPath
	}

	if c.PoetPrefix == "" {
		return ErrEmptyPoetPrefix
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 || c.IndexConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.CheckpointEvery <= 0 {
		return ErrInvalidCheckpoint
	}

	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	switch c.Store {
	case StoreJSON, StoreLocal, StoreCloud:
	default:
		return ErrUnknownStore
	}

	switch c.ReportFormat {
	case ReportText, ReportJSON, ReportMarkdown:
	default:
		return ErrUnknownReportFormat
	}

	return nil
}
