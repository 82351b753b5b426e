package config

import "time"

// SiteSection describes the scraped site in the config file.
type SiteSection struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string `yaml:"base_url,omitempty"`

	// IndexPath overrides DefaultIndexPath.
	IndexPath string `yaml:"index_path,omitempty"`

	// PoetPrefix overrides DefaultPoetPrefix.
	PoetPrefix string `yaml:"poet_prefix,omitempty"`

	// UserAgent overrides DefaultUserAgent.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Headers are custom HTTP headers to include in every request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// CrawlSection tunes the crawl in the config file.
type CrawlSection struct {
	Concurrency       int           `yaml:"concurrency,omitempty"`
	IndexConcurrency  int           `yaml:"index_concurrency,omitempty"`
	CheckpointEvery   int           `yaml:"checkpoint_every,omitempty"`
	RequestsPerSecond float64       `yaml:"requests_per_second,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
}

// StorageSection selects the default store in the config file.
type StorageSection struct {
	Store       string `yaml:"store,omitempty"`
	JSONPath    string `yaml:"json_path,omitempty"`
	Credentials string `yaml:"credentials,omitempty"`
	DBDir       string `yaml:"db_dir,omitempty"`
}

// File represents the structure of the .diwan configuration file.
type File struct {
	Site    SiteSection    `yaml:"site,omitempty"`
	Crawl   CrawlSection   `yaml:"crawl,omitempty"`
	Storage StorageSection `yaml:"storage,omitempty"`
}

// ApplyFile copies every non-zero value of f onto c.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	setString(&c.BaseURL, f.Site.BaseURL)
	setString(&c.IndexPath, f.Site.IndexPath)
	setString(&c.PoetPrefix, f.Site.PoetPrefix)
	setString(&c.UserAgent, f.Site.UserAgent)
	if len(f.Site.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for k, v := range f.Site.Headers {
			c.Headers[k] = v
		}
	}

	if f.Crawl.Concurrency != 0 {
		c.Concurrency = f.Crawl.Concurrency
	}
	if f.Crawl.IndexConcurrency != 0 {
		c.IndexConcurrency = f.Crawl.IndexConcurrency
	}
	if f.Crawl.CheckpointEvery != 0 {
		c.CheckpointEvery = f.Crawl.CheckpointEvery
	}
	if f.Crawl.RequestsPerSecond != 0 {
		c.RequestsPerSecond = f.Crawl.RequestsPerSecond
	}
	if f.Crawl.Timeout != 0 {
		c.Timeout = f.Crawl.Timeout
	}

	setString(&c.Store, f.Storage.Store)
	setString(&c.JSONPath, f.Storage.JSONPath)
	setString(&c.CredentialsPath, f.Storage.Credentials)
	setString(&c.DBDir, f.Storage.DBDir)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
