package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // libSQL driver
)

// ErrNoDatabaseURL is returned when a credentials file names no database.
var ErrNoDatabaseURL = errors.New("credentials file has no database url")

// Credentials locate a hosted document store.
type Credentials struct {
	URL       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// LoadCredentials reads a credentials JSON file.
func LoadCredentials(path string) (Credentials, error) {
	var c Credentials
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}
	if c.URL == "" {
		return c, ErrNoDatabaseURL
	}
	return c, nil
}

// DSN returns the libSQL connection string including the token.
func (c Credentials) DSN() string {
	if c.AuthToken == "" {
		return c.URL
	}
	values := url.Values{}
	values.Add("authToken", c.AuthToken)
	return c.URL + "?" + values.Encode()
}

// LogValue hides the token when credentials are logged.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Bool("has_token", c.AuthToken != ""),
	)
}

// OpenCloud opens the hosted document store described by the credentials
// file at path.
func OpenCloud(ctx context.Context, path string) (*DocumentStore, error) {
	c, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	return OpenCredentials(ctx, c)
}

// OpenCredentials opens the hosted document store described by c.
func OpenCredentials(ctx context.Context, c Credentials) (*DocumentStore, error) {
	db, err := sql.Open("libsql", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.URL, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", c.URL, err)
	}
	return NewDocumentStore(ctx, db, c.URL)
}
