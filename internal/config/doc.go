// Package config provides configuration structures and utilities for diwan.
// It defines where the scraper reads from, how hard it crawls, and where
// the scraped anthology is stored.
package config
