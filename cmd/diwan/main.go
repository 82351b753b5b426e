// Package main provides the entry point for the diwan CLI.
//
// diwan scrapes the Arabic poetry archive aldiwan.net into a poet to poem
// mapping, keeps it in a JSON file or a document store, and flattens it
// into a plain text corpus.
//
// Usage:
//
//	diwan scrape [poet-url...]
//	diwan flatten --in poets.json -o poems.txt
//
// See --help for all available options.
package main

func main() {
	Execute()
}
