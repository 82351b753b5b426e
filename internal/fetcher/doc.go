// Package fetcher retrieves HTML pages and parses them into goquery
// documents.
//
// HTTPFetcher is the production implementation. It decodes the body to
// UTF-8 using the charset declared by the server or the page, limits the
// body size, and optionally throttles requests with a token bucket so that
// the crawl stays polite. Any status outside the 2xx range is reported as
// an *HTTPStatusError; there are no retries.
//
// StaticFetcher serves canned HTML keyed by URL and is used by tests and
// offline replays.
package fetcher
