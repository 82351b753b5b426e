// Package pagination discovers how many index pages list poets.
//
// The site renders a Bootstrap pager whose second-to-last .page-link is the
// number of the last page (the last one is the "next" arrow). SiteDiscoverer
// reads it from the first index page. Static is a fixed-count stub for
// tests and for runs where the page count is already known.
package pagination
