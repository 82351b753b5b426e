// Package flatten turns stored poems into a plain text corpus.
//
// Each poem becomes one entry:
//
//	"\t" + title + "\t\n" + trimmed text + "\n\n"
//
// Poets are read from a Source, which is either a loaded JSON mapping or a
// document store. Requested poets that are absent are reported as
// warnings and skipped.
package flatten
