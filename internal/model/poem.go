package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// LanguageArabic is the language tag recorded on every scraped poem.
const LanguageArabic = "arabic"

// Poem is a single poem scraped from a poem page.
// Title is unique within its poet; Author must equal the owning poet's key.
type Poem struct {
	// Title is the poem title taken from the link text on the poet page.
	Title string `json:"title"`

	// Source is the absolute URL of the poem page.
	Source string `json:"source"`

	// Author is the display name of the poet that owns this poem.
	Author string `json:"author"`

	// Text is the full poem text. Classical poems are tab separated
	// hemistich pairs, one couplet per line.
	Text string `json:"text"`

	// Language is always LanguageArabic for scraped poems.
	Language string `json:"language"`

	// Genre and Type are present on every poem page that exposes info cells.
	Genre string `json:"genre,omitempty"`
	Type  string `json:"type,omitempty"`

	// Meter and Rhyme are only present when the page exposes four info cells.
	Meter string `json:"meter,omitempty"`
	Rhyme string `json:"rhyme,omitempty"`
}

// Digest returns the hex encoded SHA3-256 digest of the poem text.
// Empty text produces an empty digest.
func (p *Poem) Digest() string {
	if p == nil || p.Text == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(p.Text))
	return hex.EncodeToString(sum[:])
}

// Clone returns a copy of the poem.
func (p *Poem) Clone() *Poem {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
