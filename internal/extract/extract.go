package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/diwan/internal/model"
)

// Selectors used on aldiwan pages.
const (
	SelectorPoetName    = "h2"
	SelectorPoemContent = "#poem_content"
	SelectorModernText  = "h4"
	SelectorClassical   = "h3"
	SelectorInfo        = ".col-6.col-md-3"
	SelectorPoemLink    = "a.float-right"
	SelectorAnyLink     = "a[href]"
)

var (
	// ErrPoetNameNotFound is returned when a poet page has no h2 heading.
	ErrPoetNameNotFound = errors.New("poet name heading not found")

	// ErrUnrecognizedLayout is returned when a poem page matches neither layout.
	ErrUnrecognizedLayout = errors.New("unrecognized poem layout")

	// ErrInsufficientInfo is returned when a poem page exposes fewer than two
	// info cells.
	ErrInsufficientInfo = errors.New("insufficient poem info")
)

// PoetName returns the poet display name of a poet page.
// It is the last line of the first h2 heading.
func PoetName(doc *goquery.Document) (string, error) {
	h2 := doc.Find(SelectorPoetName).First()
	if h2.Length() == 0 {
		return "", ErrPoetNameNotFound
	}
	lines := strings.Split(strings.TrimSpace(h2.Text()), "\n")
	name := strings.TrimSpace(lines[len(lines)-1])
	if name == "" {
		return "", ErrPoetNameNotFound
	}
	return name, nil
}

// LayoutKind identifies the structure of a poem page.
type LayoutKind int

const (
	// LayoutUnrecognized means neither known layout was found.
	LayoutUnrecognized LayoutKind = iota
	// LayoutModern is a single h4 block of text.
	LayoutModern
	// LayoutClassical is a sequence of h3 hemistichs.
	LayoutClassical
)

// String returns the name of the layout.
func (k LayoutKind) String() string {
	switch k {
	case LayoutModern:
		return "modern"
	case LayoutClassical:
		return "classical"
	default:
		return "unrecognized"
	}
}

// Layout is the detected layout together with its raw content.
// Verse is set for LayoutModern and Fragments for LayoutClassical.
type Layout struct {
	Kind      LayoutKind
	Verse     string
	Fragments []string
}

// DetectLayout inspects the poem container of a poem page.
// The modern layout takes precedence when both are present.
func DetectLayout(doc *goquery.Document) Layout {
	content := doc.Find(SelectorPoemContent).First()
	if content.Length() == 0 {
		return Layout{Kind: LayoutUnrecognized}
	}

	if h4 := content.Find(SelectorModernText).First(); h4.Length() > 0 {
		return Layout{Kind: LayoutModern, Verse: h4.Text()}
	}

	h3 := content.Find(SelectorClassical)
	if h3.Length() == 0 {
		return Layout{Kind: LayoutUnrecognized}
	}
	fragments := make([]string, 0, h3.Length())
	h3.Each(func(_ int, s *goquery.Selection) {
		fragments = append(fragments, s.Text())
	})
	return Layout{Kind: LayoutClassical, Fragments: fragments}
}

// Text renders the layout as poem text.
func (l Layout) Text() (string, error) {
	switch l.Kind {
	case LayoutModern:
		return l.Verse, nil
	case LayoutClassical:
		return JoinHemistichs(l.Fragments), nil
	default:
		return "", ErrUnrecognizedLayout
	}
}

// JoinHemistichs trims each fragment and joins them into couplets.
// A tab follows fragments at even indexes and a newline follows odd ones,
// so an odd count ends with a tab.
func JoinHemistichs(fragments []string) string {
	var b strings.Builder
	for i, f := range fragments {
		b.WriteString(strings.TrimSpace(f))
		if i%2 == 0 {
			b.WriteByte('\t')
		} else {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// PoemText returns the text of a poem page.
func PoemText(doc *goquery.Document) (string, error) {
	return DetectLayout(doc).Text()
}

// PoemInfo returns the trimmed texts of the info cells in document order.
func PoemInfo(doc *goquery.Document) []string {
	cells := doc.Find(SelectorInfo)
	values := make([]string, 0, cells.Length())
	cells.Each(func(_ int, s *goquery.Selection) {
		values = append(values, strings.TrimSpace(s.Text()))
	})
	return values
}

// Info is the metadata shown in the info cells of a poem page.
type Info struct {
	Genre string
	Type  string
	Meter string
	Rhyme string
}

// ParseInfo maps info cell values to fields.
// Exactly four values fill every field; any other count of at least two
// fills only Genre and Type.
func ParseInfo(values []string) (Info, error) {
	if len(values) < 2 {
		return Info{}, fmt.Errorf("%w: got %d values", ErrInsufficientInfo, len(values))
	}
	info := Info{Genre: values[0], Type: values[1]}
	if len(values) == 4 {
		info.Meter = values[2]
		info.Rhyme = values[3]
	}
	return info, nil
}

// Apply copies the info fields onto p.
func (i Info) Apply(p *model.Poem) {
	p.Genre = i.Genre
	p.Type = i.Type
	p.Meter = i.Meter
	p.Rhyme = i.Rhyme
}

// Link is a poem link found on a poet page.
type Link struct {
	Title string
	Href  string
}

// PoemLinks returns the poem links of a poet page in document order.
func PoemLinks(doc *goquery.Document) []Link {
	anchors := doc.Find(SelectorPoemLink)
	links := make([]Link, 0, anchors.Length())
	anchors.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, Link{
			Title: strings.TrimSpace(s.Text()),
			Href:  href,
		})
	})
	return links
}

// PoetLinks returns every href of an index page starting with prefix.
// Duplicates are kept; callers de-duplicate.
func PoetLinks(doc *goquery.Document, prefix string) []string {
	var hrefs []string
	doc.Find(SelectorAnyLink).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.HasPrefix(href, prefix) {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// Resolve resolves href against base.
func Resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
