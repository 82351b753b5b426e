// Package extract pulls poet and poem fields out of parsed aldiwan pages.
//
// Every function is pure: it takes a *goquery.Document and returns plain
// values, so the crawler can be tested against canned HTML.
//
// Poem pages come in two layouts. Modern poems keep the whole text in the
// first h4 of #poem_content. Classical poems spread hemistichs over h3
// elements which are joined as "first\tsecond\n" couplets. DetectLayout
// reports which one a page uses and PoemText dispatches on it.
package extract
