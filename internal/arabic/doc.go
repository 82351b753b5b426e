// Package arabic defines the character classes of Arabic poem text and
// helpers to clean scraped text down to those classes.
//
// The classes are:
//
//   - LettersNormalized: the 28 base letters plus hamza and shadda
//   - Letters: LettersNormalized plus hamza carriers, ta marbuta,
//     alef maqsura, madda and the lam-alef ligature
//   - Digits: ASCII and Arabic-Indic digits
//   - Punctuation: ASCII and Arabic punctuation
//   - Accents: the short vowel and tanween diacritics
//   - Whitespace: ASCII whitespace
//
// Printable is the union of all of them. Clean keeps only printable runes
// after NFC normalization, which is what the flattener uses to produce
// training text.
package arabic
