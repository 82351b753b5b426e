package arabic

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Character classes.
const (
	LettersNormalized = "ءابتثجحخدذرزسشصضطظعغفقكلمنهويّ"
	Letters           = LettersNormalized + "أؤئةىآﻻإ"

	ArabicDigits = "٠١٢٣٤٥٦٧٨٩"
	ASCIIDigits  = "0123456789"
	Digits       = ASCIIDigits + ArabicDigits

	ArabicPunctuation = "٬٪٠۰٫،؛:“”–ـ…’«»؟\u065c"
	ASCIIPunctuation  = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	Punctuation       = ASCIIPunctuation + ArabicPunctuation

	Accents = "\u0618\u0619\u061a\u064b\u064c\u064d\u064e\u064f\u0650\u0652"

	Whitespace = " \t\n\r\v\f"

	Printable = Letters + Digits + Punctuation + Accents + Whitespace
)

var (
	printableSet = runeSet(Printable)
	accentSet    = runeSet(Accents)
)

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// IsPrintable reports whether r belongs to Printable.
func IsPrintable(r rune) bool {
	_, ok := printableSet[r]
	return ok
}

// IsAccent reports whether r is one of Accents.
func IsAccent(r rune) bool {
	_, ok := accentSet[r]
	return ok
}

// Clean normalizes s to NFC and drops every rune outside Printable.
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		if IsPrintable(r) {
			return r
		}
		return -1
	}, norm.NFC.String(s))
}

// StripAccents removes diacritics from s.
func StripAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if IsAccent(r) {
			return -1
		}
		return r
	}, s)
}
