package pdfgen

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctuation maps common typographic characters to ASCII stand-ins.
// The core fonts in the PDF layout engine only cover a cp1252-like
// range, so everything outside ASCII has to be rewritten or dropped.
var punctuation = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // low single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"…", "...", // ellipsis
	"•", "-", // bullet
	"·", "-", // middle dot
	"→", "->", // right arrow
	"←", "<-", // left arrow
	" ", " ", // no-break space
	" ", " ", // thin space
	"​", "", // zero-width space
)

// SanitizeText rewrites text so it survives a latin-1 PDF layout:
// typographic punctuation becomes its ASCII stand-in, accented
// letters fold to their base letter, and anything else outside ASCII
// is dropped. The function is idempotent.
func SanitizeText(text string) string {
	s := punctuation.Replace(text)

	// Decompose so accents become combining marks, then drop the
	// marks ("café" -> "cafe").
	s = norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
