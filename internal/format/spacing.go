// internal/format/spacing.go

// Package format rewrites markdown text to normalize spacing between
// CJK (Han) and Latin/digit runs. Structural markdown syntax (fenced
// code blocks, inline code, images, links) is protected by placeholder
// tokens for the duration of the rewrite and restored verbatim, so
// formatting never alters the inside of those spans.
package format

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// spanKind identifies which protection pass extracted a span.
type spanKind int

const (
	kindFencedCode spanKind = iota
	kindInlineCode
	kindImage
	kindLink
)

// protectedSpan holds the original text of one extracted span.
type protectedSpan struct {
	kind     spanKind
	original string
}

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`\n]+`")
	// Images must be extracted before links: RE2 has no lookbehind, and
	// the link pattern would otherwise split every image into a bare
	// "!" plus a link token.
	reImage = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	reLink  = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)

	// One pass per direction. The match requires direct adjacency, so
	// an existing space between the runs means no match and insertion
	// stays idempotent without double-spacing.
	reCJKThenLatin = regexp.MustCompile(`(\p{Han})([A-Za-z0-9@&=$%^\[])`)
	reLatinThenCJK = regexp.MustCompile(`([A-Za-z0-9@&=$%^\[])(\p{Han})`)

	reWhitespaceRun = regexp.MustCompile(`\s{2,}`)
)

// Punctuation exempt from inline-code padding: a code span directly
// against one of these reads fine without an extra space.
const padExemptPunct = "，。、；：！？「」『』（）《》【】…—·‘’“”,.;:!?()[]{}<>\"'`~*_-"

// Spacing normalizes CJK/Latin spacing in a markdown document. It is
// pure, deterministic, and idempotent: Spacing(Spacing(x)) == Spacing(x).
func Spacing(markdown string) string {
	if markdown == "" {
		return ""
	}

	doc := protect(markdown)
	text := doc.text

	text = reCJKThenLatin.ReplaceAllString(text, "$1 $2")
	text = reLatinThenCJK.ReplaceAllString(text, "$1 $2")
	text = collapsePerLine(text)
	text = doc.padInlineCode(text)

	return doc.restore(text)
}

// protectedDoc is the working state of one Spacing call: the text with
// spans tokenized, the extracted spans, and the session-unique nonce
// embedded in every token so tokens cannot collide with document
// content.
type protectedDoc struct {
	text  string
	nonce string
	spans []protectedSpan
}

func protect(markdown string) *protectedDoc {
	doc := &protectedDoc{text: markdown, nonce: newNonce()}
	doc.extract(reFencedCode, kindFencedCode)
	doc.extract(reInlineCode, kindInlineCode)
	doc.extract(reImage, kindImage)
	doc.extract(reLink, kindLink)
	return doc
}

// extract replaces every match of re with an indexed token, left to
// right, each span matched once.
func (d *protectedDoc) extract(re *regexp.Regexp, kind spanKind) {
	d.text = re.ReplaceAllStringFunc(d.text, func(match string) string {
		d.spans = append(d.spans, protectedSpan{kind: kind, original: match})
		return d.token(len(d.spans) - 1)
	})
}

// token builds the placeholder for span i. The 0x02 delimiters keep the
// token inert under the spacing and collapse passes (neither pattern
// class includes control characters), and the nonce makes it
// practically unique even against adversarial document content.
func (d *protectedDoc) token(i int) string {
	return fmt.Sprintf("\x02ink:%s:%d\x02", d.nonce, i)
}

// restore puts original span text back, newest span first. Later
// passes extract over already-tokenized text, so a later span's
// original may embed earlier tokens (a link whose label holds an inline
// code span); restoring in reverse extraction order re-exposes those
// tokens before their own restore pass reaches them.
func (d *protectedDoc) restore(text string) string {
	for i := len(d.spans) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, d.token(i), d.spans[i].original)
	}
	return text
}

// padInlineCode inserts a single space between an inline-code token and
// an adjacent non-space, non-punctuation character on either side. The
// neighbor may itself be a placeholder token; the check then looks
// through to the boundary rune of that span's original text, so a code
// span against a link's closing ")" or another code span's backtick is
// exempt like any other punctuation.
func (d *protectedDoc) padInlineCode(text string) string {
	for i, span := range d.spans {
		if span.kind != kindInlineCode {
			continue
		}
		tok := d.token(i)
		idx := strings.Index(text, tok)
		if idx < 0 {
			// Token swallowed by a later span (e.g. code inside a link
			// label); padding happens inside that span's original, or
			// not at all. Leave it alone.
			continue
		}
		before, after := text[:idx], text[idx+len(tok):]
		if needsPad(d.lastDocRune(before)) {
			before += " "
		}
		if needsPad(d.firstDocRune(after)) {
			after = " " + after
		}
		text = before + tok + after
	}
	return text
}

// lastDocRune returns the document rune ending s. A trailing
// placeholder token resolves to the last rune of its span's original
// text; every span original ends in markdown syntax ("`" or ")"), so
// the loop terminates on the first resolution.
func (d *protectedDoc) lastDocRune(s string) rune {
	for {
		if s == "" {
			return 0
		}
		i, ok := d.spanEndingAt(s)
		if !ok {
			return lastRune(s)
		}
		s = d.spans[i].original
	}
}

// firstDocRune is the right-hand counterpart of lastDocRune.
func (d *protectedDoc) firstDocRune(s string) rune {
	for {
		if s == "" {
			return 0
		}
		i, ok := d.spanStartingAt(s)
		if !ok {
			return firstRune(s)
		}
		s = d.spans[i].original
	}
}

func (d *protectedDoc) spanEndingAt(s string) (int, bool) {
	if !strings.HasSuffix(s, "\x02") {
		return 0, false
	}
	for i := range d.spans {
		if strings.HasSuffix(s, d.token(i)) {
			return i, true
		}
	}
	return 0, false
}

func (d *protectedDoc) spanStartingAt(s string) (int, bool) {
	if !strings.HasPrefix(s, "\x02") {
		return 0, false
	}
	for i := range d.spans {
		if strings.HasPrefix(s, d.token(i)) {
			return i, true
		}
	}
	return 0, false
}

// needsPad reports whether a space must separate the code span from the
// adjacent rune r. r == 0 means no adjacent character.
func needsPad(r rune) bool {
	if r == 0 || unicode.IsSpace(r) {
		return false
	}
	return !strings.ContainsRune(padExemptPunct, r)
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	runes := []rune(s)
	return runes[len(runes)-1]
}

func firstRune(s string) rune {
	if s == "" {
		return 0
	}
	return []rune(s)[0]
}

// collapsePerLine squeezes runs of two or more whitespace characters to
// a single space, per line, leaving each line's leading indentation
// untouched.
func collapsePerLine(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " \t")
		if body == "" {
			continue // whitespace-only line: all indentation, nothing to collapse
		}
		indent := line[:len(line)-len(body)]
		lines[i] = indent + reWhitespaceRun.ReplaceAllString(body, " ")
	}
	return strings.Join(lines, "\n")
}

// newNonce returns a short random marker for this Spacing call.
func newNonce() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}
