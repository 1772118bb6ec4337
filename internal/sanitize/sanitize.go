// Package sanitize reduces edited field values to plain text with line breaks.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMaxLength caps a sanitized value, counted in runes.
const DefaultMaxLength = 10000

const lineBreak = "<br>"

var repeatedBreaks = regexp.MustCompile(`(<br>){3,}`)

// StripHTML removes every tag except <br>, which is normalized to "<br>" and
// collapsed to at most two in a row. Entities are decoded, non-breaking spaces
// become plain spaces, and the result is trimmed and cut to maxLength runes.
func StripHTML(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var out strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	skipDepth := 0

tokens:
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF; a strings.Reader has no other read errors.
			break tokens
		case html.TextToken:
			if skipDepth == 0 {
				out.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Br:
				if skipDepth == 0 {
					out.WriteString(lineBreak)
				}
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skipDepth++
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Br:
				if skipDepth == 0 {
					out.WriteString(lineBreak)
				}
			case atom.Script, atom.Style:
				if skipDepth > 0 {
					skipDepth--
				}
			}
		}
	}

	result := strings.ReplaceAll(out.String(), "\u00a0", " ")
	result = repeatedBreaks.ReplaceAllString(result, lineBreak+lineBreak)
	result = strings.TrimSpace(result)
	return truncate(result, maxLength)
}

func truncate(s string, maxRunes int) string {
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}
