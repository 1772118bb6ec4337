package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text is unchanged", "Hello world", "Hello world"},
		{"tags are removed and text kept", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"br variants are normalized", "a<br/>b<BR>c<br />d</br>e", "a<br>b<br>c<br>d<br>e"},
		{"three or more breaks collapse to two", "a<br><br><br><br>b", "a<br><br>b"},
		{"two breaks are kept", "a<br><br>b", "a<br><br>b"},
		{"entities are decoded", "Tom &amp; Jerry &lt;3", "Tom & Jerry <3"},
		{"non-breaking spaces become spaces", "a&nbsp;b c", "a b c"},
		{"script and style contents are dropped", "x<script>alert(1)</script>y<style>p{}</style>z", "xyz"},
		{"attributes never survive", `<a href="javascript:alert(1)" onclick="x()">link</a>`, "link"},
		{"result is trimmed", "  <p> padded </p>  ", "padded"},
		{"empty input stays empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripHTML(tc.input, DefaultMaxLength))
		})
	}
}

func TestStripHTMLTruncates(t *testing.T) {
	t.Run("Given a long value When sanitized Then it is cut to the limit in runes", func(t *testing.T) {
		got := StripHTML(strings.Repeat("é", 20), 5)
		assert.Equal(t, "ééééé", got)
	})

	t.Run("Given a non-positive limit When sanitized Then the default applies", func(t *testing.T) {
		got := StripHTML(strings.Repeat("a", DefaultMaxLength+10), 0)
		assert.Len(t, got, DefaultMaxLength)
	})
}
