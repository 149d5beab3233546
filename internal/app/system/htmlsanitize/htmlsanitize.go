// Package htmlsanitize cleans editor-supplied text before it is rendered
// into public pages. It uses bluemonday to strip dangerous HTML while
// keeping inline formatting.
package htmlsanitize

import (
	"html/template"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// inline is the policy for text block bodies: inline formatting and
	// links, no block elements.
	inline     *bluemonday.Policy
	inlineOnce sync.Once
)

func inlinePolicy() *bluemonday.Policy {
	inlineOnce.Do(func() {
		inline = bluemonday.NewPolicy()
		inline.AllowElements("b", "strong", "i", "em", "u", "s", "sub", "sup", "mark", "code", "br", "span")
		inline.AllowStandardURLs()
		inline.AllowAttrs("href").OnElements("a")
		inline.RequireNoFollowOnLinks(true)
		inline.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return inline
}

// Sanitize cleans HTML input, keeping only inline formatting and links.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return inlinePolicy().Sanitize(html)
}

// IsPlainText reports whether content has no HTML tags.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and turns newlines into <br>.
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(text)
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// Text prepares a text block body for display inside a <p>. Plain text is
// escaped; HTML is sanitized.
func Text(content string) template.HTML {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return template.HTML(PlainTextToHTML(content))
	}
	return template.HTML(Sanitize(content))
}

// ImageURL returns u when it is safe as an <img src>: http, https, or a
// site-relative path. Anything else yields ok=false.
func ImageURL(u string) (string, bool) {
	u = strings.TrimSpace(u)
	if u == "" {
		return "", false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return "", false
		}
		return parsed.String(), true
	case "":
		if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
			return parsed.String(), true
		}
	}
	return "", false
}
