// Package blockrender turns a content page into HTML for the public site
// and for editor previews.
package blockrender

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
)

// Rendered is a page split into the markup for <head> and <body>.
type Rendered struct {
	Head template.HTML
	Body template.HTML
}

type block struct {
	Kind  content.Kind
	Text  string
	HTML  template.HTML
	Src   string
	Alt   string
	Valid bool
}

var bodyTmpl = template.Must(template.New("body").Parse(
	`{{if .HeroTitle}}<header class="hero">{{if .HeroImage}}<img class="hero-image" src="{{.HeroImage}}" alt="">{{end}}` +
		`<h1>{{.HeroTitle}}</h1>{{if .HeroSubtitle}}<p class="hero-subtitle">{{.HeroSubtitle}}</p>{{end}}</header>{{end}}` +
		`{{range .Blocks}}{{if eq .Kind "heading"}}<h2>{{.Text}}</h2>` +
		`{{else if eq .Kind "text"}}<p>{{.HTML}}</p>` +
		`{{else if eq .Kind "image"}}<img src="{{.Src}}" alt="{{.Alt}}">{{end}}{{end}}`))

// Body renders the page content. Headings become <h2>, text becomes a
// sanitized <p>, images become <img>. Opaque nodes and images with an
// unsafe URL are skipped.
func Body(p content.Page) (template.HTML, error) {
	data := struct {
		HeroTitle    string
		HeroSubtitle string
		HeroImage    string
		Blocks       []block
	}{
		HeroTitle:    p.HeroTitle,
		HeroSubtitle: p.HeroSubtitle,
	}
	if src, ok := htmlsanitize.ImageURL(p.HeroImageURL); ok {
		data.HeroImage = src
	}
	for _, n := range p.Content.Items() {
		if b := toBlock(n, p.Title); b.Valid {
			data.Blocks = append(data.Blocks, b)
		}
	}

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func toBlock(n content.Node, title string) block {
	if !n.Known() {
		return block{}
	}
	switch n.Kind() {
	case content.KindHeading:
		return block{Kind: n.Kind(), Text: n.Value(), Valid: n.Value() != ""}
	case content.KindText:
		return block{Kind: n.Kind(), HTML: htmlsanitize.Text(n.Value()), Valid: n.Value() != ""}
	case content.KindImage:
		src, ok := htmlsanitize.ImageURL(n.Value())
		return block{Kind: n.Kind(), Src: src, Alt: title, Valid: ok}
	}
	return block{}
}

// Head concatenates the tags of every rule targeting slug, in rule order.
// Tags are emitted verbatim: head injection exists to place raw markup.
func Head(rules siteconfig.RuleSet, slug string) template.HTML {
	var b strings.Builder
	for _, r := range rules.ForPage(slug) {
		if strings.TrimSpace(r.Tags) == "" {
			continue
		}
		b.WriteString(r.Tags)
		b.WriteString("\n")
	}
	return template.HTML(b.String())
}

// Page renders both the head markup and the body for p.
func Page(p content.Page, rules siteconfig.RuleSet) (Rendered, error) {
	body, err := Body(p)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Head: Head(rules, p.Slug), Body: body}, nil
}

var docTmpl = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | {{.SiteName}}</title>
{{.Head}}</head>
<body>
<nav>{{range .Navbar}}<a href="{{.URL}}">{{.Label}}</a>{{end}}</nav>
<main>{{.Body}}</main>
<footer>{{range .Footer}}<a href="{{.URL}}">{{.Label}}</a>{{end}}</footer>
</body>
</html>
`))

// Document renders p as a complete HTML document using the site settings
// for the title, navigation and head injection.
func Document(p content.Page, s siteconfig.Settings) ([]byte, error) {
	r, err := Page(p, s.Rules)
	if err != nil {
		return nil, err
	}
	data := struct {
		Title    string
		SiteName string
		Head     template.HTML
		Body     template.HTML
		Navbar   []content.Link
		Footer   []content.Link
	}{
		Title:    p.Title,
		SiteName: s.SiteName(),
		Head:     r.Head,
		Body:     r.Body,
		Navbar:   completeLinks(s.NavbarLinks),
		Footer:   completeLinks(s.FooterLinks),
	}
	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func completeLinks(l content.Links) []content.Link {
	var out []content.Link
	for _, link := range l.Items() {
		if link.Complete() {
			out = append(out, link)
		}
	}
	return out
}
