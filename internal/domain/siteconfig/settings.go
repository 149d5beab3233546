package siteconfig

import (
	"github.com/dalemusser/stratatour/internal/domain/content"
)

// DefaultSiteName is used when site_name is absent.
const DefaultSiteName = "StrataTour"

// Settings is the typed view of a Document. List-valued keys are decoded
// into it once; Encode writes them back. Scalars stay in the document.
type Settings struct {
	NavbarLinks content.Links
	FooterLinks content.Links
	Rules       RuleSet

	doc Document
}

// Decode builds the typed view of d. It never fails: malformed list values
// decode as empty.
func Decode(d Document) Settings {
	return Settings{
		NavbarLinks: d.Links(KeyNavbarLinks),
		FooterLinks: d.Links(KeyFooterLinks),
		Rules:       d.Rules(),
		doc:         d,
	}
}

// Document returns the underlying document without re-encoding lists.
func (s Settings) Document() Document { return s.doc }

// Scalar reads a scalar key.
func (s Settings) Scalar(key, def string) string { return s.doc.Scalar(key, def) }

// SiteName returns the configured site name or DefaultSiteName.
func (s Settings) SiteName() string {
	if v := s.doc.Scalar(KeySiteName, ""); v != "" {
		return v
	}
	return DefaultSiteName
}

// WithScalar returns s with key set to value.
func (s Settings) WithScalar(key, value string) Settings {
	s.doc = s.doc.SetScalar(key, value)
	return s
}

// Links returns the link list for one of LinkListKeys.
func (s Settings) Links(key string) content.Links {
	if key == KeyFooterLinks {
		return s.FooterLinks
	}
	return s.NavbarLinks
}

// WithLinks replaces the link list for key.
func (s Settings) WithLinks(key string, l content.Links) Settings {
	if key == KeyFooterLinks {
		s.FooterLinks = l
	} else {
		s.NavbarLinks = l
	}
	return s
}

// Encode writes the typed lists back into the document and returns it.
// Keys whose encoded value is unchanged are left alone so an untouched
// document stays clean.
func (s Settings) Encode() (Document, error) {
	d := s.doc
	var err error
	if !content.Equal(s.NavbarLinks, d.Links(KeyNavbarLinks)) {
		if d, err = d.SetLinks(KeyNavbarLinks, s.NavbarLinks); err != nil {
			return s.doc, err
		}
	}
	if !content.Equal(s.FooterLinks, d.Links(KeyFooterLinks)) {
		if d, err = d.SetLinks(KeyFooterLinks, s.FooterLinks); err != nil {
			return s.doc, err
		}
	}
	enc, err := s.Rules.ToJSON()
	if err != nil {
		return s.doc, err
	}
	cur, _ := d.Rules().ToJSON()
	if enc != cur {
		d = d.SetScalar(KeyHeadInjectionRules, enc)
	}
	return d, nil
}
