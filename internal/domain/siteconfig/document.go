// Package siteconfig models the site settings document: a flat string map
// in which some keys hold plain scalars and others hold JSON-encoded
// ordered lists (navigation links, head injection rules).
//
// List-valued keys are decoded once, at the boundary, by Decode; callers
// work with typed values and never parse JSON themselves.
package siteconfig

import (
	"github.com/dalemusser/stratatour/internal/domain/content"
)

// Scalar keys.
const (
	KeySiteName        = "site_name"
	KeyLogoURL         = "logo_url"
	KeyContactEmail    = "contact_email"
	KeyContactPhone    = "contact_phone"
	KeyContactAddress  = "contact_address"
	KeySocialFacebook  = "social_facebook"
	KeySocialInstagram = "social_instagram"
	KeySocialTwitter   = "social_twitter"
	KeySocialYouTube   = "social_youtube"
)

// List-valued keys. Each holds the JSON text of an array.
const (
	KeyNavbarLinks        = "navbar_links"
	KeyFooterLinks        = "footer_links"
	KeyHeadInjectionRules = "headInjectionRules"
)

// Legacy single-rule keys, superseded by KeyHeadInjectionRules.
const (
	KeyLegacyHeadTags  = "headTags"
	KeyLegacyHeadPages = "headTagsPages"
)

// ScalarKeys lists the scalar keys an editor shows, in form order.
func ScalarKeys() []string {
	return []string{
		KeySiteName,
		KeyLogoURL,
		KeyContactEmail,
		KeyContactPhone,
		KeyContactAddress,
		KeySocialFacebook,
		KeySocialInstagram,
		KeySocialTwitter,
		KeySocialYouTube,
	}
}

// LinkListKeys lists the keys holding link lists.
func LinkListKeys() []string {
	return []string{KeyNavbarLinks, KeyFooterLinks}
}

// Document is the flat settings map as the persistence API stores it.
// Values are opaque strings. Unknown keys are carried through untouched.
type Document struct {
	fields map[string]string
	dirty  bool
}

// NewDocument wraps a copy of fields.
func NewDocument(fields map[string]string) Document {
	return Document{fields: copyFields(fields)}
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Fields returns a copy of the whole map, the body of a full-replace save.
func (d Document) Fields() map[string]string {
	return copyFields(d.fields)
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// Dirty reports whether the document changed since it was loaded.
func (d Document) Dirty() bool { return d.dirty }

// MarkClean clears the dirty flag, typically after a successful save.
func (d Document) MarkClean() Document {
	d.dirty = false
	return d
}

// Scalar returns the value at key, or def when the key is absent.
func (d Document) Scalar(key, def string) string {
	if v, ok := d.fields[key]; ok {
		return v
	}
	return def
}

// SetScalar stores value at key.
func (d Document) SetScalar(key, value string) Document {
	if cur, ok := d.fields[key]; ok && cur == value {
		return d
	}
	f := copyFields(d.fields)
	f[key] = value
	return Document{fields: f, dirty: true}
}

// Delete removes key.
func (d Document) Delete(key string) Document {
	if _, ok := d.fields[key]; !ok {
		return d
	}
	f := copyFields(d.fields)
	delete(f, key)
	return Document{fields: f, dirty: true}
}

// Links decodes the link list at key. Absent or malformed values give an
// empty list.
func (d Document) Links(key string) content.Links {
	return content.ListFromJSON[content.Link](d.fields[key])
}

// SetLinks encodes list and stores it at key.
func (d Document) SetLinks(key string, list content.Links) (Document, error) {
	s, err := list.ToJSON()
	if err != nil {
		return d, err
	}
	return d.SetScalar(key, s), nil
}

// Rules decodes the head injection rules. Absent or malformed values give
// an empty set.
func (d Document) Rules() RuleSet {
	return RuleSetFromJSON(d.fields[KeyHeadInjectionRules])
}

// SetRules encodes rules under KeyHeadInjectionRules.
func (d Document) SetRules(rules RuleSet) (Document, error) {
	s, err := rules.ToJSON()
	if err != nil {
		return d, err
	}
	return d.SetScalar(KeyHeadInjectionRules, s), nil
}
