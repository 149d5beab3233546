package siteconfig

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Rule errors.
var (
	ErrRuleNotFound = errors.New("injection rule not found")
	ErrUnknownField = errors.New("unknown injection rule field")
)

// DefaultRuleName is the name given to rules created by Add.
const DefaultRuleName = "New Injection"

// Rule is a named snippet of raw head markup and the pages it applies to.
// Tags is injected verbatim; it is never sanitized.
type Rule struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Tags  string   `json:"tags"`
	Pages []string `json:"pages"`
}

// Targets reports whether the rule applies to slug.
func (r Rule) Targets(slug string) bool {
	for _, p := range r.Pages {
		if p == slug {
			return true
		}
	}
	return false
}

func (r Rule) clone() Rule {
	pages := make([]string, len(r.Pages))
	copy(pages, r.Pages)
	r.Pages = pages
	return r
}

// MarshalJSON always emits pages as an array.
func (r Rule) MarshalJSON() ([]byte, error) {
	type plain Rule
	out := plain(r)
	if out.Pages == nil {
		out.Pages = []string{}
	}
	return json.Marshal(out)
}

// Field names a rule attribute UpdateField can set.
type Field string

// Editable rule fields.
const (
	FieldName Field = "name"
	FieldTags Field = "tags"
)

// IDGenerator produces rule ids. Tests swap it to force collisions.
type IDGenerator func() string

// NewRuleID returns a random UUID string.
func NewRuleID() string {
	return uuid.NewString()
}

// RuleSet is the ordered set of head injection rules stored under
// KeyHeadInjectionRules. Like content.List it is a value: every edit
// returns a new set.
type RuleSet struct {
	rules []Rule
	newID IDGenerator
}

// NewRuleSet builds a set from rules, copying them.
func NewRuleSet(rules ...Rule) RuleSet {
	s := RuleSet{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		s.rules = append(s.rules, r.clone())
	}
	return s
}

// WithIDGenerator returns s using gen for new ids.
func (s RuleSet) WithIDGenerator(gen IDGenerator) RuleSet {
	s.newID = gen
	return s
}

// Len returns the number of rules.
func (s RuleSet) Len() int { return len(s.rules) }

// Rules returns copies of the rules in order.
func (s RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.clone()
	}
	return out
}

// Get returns the rule with id.
func (s RuleSet) Get(id string) (Rule, bool) {
	i := s.index(id)
	if i < 0 {
		return Rule{}, false
	}
	return s.rules[i].clone(), true
}

func (s RuleSet) index(id string) int {
	for i, r := range s.rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s RuleSet) copyRules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.clone()
	}
	return out
}

// maxIDAttempts bounds regeneration when a generated id is already taken.
const maxIDAttempts = 16

// Add appends a new empty rule with a fresh id and returns it.
func (s RuleSet) Add() (RuleSet, Rule, error) {
	gen := s.newID
	if gen == nil {
		gen = NewRuleID
	}
	id := ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := gen()
		if candidate != "" && s.index(candidate) < 0 {
			id = candidate
			break
		}
	}
	if id == "" {
		return s, Rule{}, fmt.Errorf("could not generate a unique rule id after %d attempts", maxIDAttempts)
	}
	r := Rule{ID: id, Name: DefaultRuleName, Pages: []string{}}
	out := RuleSet{rules: append(s.copyRules(), r), newID: s.newID}
	return out, r.clone(), nil
}

// Remove deletes the rule with id. An unknown id leaves s unchanged.
func (s RuleSet) Remove(id string) RuleSet {
	i := s.index(id)
	if i < 0 {
		return s
	}
	rules := s.copyRules()
	return RuleSet{rules: append(rules[:i], rules[i+1:]...), newID: s.newID}
}

// TogglePage adds slug to the rule's pages, or removes it if present.
func (s RuleSet) TogglePage(id, slug string) (RuleSet, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("toggle page %q on %q: %w", slug, id, ErrRuleNotFound)
	}
	rules := s.copyRules()
	r := rules[i]
	kept := r.Pages[:0]
	found := false
	for _, p := range r.Pages {
		if p == slug {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		kept = append(kept, slug)
	}
	r.Pages = kept
	rules[i] = r
	return RuleSet{rules: rules, newID: s.newID}, nil
}

// UpdateField sets one editable field on the rule with id.
func (s RuleSet) UpdateField(id string, field Field, value string) (RuleSet, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("update %s on %q: %w", field, id, ErrRuleNotFound)
	}
	rules := s.copyRules()
	switch field {
	case FieldName:
		rules[i].Name = value
	case FieldTags:
		rules[i].Tags = value
	default:
		return s, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return RuleSet{rules: rules, newID: s.newID}, nil
}

// ForPage returns the rules that target slug, in set order.
func (s RuleSet) ForPage(slug string) []Rule {
	var out []Rule
	for _, r := range s.rules {
		if r.Targets(slug) {
			out = append(out, r.clone())
		}
	}
	return out
}

// DanglingPages returns target slugs that are not in known, once each, in
// the order first seen. Dangling targets are tolerated, only reported.
func (s RuleSet) DanglingPages(known []string) []string {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range s.rules {
		for _, p := range r.Pages {
			if !set[p] && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// MarshalJSON encodes the set as an array of rules.
func (s RuleSet) MarshalJSON() ([]byte, error) {
	if len(s.rules) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.rules)
}

// ToJSON returns the JSON text stored in the settings document.
func (s RuleSet) ToJSON() (string, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RuleSetFromJSON decodes stored rules. Any decode problem yields an empty
// set. Rules without an id are dropped, as are repeats of an id already
// seen, so id-keyed edits stay unambiguous. Repeated page slugs collapse to
// their first occurrence so TogglePage removes a slug in one step.
func RuleSetFromJSON(raw string) RuleSet {
	if raw == "" {
		return RuleSet{}
	}
	var rules []Rule
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return RuleSet{}
	}
	s := RuleSet{}
	seen := map[string]bool{}
	for _, r := range rules {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		r.Pages = uniqueSlugs(r.Pages)
		s.rules = append(s.rules, r)
	}
	return s
}

// uniqueSlugs returns pages without repeats, keeping first-seen order.
func uniqueSlugs(pages []string) []string {
	out := make([]string, 0, len(pages))
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
