package siteconfig

import (
	"encoding/json"
	"strconv"
)

// KeyVersion records the settings schema version a document was last
// upgraded to. Documents without it are version 1.
const KeyVersion = "settings_version"

// CurrentVersion is the schema version Upgrade produces.
const CurrentVersion = 2

// Legacy rule identity.
const (
	LegacyRuleID   = "legacy"
	LegacyRuleName = "Legacy Injection"
)

// upgradeStep is one shape migration. Apply reports whether it changed the
// document; a step whose precondition does not hold returns it unchanged.
type upgradeStep struct {
	Version int
	Name    string
	Apply   func(Document) (Document, bool)
}

var upgradeSteps = []upgradeStep{
	{Version: 2, Name: "legacy-head-injection", Apply: migrateLegacyHeadInjection},
}

// UpgradeReport describes what Upgrade did.
type UpgradeReport struct {
	FromVersion int
	ToVersion   int
	// Applied names the steps that changed document content.
	Applied []string
}

// Changed reports whether the upgraded document differs from the input.
func (r UpgradeReport) Changed() bool {
	return r.FromVersion != r.ToVersion || len(r.Applied) > 0
}

// Version returns the schema version recorded in d.
func (d Document) Version() int {
	v, err := strconv.Atoi(d.Scalar(KeyVersion, ""))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// Upgrade runs every step whose precondition holds, in order. The recorded
// version does not gate a step: a full-replace write from an older client
// can put legacy keys back under a current stamp.
//
// Only a document a step changed comes back dirty and stamped with
// CurrentVersion. Anything else is returned as given, so a pristine load
// does not ask to be saved.
//
// Upgrade only reads legacy keys; it never deletes them.
func Upgrade(d Document) (Document, UpgradeReport) {
	report := UpgradeReport{FromVersion: d.Version(), ToVersion: d.Version()}
	for _, step := range upgradeSteps {
		next, changed := step.Apply(d)
		if !changed {
			continue
		}
		report.Applied = append(report.Applied, step.Name)
		d = next
		if step.Version > report.ToVersion {
			report.ToVersion = step.Version
		}
	}
	if len(report.Applied) > 0 && report.ToVersion > report.FromVersion {
		d = d.SetScalar(KeyVersion, strconv.Itoa(report.ToVersion))
	}
	return d, report
}

// migrateLegacyHeadInjection synthesizes one rule from the legacy
// headTags/headTagsPages pair when no multi-rule value exists yet.
func migrateLegacyHeadInjection(d Document) (Document, bool) {
	if d.Rules().Len() > 0 {
		return d, false
	}
	tags := d.Scalar(KeyLegacyHeadTags, "")
	pages := uniqueSlugs(decodeStrings(d.Scalar(KeyLegacyHeadPages, "")))
	if tags == "" && len(pages) == 0 {
		return d, false
	}
	rules := NewRuleSet(Rule{
		ID:    LegacyRuleID,
		Name:  LegacyRuleName,
		Tags:  tags,
		Pages: pages,
	})
	out, err := d.SetRules(rules)
	if err != nil {
		return d, false
	}
	return out, true
}

// HasLegacyKeys reports whether either legacy head injection key is present.
func (d Document) HasLegacyKeys() bool {
	return d.Has(KeyLegacyHeadTags) || d.Has(KeyLegacyHeadPages)
}

// DropLegacyKeys removes the legacy head injection keys. Editors call it
// before a full-replace save so the superseded pair does not linger.
func (d Document) DropLegacyKeys() Document {
	return d.Delete(KeyLegacyHeadTags).Delete(KeyLegacyHeadPages)
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
