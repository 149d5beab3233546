package editor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
	"go.uber.org/zap"
)

func linkLabels(l content.Links) []string {
	var out []string
	for _, it := range l.Items() {
		out = append(out, it.Label)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// A settings document with no navbar_links key edits as an empty list.
func TestSettingsEditor_MissingListIsEmpty(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	err := env.settings.Replace(ctx, map[string]string{
		siteconfig.KeySiteName: "Coast Tours",
		siteconfig.KeyVersion:  strconv.Itoa(siteconfig.CurrentVersion),
	}, "")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	ed, err := LoadSettingsEditor(ctx, env.client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadSettingsEditor() error = %v", err)
	}

	links, err := ed.Links(siteconfig.KeyNavbarLinks)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if !links.IsEmpty() {
		t.Errorf("navbar links = %v, want empty", links.Items())
	}
	if ed.NeedsSave() {
		t.Error("NeedsSave() = true for an untouched current document")
	}
	if _, err := ed.Links("site_name"); !errors.Is(err, ErrUnknownList) {
		t.Errorf("Links(site_name) error = %v, want ErrUnknownList", err)
	}
}

func TestSettingsEditor_LinkReordering(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	ed, err := LoadSettingsEditor(ctx, env.client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadSettingsEditor() error = %v", err)
	}

	key := siteconfig.KeyFooterLinks
	for i, label := range []string{"A", "B", "C"} {
		if err := ed.AddLink(key); err != nil {
			t.Fatalf("AddLink() error = %v", err)
		}
		if err := ed.UpdateLink(key, i, content.Link{Label: label, URL: "/" + label}); err != nil {
			t.Fatalf("UpdateLink(%d) error = %v", i, err)
		}
	}

	if err := ed.MoveLink(key, 2, content.Up); err != nil {
		t.Fatalf("MoveLink() error = %v", err)
	}
	links, _ := ed.Links(key)
	if got := linkLabels(links); !equalStrings(got, []string{"A", "C", "B"}) {
		t.Fatalf("after move C up = %v, want [A C B]", got)
	}
	if err := ed.MoveLink(key, 0, content.Up); err != nil {
		t.Fatalf("MoveLink() error = %v", err)
	}
	links, _ = ed.Links(key)
	if got := linkLabels(links); !equalStrings(got, []string{"A", "C", "B"}) {
		t.Fatalf("after boundary move = %v, want [A C B]", got)
	}

	if err := ed.RemoveLink(key, 1); err != nil {
		t.Fatalf("RemoveLink() error = %v", err)
	}
	if err := ed.RemoveLink(key, 5); err == nil {
		t.Error("RemoveLink(5) should fail")
	}
	if err := ed.AddLink("site_name"); err == nil {
		t.Error("AddLink on a scalar key should fail")
	}

	res := ed.Save(ctx)
	if !res.OK || res.Outcome != StayOnForm {
		t.Fatalf("Save() = %+v", res)
	}
	stored, err := env.settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored[key] != `[{"label":"A","url":"/A"},{"label":"B","url":"/B"}]` {
		t.Errorf("stored footer_links = %q", stored[key])
	}
	if ed.NeedsSave() {
		t.Error("NeedsSave() = true after a successful save")
	}
}

func TestSettingsEditor_BoundaryMoveIsNotAnEdit(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	key := siteconfig.KeyFooterLinks
	err := env.settings.Replace(ctx, map[string]string{
		siteconfig.KeyVersion: strconv.Itoa(siteconfig.CurrentVersion),
		key:                   `[{"label":"A","url":"/A"},{"label":"B","url":"/B"}]`,
	}, "")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	ed, err := LoadSettingsEditor(ctx, env.client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadSettingsEditor() error = %v", err)
	}

	tests := []struct {
		name string
		idx  int
		dir  content.Direction
	}{
		{"first up", 0, content.Up},
		{"last down", 1, content.Down},
		{"negative index", -1, content.Up},
		{"past end", 9, content.Down},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ed.MoveLink(key, tt.idx, tt.dir); err != nil {
				t.Fatalf("MoveLink() error = %v", err)
			}
			if ed.NeedsSave() {
				t.Errorf("MoveLink(%d, %s) made the editor need a save", tt.idx, tt.dir)
			}
		})
	}

	if err := ed.MoveLink("site_name", 0, content.Down); !errors.Is(err, ErrUnknownList) {
		t.Errorf("MoveLink(site_name) error = %v, want ErrUnknownList", err)
	}
	if err := ed.MoveLink(key, 1, content.Up); err != nil {
		t.Fatalf("MoveLink() error = %v", err)
	}
	links, _ := ed.Links(key)
	if got := linkLabels(links); !equalStrings(got, []string{"B", "A"}) || !ed.NeedsSave() {
		t.Errorf("after real move = %v NeedsSave=%v, want [B A] and true", got, ed.NeedsSave())
	}
}

func TestSettingsEditor_RulesAndScalars(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	ed, err := LoadSettingsEditor(ctx, env.client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadSettingsEditor() error = %v", err)
	}

	ed.SetScalar(siteconfig.KeySiteName, "Harbor Tours")
	r, err := ed.AddRule()
	if err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if err := ed.UpdateRuleField(r.ID, siteconfig.FieldTags, `<script src="/a.js"></script>`); err != nil {
		t.Fatalf("UpdateRuleField() error = %v", err)
	}
	if err := ed.ToggleRulePage(r.ID, "tours"); err != nil {
		t.Fatalf("ToggleRulePage() error = %v", err)
	}
	if err := ed.ToggleRulePage("missing", "tours"); err == nil {
		t.Error("ToggleRulePage on unknown id should fail")
	}
	if !ed.NeedsSave() {
		t.Error("NeedsSave() = false after edits")
	}

	if res := ed.Save(ctx); !res.OK {
		t.Fatalf("Save() = %+v", res)
	}

	reloaded, err := LoadSettingsEditor(ctx, env.client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if reloaded.Scalar(siteconfig.KeySiteName) != "Harbor Tours" {
		t.Errorf("site_name = %q", reloaded.Scalar(siteconfig.KeySiteName))
	}
	rules := reloaded.Rules()
	if len(rules) != 1 || rules[0].ID != r.ID || len(rules[0].Pages) != 1 || rules[0].Pages[0] != "tours" {
		t.Fatalf("rules = %+v", rules)
	}

	reloaded.RemoveRule(r.ID)
	reloaded.RemoveRule("missing")
	if len(reloaded.Rules()) != 0 {
		t.Errorf("rules after remove = %+v", reloaded.Rules())
	}
}

func TestSettingsEditor_LegacyUpgradeSavesCleanShape(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	err := env.settings.Replace(ctx, map[string]string{
		siteconfig.KeySiteName:        "Old Site",
		siteconfig.KeyLegacyHeadTags:  `<meta name="x">`,
		siteconfig.KeyLegacyHeadPages: `["home"]`,
	}, "")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	ed, err := LoadSettingsEditor(ctx, env.client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadSettingsEditor() error = %v", err)
	}
	if !ed.Upgrade().Changed() {
		t.Error("Upgrade().Changed() = false for a legacy document")
	}
	if !ed.NeedsSave() {
		t.Error("NeedsSave() = false after a load-time upgrade")
	}
	rules := ed.Rules()
	if len(rules) != 1 || rules[0].ID != siteconfig.LegacyRuleID || rules[0].Tags != `<meta name="x">` {
		t.Fatalf("migrated rules = %+v", rules)
	}

	if res := ed.Save(ctx); !res.OK {
		t.Fatalf("Save() = %+v", res)
	}
	stored, err := env.settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	for _, k := range []string{siteconfig.KeyLegacyHeadTags, siteconfig.KeyLegacyHeadPages} {
		if _, ok := stored[k]; ok {
			t.Errorf("legacy key %q still stored", k)
		}
	}
	if stored[siteconfig.KeyHeadInjectionRules] == "" {
		t.Error("headInjectionRules not stored")
	}
	if stored[siteconfig.KeySiteName] != "Old Site" {
		t.Errorf("site_name = %q", stored[siteconfig.KeySiteName])
	}
}

func TestSettingsEditor_FailedSaveKeepsState(t *testing.T) {
	client := stubServer(t, http.StatusInternalServerError, "Failed to save settings")
	ed, err := LoadSettingsEditor(context.Background(), client, session, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadSettingsEditor() error = %v", err)
	}

	ed.SetScalar(siteconfig.KeySiteName, "Unsaved")
	res := ed.Save(context.Background())
	if res.OK || res.Err == nil {
		t.Fatalf("Save() = %+v, want failure", res)
	}
	if res.Message != "Failed to save settings" {
		t.Errorf("Message = %q", res.Message)
	}
	if ed.Scalar(siteconfig.KeySiteName) != "Unsaved" || !ed.NeedsSave() {
		t.Error("edits lost after a failed save")
	}
}
