package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/stratatour/internal/app/system/siteapi"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/models"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
	"go.uber.org/zap"
)

// ErrUnknownList is returned for a link operation on a key that does not
// hold a link list.
var ErrUnknownList = errors.New("editor: not a link list key")

// SettingsEditor edits the whole site settings document.
type SettingsEditor struct {
	client *siteapi.Client
	logger *zap.Logger

	settings siteconfig.Settings
	catalog  []models.PageSummary
	upgrade  siteconfig.UpgradeReport
	edited   bool
}

// LoadSettingsEditor fetches the settings and page catalog and runs the
// settings upgrade. A failed fetch is returned as *LoadError.
func LoadSettingsEditor(ctx context.Context, client *siteapi.Client, s Session, logger *zap.Logger) (*SettingsEditor, error) {
	if !s.Valid() {
		return nil, ErrNoSession
	}
	c := client.As(s.credentials())

	doc, err := c.FetchSettings(ctx)
	if err != nil {
		return nil, &LoadError{What: "settings", Err: err}
	}
	catalog, err := c.FetchPageCatalog(ctx)
	if err != nil {
		return nil, &LoadError{What: "page catalog", Err: err}
	}

	doc, report := siteconfig.Upgrade(doc)
	if report.Changed() {
		logger.Info("settings upgraded on load",
			zap.Int("from_version", report.FromVersion),
			zap.Int("to_version", report.ToVersion),
			zap.Strings("applied", report.Applied),
		)
	}

	return &SettingsEditor{
		client:   c,
		logger:   logger,
		settings: siteconfig.Decode(doc),
		catalog:  catalog,
		upgrade:  report,
	}, nil
}

// Settings returns the current typed settings.
func (e *SettingsEditor) Settings() siteconfig.Settings { return e.settings }

// Catalog returns the pages a rule may target.
func (e *SettingsEditor) Catalog() []models.PageSummary {
	out := make([]models.PageSummary, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// Upgrade reports what the load-time upgrade did.
func (e *SettingsEditor) Upgrade() siteconfig.UpgradeReport { return e.upgrade }

// NeedsSave reports whether the stored document differs from the editor:
// after a user edit, or after a load-time upgrade changed the shape.
func (e *SettingsEditor) NeedsSave() bool {
	return e.edited || e.settings.Document().Dirty()
}

// Scalar returns a scalar setting, or "" when absent.
func (e *SettingsEditor) Scalar(key string) string {
	return e.settings.Scalar(key, "")
}

// SetScalar changes a scalar setting.
func (e *SettingsEditor) SetScalar(key, value string) {
	e.settings = e.settings.WithScalar(key, value)
	e.edited = true
}

func linkKey(key string) error {
	for _, k := range siteconfig.LinkListKeys() {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%q: %w", key, ErrUnknownList)
}

// Links returns the link list at key. Missing or malformed values are an
// empty list.
func (e *SettingsEditor) Links(key string) (content.Links, error) {
	if err := linkKey(key); err != nil {
		return content.Links{}, err
	}
	return e.settings.Links(key), nil
}

func (e *SettingsEditor) editLinks(key string, fn func(content.Links) (content.Links, error)) error {
	if err := linkKey(key); err != nil {
		return err
	}
	next, err := fn(e.settings.Links(key))
	if err != nil {
		return err
	}
	e.settings = e.settings.WithLinks(key, next)
	e.edited = true
	return nil
}

// AddLink appends an empty link to the list at key.
func (e *SettingsEditor) AddLink(key string) error {
	return e.editLinks(key, func(l content.Links) (content.Links, error) {
		return l.Append(content.Link{}), nil
	})
}

// UpdateLink replaces link i in the list at key.
func (e *SettingsEditor) UpdateLink(key string, i int, link content.Link) error {
	return e.editLinks(key, func(l content.Links) (content.Links, error) {
		return l.Set(i, link)
	})
}

// RemoveLink deletes link i. Callers confirm with the user first.
func (e *SettingsEditor) RemoveLink(key string, i int) error {
	return e.editLinks(key, func(l content.Links) (content.Links, error) {
		return l.RemoveAt(i)
	})
}

// MoveLink shifts link i one slot in dir. Boundaries are no-ops.
func (e *SettingsEditor) MoveLink(key string, i int, dir content.Direction) error {
	if err := linkKey(key); err != nil {
		return err
	}
	if !e.settings.Links(key).CanMove(i, dir) {
		return nil
	}
	return e.editLinks(key, func(l content.Links) (content.Links, error) {
		return l.MoveAdjacent(i, dir), nil
	})
}

// Rules returns the head injection rules in order.
func (e *SettingsEditor) Rules() []siteconfig.Rule {
	return e.settings.Rules.Rules()
}

// AddRule appends a new empty rule and returns it.
func (e *SettingsEditor) AddRule() (siteconfig.Rule, error) {
	rules, r, err := e.settings.Rules.Add()
	if err != nil {
		return siteconfig.Rule{}, err
	}
	e.settings.Rules = rules
	e.edited = true
	return r, nil
}

// RemoveRule deletes the rule with id. Unknown ids are ignored. Callers
// confirm with the user first.
func (e *SettingsEditor) RemoveRule(id string) {
	if _, ok := e.settings.Rules.Get(id); !ok {
		return
	}
	e.settings.Rules = e.settings.Rules.Remove(id)
	e.edited = true
}

// ToggleRulePage adds or removes slug from the rule's target pages.
func (e *SettingsEditor) ToggleRulePage(id, slug string) error {
	rules, err := e.settings.Rules.TogglePage(id, slug)
	if err != nil {
		return err
	}
	e.settings.Rules = rules
	e.edited = true
	return nil
}

// UpdateRuleField sets a rule's name or tags.
func (e *SettingsEditor) UpdateRuleField(id string, field siteconfig.Field, value string) error {
	rules, err := e.settings.Rules.UpdateField(id, field, value)
	if err != nil {
		return err
	}
	e.settings.Rules = rules
	e.edited = true
	return nil
}

// Save sends the whole document. Legacy head injection keys are dropped
// from the outgoing document. On success the form stays open.
func (e *SettingsEditor) Save(ctx context.Context) SaveResult {
	doc, err := e.settings.Encode()
	if err != nil {
		return failed(err)
	}
	if doc.HasLegacyKeys() {
		doc = doc.DropLegacyKeys()
	}

	if err := e.client.UpdateSettings(ctx, doc); err != nil {
		e.logger.Warn("settings save failed", zap.Error(err))
		return failed(err)
	}

	e.settings = siteconfig.Decode(doc.MarkClean())
	e.edited = false
	e.logger.Info("settings saved", zap.Int("keys", len(doc.Fields())))
	return saved(StayOnForm, "Settings saved")
}
