package seeding

import (
	"testing"

	pagestore "github.com/dalemusser/stratatour/internal/app/store/pages"
	settingsstore "github.com/dalemusser/stratatour/internal/app/store/settings"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/models"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
	"github.com/dalemusser/stratatour/internal/testutil"
	"go.uber.org/zap"
)

func TestSeedAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := SeedAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("SeedAll() error = %v", err)
	}

	pages := pagestore.New(db)
	for _, slug := range models.DefaultPageSlugs() {
		p, err := pages.GetBySlug(ctx, slug)
		if err != nil {
			t.Errorf("GetBySlug(%q) error = %v", slug, err)
			continue
		}
		if len(p.Content) != 2 || p.Content[0].Type != string(content.KindHeading) {
			t.Errorf("page %q content = %+v", slug, p.Content)
		}
	}

	fields, err := settingsstore.New(db).Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	s := siteconfig.Decode(siteconfig.NewDocument(fields))
	if s.SiteName() != siteconfig.DefaultSiteName {
		t.Errorf("SiteName() = %q", s.SiteName())
	}
	if s.NavbarLinks.Len() != len(models.DefaultPageSlugs()) {
		t.Errorf("navbar links = %d, want %d", s.NavbarLinks.Len(), len(models.DefaultPageSlugs()))
	}
	if first, _ := s.NavbarLinks.At(0); first.URL != "/" {
		t.Errorf("first navbar link = %+v, want home at /", first)
	}
	if siteconfig.NewDocument(fields).Version() != siteconfig.CurrentVersion {
		t.Errorf("seeded version = %d", siteconfig.NewDocument(fields).Version())
	}
}

func TestSeedAll_KeepsExistingData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pages := pagestore.New(db)
	settings := settingsstore.New(db)

	custom, _ := content.NewPage("Custom Home", models.PageSlugHome)
	if _, err := pages.Create(ctx, custom, "editor"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := settings.Replace(ctx, map[string]string{"site_name": "Mine"}, "editor"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if err := SeedAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("SeedAll() error = %v", err)
	}
	// Running twice is harmless.
	if err := SeedAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second SeedAll() error = %v", err)
	}

	home, err := pages.GetBySlug(ctx, models.PageSlugHome)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if home.Title != "Custom Home" {
		t.Errorf("home title = %q, want Custom Home", home.Title)
	}
	fields, _ := settings.Get(ctx)
	if len(fields) != 1 || fields["site_name"] != "Mine" {
		t.Errorf("settings = %v, want untouched", fields)
	}
}
