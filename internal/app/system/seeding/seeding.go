// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"strconv"

	pagestore "github.com/dalemusser/stratatour/internal/app/store/pages"
	settingsstore "github.com/dalemusser/stratatour/internal/app/store/settings"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/models"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := seedPages(ctx, db, logger); err != nil {
		return err
	}
	return seedSettings(ctx, db, logger)
}

type defaultPage struct {
	slug, title, heading, text string
}

var defaultPages = []defaultPage{
	{models.PageSlugHome, "Home", "Welcome", "Discover guided tours, comfortable vehicles and places to stay."},
	{models.PageSlugTours, "Tours", "Our Tours", "Describe the tours you offer here."},
	{models.PageSlugVehicles, "Vehicles", "Our Vehicles", "Describe your fleet here."},
	{models.PageSlugAccommodations, "Accommodations", "Where to Stay", "List the accommodations you partner with here."},
	{models.PageSlugAbout, "About", "About Us", "Tell visitors who you are."},
	{models.PageSlugContact, "Contact", "Contact Us", "Add your phone number, email address and office hours."},
}

// build returns the seed page: a heading followed by one paragraph.
func (d defaultPage) build() (content.Page, error) {
	p, err := content.NewPage(d.title, d.slug)
	if err != nil {
		return content.Page{}, err
	}
	p = p.AddBlock(content.KindHeading).AddBlock(content.KindText)
	if p, err = p.UpdateBlock(0, d.heading); err != nil {
		return content.Page{}, err
	}
	return p.UpdateBlock(1, d.text)
}

// seedPages creates default pages if they don't exist.
func seedPages(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := pagestore.New(db)

	for _, d := range defaultPages {
		exists, err := store.Exists(ctx, d.slug)
		if err != nil {
			logger.Error("failed to check if page exists",
				zap.String("slug", d.slug),
				zap.Error(err))
			return err
		}
		if exists {
			continue
		}
		page, err := d.build()
		if err != nil {
			return err
		}
		if err := store.Upsert(ctx, page); err != nil {
			logger.Error("failed to seed page",
				zap.String("slug", d.slug),
				zap.Error(err))
			return err
		}
		logger.Info("seeded default page", zap.String("slug", d.slug))
	}

	return nil
}

// seedSettings writes a starter settings document on a fresh install. An
// existing document is never touched.
func seedSettings(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := settingsstore.New(db)

	exists, err := store.Exists(ctx)
	if err != nil {
		logger.Error("failed to check if settings exist", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}

	var nav []content.Link
	for _, d := range defaultPages {
		url := "/" + d.slug
		if d.slug == models.PageSlugHome {
			url = "/"
		}
		nav = append(nav, content.Link{Label: d.title, URL: url})
	}

	s := siteconfig.Decode(siteconfig.NewDocument(map[string]string{
		siteconfig.KeySiteName: siteconfig.DefaultSiteName,
		siteconfig.KeyVersion:  strconv.Itoa(siteconfig.CurrentVersion),
	}))
	s = s.WithLinks(siteconfig.KeyNavbarLinks, content.NewList(nav...))
	s = s.WithLinks(siteconfig.KeyFooterLinks, content.NewList(
		content.Link{Label: "About", URL: "/about"},
		content.Link{Label: "Contact", URL: "/contact"},
	))
	doc, err := s.Encode()
	if err != nil {
		return err
	}
	if err := store.Replace(ctx, doc.Fields(), ""); err != nil {
		logger.Error("failed to seed settings", zap.Error(err))
		return err
	}
	logger.Info("seeded default settings")
	return nil
}
