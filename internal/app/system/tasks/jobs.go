// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/stratatour/internal/app/system/timeouts"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
	"go.uber.org/zap"
)

// AuditPruner deletes audit events older than a cutoff.
type AuditPruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRetentionJob removes audit events older than retention. A
// non-positive retention keeps everything and the job does nothing.
func AuditRetentionJob(store AuditPruner, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-retention",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			if retention <= 0 {
				return nil
			}
			ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "audit-retention")
			defer cancel()
			deleted, err := store.DeleteBefore(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned audit events", zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}

// SettingsSource returns the raw settings map.
type SettingsSource interface {
	Get(ctx context.Context) (map[string]string, error)
}

// SlugLister returns every stored page slug.
type SlugLister interface {
	Slugs(ctx context.Context) ([]string, error)
}

// DanglingRulesJob warns about head injection rules that target pages
// which no longer exist. Nothing is modified; an editor decides whether
// to fix the rule or recreate the page.
func DanglingRulesJob(settings SettingsSource, pages SlugLister, logger *zap.Logger) Job {
	return Job{
		Name:     "dangling-rule-pages",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), logger, "dangling-rule-pages")
			defer cancel()
			fields, err := settings.Get(ctx)
			if err != nil {
				return err
			}
			slugs, err := pages.Slugs(ctx)
			if err != nil {
				return err
			}
			doc, _ := siteconfig.Upgrade(siteconfig.NewDocument(fields))
			if dangling := doc.Rules().DanglingPages(slugs); len(dangling) > 0 {
				logger.Warn("head injection rules target missing pages",
					zap.Strings("slugs", dangling))
			}
			return nil
		},
	}
}
