package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratatour/internal/app/system/tasks"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePruner struct {
	cutoff time.Time
	calls  int
}

func (f *fakePruner) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return 3, nil
}

func TestAuditRetentionJob(t *testing.T) {
	p := &fakePruner{}
	job := tasks.AuditRetentionJob(p, 24*time.Hour, zap.NewNop())

	before := time.Now().UTC()
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("DeleteBefore calls = %d, want 1", p.calls)
	}
	if want := before.Add(-24 * time.Hour); p.cutoff.Before(want.Add(-time.Second)) || p.cutoff.After(want.Add(time.Second)) {
		t.Errorf("cutoff = %v, want about %v", p.cutoff, want)
	}

	off := &fakePruner{}
	if err := tasks.AuditRetentionJob(off, 0, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if off.calls != 0 {
		t.Errorf("retention 0 should not prune, calls = %d", off.calls)
	}
}

type fakeSettings map[string]string

func (f fakeSettings) Get(context.Context) (map[string]string, error) { return f, nil }

type fakeSlugs struct {
	slugs []string
	err   error
}

func (f fakeSlugs) Slugs(context.Context) ([]string, error) { return f.slugs, f.err }

func TestDanglingRulesJob(t *testing.T) {
	settings := fakeSettings{
		"headInjectionRules": `[{"id":"r1","name":"Ads","tags":"<meta>","pages":["home","gone"]}]`,
	}

	core, logs := observer.New(zap.WarnLevel)
	job := tasks.DanglingRulesJob(settings, fakeSlugs{slugs: []string{"home"}}, zap.New(core))
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	entries := logs.FilterMessage("head injection rules target missing pages").All()
	if len(entries) != 1 {
		t.Fatalf("warnings = %d, want 1", len(entries))
	}

	core, logs = observer.New(zap.WarnLevel)
	job = tasks.DanglingRulesJob(settings, fakeSlugs{slugs: []string{"home", "gone"}}, zap.New(core))
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("warnings = %d, want 0", logs.Len())
	}

	job = tasks.DanglingRulesJob(settings, fakeSlugs{err: errors.New("db down")}, zap.NewNop())
	if err := job.Run(context.Background()); err == nil {
		t.Error("Run() should fail when slugs cannot be listed")
	}
}
