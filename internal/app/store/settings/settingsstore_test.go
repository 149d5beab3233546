package settingsstore

import (
	"testing"

	"github.com/dalemusser/stratatour/internal/testutil"
)

func TestStore_Get_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fields, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fields == nil || len(fields) != 0 {
		t.Errorf("Get() = %v, want empty non-nil map", fields)
	}
}

func TestStore_Replace_And_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fields := map[string]string{
		"site_name":    "Island Tours",
		"navbar_links": `[{"label":"Tours","url":"/tours"}]`,
	}
	if err := store.Replace(ctx, fields, "alice"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["site_name"] != "Island Tours" {
		t.Errorf("site_name = %q", got["site_name"])
	}
	if got["navbar_links"] != fields["navbar_links"] {
		t.Errorf("navbar_links = %q", got["navbar_links"])
	}

	doc, err := store.Document(ctx)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.UpdatedAt == nil {
		t.Error("UpdatedAt should be set after Replace()")
	}
	if doc.UpdatedByName != "alice" {
		t.Errorf("UpdatedByName = %q, want alice", doc.UpdatedByName)
	}
}

func TestStore_Replace_RemovesMissingKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Replace(ctx, map[string]string{"headTags": "<meta>", "site_name": "A"}, ""); err != nil {
		t.Fatalf("Replace() initial error = %v", err)
	}
	if err := store.Replace(ctx, map[string]string{"site_name": "B"}, ""); err != nil {
		t.Fatalf("Replace() update error = %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := got["headTags"]; ok {
		t.Error("Replace() kept a key absent from the new map")
	}
	if got["site_name"] != "B" {
		t.Errorf("site_name = %q, want B", got["site_name"])
	}

	count, err := db.Collection("site_settings").CountDocuments(ctx, singletonFilter)
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if count != 1 {
		t.Errorf("settings documents = %d, want 1", count)
	}
}

func TestStore_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	exists, err := store.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() should return false when no settings saved")
	}

	if err := store.Replace(ctx, nil, ""); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	exists, err = store.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists() after save error = %v", err)
	}
	if !exists {
		t.Error("Exists() should return true after Replace()")
	}
}
