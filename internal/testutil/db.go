// Package testutil holds shared test helpers: a per-test MongoDB database
// and authenticated API requests.
package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratatour/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultDBURI is used unless STRATATOUR_TEST_MONGO_URI is set.
	DefaultDBURI = "mongodb://localhost:27017"
	// TestDBName prefixes every per-test database.
	TestDBName = "stratatour_test"

	// MongoDB caps database names at 63 bytes.
	maxDBName = 63
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// TestDBURI returns the MongoDB URI tests connect to.
func TestDBURI() string {
	if uri := os.Getenv("STRATATOUR_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return DefaultDBURI
}

// sharedClient connects once per test binary.
func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(TestDBURI()).
			SetMaxPoolSize(100).
			SetMaxConnIdleTime(30 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)

		client, clientErr = mongo.Connect(ctx, opts)
		if clientErr == nil {
			clientErr = client.Ping(ctx, nil)
		}
	})
	return client, clientErr
}

// SetupTestDB returns an empty database named after the test, with the
// production indexes in place. It is dropped again on cleanup.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Fatalf("failed to connect to test MongoDB at %s: %v", TestDBURI(), err)
	}
	db := c.Database(DBName(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("failed to drop test database: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop test database on cleanup: %v", err)
		}
	})
	return db
}

// DBName maps a test name to a valid database name.
func DBName(testName string) string {
	suffix := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, testName)

	name := TestDBName + "_" + suffix
	if len(name) > maxDBName {
		name = name[:maxDBName]
	}
	return name
}

// TestContext returns a context with a reasonable timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
