package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/herbalstore/storefront-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestStorefrontMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"*_create_products_table.sql": {
			"CREATE TABLE IF NOT EXISTS products",
			"id text PRIMARY KEY",
			"CREATE INDEX IF NOT EXISTS idx_products_active_sort",
		},
		"*_create_promotion_tiers_table.sql": {
			"CREATE TABLE IF NOT EXISTS promotion_tiers",
			"normal_price integer NOT NULL",
			"REFERENCES products(id) ON DELETE CASCADE",
		},
		"*_create_orders_tables.sql": {
			"CREATE TABLE IF NOT EXISTS orders",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_reference",
			"CREATE TABLE IF NOT EXISTS order_items",
			"REFERENCES orders(id) ON DELETE CASCADE",
		},
		"*_create_outbox_events_table.sql": {
			"CREATE TABLE IF NOT EXISTS outbox_events",
			"payload jsonb NOT NULL",
			"WHERE published_at IS NULL",
		},
		"*_index_unpaid_orders.sql": {
			"idx_orders_pending_payment_created_at",
			"WHERE status = 'pending_payment'",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob %s: %v", pattern, err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one migration for %s, got %d", pattern, len(matches))
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read %s: %v", matches[0], err)
		}
		for _, sub := range checks {
			if !strings.Contains(string(data), sub) {
				t.Errorf("%s: missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Tier Labels!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_tier_labels.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	if err := migrate.ValidateFS(migrate.Embedded()); err != nil {
		t.Fatalf("validate embedded: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	embedded, err := fs.Glob(migrate.Embedded(), "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	if len(embedded) != len(onDisk) {
		t.Fatalf("expected %d embedded migrations, got %d", len(onDisk), len(embedded))
	}
}
