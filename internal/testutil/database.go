package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"stockkeeper/internal/infrastructure/mysql"
)

// SetupTestDB opens the test database. It expects a MySQL instance on
// localhost:3306 with a database named 'stockkeeper_test', or the DSN in
// TEST_DB_DSN. The test is skipped when the database is unreachable.
func SetupTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/stockkeeper_test?parseTime=true"
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes db.
func CleanupTestDB(t *testing.T, db *sqlx.DB) {
	if db == nil {
		return
	}

	for i := len(mysql.Tables) - 1; i >= 0; i-- {
		name := mysql.Tables[i].Name
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", name)); err != nil {
			t.Logf("failed to clean table %s: %v", name, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repositories.
func SetupTestTables(t *testing.T, db *sqlx.DB) {
	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
}

// InsertSeller adds an active seller and returns its id.
func InsertSeller(t *testing.T, db *sqlx.DB, name string) int64 {
	res, err := db.Exec(`INSERT INTO users (full_name, role) VALUES (?, 'seller')`, name)
	if err != nil {
		t.Fatalf("failed to insert seller: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// InsertProduct adds an active product holding warehouse units.
func InsertProduct(t *testing.T, db *sqlx.DB, sku string, warehouse int) int64 {
	res, err := db.Exec(`INSERT INTO products (name, sku, price, cost_price, warehouse_quantity)
		VALUES (?, ?, 10.00, 6.00, ?)`, "Product "+sku, sku, warehouse)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}
