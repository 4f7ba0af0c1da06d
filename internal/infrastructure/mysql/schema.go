package mysql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tables in creation order. Drop in reverse.
var Tables = []struct {
	Name string
	DDL  string
}{
	{"categories", `
	CREATE TABLE IF NOT EXISTS categories (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		description VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`},
	{"products", `
	CREATE TABLE IF NOT EXISTS products (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		sku VARCHAR(64) NOT NULL UNIQUE,
		price DECIMAL(14,2) NOT NULL DEFAULT 0,
		cost_price DECIMAL(14,2) NOT NULL DEFAULT 0,
		category_id BIGINT NULL,
		warehouse_quantity INT NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT chk_products_warehouse CHECK (warehouse_quantity >= 0),
		FOREIGN KEY (category_id) REFERENCES categories(id),
		INDEX idx_products_category (category_id)
	)`},
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		telegram_id BIGINT NULL UNIQUE,
		full_name VARCHAR(255) NOT NULL,
		username VARCHAR(100) NOT NULL DEFAULT '',
		phone VARCHAR(30) NOT NULL DEFAULT '',
		role ENUM('admin','seller') NOT NULL DEFAULT 'seller',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		is_deleted TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`},
	{"seller_products", `
	CREATE TABLE IF NOT EXISTS seller_products (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		assigned_at DATETIME NOT NULL,
		unassigned_at DATETIME NULL,
		UNIQUE KEY uq_seller_products (seller_id, product_id),
		FOREIGN KEY (seller_id) REFERENCES users(id),
		FOREIGN KEY (product_id) REFERENCES products(id)
	)`},
	{"seller_stocks", `
	CREATE TABLE IF NOT EXISTS seller_stocks (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		last_transfer_date DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT chk_seller_stocks_quantity CHECK (quantity >= 0),
		UNIQUE KEY uq_seller_stocks (seller_id, product_id),
		FOREIGN KEY (seller_id) REFERENCES users(id),
		FOREIGN KEY (product_id) REFERENCES products(id)
	)`},
	{"transfers", `
	CREATE TABLE IF NOT EXISTS transfers (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		type ENUM('transfer','return') NOT NULL,
		status ENUM('completed','cancelled') NOT NULL DEFAULT 'completed',
		initiated_by BIGINT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT chk_transfers_quantity CHECK (quantity > 0),
		INDEX idx_transfers_seller (seller_id, created_at),
		INDEX idx_transfers_product (product_id, created_at)
	)`},
	{"sales", `
	CREATE TABLE IF NOT EXISTS sales (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		price DECIMAL(14,2) NOT NULL,
		total_amount DECIMAL(16,2) NOT NULL,
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		customer_phone VARCHAR(30) NOT NULL DEFAULT '',
		notes TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT chk_sales_quantity CHECK (quantity > 0),
		INDEX idx_sales_seller (seller_id, created_at),
		INDEX idx_sales_product (product_id, created_at)
	)`},
}

// EnsureSchema creates any missing table.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, tbl := range Tables {
		if _, err := db.ExecContext(ctx, tbl.DDL); err != nil {
			return fmt.Errorf("creating table %s: %w", tbl.Name, err)
		}
	}
	return nil
}
