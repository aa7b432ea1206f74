package persistence

import (
	"fmt"

	"gorm.io/gorm"
)

// sqliteSchema mirrors migrations/000001_init_schema.up.sql for SQLite, which
// golang-migrate's postgres driver cannot target. Used by local runs with
// driver=sqlite and by repository tests.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'buyer' CHECK (type IN ('buyer', 'shop')),
		is_active BOOLEAN NOT NULL DEFAULT 1,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_users_email ON users (email COLLATE NOCASE)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		city TEXT NOT NULL,
		street TEXT NOT NULL,
		house TEXT NOT NULL DEFAULT '',
		structure TEXT NOT NULL DEFAULT '',
		building TEXT NOT NULL DEFAULT '',
		apartment TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS shops (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		user_id INTEGER UNIQUE REFERENCES users (id) ON DELETE CASCADE,
		state BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS category_shops (
		category_id INTEGER NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
		shop_id INTEGER NOT NULL REFERENCES shops (id) ON DELETE CASCADE,
		PRIMARY KEY (category_id, shop_id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
		UNIQUE (name, category_id)
	)`,
	`CREATE TABLE IF NOT EXISTS product_infos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		shop_id INTEGER NOT NULL REFERENCES shops (id) ON DELETE CASCADE,
		external_id INTEGER NOT NULL CHECK (external_id >= 0),
		model TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		price NUMERIC NOT NULL CHECK (price >= 0),
		price_rrc NUMERIC NOT NULL CHECK (price_rrc >= 0),
		UNIQUE (product_id, shop_id, external_id)
	)`,
	`CREATE TABLE IF NOT EXISTS parameters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_parameters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_info_id INTEGER NOT NULL REFERENCES product_infos (id) ON DELETE CASCADE,
		parameter_id INTEGER NOT NULL REFERENCES parameters (id) ON DELETE CASCADE,
		value TEXT NOT NULL,
		UNIQUE (product_info_id, parameter_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		state TEXT NOT NULL CHECK (state IN ('cart', 'new', 'confirmed', 'assembled', 'sent', 'delivered', 'canceled')),
		contact_id INTEGER REFERENCES contacts (id) ON DELETE SET NULL,
		dt DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_cart_per_user ON orders (user_id) WHERE state = 'cart'`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_info_id INTEGER REFERENCES product_infos (id) ON DELETE SET NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		UNIQUE (order_id, product_info_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notification_tasks (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		order_id INTEGER NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		run_at DATETIME NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0,
		max_retries INTEGER NOT NULL DEFAULT 5,
		last_error TEXT,
		next_retry_at DATETIME,
		sent_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notification_tasks_due ON notification_tasks (status, run_at)`,
}

// EnsureSQLiteSchema creates the application tables on a SQLite connection
func EnsureSQLiteSchema(db *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}
	return nil
}
