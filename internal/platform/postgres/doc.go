// Package postgres implements store.BookStore on PostgreSQL through
// database/sql and the pgx driver, and owns the embedded schema migrations.
package postgres
