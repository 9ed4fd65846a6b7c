// Package mocks provides in-memory test doubles for the store interfaces
// and a no-op transactional *sql.DB, so service-layer tests run without
// PostgreSQL.
package mocks
