// Package store defines the persistence interfaces consumed by the service
// layer, the shared error taxonomy for storage failures, and the
// transaction helper used to compose multiple store operations atomically.
//
// Implementations live in internal/platform/postgres. Every store exposes a
// WithTx variant so the same store logic runs against *sql.DB or *sql.Tx.
package store
