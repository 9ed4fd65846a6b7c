package mocks

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// nopDriver is a database/sql driver whose connections support only
// Begin/Commit/Rollback. Stores in this package ignore the *sql.Tx they are
// handed, so a no-op transaction is all the service layer needs.
type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (nopConn) Close() error                        { return nil }
func (nopConn) Begin() (driver.Tx, error)           { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

var registerOnce sync.Once

// NewTxDB returns a *sql.DB whose transactions begin, commit and roll back
// successfully without touching a database.
func NewTxDB() *sql.DB {
	registerOnce.Do(func() {
		sql.Register("mocks-nop", nopDriver{})
	})
	db, err := sql.Open("mocks-nop", "")
	if err != nil {
		panic(err)
	}
	return db
}
