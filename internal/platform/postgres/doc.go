// Package postgres implements the store interfaces against PostgreSQL
// using the pgx stdlib driver through database/sql. All driver errors are
// normalized through MapError so the service layer only ever sees the
// store package's error taxonomy.
package postgres
