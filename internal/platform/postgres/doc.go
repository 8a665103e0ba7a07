// Package postgres provides PostgreSQL implementations of the store
// interfaces. It uses database/sql with the pgx driver and maps driver
// error codes to the sentinel errors defined in the store package.
package postgres
