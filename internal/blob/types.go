// Package blob re-exports the backing-object abstractions and selects a
// driver for the record stores.
package blob

import (
	"leaguestore/internal/blob/core"
)

type (
	// Driver identifies a backing-object driver.
	Driver = core.Driver
	// PutOptions configures an object write.
	PutOptions = core.PutOptions
	// Info describes stored object metadata.
	Info = core.Info
	// Store is the interface for backing-object drivers.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverSQLite is the embedded table driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the PostgreSQL table driver.
	DriverPostgres = core.DriverPostgres
)

// ErrNotFound indicates a missing object.
var ErrNotFound = core.ErrNotFound
