// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// configures connections based on the application's configuration. The
// production driver is MySQL; a sqlite driver is wired in as well, which is
// what the test suites use to get a throwaway in-memory database.
//
// # Connect
//
// The generic Connect function establishes a connection to the database and
// verifies it with a ping before returning. Connection pool limits and I/O
// timeouts are applied for the MySQL path.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
