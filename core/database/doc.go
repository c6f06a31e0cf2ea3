// Package database handles catalog database connections.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL or SQLite
// connections from the application's configuration, with pool limits and a
// bounded initial ping.
//
// SQLite is limited to a single open connection so that in-memory databases
// used by tests and one-shot runs behave like a single database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
