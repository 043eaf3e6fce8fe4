// Package db manages the PostgreSQL connection pool and schema
// migrations for budgetd.
//
// Connect establishes a pgx pool with retry and exponential backoff so
// the daemon survives a database that is still coming up. Migrate
// applies embedded goose migrations on startup. Shutdown returns a hook
// for graceful teardown.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//	    return err
//	}
package db
