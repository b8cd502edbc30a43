package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/medportal/internal/client/migrations"

	_ "modernc.org/sqlite"
)

// InitDatabase opens (creating if needed) the SQLite state database at dsn
// and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
