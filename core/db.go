package core

import "context"

type (
	// DBQueryer is satisfied by *sqlx.DB and *sqlx.Tx.
	DBQueryer interface {
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		Rebind(query string) string
	}

	DBPinger interface {
		PingContext(ctx context.Context) error
		Close() error
	}
)
