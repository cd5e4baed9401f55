package database

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
)

func TestURL(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:   "postgres",
		Host:     "db",
		Port:     5432,
		User:     "rick",
		Password: "s3cr3t",
		Name:     "gradebook",
	}}
	assert.Equal(t, "postgres://rick:s3cr3t@db:5432/gradebook?sslmode=require&timezone=utc", URL(conf))

	conf.Database.DisableTLS = true
	assert.Contains(t, URL(conf), "sslmode=disable")
}

func TestMigrationsFS(t *testing.T) {
	files, err := fs.Glob(MigrationsFS, MigrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(f, func(t *testing.T) {
			body, err := fs.ReadFile(MigrationsFS, f)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"))
			assert.Contains(t, string(body), "-- +goose Down")
		})
	}
}

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) PingContext(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func (p *flakyPinger) Close() error { return nil }

func TestPing(t *testing.T) {
	p := &flakyPinger{failures: 2}
	require.NoError(t, ping(context.Background(), p))
	assert.Equal(t, 3, p.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ping(ctx, &flakyPinger{failures: 100})
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}
