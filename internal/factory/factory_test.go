package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	natsserver "github.com/nats-io/nats-server/v2/server"

	"github.com/mcoot/matchawards/internal/events"
	redisstorage "github.com/mcoot/matchawards/internal/storage/redis"
)

func TestNewWithEachStorage(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"default", Config{}},
		{"memory", Config{StorageType: StorageTypeMemory}},
		{"redis", Config{StorageType: StorageTypeRedis, RedisConfig: &redisstorage.Config{URL: "redis://" + mr.Addr()}}},
		{"sqlite", Config{StorageType: StorageTypeSQLite, DatabaseURL: ":memory:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			app, err := New(ctx, tt.cfg)
			require.NoError(t, err)
			defer app.Close()

			require.NoError(t, app.Roster.SeedTeam(ctx))
			players, err := app.Roster.Players(ctx)
			require.NoError(t, err)
			assert.Len(t, players, 12)
		})
	}
}

func TestNewRejectsBadStorage(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{StorageType: "mongo"})
	assert.ErrorContains(t, err, "invalid StorageType")

	_, err = New(ctx, Config{StorageType: StorageTypeRedis})
	assert.ErrorContains(t, err, "RedisConfig required")

	_, err = New(ctx, Config{StorageType: StorageTypePostgres})
	assert.ErrorContains(t, err, "DatabaseURL required")
}

func TestNewWithNATSBridge(t *testing.T) {
	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1, NoSigs: true, NoLog: true})
	require.NoError(t, err)
	go srv.Start()
	defer srv.Shutdown()
	require.True(t, srv.ReadyForConnections(10*time.Second))

	app, err := New(context.Background(), Config{NATSURL: srv.ClientURL()})
	require.NoError(t, err)
	defer app.Close()

	_, ok := app.Publisher.(*events.NATSBridge)
	assert.True(t, ok)
}
