package events

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchawards/internal/testutil"
)

func runNATSServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoSigs: true, NoLog: true})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("nats server did not start")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestNATSBridgeFansOutBetweenInstances(t *testing.T) {
	ns := runNATSServer(t)

	first := &Recorder{}
	second := &Recorder{}
	a, err := NewNATSBridge(ns.ClientURL(), "", first, testutil.NopLogger())
	require.NoError(t, err)
	defer a.Close()
	b, err := NewNATSBridge(ns.ClientURL(), "", second, testutil.NopLogger())
	require.NoError(t, err)
	defer b.Close()

	a.Publish(context.Background(), Event{
		Type:  TypeBonusGiven,
		Topic: PlayerTopic(7),
		Data:  map[string]any{"reason": "great save"},
	})

	require.Eventually(t, func() bool {
		return len(first.Events()) == 1 && len(second.Events()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := second.Events()[0]
	assert.Equal(t, TypeBonusGiven, got.Type)
	assert.Equal(t, PlayerTopic(7), got.Topic)
	assert.Equal(t, "great save", got.Data["reason"])
}

func TestNATSBridgeConnectFailure(t *testing.T) {
	_, err := NewNATSBridge("nats://127.0.0.1:1", "", Nop{}, testutil.NopLogger())
	assert.Error(t, err)
}
