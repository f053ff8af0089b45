package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchawards/internal/api"
	"github.com/mcoot/matchawards/internal/api/response"
	"github.com/mcoot/matchawards/internal/factory"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/roster"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "awards")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/awards")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	// Keep the developer's own AWARDS_* settings out of the run
	cmd.Env = []string{"HOME=" + os.TempDir(), "PATH=" + os.Getenv("PATH")}
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full server stack on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(context.Background(), factory.Config{
		Logger: logger,
		RosterConfig: &roster.Config{
			Team: []model.RosterEntry{
				{ShirtNumber: 3, Name: "Eda"},
				{ShirtNumber: 7, Name: "Elonie"},
				{ShirtNumber: 9, Name: "Yarina"},
			},
			CoachPIN: "0000",
		},
	})
	require.NoError(t, err)
	seeded, err := app.Roster.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(app.Handler(factory.HandlerOptions{Logger: logger}), api.DefaultServerConfig(), logger)
	server.OnShutdown(app.Hubs.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		_ = app.Close()
	})

	serverURL := "http://" + ln.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func TestCLIMatchRound(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the CLI binary")
	}

	cli := newCLIRunner(t, startTestServer(t))

	out, err := cli.run("health")
	require.NoError(t, err, out)
	assert.Equal(t, "ok", decode[response.Health](t, out).Status)

	// First login with the default PIN asks for a new one
	out, err = cli.run("login", "--shirt", "7", "--pin", "1234")
	require.NoError(t, err, out)
	assert.True(t, decode[response.Login](t, out).NeedsPINChange)

	out, err = cli.run("pin", "--shirt", "7", "--old", "1234", "--new", "2468")
	require.NoError(t, err, out)

	out, err = cli.run("vote", "--shirt", "7", "--pin", "2468",
		"--pick", "shield=Eda", "--pick", "spark=Yarina", "--pick", "catalyst=Eda")
	require.NoError(t, err, out)
	assert.Len(t, decode[response.Vote](t, out).Picks, 3)

	out, err = cli.run("vote", "--shirt", "7", "--pin", "2468",
		"--pick", "shield=Eda", "--pick", "spark=Yarina", "--pick", "catalyst=Eda")
	require.Error(t, err)
	assert.Contains(t, out, "ALREADY_VOTED")

	out, err = cli.run("feedback", "--shirt", "9", "--pin", "1234", "--text", "Thanks coach")
	require.NoError(t, err, out)

	// Coach
	out, err = cli.run("login", "--shirt", "0", "--pin", "0000")
	require.NoError(t, err, out)
	assert.True(t, decode[response.Login](t, out).IsAdmin)

	out, err = cli.run("admin", "standings")
	require.NoError(t, err, out)
	votes := map[int]int{}
	for _, s := range decode[response.Standings](t, out).Standings {
		votes[int(s.ShirtNumber)] = s.Votes
	}
	assert.Equal(t, map[int]int{3: 2, 7: 0, 9: 1}, votes)

	out, err = cli.run("admin", "players")
	require.NoError(t, err, out)
	assert.ElementsMatch(t, []int{3, 9}, decode[response.Roster](t, out).Pending)

	out, err = cli.run("admin", "messages")
	require.NoError(t, err, out)
	msgs := decode[response.Messages](t, out).Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "Thanks coach", msgs[0].Text)

	out, err = cli.run("admin", "new-match")
	require.NoError(t, err, out)

	out, err = cli.run("admin", "players")
	require.NoError(t, err, out)
	assert.Len(t, decode[response.Roster](t, out).Pending, 3)

	out, err = cli.run("logout")
	require.NoError(t, err, out)

	out, err = cli.run("admin", "standings")
	require.Error(t, err)
	assert.Contains(t, out, "not logged in as coach")
}
