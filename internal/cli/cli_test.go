package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mmynk/squadstats/internal/commentary"
)

// resetFlags restores every flag to its default between executions of the
// shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// user is one local installation sharing a SQLite group file with others.
type user struct {
	t          *testing.T
	configPath string
}

func newUser(t *testing.T, sharedPath string) *user {
	t.Helper()
	dir := t.TempDir()
	content := "data_dir: " + dir + "\nshared_store: sqlite\nshared_path: " + sharedPath + "\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return &user{t: t, configPath: path}
}

func (u *user) runCtx(ctx context.Context, args ...string) (string, error) {
	u.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", u.configPath}, args...))
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func (u *user) run(args ...string) string {
	u.t.Helper()
	out, err := u.runCtx(context.Background(), args...)
	if err != nil {
		u.t.Fatalf("squad %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (u *user) fail(args ...string) error {
	u.t.Helper()
	_, err := u.runCtx(context.Background(), args...)
	if err == nil {
		u.t.Fatalf("squad %s: expected error", strings.Join(args, " "))
	}
	return err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SQUAD_DATA_DIR", "SQUAD_SHARED_STORE", "SQUAD_SHARED_PATH", "REDIS_URL", "DATABASE_URL",
		"SQUAD_ADDR", "SQUAD_POLL_INTERVAL", "GEMINI_API_KEY", "GEMINI_MODEL", "SQUAD_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

var codePattern = regexp.MustCompile(`Invite code: ([A-Z0-9]{6})`)

func createGroup(t *testing.T, u *user, name string) string {
	t.Helper()
	out := u.run("group", "create", name)
	m := codePattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no invite code in output: %q", out)
	}
	return m[1]
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("expected output to contain %q:\n%s", w, out)
		}
	}
}

func TestSquadFlow(t *testing.T) {
	clearEnv(t)
	shared := filepath.Join(t.TempDir(), "shared.db")
	alice := newUser(t, shared)
	bob := newUser(t, shared)

	assertContains(t, alice.run("profile"), "No profile yet")
	alice.run("profile", "init", "Alice", "--avatar", "🦊")
	assertContains(t, alice.run("profile"), "🦊 Alice")

	code := createGroup(t, alice, "Gym Rats")
	assertContains(t, alice.run("counter", "add", code, "Pushups", "--emoji", "💪"), "Added 💪 Pushups")
	assertContains(t, alice.run("tap", code, "pushups", "-n", "3"), "you: 3, squad: 3")

	bob.run("profile", "init", "Bob")
	assertContains(t, bob.run("group", "join", strings.ToLower(code)), `Joined "Gym Rats" (2/10 members)`)
	assertContains(t, bob.run("tap", code, "💪"), "you: 1, squad: 4")

	board := alice.run("board", code)
	assertContains(t, board, "Pushups (total 4)", "Alice", "Bob")
	if strings.Index(board, "Alice") > strings.Index(board, "Bob") {
		t.Errorf("expected Alice ranked above Bob:\n%s", board)
	}

	assertContains(t, alice.run("counter", "ls", code), "Pushups", "4")
	assertContains(t, alice.run("group", "ls"), code, "Gym Rats", "2 members")

	// Profile edits reach the shared group.
	alice.run("profile", "set", "--name", "Alicia")
	assertContains(t, bob.run("board", code), "Alicia")

	assertContains(t, alice.run("hype", code), commentary.ErrorFallback)

	assertContains(t, bob.run("group", "leave", code), `Left "Gym Rats"`)
	assertContains(t, bob.run("group", "ls"), "No groups yet")
	assertContains(t, alice.run("group", "ls"), "1 members")
}

func TestSquadErrors(t *testing.T) {
	clearEnv(t)
	shared := filepath.Join(t.TempDir(), "shared.db")
	alice := newUser(t, shared)

	err := alice.fail("group", "create", "Gym")
	assertContains(t, err.Error(), "create a profile first")

	alice.run("profile", "init", "Alice")
	if err := alice.fail("profile", "init", "Again"); !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected already exists error, got %v", err)
	}
	alice.fail("profile", "set")

	assertContains(t, alice.fail("group", "join", "ZZZZZZ").Error(), "no such group")

	code := createGroup(t, alice, "Gym")
	assertContains(t, alice.fail("group", "join", code).Error(), "already in this group")
	assertContains(t, alice.fail("tap", code, "situps").Error(), `no counter "situps"`)
	alice.fail("tap", code, "x", "-n", "0")

	for i := 0; i < 4; i++ {
		createGroup(t, alice, "Extra")
	}
	assertContains(t, alice.fail("group", "create", "Sixth").Error(), "limit reached")
}

func TestWatch(t *testing.T) {
	clearEnv(t)
	shared := filepath.Join(t.TempDir(), "shared.db")
	alice := newUser(t, shared)

	assertContains(t, alice.run("watch"), "No groups to watch")

	alice.run("profile", "init", "Alice")
	createGroup(t, alice, "First")
	code := createGroup(t, alice, "Second")
	alice.run("counter", "add", code, "Laps")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	out, err := alice.runCtx(ctx, "watch", "--group", code, "--interval", "20ms")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	assertContains(t, out, "Second", "Laps (total 0)", "no logs yet")
	if strings.Contains(out, "First") {
		t.Errorf("expected only the selected group:\n%s", out)
	}
}

func TestConfigShowMasksKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "super-secret")
	alice := newUser(t, filepath.Join(t.TempDir(), "shared.db"))

	out := alice.run("config")
	assertContains(t, out, "shared_store: sqlite", "********")
	if strings.Contains(out, "super-secret") {
		t.Errorf("api key leaked:\n%s", out)
	}
}
