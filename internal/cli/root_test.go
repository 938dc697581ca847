package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/config"
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, storageSection string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`%s

[analytics]
sink = "none"

[premium]
upgrade_delay = "0s"

[log]
path = %q
level = "warn"
`, storageSection, filepath.Join(dir, "tcheck.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func sqliteConfig(t *testing.T) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "tcheck.db")
	return writeConfig(t, fmt.Sprintf("[storage]\ndriver = \"sqlite\"\ndsn = %q", dsn))
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&errOut)
	root.Command().SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	require.NoError(t, err, "tcheck %s", strings.Join(args, " "))
	return out
}

// addedID pulls the id out of "Added <id>: <text>".
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, out)
	return strings.TrimSuffix(fields[1], ":")
}

func TestAddAndList(t *testing.T) {
	cfg := sqliteConfig(t)

	out := mustRun(t, cfg, "add", "write", "the", "report")
	assert.Contains(t, out, "write the report")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "[ ] p?")
	assert.Contains(t, out, "write the report")

	out = mustRun(t, cfg, "list", "--json")
	var tasks []model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, model.DefaultTabID, tasks[0].TabID)
}

func TestAddRejectsBlankText(t *testing.T) {
	cfg := sqliteConfig(t)
	_, err := run(t, cfg, "add", "   ")
	require.ErrorIs(t, err, model.ErrEmptyText)
	assert.Contains(t, mustRun(t, cfg, "list"), "No tasks.")
}

func TestToggleEditRemoveByPrefix(t *testing.T) {
	cfg := sqliteConfig(t)
	id := addedID(t, mustRun(t, cfg, "add", "draft"))
	prefix := id[:len(id)-2]

	out := mustRun(t, cfg, "toggle", prefix)
	assert.Contains(t, out, "draft is done")
	assert.Contains(t, mustRun(t, cfg, "list"), "[x]")

	mustRun(t, cfg, "edit", id, "final", "draft")
	assert.Contains(t, mustRun(t, cfg, "list"), "final draft")

	_, err := run(t, cfg, "edit", id, " ")
	require.ErrorIs(t, err, model.ErrEmptyText)

	mustRun(t, cfg, "rm", id)
	assert.Contains(t, mustRun(t, cfg, "list"), "No tasks.")

	_, err = run(t, cfg, "toggle", id)
	require.ErrorIs(t, err, board.ErrTaskNotFound)
}

func TestPriorityNeedsUpgrade(t *testing.T) {
	cfg := sqliteConfig(t)
	id := addedID(t, mustRun(t, cfg, "add", "urgent"))

	_, err := run(t, cfg, "priority", id, "p0")
	require.ErrorIs(t, err, ErrPremiumRequired)

	out := mustRun(t, cfg, "upgrade")
	assert.Contains(t, out, "Welcome to Pro!")
	assert.Contains(t, mustRun(t, cfg, "upgrade"), "Already Pro.")

	_, err = run(t, cfg, "priority", id, "p7")
	require.ErrorIs(t, err, model.ErrInvalidPriority)

	mustRun(t, cfg, "priority", id, "p0")
	assert.Contains(t, mustRun(t, cfg, "list"), "[ ] p0")
}

func TestTabCommands(t *testing.T) {
	cfg := sqliteConfig(t)

	_, err := run(t, cfg, "tab", "close", model.DefaultTabID)
	require.ErrorIs(t, err, board.ErrLastTab)

	out := mustRun(t, cfg, "tab", "add", "Work")
	fields := strings.Fields(out)
	require.Len(t, fields, 4, out)
	tabID := strings.TrimSuffix(fields[2], ":")

	mustRun(t, cfg, "add", "--tab", tabID, "report")
	mustRun(t, cfg, "add", "--tab", tabID, "review")
	assert.Contains(t, mustRun(t, cfg, "list", "--tab", tabID), "review")

	mustRun(t, cfg, "tab", "rename", tabID, "Office")
	out = mustRun(t, cfg, "tab", "list")
	assert.Contains(t, out, "Office")
	assert.Contains(t, out, "0/2")

	out = mustRun(t, cfg, "tab", "close", tabID)
	assert.Contains(t, out, "moved 2 task(s) to Main")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "report")
	assert.Contains(t, out, "review")

	_, err = run(t, cfg, "list", "--tab", tabID)
	require.ErrorIs(t, err, board.ErrTabNotFound)
}

func TestThemeCommands(t *testing.T) {
	cfg := sqliteConfig(t)
	assert.Contains(t, mustRun(t, cfg, "theme", "list"), "* matrix")

	mustRun(t, cfg, "theme", "set", "nord")
	assert.Contains(t, mustRun(t, cfg, "theme", "list"), "* nord")

	_, err := run(t, cfg, "theme", "set", "neon")
	require.ErrorIs(t, err, board.ErrUnknownTheme)
}

func TestStats(t *testing.T) {
	cfg := sqliteConfig(t)
	assert.Contains(t, mustRun(t, cfg, "stats"), "100% COMPLETE")

	id := addedID(t, mustRun(t, cfg, "add", "one"))
	mustRun(t, cfg, "add", "two")
	mustRun(t, cfg, "add", "three")
	mustRun(t, cfg, "toggle", id)

	out := mustRun(t, cfg, "stats")
	assert.Contains(t, out, "33% COMPLETE")
	assert.Contains(t, out, "1/3 Tasks Complete")
}

func TestEphemeralRunsLeaveNoTrace(t *testing.T) {
	cfg := sqliteConfig(t)
	mustRun(t, cfg, "--ephemeral", "add", "scratch")
	assert.Contains(t, mustRun(t, cfg, "--ephemeral", "list"), "No tasks.")
	assert.Contains(t, mustRun(t, cfg, "list"), "No tasks.")
}

func TestMissingConfigIsCreated(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	mustRun(t, path, "--ephemeral", "stats")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "[storage]\ndriver = \"oracle\"")
	_, err := run(t, cfg, "list")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "storage.driver", cfgErr.Field)
}

func TestRootRunsBoard(t *testing.T) {
	cfg := sqliteConfig(t)
	mustRun(t, cfg, "add", "visible in the board")

	root := NewRootCommand()
	var seen []model.Task
	root.runTUI = func(ctx context.Context, rt *runtime) error {
		seen = rt.board.Tasks()
		return nil
	}
	root.Command().SetArgs([]string{"--config", cfg})
	require.NoError(t, root.Execute(context.Background()))
	require.Len(t, seen, 1)
	assert.Equal(t, "visible in the board", seen[0].Text)
}

func TestRootReportsBoardError(t *testing.T) {
	cfg := sqliteConfig(t)
	root := NewRootCommand()
	boom := errors.New("terminal gone")
	root.runTUI = func(context.Context, *runtime) error { return boom }
	root.Command().SetArgs([]string{"--config", cfg})
	require.ErrorIs(t, root.Execute(context.Background()), boom)
}

func TestResolveTask(t *testing.T) {
	ids := []string{"abc-1", "abc-2", "xyz-1"}
	n := 0
	b, err := board.New(board.Options{
		Repo:  storage.NewRepository(storage.NewMemoryStore()),
		NewID: func(_ time.Time) string { id := ids[n]; n++; return id },
	})
	require.NoError(t, err)
	ctx := context.Background()
	for range ids {
		_, err := b.AddTask(ctx, "task", "")
		require.NoError(t, err)
	}

	got, err := resolveTask(b, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", got)

	got, err = resolveTask(b, "xy")
	require.NoError(t, err)
	assert.Equal(t, "xyz-1", got)

	_, err = resolveTask(b, "abc")
	assert.ErrorIs(t, err, errAmbiguousID)

	_, err = resolveTask(b, "nope")
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	_, err = resolveTask(b, "")
	assert.ErrorIs(t, err, board.ErrTaskNotFound)
}

func TestOpenStoreDrivers(t *testing.T) {
	ctx := context.Background()

	mem, err := openStore(ctx, config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	require.NoError(t, mem.Close())

	dsn := filepath.Join(t.TempDir(), "kv.db")
	sqlStore, err := openStore(ctx, config.StorageConfig{Driver: config.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, sqlStore.Set(ctx, storage.KeyTheme, "nord"))
	require.NoError(t, sqlStore.Close())

	if addr := os.Getenv("TCHECK_TEST_REDIS_ADDR"); addr != "" {
		rs, err := openStore(ctx, config.StorageConfig{Driver: config.DriverRedis, RedisAddr: addr, RedisPrefix: "tcheck-cli-test:"})
		require.NoError(t, err)
		require.NoError(t, rs.Close())
	}
}
