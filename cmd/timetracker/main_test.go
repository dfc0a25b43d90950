package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the root command with args against a temporary config dir and
// returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TIMETRACKER_DB", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		dbPath = ""
		debug = false
		todayDate = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tasks.db")
}

func TestRootCommandHelp(t *testing.T) {
	if _, err := run(t, "--help"); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}
}

func TestPersistentFlags(t *testing.T) {
	f := rootCmd.PersistentFlags()
	for _, name := range []string{"db", "debug"} {
		if f.Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"invoke": false, "commands": false, "today": false, "migrate": false, "path": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q command to be registered", name)
		}
	}
}

func TestResolveDBPath_Default(t *testing.T) {
	dbPath = ""
	cfg = nil
	t.Setenv("TIMETRACKER_DB", "")

	got, err := resolveDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "timetracker-dev.db" {
		t.Errorf("dev builds should use timetracker-dev.db, got %q", got)
	}

	buildMode = "release"
	defer func() { buildMode = "dev" }()
	got, _ = resolveDBPath()
	if filepath.Base(got) != "timetracker.db" {
		t.Errorf("release builds should use timetracker.db, got %q", got)
	}
}

func TestResolveDBPath_EnvAndFlag(t *testing.T) {
	cfg = nil
	dbPath = ""
	t.Setenv("TIMETRACKER_DB", "/tmp/from-env.db")

	got, _ := resolveDBPath()
	if got != "/tmp/from-env.db" {
		t.Errorf("resolveDBPath() = %q, want env value", got)
	}

	dbPath = "/tmp/from-flag.db"
	defer func() { dbPath = "" }()
	got, _ = resolveDBPath()
	if got != "/tmp/from-flag.db" {
		t.Errorf("flag should override env, got %q", got)
	}
}

func TestPathCommand(t *testing.T) {
	db := testDB(t)
	out, err := run(t, "--db", db, "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != db {
		t.Errorf("path printed %q, want %q", out, db)
	}
	if _, err := os.Stat(db); !os.IsNotExist(err) {
		t.Error("path should not create the database")
	}
}

func TestCommandsListsNames(t *testing.T) {
	out, err := run(t, "commands")
	if err != nil {
		t.Fatal(err)
	}
	names := strings.Fields(out)
	if len(names) != 15 {
		t.Fatalf("expected 15 command names, got %d: %v", len(names), names)
	}
}

func TestInvokeRoundTrip(t *testing.T) {
	db := testDB(t)

	out, err := run(t, "--db", db, "invoke", "create_task", `{"name": "Writing", "date": "2024-03-01"}`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"name":"Writing"`) || !strings.Contains(out, `"created_at":"2024-03-01 00:00:00"`) {
		t.Fatalf("unexpected create output %q", out)
	}

	if _, err := run(t, "--db", db, "invoke", "add_time_to_task", `{"task_id": 1, "seconds_to_add": 1500}`); err != nil {
		t.Fatal(err)
	}

	out, err = run(t, "--db", db, "invoke", "get_task_by_id", `{"task_id": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"total_seconds":1500`) {
		t.Fatalf("unexpected get output %q", out)
	}

	out, err = run(t, "--db", db, "invoke", "get_task_by_id", `{"task_id": 99}`)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("missing task should print null, got %q", out)
	}
}

func TestInvokeErrors(t *testing.T) {
	db := testDB(t)

	_, err := run(t, "--db", db, "invoke", "nope")
	if err == nil || err.Error() != `unknown command "nope"` {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = run(t, "--db", db, "invoke", "create_task", `{"date": "2024-03-01"}`)
	if err == nil || !strings.Contains(err.Error(), "missing name") {
		t.Fatalf("expected missing name error, got %v", err)
	}

	if _, err := run(t, "--db", db, "invoke"); err == nil {
		t.Fatal("invoke without a command name should fail")
	}
}

func TestInvokeArgsFromStdin(t *testing.T) {
	raw, err := invokeArgs(strings.NewReader(" {\"date\": \"2024-03-01\"}\n"), []string{"get_tasks_for_date", "-"})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"date": "2024-03-01"}` {
		t.Fatalf("unexpected args %q", raw)
	}

	raw, _ = invokeArgs(nil, []string{"get_todays_tasks"})
	if raw != nil {
		t.Fatal("no args should yield nil")
	}
}

func TestTodayCommand(t *testing.T) {
	db := testDB(t)

	out, err := run(t, "--db", db, "today", "--date", "2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No tasks on 2024-03-01") {
		t.Fatalf("unexpected empty output %q", out)
	}

	run(t, "--db", db, "invoke", "create_task", `{"name": "Review", "date": "2024-03-01", "initial_seconds": 5400}`)
	out, err = run(t, "--db", db, "today", "--date", "2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Review") || !strings.Contains(out, "01:30:00") {
		t.Fatalf("today output missing task: %q", out)
	}
}

func TestMigrateCommand(t *testing.T) {
	db := testDB(t)
	out, err := run(t, "--db", db, "migrate")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "add_task_note") {
		t.Fatalf("migrate should list the note migration, got %q", out)
	}
}
