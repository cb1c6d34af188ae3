package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/breachtrack/internal/catalog"
	"github.com/idilsaglam/breachtrack/internal/config"
	"github.com/idilsaglam/breachtrack/internal/view"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

var errTUIStarted = errors.New("tui started")

func run(t *testing.T, dir string, args ...string) runResult {
	t.Helper()
	for _, k := range []string{
		"BREACHTRACK_CONFIG", "BREACHTRACK_BACKEND", "BREACHTRACK_DATA_DIR",
		"BREACHTRACK_CATALOG", "BREACHTRACK_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cmd, a := newRoot()
	a.runTUI = func(context.Context, *App) error { return errTUIStarted }
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", dir,
		"--no-color",
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func stats(t *testing.T, dir string) view.Stats {
	t.Helper()
	r := run(t, dir, "stats", "--json")
	require.NoError(t, r.err)
	var s view.Stats
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &s))
	return s
}

func TestCheck_PersistsAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	r := run(t, dir, "check", "gmail.com", "HTTPS://discord.com/")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "secured gmail.com")
	assert.Contains(t, r.stdout, "secured discord.com")

	s := stats(t, dir)
	assert.Equal(t, 68, s.Total)
	assert.Equal(t, 2, s.Checked)
	assert.Equal(t, 2, s.PerCategory["medium"].Checked)

	require.NoError(t, run(t, dir, "toggle", "gmail.com").err)
	require.NoError(t, run(t, dir, "uncheck", "discord.com").err)
	assert.Equal(t, 0, stats(t, dir).Checked)
}

func TestCheck_UnknownDomainChangesNothing(t *testing.T) {
	dir := t.TempDir()
	r := run(t, dir, "check", "gmail.com", "not-a-breach.example")

	var nf notFoundError
	require.ErrorAs(t, r.err, &nf)
	assert.Equal(t, "domain not found: not-a-breach.example", r.err.Error())
	assert.Contains(t, hintFor(r.err), "breachtrack ls")
	assert.Equal(t, 0, stats(t, dir).Checked)
}

func TestList_FilterSearchAndGroup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, dir, "check", "account.xiaomi.com").err)

	r := run(t, dir, "ls", "--filter", "high")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "[x] account.xiaomi.com [high]")
	assert.Contains(t, r.stdout, "[ ] account.aax.com [high]")
	assert.NotContains(t, r.stdout, "gmail.com")

	r = run(t, dir, "ls", "--search", "BINANCE", "--group")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Critical 0/10")
	assert.Contains(t, r.stdout, "accounts.binance.com")
	assert.NotContains(t, r.stdout, "High")

	r = run(t, dir, "ls", "--filter", "severe")
	var ue usageError
	require.ErrorAs(t, r.err, &ue)
}

func TestNote_SetPrintClear(t *testing.T) {
	dir := t.TempDir()

	r := run(t, dir, "note", "gmail.com")
	require.NoError(t, r.err)
	assert.Equal(t, "(no note)\n", r.stdout)

	require.NoError(t, run(t, dir, "note", "gmail.com", "rotated", "password").err)
	r = run(t, dir, "note", "gmail.com")
	require.NoError(t, r.err)
	assert.Equal(t, "rotated password\n", r.stdout)

	r = run(t, dir, "note", "--clear", "gmail.com", "new", "text")
	var ue usageError
	require.ErrorAs(t, r.err, &ue)
	assert.Equal(t, "rotated password\n", run(t, dir, "note", "gmail.com").stdout)

	require.NoError(t, run(t, dir, "note", "--clear", "gmail.com").err)
	r = run(t, dir, "note", "gmail.com")
	assert.Equal(t, "(no note)\n", r.stdout)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, run(t, src, "check", "bitly.com").err)
	require.NoError(t, run(t, src, "note", "bitly.com", `said "hi"`).err)

	jsonPath := filepath.Join(t.TempDir(), "export.json")
	r := run(t, src, "export", "-o", jsonPath)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "exported to")

	csv := run(t, src, "export", "--format", "csv")
	require.NoError(t, csv.err)
	assert.Contains(t, csv.stdout, "Domain,Risk Level,Checked,Notes\n")
	assert.Contains(t, csv.stdout, `"bitly.com","low","Yes","said ""hi"""`)

	dst := t.TempDir()
	r = run(t, dst, "import", jsonPath)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "imported 1 checked, 1 notes")
	assert.Equal(t, 1, stats(t, dst).Checked)
	assert.Equal(t, "said \"hi\"\n", run(t, dst, "note", "bitly.com").stdout)
}

func TestImport_RejectionsLeaveStateAlone(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, dir, "check", "gmail.com").err)

	csvPath := filepath.Join(dir, "progress.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Domain\n"), 0o644))
	r := run(t, dir, "import", csvPath)
	assert.ErrorContains(t, r.err, "CSV import is not supported")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"checked": {}}`), 0o644))
	r = run(t, dir, "import", bad)
	assert.ErrorContains(t, r.err, "Invalid file format")

	assert.Equal(t, 1, stats(t, dir).Checked)
}

func TestExport_FailedWriteIsReported(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	r := run(t, t.TempDir(), "export", "-o", "/dev/full")
	require.Error(t, r.err)
	assert.NotContains(t, r.stdout, "exported to")
}

func TestExport_UnknownFormat(t *testing.T) {
	r := run(t, t.TempDir(), "export", "--format", "xml")
	var ue usageError
	require.ErrorAs(t, r.err, &ue)
}

func TestTheme_SetAndShow(t *testing.T) {
	dir := t.TempDir()
	r := run(t, dir, "theme")
	require.NoError(t, r.err)
	assert.Equal(t, "dark\n", r.stdout)

	require.NoError(t, run(t, dir, "theme", "light").err)
	assert.Equal(t, "light\n", run(t, dir, "theme").stdout)

	assert.Error(t, run(t, dir, "theme", "sepia").err)
}

func TestCatalog_CountsAndDump(t *testing.T) {
	dir := t.TempDir()
	r := run(t, dir, "catalog")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Critical   10")
	assert.Contains(t, r.stdout, "Low        52")
	assert.Contains(t, r.stdout, "Total      68")
	assert.Contains(t, r.stdout, "built-in, updated 2025-08-27")

	r = run(t, dir, "catalog", "dump")
	require.NoError(t, r.err)
	c, err := catalog.Parse([]byte(r.stdout))
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Items(), c.Items())

	path := filepath.Join(dir, "mine.yaml")
	require.NoError(t, run(t, dir, "catalog", "dump", "-o", path).err)
	r = run(t, dir, "--catalog", path, "catalog")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, path)
}

func TestConfigInit_WritesEffectiveConfig(t *testing.T) {
	dir := t.TempDir()
	r := run(t, dir, "--backend", "sqlite", "config", "init")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "wrote ")

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, dir, cfg.Storage.DataDir)

	r = run(t, dir, "config", "init")
	var ue usageError
	require.ErrorAs(t, r.err, &ue)
	require.NoError(t, run(t, dir, "config", "init", "--force").err)
}

func TestCheck_ReportsRiskLevel(t *testing.T) {
	r := run(t, t.TempDir(), "check", "https://WWW.Gate.io/")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "secured www.gate.io [critical]")
}

func TestRoot_NoSubcommandStartsTUI(t *testing.T) {
	r := run(t, t.TempDir())
	assert.ErrorIs(t, r.err, errTUIStarted)
}

func TestBackends_SQLiteAndMemory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, dir, "--backend", "sqlite", "check", "gmail.com").err)
	r := run(t, dir, "--backend", "sqlite", "stats", "--json")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, `"checked": 1`)
	assert.FileExists(t, filepath.Join(dir, "state.sqlite"))

	require.NoError(t, run(t, dir, "--ephemeral", "check", "discord.com").err)
	assert.Equal(t, 0, stats(t, dir).Checked, "file backend untouched by the sqlite and memory runs")
}
