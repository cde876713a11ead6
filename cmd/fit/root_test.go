package fit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/johnpc/fit-cli/internal/service"
)

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between in-process runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cliEnv struct {
	dir    string
	db     string
	config string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{dir: dir, db: filepath.Join(dir, "fit.db"), config: filepath.Join(dir, "config.yaml")}
	if _, err := env.run(t, "", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return env
}

func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", e.db, "--config", e.config}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func (e cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("fit %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (e cliEnv) day(t *testing.T, args ...string) service.Day {
	t.Helper()
	out := e.mustRun(t, append([]string{"day", "--json"}, args...)...)
	var d service.Day
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode day json: %v\n%s", err, out)
	}
	return d
}

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	resetFlags(rootCmd)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected help output")
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "", "init"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if _, err := os.Stat(env.config); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	out := env.mustRun(t, "config", "show")
	if !strings.Contains(out, "log.file\t"+filepath.Join(env.dir, "logs", "fit.log")) {
		t.Fatalf("expected log file beside config, got:\n%s", out)
	}
}

func TestFoodFlowUpdatesDayAndWidget(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "food", "add", "--name", "Eggs", "--calories", "300", "--protein", "20")
	fields := strings.Fields(out)
	if len(fields) < 3 {
		t.Fatalf("unexpected add output %q", out)
	}
	eggsID := fields[2]
	env.mustRun(t, "food", "add", "--calories", "200")

	d := env.day(t)
	if d.Consumed != 500 || d.Protein != 20 || len(d.Foods) != 2 {
		t.Fatalf("unexpected day after adds: %+v", d)
	}
	if d.Remaining != d.Burned-d.Consumed {
		t.Fatalf("remaining %d != burned %d - consumed %d", d.Remaining, d.Burned, d.Consumed)
	}

	widget := env.mustRun(t, "widget")
	if !strings.Contains(widget, "500 eaten") {
		t.Fatalf("expected widget to carry consumed total, got %q", widget)
	}

	env.mustRun(t, "food", "update", eggsID, "--calories", "350")
	env.mustRun(t, "food", "delete", eggsID)
	d = env.day(t)
	if d.Consumed != 200 || d.Protein != 0 || len(d.Foods) != 1 {
		t.Fatalf("unexpected day after delete: %+v", d)
	}
	if widget := env.mustRun(t, "widget"); !strings.Contains(widget, "200 eaten") {
		t.Fatalf("expected widget to follow delete, got %q", widget)
	}

	if _, err := env.run(t, "", "food", "delete", eggsID); err == nil {
		t.Fatalf("expected deleting a missing food to fail")
	}
}

func TestFoodAddRejectsBadInput(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "", "food", "add", "--calories", "-5"); err == nil {
		t.Fatalf("expected negative calories to fail")
	}
	if _, err := env.run(t, "", "food", "add", "--calories", "100", "--date", "03/02/2026"); err == nil {
		t.Fatalf("expected malformed date to fail")
	}
}

func TestBadDateNamesTheFlag(t *testing.T) {
	env := newCLIEnv(t)
	cases := map[string][]string{
		"--end":  {"stats", "week", "--end", "yesterday"},
		"--from": {"stats", "streak", "--from", "2026/03/02"},
		"--date": {"day", "--date", "March 2"},
	}
	for flag, args := range cases {
		_, err := env.run(t, "", args...)
		if err == nil {
			t.Fatalf("%v: expected an error", args)
		}
		if !strings.Contains(err.Error(), "invalid "+flag+" ") {
			t.Fatalf("%v: expected error to name %s, got %v", args, flag, err)
		}
	}
}

func TestQuickAddDefaultsAndUse(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "quick", "list")
	if !strings.Contains(out, "default-m") {
		t.Fatalf("expected default presets, got:\n%s", out)
	}
	env.mustRun(t, "quick", "use", "default-m", "--date", "2026-03-02")
	d := env.day(t, "--date", "2026-03-02")
	if d.Consumed != 500 {
		t.Fatalf("expected 500 from default-m, got %d", d.Consumed)
	}

	env.mustRun(t, "quick", "add", "--name", "Shake", "--calories", "250", "--protein", "30", "--icon", "nope")
	out = env.mustRun(t, "quick", "list", "--json")
	var items []struct {
		ID   string `json:"id"`
		Icon string `json:"icon"`
	}
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode quick list: %v", err)
	}
	if len(items) != 1 || items[0].Icon != service.DefaultQuickAddIcon {
		t.Fatalf("expected saved preset replacing defaults with default icon, got %+v", items)
	}
	env.mustRun(t, "quick", "use", items[0].ID, "--date", "2026-03-02")
	if d := env.day(t, "--date", "2026-03-02"); d.Consumed != 750 || d.Protein != 30 {
		t.Fatalf("unexpected day after preset use: %+v", d)
	}
}

func healthExport(day time.Time, active, basal, steps float64) string {
	at := func(h int) string {
		return time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, time.Local).Format(time.RFC3339)
	}
	return fmt.Sprintf(`[
{"type":"HKQuantityTypeIdentifierActiveEnergyBurned","value":%g,"unit":"kcal","start":%q,"end":%q,"source":"watch"},
{"type":"basalEnergyBurned","value":%g,"start":%q,"source":"watch"},
{"type":"stepCount","value":%g,"start":%q,"source":"phone"}
]`, active, at(9), at(10), basal, at(11), steps, at(12))
}

func TestHealthImportSyncAndStreak(t *testing.T) {
	env := newCLIEnv(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	out, err := env.run(t, healthExport(day, 400, 1500, 5000), "health", "import", "-")
	if err != nil {
		t.Fatalf("health import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Imported 3 new samples") {
		t.Fatalf("unexpected import output %q", out)
	}
	out = env.mustRun(t, "health", "sync", "--date", "2026-03-02")
	if !strings.Contains(out, "burned 1900 kcal, 5000 steps") {
		t.Fatalf("unexpected sync output %q", out)
	}

	env.mustRun(t, "food", "add", "--calories", "500", "--date", "2026-03-02")
	env.mustRun(t, "food", "add", "--calories", "300", "--date", "2026-03-01")
	env.mustRun(t, "food", "add", "--calories", "900", "--date", "2026-02-27")

	out = env.mustRun(t, "stats", "streak", "--from", "2026-03-02", "--json")
	var streak service.StreakResult
	if err := json.Unmarshal([]byte(out), &streak); err != nil {
		t.Fatalf("decode streak: %v\n%s", err, out)
	}
	if streak.Days != 2 {
		t.Fatalf("expected streak to stop at the empty day, got %d", streak.Days)
	}
	if streak.Net != (500-1900)+300 {
		t.Fatalf("unexpected streak net %d", streak.Net)
	}

	out = env.mustRun(t, "stats", "week", "--end", "2026-03-02", "--json")
	var week service.WeekResult
	if err := json.Unmarshal([]byte(out), &week); err != nil {
		t.Fatalf("decode week: %v\n%s", err, out)
	}
	if len(week.Days) != 7 || week.Tracked != 3 {
		t.Fatalf("unexpected week %+v", week)
	}
	if week.Days[6].Day != "3/2/2026" || week.Days[6].Burned != 1900 {
		t.Fatalf("expected week to end on the synced day, got %+v", week.Days[6])
	}

	// 2/28 has samples but no food: the week shows its burn without
	// counting it as tracked.
	rest := time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local)
	if _, err := env.run(t, healthExport(rest, 100, 1400, 2000), "health", "import", "-"); err != nil {
		t.Fatalf("health import: %v", err)
	}
	out = env.mustRun(t, "stats", "week", "--end", "2026-03-02", "--json")
	week = service.WeekResult{}
	if err := json.Unmarshal([]byte(out), &week); err != nil {
		t.Fatalf("decode week: %v\n%s", err, out)
	}
	if week.Days[4].Day != "2/28/2026" || week.Days[4].Burned != 1500 || week.Days[4].Tracked {
		t.Fatalf("expected untracked burn on 2/28, got %+v", week.Days[4])
	}
	if week.Tracked != 3 {
		t.Fatalf("untracked day must not be counted, got %d tracked", week.Tracked)
	}

	if show := env.mustRun(t, "health", "show"); !strings.Contains(show, "3/2/2026\t400\t1500\t1900\t5000") {
		t.Fatalf("unexpected health show output:\n%s", show)
	}
}

func TestBodyAndBMI(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun(t, "bmi")
	if !strings.Contains(out, "180 lbs (default)") || !strings.Contains(out, "70 in (default)") {
		t.Fatalf("expected defaults, got:\n%s", out)
	}
	env.mustRun(t, "weight", "add", "150")
	env.mustRun(t, "height", "add", "70")
	out = env.mustRun(t, "bmi")
	if !strings.Contains(out, "BMI: 21.5 (healthy)") {
		t.Fatalf("unexpected bmi output:\n%s", out)
	}
	if _, err := env.run(t, "", "weight", "add", "0"); err == nil {
		t.Fatalf("expected zero weight to fail")
	}
}

func TestPrefsHideDayFields(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun(t, "day")
	if !strings.Contains(out, "Protein:") || !strings.Contains(out, "Steps:") {
		t.Fatalf("expected protein and steps by default:\n%s", out)
	}
	env.mustRun(t, "prefs", "set", "--hide-protein", "--hide-steps")
	out = env.mustRun(t, "day")
	if strings.Contains(out, "Protein:") || strings.Contains(out, "Steps:") {
		t.Fatalf("expected hidden protein and steps:\n%s", out)
	}
	env.mustRun(t, "goal", "set", "--calories", "1800")
	if out := env.mustRun(t, "goal", "show"); !strings.Contains(out, "Calories: 1800") {
		t.Fatalf("unexpected goal output %q", out)
	}
}

func TestRelayAppliesMessages(t *testing.T) {
	env := newCLIEnv(t)
	in := strings.Join([]string{
		`{"action":"addFood","name":"Apple","calories":95,"protein":0}`,
		`not json`,
		`{"action":"requestData"}`,
	}, "\n")
	out, err := env.run(t, in, "relay")
	if err != nil {
		t.Fatalf("relay: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two replies, got %d:\n%s", len(lines), out)
	}
	var snap struct {
		Consumed int `json:"consumed"`
		Foods    []struct {
			Name string `json:"name"`
		} `json:"foods"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Consumed != 95 || len(snap.Foods) != 1 || snap.Foods[0].Name != "Apple" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestTokenUsesConfiguredSecret(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "config", "set", "server.jwt_secret", "test-secret")
	out := env.mustRun(t, "token", "--device", "watch")
	if strings.Count(strings.TrimSpace(out), ".") != 2 {
		t.Fatalf("expected a JWT, got %q", out)
	}
	if show := env.mustRun(t, "config", "show", "--json"); strings.Contains(show, "test-secret") {
		t.Fatalf("config show leaked the secret:\n%s", show)
	}
}

func TestBackupAndDoctor(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "food", "add", "--calories", "100", "--date", "2026-03-02")

	out := env.mustRun(t, "backup", "create")
	if !strings.Contains(out, "Created backup:") {
		t.Fatalf("unexpected backup output %q", out)
	}
	if list := env.mustRun(t, "backup", "list"); !strings.Contains(list, "fit-") {
		t.Fatalf("expected backup listed:\n%s", list)
	}

	out = env.mustRun(t, "doctor")
	if !strings.Contains(out, "Tracked days without cache: 1") {
		t.Fatalf("unexpected doctor output:\n%s", out)
	}
}
