package application

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/haops/profilestore/internal/config"
	"github.com/haops/profilestore/profile"
	"github.com/haops/profilestore/sbd"
)

const testProfiles = `default:
  corosync.totem.token: 5000
  sbd.watchdog_timeout: 15

microsoft-azure:
  corosync.totem.token: 30000
  sbd.watchdog_timeout: 60
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newApp(t *testing.T, cfg config.Config) *App {
	t.Helper()

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return app
}

func TestNewLoadsBuiltinByDefault(t *testing.T) {
	t.Parallel()

	app := newApp(t, config.Config{Format: config.FormatYAML})

	if got := app.Store().Environments(); len(got) == 0 {
		t.Fatalf("builtin document should carry override profiles")
	}
}

func TestNewRejectsBrokenDocument(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "profiles.yaml", "microsoft-azure:\n  a.b: 1\n")
	_, err := New(config.Config{ProfilesFile: path, Format: config.FormatYAML}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected error for document without default profile")
	}
}

func TestRunRendersYAML(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "profiles.yaml", testProfiles)
	app := newApp(t, config.Config{
		ProfilesFile: path,
		Environment:  "microsoft-azure",
		Format:       config.FormatYAML,
	})

	var out bytes.Buffer
	if err := app.Run(&out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	merged, err := profile.ParseProfile(out.Bytes())
	if err != nil {
		t.Fatalf("output did not parse back: %v", err)
	}
	if got, _ := merged.Get("corosync.totem.token"); !got.Equal(profile.Int(30000)) {
		t.Fatalf("unexpected token in output: %v", got)
	}
	if got, _ := merged.Get("sbd.watchdog_timeout"); !got.Equal(profile.Int(60)) {
		t.Fatalf("unexpected watchdog timeout in output: %v", got)
	}
}

func TestRunRendersCorosyncConf(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "profiles.yaml", testProfiles)
	app := newApp(t, config.Config{
		ProfilesFile: path,
		Environment:  "microsoft-azure",
		Format:       config.FormatCorosync,
	})

	var out bytes.Buffer
	if err := app.Run(&out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "token: 30000") {
		t.Fatalf("expected merged token in corosync.conf output:\n%s", text)
	}
	if !strings.Contains(text, "provider: corosync_votequorum") {
		t.Fatalf("expected template quorum section in output:\n%s", text)
	}
	if strings.Contains(text, "watchdog") {
		t.Fatalf("sbd parameters must not appear in corosync.conf output:\n%s", text)
	}
}

func TestRunRendersSysconfig(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "profiles.yaml", testProfiles)
	app := newApp(t, config.Config{
		ProfilesFile: path,
		Environment:  "microsoft-azure",
		Format:       config.FormatSysconfig,
	})

	var out bytes.Buffer
	if err := app.Run(&out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	vars, err := sbd.Parse(out.Bytes())
	if err != nil {
		t.Fatalf("output did not parse back: %v", err)
	}
	if vars["SBD_WATCHDOG_TIMEOUT"] != "60" {
		t.Fatalf("unexpected watchdog timeout %q", vars["SBD_WATCHDOG_TIMEOUT"])
	}
}

func TestRunUnknownEnvironmentFallsBack(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "profiles.yaml", testProfiles)
	app := newApp(t, config.Config{
		ProfilesFile: path,
		Environment:  "digital-ocean",
		Format:       config.FormatYAML,
	})

	var out bytes.Buffer
	if err := app.Run(&out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	merged, err := profile.ParseProfile(out.Bytes())
	if err != nil {
		t.Fatalf("output did not parse back: %v", err)
	}
	if got, _ := merged.Get("corosync.totem.token"); !got.Equal(profile.Int(5000)) {
		t.Fatalf("expected default token, got %v", got)
	}
}

func TestRunListEnvironments(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "profiles.yaml", testProfiles)
	app := newApp(t, config.Config{
		ProfilesFile:     path,
		Format:           config.FormatYAML,
		ListEnvironments: true,
	})

	var out bytes.Buffer
	if err := app.Run(&out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "microsoft-azure" {
		t.Fatalf("unexpected environment listing %q", got)
	}
}

func TestRunMigrate(t *testing.T) {
	t.Parallel()

	confPath := writeFixture(t, "corosync.conf",
		"totem {\n    version: 2\n    transport: udpu\n}\n\nnodelist {\n    node {\n        ring0_addr: 10.0.0.1\n        name: alpha\n        nodeid: 1\n    }\n}\n")
	app := newApp(t, config.Config{
		Format:   config.FormatYAML,
		Migrate:  true,
		ConfFile: confPath,
	})

	var out bytes.Buffer
	if err := app.Run(&out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "transport: knet") {
		t.Fatalf("expected migrated transport in output:\n%s", out.String())
	}
}
