package sbd

import (
	"testing"

	"github.com/haops/profilestore/profile"
)

func resolveAzure(t *testing.T) profile.Profile {
	t.Helper()

	store, err := profile.Parse([]byte(
		"default:\n" +
			"  corosync.totem.token: 5000\n" +
			"  sbd.watchdog_timeout: 15\n" +
			"  sbd.device: /dev/disk/by-id/sbd0\n" +
			"microsoft-azure:\n" +
			"  sbd.watchdog_timeout: 60\n",
	))
	if err != nil {
		t.Fatalf("parse profiles: %v", err)
	}
	return store.Resolve(profile.EnvMicrosoftAzure)
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := string(Render(resolveAzure(t)))
	want := "SBD_DEVICE=/dev/disk/by-id/sbd0\nSBD_WATCHDOG_TIMEOUT=60\n"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderSkipsForeignParameters(t *testing.T) {
	t.Parallel()

	p := profile.Profile{"corosync.totem.token": profile.Int(5000)}
	if got := Render(p); len(got) != 0 {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestVariableName(t *testing.T) {
	t.Parallel()

	if got := VariableName("watchdog_timeout"); got != "SBD_WATCHDOG_TIMEOUT" {
		t.Fatalf("unexpected variable name %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	rendered := Render(resolveAzure(t))
	vars, err := Parse(rendered)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if vars["SBD_WATCHDOG_TIMEOUT"] != "60" {
		t.Fatalf("unexpected watchdog timeout %q", vars["SBD_WATCHDOG_TIMEOUT"])
	}
	if vars["SBD_DEVICE"] != "/dev/disk/by-id/sbd0" {
		t.Fatalf("unexpected device %q", vars["SBD_DEVICE"])
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("# fine\nSBD_WATCHDOG_DEV /dev/watchdog\n")); err == nil {
		t.Fatalf("expected error for line without =")
	}
	vars, err := Parse([]byte("\n# only comments\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vars) != 0 {
		t.Fatalf("expected no variables, got %v", vars)
	}
}
