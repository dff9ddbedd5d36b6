package navfiles

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("navfiles", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9600 {
		t.Fatalf("port = %d, want 9600", cfg.Port)
	}
	if cfg.PlatformURL != "127.0.0.1:9559" {
		t.Fatalf("platform url = %q", cfg.PlatformURL)
	}
	if cfg.MapsDir != "/home/nao/.local/share/Explorer/" {
		t.Fatalf("maps dir = %q", cfg.MapsDir)
	}
	if len(cfg.RequiredServices) != 1 || cfg.RequiredServices[0] != "ALMemory" {
		t.Fatalf("required services = %v", cfg.RequiredServices)
	}
	if cfg.GateDeadline != 30*time.Second || cfg.GatePollInterval != 2*time.Second {
		t.Fatalf("gate timing = %s/%s", cfg.GateDeadline, cfg.GatePollInterval)
	}
}

func TestParseConfigEnvOverrides(t *testing.T) {
	t.Setenv("NAVFILES_PORT", "9700")
	t.Setenv("NAVFILES_MAPS_DIR", "/tmp/maps")
	t.Setenv("NAVFILES_REQUIRED_SERVICES", "ALMemory,ALNavigation")
	t.Setenv("NAVFILES_GATE_DEADLINE", "5s")

	cfg, err := ParseConfig(flag.NewFlagSet("navfiles", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9700 || cfg.MapsDir != "/tmp/maps" || cfg.GateDeadline != 5*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.RequiredServices) != 2 || cfg.RequiredServices[1] != "ALNavigation" {
		t.Fatalf("required services = %v", cfg.RequiredServices)
	}
}

func TestParseConfigPlatformURLFlag(t *testing.T) {
	t.Setenv("NAVFILES_PLATFORM_URL", "10.0.0.2:9559")

	cfg, err := ParseConfig(flag.NewFlagSet("navfiles", flag.ContinueOnError), []string{"-platform-url", "192.168.1.20:9559"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.PlatformURL != "192.168.1.20:9559" {
		t.Fatalf("platform url = %q, want flag value", cfg.PlatformURL)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("navfiles", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-port", "1"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestParseConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("NAVFILES_GATE_POLL_INTERVAL", "often")
	if _, err := ParseConfig(flag.NewFlagSet("navfiles", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestServerConfigCarriesLogLevel(t *testing.T) {
	cfg := Config{LogLevel: "debug", PlatformURL: "127.0.0.1:9559"}
	got := cfg.serverConfig()
	if got.Log == nil || got.Log.Logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("log = %+v, want debug entry", got.Log)
	}
	if got.PlatformURL != cfg.PlatformURL {
		t.Fatalf("platform url = %q", got.PlatformURL)
	}
}
