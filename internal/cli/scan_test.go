package cli

import (
	"strings"
	"testing"

	"github.com/resweep/resweep/internal/analyzer"
	"github.com/resweep/resweep/internal/config"
)

func TestResolveScanRequiresSourceAndCSV(t *testing.T) {
	_, err := resolveScan(config.Default(), nil, "")
	if err == nil {
		t.Fatal("expected usage error with no args and no config defaults")
	}
	if _, err := resolveScan(config.Default(), []string{"/srv/fdroid"}, ""); err == nil {
		t.Fatal("expected usage error with only a source dir")
	}
}

func TestResolveScanConsoleModeDefaults(t *testing.T) {
	in, err := resolveScan(config.Default(), []string{"/srv/fdroid", "out.csv"}, "")
	if err != nil {
		t.Fatalf("resolveScan() error = %v", err)
	}
	if in.Tool.Mode != analyzer.ModeLegacyCSV {
		t.Fatalf("expected legacy mode without --log, got %s", in.Tool.Mode)
	}
	if strings.Join(in.Tool.Extra, " ") != "--no-zero-apps --no-zero-layouts" {
		t.Fatalf("expected legacy default flags, got %v", in.Tool.Extra)
	}
	if in.LogPath != "" {
		t.Fatalf("expected console output, got log path %q", in.LogPath)
	}
}

func TestResolveScanLogModeSwitchesToTags(t *testing.T) {
	in, err := resolveScan(config.Default(), []string{"/srv/fdroid", "out.csv"}, "run.log")
	if err != nil {
		t.Fatalf("resolveScan() error = %v", err)
	}
	if in.Tool.Mode != analyzer.ModeTags {
		t.Fatalf("expected tags mode with --log, got %s", in.Tool.Mode)
	}
	if len(in.Tool.Extra) != 0 {
		t.Fatalf("expected no extra flags in tags mode, got %v", in.Tool.Extra)
	}
	if in.LogPath != "run.log" {
		t.Fatalf("log path not applied: %q", in.LogPath)
	}
}

func TestResolveScanConfigDefaultsFillArgs(t *testing.T) {
	cfg := config.Default()
	cfg.Source = "/srv/fdroid"
	cfg.CSV = "/srv/out/tags.csv"
	cfg.Log = "/srv/out/run.log"
	cfg.Analyzer.Flags = []string{}

	in, err := resolveScan(cfg, nil, "")
	if err != nil {
		t.Fatalf("resolveScan() error = %v", err)
	}
	if in.Source != "/srv/fdroid" || in.CSV != "/srv/out/tags.csv" || in.LogPath != "/srv/out/run.log" {
		t.Fatalf("config defaults not applied: %+v", in)
	}
	if len(in.Tool.Extra) != 0 {
		t.Fatalf("explicit empty flags must suppress defaults, got %v", in.Tool.Extra)
	}
}

func TestResolveScanArgsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Source = "/srv/old"
	cfg.CSV = "/srv/old.csv"

	in, err := resolveScan(cfg, []string{"/srv/new", "new.csv"}, "")
	if err != nil {
		t.Fatalf("resolveScan() error = %v", err)
	}
	if in.Source != "/srv/new" || in.CSV != "new.csv" {
		t.Fatalf("arguments must win over config: %+v", in)
	}
}

func TestResolveScanExplicitModeWins(t *testing.T) {
	cfg := config.Default()
	cfg.Analyzer.Mode = "legacy-csv"

	in, err := resolveScan(cfg, []string{"/srv/fdroid", "out.csv"}, "run.log")
	if err != nil {
		t.Fatalf("resolveScan() error = %v", err)
	}
	if in.Tool.Mode != analyzer.ModeLegacyCSV {
		t.Fatalf("configured mode must win over --log inference, got %s", in.Tool.Mode)
	}
}
