package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s, err := NewStore(fsys, "/home/dev/.officekit")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s, fsys
}

func TestLoad_NewConfig(t *testing.T) {
	s, _ := newTestStore(t)

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled {
		t.Error("new config should be disabled")
	}
	if !cfg.NeedsConsent() {
		t.Error("new config should need consent")
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be a UUID, got %q", cfg.AnonymousID)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s, fsys := newTestStore(t)

	cfg := &Config{AnonymousID: "fixed-id"}
	cfg.Enable()
	if err := s.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := fsys.Stat(s.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}

	data, _ := afero.ReadFile(fsys, s.Path())
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	if raw["consent_asked"] != true {
		t.Errorf("consent_asked = %v", raw["consent_asked"])
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Enabled || loaded.AnonymousID != "fixed-id" {
		t.Errorf("round trip lost state: %+v", loaded)
	}
}

func TestLoad_GeneratesIDWhenMissing(t *testing.T) {
	s, fsys := newTestStore(t)
	_ = afero.WriteFile(fsys, s.Path(), []byte(`{"enabled": true, "consent_asked": true}`), 0600)

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AnonymousID == "" {
		t.Error("missing anonymous id should be generated")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s, fsys := newTestStore(t)
	_ = afero.WriteFile(fsys, s.Path(), []byte(`{not json`), 0600)

	if _, err := s.Load(); err == nil {
		t.Error("expected error for corrupt consent file")
	}
}

func TestConfig_DisableRecordsConsent(t *testing.T) {
	cfg := &Config{Enabled: true}
	cfg.Disable()
	if cfg.Enabled || cfg.NeedsConsent() {
		t.Errorf("Disable() state = %+v", cfg)
	}
}

func TestDisabledByEnv(t *testing.T) {
	tests := []struct {
		disable, dnt string
		want         bool
	}{
		{"", "", false},
		{"0", "false", false},
		{"1", "", true},
		{"", "true", true},
		{"yes", "", true},
	}
	for _, tt := range tests {
		t.Setenv(EnvDisable, tt.disable)
		t.Setenv(EnvDoNotTrack, tt.dnt)
		if got := DisabledByEnv(); got != tt.want {
			t.Errorf("DisabledByEnv(%q, %q) = %v, want %v", tt.disable, tt.dnt, got, tt.want)
		}
	}
}
