package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte("enrollmentId: learner-7\nmodulePath: /tmp/fractions.json\n")
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.EnrollmentID != "learner-7" {
		t.Errorf("EnrollmentID = %q, want %q", cfg.EnrollmentID, "learner-7")
	}
	if cfg.ModulePath != "/tmp/fractions.json" {
		t.Errorf("ModulePath = %q, want %q", cfg.ModulePath, "/tmp/fractions.json")
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	cfg, err := Parse([]byte("enrollmentId: \"  learner-7  \"\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.EnrollmentID != "learner-7" {
		t.Errorf("EnrollmentID = %q, want trimmed value", cfg.EnrollmentID)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("enrollmentId: [\n")); err == nil {
		t.Fatal("Parse() = nil error for malformed yaml")
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EnrollmentID != "" || cfg.ModulePath != "" {
		t.Errorf("Load() missing file = %+v, want empty config", cfg)
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dbPath: /tmp/p.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != "/tmp/p.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/p.db")
	}
}

func TestEnrollment_Default(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"nil config", nil, DefaultEnrollmentID},
		{"empty id", &Config{}, DefaultEnrollmentID},
		{"configured", &Config{EnrollmentID: "learner-7"}, "learner-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enrollment(); got != tt.want {
				t.Errorf("Enrollment() = %q, want %q", got, tt.want)
			}
		})
	}
}
