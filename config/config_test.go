package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"DBHost", cfg.DB.Host, "localhost"},
		{"DBPort", cfg.DB.Port, "5432"},
		{"DBMaxRetries", cfg.DB.MaxRetries, 30},
		{"ServerAddr", cfg.ServerAddr, ":8080"},
		{"JWTTTL", cfg.JWTTTL, 24 * time.Hour},
		{"JWTSecret", cfg.JWTSecret, DefaultJWTSecret},
		{"SimSpeed", cfg.SimSpeed, 0.05},
		{"FrameInterval", cfg.FrameInterval, 16 * time.Millisecond},
		{"WatchLayout", cfg.WatchLayout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("SIM_SPEED", "0.08")
	t.Setenv("JWT_TTL", "2h")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want db.internal", cfg.DB.Host)
	}
	if cfg.ServerAddr != ":9090" {
		t.Errorf("ServerAddr = %q, want :9090", cfg.ServerAddr)
	}
	if cfg.SimSpeed != 0.08 {
		t.Errorf("SimSpeed = %v, want 0.08", cfg.SimSpeed)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Errorf("JWTTTL = %v, want 2h", cfg.JWTTTL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campus-navi.yaml")
	content := "db_name: campus_test\nlayout_file: /etc/campus/layout.yaml\nwatch_layout: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.Name != "campus_test" || cfg.LayoutFile != "/etc/campus/layout.yaml" || !cfg.WatchLayout {
		t.Errorf("cfg = %+v", cfg)
	}
}
