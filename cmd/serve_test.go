package cmd

import (
	"testing"

	"campus-navi/config"

	"github.com/spf13/viper"
)

func TestUsingDefaultSecret(t *testing.T) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		t.Fatal(err)
	}
	if !usingDefaultSecret(cfg) {
		t.Error("default config should report the built-in secret")
	}

	tests := []struct {
		secret string
		want   bool
	}{
		{"", true},
		{config.DefaultJWTSecret, true},
		{"s3cr3t-from-env", false},
	}
	for _, tt := range tests {
		cfg.JWTSecret = tt.secret
		if got := usingDefaultSecret(cfg); got != tt.want {
			t.Errorf("usingDefaultSecret(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
