package config

import (
	"reflect"
	"testing"
)

func TestLoadCORSOriginsFallsBackWhenEmpty(t *testing.T) {
	for _, raw := range []string{",", " , ,", ""} {
		t.Setenv("CORS_ORIGINS", raw)
		cfg := Load()
		if !reflect.DeepEqual(cfg.CORSOrigins, DefaultCORSOrigins) {
			t.Fatalf("CORS_ORIGINS=%q: expected defaults, got %v", raw, cfg.CORSOrigins)
		}
	}

	t.Setenv("CORS_ORIGINS", " https://a.example ,https://b.example,")
	cfg := Load()
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("expected %v, got %v", want, cfg.CORSOrigins)
	}
}

func TestProductionEnvSpellings(t *testing.T) {
	t.Setenv("APP_SECRET", "not-the-default")
	cases := []struct {
		env  string
		prod bool
	}{
		{"production", true},
		{"prod", true},
		{"PROD", true},
		{" Production ", true},
		{"development", false},
		{"staging", false},
	}
	for _, tc := range cases {
		t.Setenv("APP_ENV", tc.env)
		cfg := Load()
		if cfg.IsProduction() != tc.prod {
			t.Fatalf("APP_ENV=%q: IsProduction=%v, want %v", tc.env, cfg.IsProduction(), tc.prod)
		}
		if IsProductionEnv(tc.env) != tc.prod {
			t.Fatalf("IsProductionEnv(%q) disagrees with config", tc.env)
		}
		if tc.prod && cfg.Env != EnvProduction {
			t.Fatalf("APP_ENV=%q should normalize to %q, got %q", tc.env, EnvProduction, cfg.Env)
		}
	}
}
