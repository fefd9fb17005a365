package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "STATIONS_PATH", "OUTPUT_DIR", "GRID_WIDTH",
		"PARTICLE_COUNT", "PARTICLE_SEED", "STEP_SCALE", "FRAMES", "TIME_STEP", "RESPAWN",
		"INPUT_SRS", "TRIANGULATION_EPSG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.StationsPath != "stations.geojson" {
		t.Errorf("StationsPath = %q, want %q", got.StationsPath, "stations.geojson")
	}
	if !filepath.IsAbs(got.OutputDir) {
		t.Errorf("OutputDir = %q, want absolute path", got.OutputDir)
	}
	if got.GridWidth != 512 {
		t.Errorf("GridWidth = %d, want 512", got.GridWidth)
	}
	if got.ParticleCount != 20000 {
		t.Errorf("ParticleCount = %d, want 20000", got.ParticleCount)
	}
	if got.ParticleSeed != 1 {
		t.Errorf("ParticleSeed = %d, want 1", got.ParticleSeed)
	}
	if got.StepScale != 0.1 {
		t.Errorf("StepScale = %v, want 0.1", got.StepScale)
	}
	if got.Frames != 72 {
		t.Errorf("Frames = %d, want 72", got.Frames)
	}
	if got.TimeStep != 0.25 {
		t.Errorf("TimeStep = %v, want 0.25", got.TimeStep)
	}
	if got.Respawn != "origin" {
		t.Errorf("Respawn = %q, want %q", got.Respawn, "origin")
	}
	if got.InputSrs != "" {
		t.Errorf("InputSrs = %q, want empty", got.InputSrs)
	}
	if got.TriangulationEPSG != 0 {
		t.Errorf("TriangulationEPSG = %d, want 0", got.TriangulationEPSG)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", " prod ")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GRID_WIDTH", "256")
	t.Setenv("PARTICLE_SEED", "-7")
	t.Setenv("RESPAWN", "Random")
	t.Setenv("INPUT_SRS", " EPSG:3857 ")
	t.Setenv("TRIANGULATION_EPSG", "3857")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.AppEnv != "prod" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "prod")
	}
	if got.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelDebug)
	}
	if got.GridWidth != 256 {
		t.Errorf("GridWidth = %d, want 256", got.GridWidth)
	}
	if got.ParticleSeed != -7 {
		t.Errorf("ParticleSeed = %d, want -7", got.ParticleSeed)
	}
	if got.Respawn != "random" {
		t.Errorf("Respawn = %q, want %q", got.Respawn, "random")
	}
	if got.InputSrs != "EPSG:3857" {
		t.Errorf("InputSrs = %q, want %q", got.InputSrs, "EPSG:3857")
	}
	if got.TriangulationEPSG != 3857 {
		t.Errorf("TriangulationEPSG = %d, want 3857", got.TriangulationEPSG)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "app env", key: "APP_ENV", value: "staging"},
		{name: "log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "grid width not a number", key: "GRID_WIDTH", value: "wide"},
		{name: "grid width zero", key: "GRID_WIDTH", value: "0"},
		{name: "particle count negative", key: "PARTICLE_COUNT", value: "-1"},
		{name: "seed", key: "PARTICLE_SEED", value: "1.5"},
		{name: "step scale", key: "STEP_SCALE", value: "fast"},
		{name: "frames negative", key: "FRAMES", value: "-3"},
		{name: "time step", key: "TIME_STEP", value: "x"},
		{name: "respawn", key: "RESPAWN", value: "nowhere"},
		{name: "triangulation epsg", key: "TRIANGULATION_EPSG", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: " Error ", want: slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
