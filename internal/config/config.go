package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// StationsPath is a GeoJSON feature collection of station points, each
	// carrying an "hourly" property.
	StationsPath string
	// OutputDir receives one GeoTIFF per rendered hour and channel.
	// Relative paths are resolved against the working directory at startup.
	OutputDir string

	// InputSrs is the spatial reference of the station coordinates, such as
	// "EPSG:3857". Empty means EPSG:4326.
	InputSrs string
	// TriangulationEPSG is the EPSG code of the plane stations are
	// triangulated in. Zero triangulates longitude/latitude directly.
	TriangulationEPSG int

	GridWidth     int
	ParticleCount int
	ParticleSeed  int64
	StepScale     float64
	Frames        int
	TimeStep      float64
	Respawn       string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	stationsPath := strings.TrimSpace(os.Getenv("STATIONS_PATH"))
	if stationsPath == "" {
		stationsPath = "stations.geojson"
	}

	outputDir := strings.TrimSpace(os.Getenv("OUTPUT_DIR"))
	if outputDir == "" {
		outputDir = "out"
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return Config{}, fmt.Errorf("OUTPUT_DIR %q: %w", outputDir, err)
	}

	inputSrs := strings.TrimSpace(os.Getenv("INPUT_SRS"))

	triEPSG, err := intFromEnv("TRIANGULATION_EPSG", 0)
	if err != nil {
		return Config{}, err
	}
	if triEPSG < 0 {
		return Config{}, fmt.Errorf("invalid TRIANGULATION_EPSG %d (must not be negative)", triEPSG)
	}

	gridWidth, err := intFromEnv("GRID_WIDTH", 512)
	if err != nil {
		return Config{}, err
	}
	if gridWidth <= 0 {
		return Config{}, fmt.Errorf("invalid GRID_WIDTH %d (must be positive)", gridWidth)
	}

	particleCount, err := intFromEnv("PARTICLE_COUNT", 20000)
	if err != nil {
		return Config{}, err
	}
	if particleCount <= 0 {
		return Config{}, fmt.Errorf("invalid PARTICLE_COUNT %d (must be positive)", particleCount)
	}

	seedStr := strings.TrimSpace(os.Getenv("PARTICLE_SEED"))
	if seedStr == "" {
		seedStr = "1"
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PARTICLE_SEED %q: %w", seedStr, err)
	}

	stepScale, err := floatFromEnv("STEP_SCALE", 0.1)
	if err != nil {
		return Config{}, err
	}

	frames, err := intFromEnv("FRAMES", 72)
	if err != nil {
		return Config{}, err
	}
	if frames < 0 {
		return Config{}, fmt.Errorf("invalid FRAMES %d (must not be negative)", frames)
	}

	timeStep, err := floatFromEnv("TIME_STEP", 0.25)
	if err != nil {
		return Config{}, err
	}

	respawn := strings.ToLower(strings.TrimSpace(os.Getenv("RESPAWN")))
	if respawn == "" {
		respawn = "origin"
	}
	switch respawn {
	case "origin", "random":
	default:
		return Config{}, fmt.Errorf("invalid RESPAWN %q (allowed: origin, random)", respawn)
	}

	return Config{
		AppEnv:            appEnv,
		LogLevel:          level,
		StationsPath:      stationsPath,
		OutputDir:         outputDir,
		InputSrs:          inputSrs,
		TriangulationEPSG: triEPSG,
		GridWidth:         gridWidth,
		ParticleCount:     particleCount,
		ParticleSeed:      seed,
		StepScale:         stepScale,
		Frames:            frames,
		TimeStep:          timeStep,
		Respawn:           respawn,
	}, nil
}

func intFromEnv(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func floatFromEnv(key string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
