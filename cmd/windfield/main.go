package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/flywave/go-geom/general"
	"github.com/joho/godotenv"

	windfield "github.com/flywave/go-windfield"
	"github.com/flywave/go-windfield/internal/config"
	"github.com/flywave/go-windfield/internal/logging"
)

const appName = "windfield"

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

var channelNames = [windfield.TexelChannels]string{"direction", "speed", "temperature", "elevation"}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"stations", cfg.StationsPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("done")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	raw, err := os.ReadFile(cfg.StationsPath)
	if err != nil {
		return fmt.Errorf("read stations: %w", err)
	}
	fc, err := general.UnmarshalFeatureCollection(raw)
	if err != nil {
		return fmt.Errorf("decode stations: %w", err)
	}

	var ingest windfield.IngestOptions
	if cfg.InputSrs != "" {
		ingest.InputSrs = &cfg.InputSrs
	}
	fs, err := windfield.StationsFromFeatures(fc, ingest)
	if err != nil {
		return fmt.Errorf("ingest stations: %w", err)
	}
	cube, err := fs.Cube()
	if err != nil {
		return fmt.Errorf("measurement cube: %w", err)
	}
	logger.Info("stations loaded", "stations", len(fs.Stations), "hours", cube.Hours())

	var triOpts windfield.TriangulateOptions
	if cfg.TriangulationEPSG != 0 {
		triOpts.Projector = windfield.NewGeoProjector(cfg.TriangulationEPSG)
	}
	tri, err := windfield.Triangulate(fs.Stations, &triOpts)
	if err != nil {
		return fmt.Errorf("triangulate: %w", err)
	}
	bbox, err := windfield.BoundingBoxOf(fs.Stations)
	if err != nil {
		return err
	}
	logger.Info("triangulated",
		"triangles", len(tri.Triangles),
		"vertices", len(tri.Vertices),
		"epsg", cfg.TriangulationEPSG)

	rasterizer := windfield.NewFieldRasterizer(windfield.RasterOptions{
		Width:  cfg.GridWidth,
		Logger: logger,
	})
	stack, err := rasterizer.Rasterize(ctx, tri, bbox, cube)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	for _, tex := range stack.Textures {
		for c, name := range channelNames {
			path := filepath.Join(cfg.OutputDir, fmt.Sprintf("hour_%03d_%s.tif", tex.Hour, name))
			if err := tex.WriteGeoTIFF(path, c); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	logger.Info("textures exported", "dir", cfg.OutputDir, "files", len(stack.Textures)*len(channelNames))

	respawn := windfield.ResetToOrigin
	if cfg.Respawn == "random" {
		respawn = windfield.RespawnRandom
	}
	scene, err := windfield.NewScene(stack, tri, windfield.SceneOptions{
		Particles: windfield.ParticleOptions{
			Count:     cfg.ParticleCount,
			Seed:      cfg.ParticleSeed,
			StepScale: cfg.StepScale,
			Respawn:   respawn,
			Bilinear:  true,
		},
		Glyphs: windfield.GlyphOptions{Bilinear: true},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer scene.Close()

	var t float64
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := scene.Frame(t)
		logger.Debug("frame rendered",
			"frame", i,
			"t", out.T,
			"hours", out.Uniforms.Hours,
			"glyphs", len(out.Glyphs),
			"particles", len(out.Particles))
		t += cfg.TimeStep
	}

	logger.Info("frames rendered", "frames", cfg.Frames, "bounds", stack.Bounds)
	return nil
}
