// Package config loads render settings from a .env file, the environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported output formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
	FormatJPG = "jpg"
)

// S3Config holds the optional upload destination
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Empty for AWS, set for S3-compatible stores
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether uploads have somewhere to go
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Config holds every setting the CLI and web server read
type Config struct {
	Scene           string
	Width           int
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	Workers         int  // 0 = one per CPU
	Progressive     bool // Tile-parallel passes instead of the single-threaded loop
	Passes          int
	OutputDir       string
	Format          string
	ThumbnailSize   int // Longest thumbnail edge in pixels, 0 = no thumbnail
	Port            int
	S3              S3Config
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Scene:           "cover",
		Width:           400,
		SamplesPerPixel: 50,
		MaxDepth:        50,
		Seed:            42,
		Workers:         0,
		Progressive:     false,
		Passes:          7,
		OutputDir:       "output",
		Format:          FormatPNG,
		ThumbnailSize:   0,
		Port:            8080,
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "renders",
		},
	}
}

// Load reads envFile if it exists, then overlays RAYTRACER_* and S3_* variables on the defaults.
// An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := Default()
	var err error

	cfg.Scene = getEnv("RAYTRACER_SCENE", cfg.Scene)
	cfg.OutputDir = getEnv("RAYTRACER_OUTPUT_DIR", cfg.OutputDir)
	cfg.Format = strings.ToLower(getEnv("RAYTRACER_FORMAT", cfg.Format))

	if cfg.Width, err = getEnvInt("RAYTRACER_WIDTH", cfg.Width); err != nil {
		return Config{}, err
	}
	if cfg.SamplesPerPixel, err = getEnvInt("RAYTRACER_SAMPLES", cfg.SamplesPerPixel); err != nil {
		return Config{}, err
	}
	if cfg.MaxDepth, err = getEnvInt("RAYTRACER_MAX_DEPTH", cfg.MaxDepth); err != nil {
		return Config{}, err
	}
	seed, err := getEnvInt("RAYTRACER_SEED", int(cfg.Seed))
	if err != nil {
		return Config{}, err
	}
	cfg.Seed = int64(seed)
	if cfg.Workers, err = getEnvInt("RAYTRACER_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.Progressive, err = getEnvBool("RAYTRACER_PROGRESSIVE", cfg.Progressive); err != nil {
		return Config{}, err
	}
	if cfg.Passes, err = getEnvInt("RAYTRACER_PASSES", cfg.Passes); err != nil {
		return Config{}, err
	}
	if cfg.ThumbnailSize, err = getEnvInt("RAYTRACER_THUMBNAIL", cfg.ThumbnailSize); err != nil {
		return Config{}, err
	}
	if cfg.Port, err = getEnvInt("RAYTRACER_PORT", cfg.Port); err != nil {
		return Config{}, err
	}

	cfg.S3 = S3Config{
		Bucket:    getEnv("S3_BUCKET", cfg.S3.Bucket),
		Region:    getEnv("S3_REGION", cfg.S3.Region),
		Endpoint:  getEnv("S3_ENDPOINT", cfg.S3.Endpoint),
		AccessKey: getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey),
		SecretKey: getEnv("S3_SECRET_KEY", cfg.S3.SecretKey),
		Prefix:    getEnv("S3_PREFIX", cfg.S3.Prefix),
	}

	return cfg, cfg.Validate()
}

// Validate checks that every setting is usable
func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return errors.New("scene must not be empty")
	case c.Width < 1:
		return fmt.Errorf("width must be positive, got %d", c.Width)
	case c.SamplesPerPixel < 1:
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	case c.Passes < 1:
		return fmt.Errorf("passes must be positive, got %d", c.Passes)
	case c.ThumbnailSize < 0:
		return fmt.Errorf("thumbnail size must not be negative, got %d", c.ThumbnailSize)
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("port out of range: %d", c.Port)
	}

	switch c.Format {
	case FormatPPM, FormatPNG, FormatJPG:
	default:
		return fmt.Errorf("unsupported format %q (want %s, %s or %s)", c.Format, FormatPPM, FormatPNG, FormatJPG)
	}

	return nil
}

// getEnv returns the variable's value, or fallback when it is unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
