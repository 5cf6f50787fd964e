package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/publish"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds what the flags asked for beyond the shared config
type options struct {
	envFile string
	upload  bool
	quiet   bool
	stdout  bool
	list    bool
}

// parseFlags loads the config and applies any flags the user set on top of it
func parseFlags(args []string, stderr io.Writer) (config.Config, options, error) {
	var opts options
	defaults := config.Default()

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.envFile, "env", ".env", "Path to a .env file (missing is fine)")
	sceneName := fs.String("scene", defaults.Scene, "Scene name: "+strings.Join(scene.Names(), ", "))
	width := fs.Int("width", defaults.Width, "Image width in pixels")
	samples := fs.Int("samples", defaults.SamplesPerPixel, "Samples per pixel")
	depth := fs.Int("depth", defaults.MaxDepth, "Maximum bounces per path")
	seed := fs.Int64("seed", defaults.Seed, "Random seed")
	workers := fs.Int("workers", defaults.Workers, "Parallel workers for progressive mode (0 = CPU count)")
	progressive := fs.Bool("progressive", defaults.Progressive, "Render in tile-parallel progressive passes")
	passes := fs.Int("passes", defaults.Passes, "Number of progressive passes")
	outputDir := fs.String("output", defaults.OutputDir, "Output directory")
	format := fs.String("format", defaults.Format, "Output format: ppm, png or jpg")
	thumbnail := fs.Int("thumbnail", defaults.ThumbnailSize, "Also write a thumbnail with this longest edge (0 = off)")
	fs.BoolVar(&opts.upload, "upload", false, "Upload the output to the configured S3 bucket")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&opts.stdout, "stdout", false, "Write a PPM image to stdout instead of a file")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return config.Config{}, opts, err
	}

	// Only flags given on the command line override the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "width":
			cfg.Width = *width
		case "samples":
			cfg.SamplesPerPixel = *samples
		case "depth":
			cfg.MaxDepth = *depth
		case "seed":
			cfg.Seed = *seed
		case "workers":
			cfg.Workers = *workers
		case "progressive":
			cfg.Progressive = *progressive
		case "passes":
			cfg.Passes = *passes
		case "output":
			cfg.OutputDir = *outputDir
		case "format":
			cfg.Format = strings.ToLower(*format)
		case "thumbnail":
			cfg.ThumbnailSize = *thumbnail
		}
	})

	if opts.stdout && opts.upload {
		return config.Config{}, opts, fmt.Errorf("-upload needs a saved file and cannot be combined with -stdout")
	}

	return cfg, opts, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.list {
		for _, name := range scene.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	logger := renderer.NewDefaultLogger()
	if opts.quiet {
		logger = core.NopLogger{}
	}

	s, err := scene.New(cfg.Scene, cfg.Seed, renderer.CameraConfig{Width: cfg.Width})
	if err != nil {
		return err
	}
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: cfg.SamplesPerPixel,
		MaxDepth:        cfg.MaxDepth,
	}

	logger.Printf("Rendering %s (%d objects) at %dx%d, %d samples, depth %d\n",
		s.Name, s.GetPrimitiveCount(), s.Camera.Width(), s.Camera.ImageHeight(), cfg.SamplesPerPixel, cfg.MaxDepth)

	startTime := time.Now()
	img, stats, err := render(ctx, cfg, s, logger)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	if opts.stdout {
		return output.WritePPM(stdout, img)
	}

	files, err := save(cfg, s.Name, img)
	if err != nil {
		return err
	}
	for _, file := range files {
		logger.Printf("Render saved as %s\n", file)
	}

	if opts.upload {
		publisher, err := publish.NewS3Publisher(cfg.S3, logger)
		if err != nil {
			return err
		}
		for _, file := range files {
			if _, err := publisher.UploadFile(ctx, s.Name, file); err != nil {
				return err
			}
		}
	}

	return nil
}

// render runs either the single-threaded loop or the progressive tile driver
func render(ctx context.Context, cfg config.Config, s *scene.Scene, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	if !cfg.Progressive {
		img, stats := renderer.NewRaytracer(s, cfg.Seed, logger).RenderPass()
		return img, stats, nil
	}

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxSamplesPerPixel = cfg.SamplesPerPixel
	progressiveConfig.MaxPasses = cfg.Passes
	progressiveConfig.NumWorkers = cfg.Workers
	progressiveConfig.Seed = cfg.Seed

	pr := renderer.NewProgressiveRaytracer(s, progressiveConfig, logger)
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var last renderer.PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("render failed: %w", err)
	}
	if last.Image == nil {
		return nil, renderer.RenderStats{}, errors.New("render produced no passes")
	}
	return last.Image, last.Stats, nil
}

// save writes the image and optional thumbnail, returning the paths written
func save(cfg config.Config, sceneName string, img image.Image) ([]string, error) {
	path := filepath.Join(cfg.OutputDir, output.Filename(sceneName, cfg.Format))
	if err := output.SaveImage(img, path); err != nil {
		return nil, err
	}
	files := []string{path}

	if cfg.ThumbnailSize > 0 {
		thumbPath := filepath.Join(cfg.OutputDir, output.ThumbnailFilename(sceneName))
		if err := output.SaveImage(output.Thumbnail(img, cfg.ThumbnailSize), thumbPath); err != nil {
			return nil, err
		}
		files = append(files, thumbPath)
	}

	return files, nil
}
