package renderer

import (
	"image"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 50,
		MaxDepth:        integrator.DefaultMaxDepth,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Hittable
	GetBackground() integrator.Background
	GetSamplingConfig() SamplingConfig
}

// NewIntegrator builds the path tracer a scene asks for
func NewIntegrator(scene Scene) *integrator.PathTracingIntegrator {
	return integrator.NewPathTracingIntegrator(integrator.Config{
		MaxDepth:   scene.GetSamplingConfig().MaxDepth,
		Background: scene.GetBackground(),
	})
}

// Raytracer is the single-threaded render loop: one sampler, rows top to bottom
type Raytracer struct {
	width    int
	height   int
	config   SamplingConfig
	renderer *TileRenderer
	sampler  core.Sampler
	logger   core.Logger
}

// NewRaytracer creates a new raytracer whose random decisions all come from seed
func NewRaytracer(scene Scene, seed int64, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	camera := scene.GetCamera()
	return &Raytracer{
		width:    camera.Width(),
		height:   camera.ImageHeight(),
		config:   scene.GetSamplingConfig(),
		renderer: NewTileRenderer(scene, NewIntegrator(scene)),
		sampler:  core.NewSeededSampler(seed),
		logger:   logger,
	}
}

// Bounds returns the image rectangle
func (rt *Raytracer) Bounds() image.Rectangle {
	return image.Rect(0, 0, rt.width, rt.height)
}

// RenderPass renders the whole image with multi-sampling and returns it with its stats
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(rt.Bounds())
	stats := newRenderStats(rt.width*rt.height, rt.config.SamplesPerPixel)
	logEvery := max(1, rt.height/10)

	for y := 0; y < rt.height; y++ {
		if y%logEvery == 0 {
			rt.logger.Printf("Scanlines remaining: %d\n", rt.height-y)
		}
		for x := 0; x < rt.width; x++ {
			var ps PixelStats
			stats.update(rt.renderer.SamplePixel(x, y, &ps, rt.sampler, rt.config.SamplesPerPixel))
			img.SetRGBA(x, y, ps.Finalize())
		}
	}
	rt.logger.Printf("Done\n")

	stats.finalize()
	return img, stats
}
