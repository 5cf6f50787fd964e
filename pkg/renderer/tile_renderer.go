package renderer

import (
	"image"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// TileRenderer samples pixels of a scene using an integrator.
// It holds no mutable state and may be shared between workers.
type TileRenderer struct {
	camera     *Camera
	world      geometry.Hittable
	integrator integrator.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene Scene, integratorInst integrator.Integrator) *TileRenderer {
	camera := scene.GetCamera()
	return &TileRenderer{
		camera:     camera,
		world:      scene.GetWorld(),
		integrator: integratorInst,
		width:      camera.Width(),
		height:     camera.ImageHeight(),
	}
}

// RenderTileBounds brings every pixel within bounds up to targetSamples
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats.update(tr.SamplePixel(x, y, &pixelStats[y][x], sampler, targetSamples))
		}
	}

	stats.finalize()
	return stats
}

// SamplePixel adds jittered samples to ps until it holds targetSamples.
// x and y are image coordinates with y growing downward. Returns the number of samples added.
func (tr *TileRenderer) SamplePixel(x, y int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	initialSampleCount := ps.SampleCount

	// Viewport t grows upward, image rows grow downward
	j := tr.height - 1 - y
	for ps.SampleCount < targetSamples {
		s := (float64(x) + sampler.Get1D()) / span(tr.width)
		t := (float64(j) + sampler.Get1D()) / span(tr.height)

		ray := tr.camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.world, sampler))
	}

	return ps.SampleCount - initialSampleCount
}
