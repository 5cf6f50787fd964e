package renderer

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// testLogger implements core.Logger for testing by recording all output
type testLogger struct {
	lines []string
}

// Ensure testLogger implements core.Logger
var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {
	tl.lines = append(tl.lines, format)
}

// testScene implements Scene without the scene package
type testScene struct {
	camera     *Camera
	world      *geometry.HittableList
	background integrator.Background
	sampling   SamplingConfig
}

func (s *testScene) GetCamera() *Camera { return s.camera }
func (s *testScene) GetWorld() geometry.Hittable { return s.world }
func (s *testScene) GetBackground() integrator.Background { return s.background }
func (s *testScene) GetSamplingConfig() SamplingConfig { return s.sampling }

// newSphereScene builds a unit sphere at the origin viewed from +z
func newSphereScene(width, samples, depth int) *testScene {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: 1.0,
		VFov:        90,
	})
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	return &testScene{
		camera:     camera,
		world:      world,
		background: integrator.DefaultBackground(),
		sampling:   SamplingConfig{SamplesPerPixel: samples, MaxDepth: depth},
	}
}

// countingSampler wraps a sampler and counts draws
type countingSampler struct {
	inner core.Sampler
	draws int
}

func (c *countingSampler) Uniform(min, max float64) float64 {
	c.draws++
	return c.inner.Uniform(min, max)
}

func (c *countingSampler) Get1D() float64 {
	c.draws++
	return c.inner.Get1D()
}
