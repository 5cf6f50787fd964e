package integrator

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

const (
	// DefaultMaxDepth is the bounce budget when none is configured
	DefaultMaxDepth = 50

	// hitEpsilon keeps scattered rays from re-hitting their own surface
	hitEpsilon = 0.001
)

// Config holds path tracing parameters
type Config struct {
	MaxDepth   int        // Maximum ray bounce depth
	Background Background // Sky returned on a miss
}

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}
	return &PathTracingIntegrator{config: config}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Color {
	return pt.rayColor(ray, world, pt.config.MaxDepth, sampler)
}

// rayColor follows one path until it escapes, is absorbed, or exhausts depth.
// Attenuations are recorded and folded from the last bounce back to the first,
// so the products match attenuation₁ × (attenuation₂ × (… × terminal)).
func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.Hittable, depth int, sampler core.Sampler) core.Color {
	attenuations := make([]core.Color, 0, max(0, min(depth, 8)))
	var terminal core.Color

	for {
		// If we've exceeded the ray bounce limit, no more light is gathered
		if depth <= 0 {
			terminal = core.Vec3{}
			break
		}

		hit, isHit := world.Hit(ray, hitEpsilon, math.Inf(1))
		if !isHit {
			terminal = pt.config.Background.ColorFor(ray)
			break
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			// Material absorbed the ray
			terminal = core.Vec3{}
			break
		}

		attenuations = append(attenuations, scatter.Attenuation)
		ray = scatter.Scattered
		depth--
	}

	color := terminal
	for i := len(attenuations) - 1; i >= 0; i-- {
		color = attenuations[i].MultiplyVec(color)
	}
	return color
}
