package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the light arriving along ray from the world
	RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Color
}

// Background is the sky seen by rays that escape the scene
type Background struct {
	Horizon core.Color // Color looking straight down
	Zenith  core.Color // Color looking straight up
}

// DefaultBackground returns the white-to-blue sky gradient
func DefaultBackground() Background {
	return Background{
		Horizon: core.NewVec3(1.0, 1.0, 1.0),
		Zenith:  core.NewVec3(0.5, 0.7, 1.0),
	}
}

// ColorFor returns a gradient color based on ray direction
func (b Background) ColorFor(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return b.Horizon.Lerp(b.Zenith, t)
}
