package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

const (
	coverGridHalf     = 11   // Small spheres span -11..10 on both axes
	coverSmallRadius  = 0.2  // Radius of the small spheres
	coverDiffuseShare = 0.8  // Fraction of small spheres that are diffuse
	coverMetalShare   = 0.95 // Cumulative; the rest are glass
)

// NewCoverScene creates the random field of small spheres around three large ones.
// The same seed always places the same spheres.
func NewCoverScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	return newScene("cover", cameraConfig, coverWorld(core.NewSeededSampler(seed)), renderer.DefaultSamplingConfig(), cameraOverrides)
}

func coverWorld(sampler core.Sampler) *geometry.HittableList {
	world := geometry.NewHittableList()

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	// Keep the small spheres clear of the metal sphere at (4, 1, 0)
	clearing := core.NewVec3(4, coverSmallRadius, 0)

	for a := -coverGridHalf; a < coverGridHalf; a++ {
		for b := -coverGridHalf; b < coverGridHalf; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				coverSmallRadius,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMat < coverDiffuseShare:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				sphereMaterial = material.NewLambertian(albedo)
			case chooseMat < coverMetalShare:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := sampler.Uniform(0, 0.5)
				sphereMaterial = material.NewMetal(albedo, fuzz)
			default:
				sphereMaterial = material.NewDielectric(1.5)
			}

			world.Add(geometry.NewSphere(center, coverSmallRadius, sphereMaterial))
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return world
}
