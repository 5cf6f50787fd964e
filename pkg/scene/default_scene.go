package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// threeSphereWorld builds the ground, a diffuse center sphere, a hollow glass
// sphere on the left and a metal sphere on the right
func threeSphereWorld() *geometry.HittableList {
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter),
		// Negative inner radius flips the normals, leaving a glass shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialLeft),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, materialLeft),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, materialRight),
	)
}

// NewDefaultScene creates the three-sphere scene viewed through a wide-open lens
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(3, 3, 2),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      2.0,
		FocusDistance: 0.0, // Auto-focus on the center sphere
	}

	return newScene("default", cameraConfig, threeSphereWorld(), renderer.DefaultSamplingConfig(), cameraOverrides)
}

// NewHollowGlassScene views the same spheres from above and to the left through a pinhole camera
func NewHollowGlassScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        20.0,
	}

	return newScene("hollow-glass", cameraConfig, threeSphereWorld(), renderer.DefaultSamplingConfig(), cameraOverrides)
}

// NewSingleSphereScene creates a unit sphere at the origin seen from +z
func NewSingleSphereScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       200,
		AspectRatio: 1.0,
		VFov:        90.0,
	}

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	return newScene("single-sphere", cameraConfig, world, renderer.DefaultSamplingConfig(), cameraOverrides)
}
