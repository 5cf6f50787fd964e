package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Objects in the scene, read-only once rendering starts
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig
}

// Ensure Scene satisfies the renderer's view of a scene
var _ renderer.Scene = (*Scene)(nil)

func (s *Scene) GetCamera() *renderer.Camera { return s.Camera }
func (s *Scene) GetWorld() geometry.Hittable { return s.World }
func (s *Scene) GetBackground() integrator.Background { return s.Background }
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig { return s.SamplingConfig }

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// newScene assembles a scene, applying camera overrides on top of the builder's camera
func newScene(name string, cameraConfig renderer.CameraConfig, world *geometry.HittableList, sampling renderer.SamplingConfig, cameraOverrides []renderer.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	camera := renderer.NewCamera(cameraConfig)

	return &Scene{
		Name:           name,
		Camera:         camera,
		CameraConfig:   camera.Config(),
		World:          world,
		Background:     integrator.DefaultBackground(),
		SamplingConfig: sampling,
	}
}

var zeroVec core.Vec3

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override renderer.CameraConfig) renderer.CameraConfig {
	result := base
	if override.Center != zeroVec {
		result.Center = override.Center
	}
	if override.LookAt != zeroVec {
		result.LookAt = override.LookAt
	}
	if override.Up != zeroVec {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}
