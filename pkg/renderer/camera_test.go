package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestCameraGetCameraForward(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        45.0,
	}
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)

	if !vecClose(forward, expected, 1e-9) {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraBasis(t *testing.T) {
	tests := []struct {
		name   string
		center core.Vec3
		lookAt core.Vec3
		up     core.Vec3
	}{
		{"Looking down -z", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)},
		{"Cover view", core.NewVec3(13, 2, 3), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)},
		{"Tilted up hint", core.NewVec3(-2, 2, 1), core.NewVec3(0, 0, -1), core.NewVec3(0.3, 1, 0.1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := NewCamera(CameraConfig{Center: tt.center, LookAt: tt.lookAt, Up: tt.up})
			u, v, w := camera.Basis()

			expectedW := tt.center.Subtract(tt.lookAt).Normalize()
			expectedU := tt.up.Cross(expectedW).Normalize()
			expectedV := expectedW.Cross(expectedU)

			if !vecClose(w, expectedW, 1e-9) {
				t.Errorf("w: expected %v, got %v", expectedW, w)
			}
			if !vecClose(u, expectedU, 1e-9) {
				t.Errorf("u: expected %v, got %v", expectedU, u)
			}
			if !vecClose(v, expectedV, 1e-9) {
				t.Errorf("v: expected %v, got %v", expectedV, v)
			}
			if math.Abs(u.Dot(v)) > 1e-9 || math.Abs(u.Dot(w)) > 1e-9 || math.Abs(v.Dot(w)) > 1e-9 {
				t.Errorf("Basis not orthogonal: u=%v v=%v w=%v", u, v, w)
			}
		})
	}
}

func TestCameraDefaults(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -2),
	})
	config := camera.Config()

	if config.Width != 400 {
		t.Errorf("Expected default width 400, got %d", config.Width)
	}
	if camera.ImageHeight() != 225 {
		t.Errorf("Expected height 225 for 16:9, got %d", camera.ImageHeight())
	}
	if config.VFov != 90 {
		t.Errorf("Expected default vfov 90, got %f", config.VFov)
	}
	if config.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected default up (0,1,0), got %v", config.Up)
	}
	if config.FocusDistance != 2 {
		t.Errorf("Expected auto-focus distance 2, got %f", config.FocusDistance)
	}
}

func TestCameraFocusFallbackWhenEyeIsTarget(t *testing.T) {
	base := CameraConfig{
		Center: core.NewVec3(1, 2, 3),
		LookAt: core.NewVec3(1, 2, 3),
	}

	if got := NewCamera(base).Config().FocusDistance; got != 1 {
		t.Errorf("Expected fallback focus distance 1, got %f", got)
	}

	// An explicit focus distance is kept
	base.FocusDistance = 4
	if got := NewCamera(base).Config().FocusDistance; got != 4 {
		t.Errorf("Expected focus distance 4, got %f", got)
	}
}

func TestCameraViewportCorners(t *testing.T) {
	// vfov 90 with focus 1 gives a 2x2 viewport one unit away
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Width:       100,
		AspectRatio: 1.0,
		VFov:        90,
	})

	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"Lower left", 0, 0, core.NewVec3(-1, -1, -1)},
		{"Upper right", 1, 1, core.NewVec3(1, 1, -1)},
		{"Center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"Upper left", 0, 1, core.NewVec3(-1, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.PinholeRay(tt.s, tt.t)
			if !vecClose(ray.Direction, tt.expected, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCameraZeroApertureIsPinhole(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center:        core.NewVec3(1, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		VFov:          40,
		Aperture:      0,
		FocusDistance: 7,
	})
	sampler := &countingSampler{inner: core.NewSeededSampler(1)}

	for _, st := range [][2]float64{{0, 0}, {0.25, 0.75}, {1, 1}} {
		ray := camera.GetRay(st[0], st[1], sampler)
		pinhole := camera.PinholeRay(st[0], st[1])

		if ray != pinhole {
			t.Errorf("Zero aperture ray %v differs from pinhole %v", ray, pinhole)
		}
		if ray.Origin != core.NewVec3(1, 2, 3) {
			t.Errorf("Zero aperture ray should start at the eye, got %v", ray.Origin)
		}
	}

	if sampler.draws != 0 {
		t.Errorf("Zero aperture should not draw lens samples, drew %d", sampler.draws)
	}
}

func TestCameraDefocusKeepsFocusPlaneSharp(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		VFov:          20,
		Aperture:      2.0,
		FocusDistance: 10,
	})
	sampler := core.NewSeededSampler(7)

	if camera.LensRadius() != 1.0 {
		t.Fatalf("Expected lens radius 1, got %f", camera.LensRadius())
	}

	u, v, _ := camera.Basis()
	target := camera.PinholeRay(0.3, 0.6).At(1)
	movedOrigin := false

	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.3, 0.6, sampler)

		// Every lens sample passes through the same focus-plane point
		if !vecClose(ray.At(1), target, 1e-9) {
			t.Fatalf("Sample %d misses focus point: %v vs %v", i, ray.At(1), target)
		}

		// The origin stays within the lens disk, in the u-v plane
		offset := ray.Origin.Subtract(core.NewVec3(13, 2, 3))
		inPlane := u.Multiply(offset.Dot(u)).Add(v.Multiply(offset.Dot(v)))
		if !vecClose(offset, inPlane, 1e-9) {
			t.Fatalf("Lens offset %v leaves the lens plane", offset)
		}
		if offset.Length() > camera.LensRadius()+1e-9 {
			t.Fatalf("Lens offset %v exceeds radius", offset)
		}
		if offset.Length() > 1e-6 {
			movedOrigin = true
		}
	}

	if !movedOrigin {
		t.Error("Expected some lens samples to move the ray origin")
	}
}

func TestCameraPixelCenterRay(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Width:       3,
		AspectRatio: 1.0,
		VFov:        90.0,
	})

	// Odd width: the middle pixel sits half a pixel off the viewport center
	// because the jitter divisor is width-1
	ray := camera.PixelCenterRay(1, 1)
	want := camera.PinholeRay(0.75, 0.75)
	if !vecClose(ray.Direction, want.Direction, 1e-12) {
		t.Errorf("Expected %v, got %v", want.Direction, ray.Direction)
	}

	// Row 0 is the top of the image
	top := camera.PixelCenterRay(0, 0).Direction
	bottom := camera.PixelCenterRay(0, 2).Direction
	if top.Y <= bottom.Y {
		t.Errorf("Expected row 0 to look higher than row 2: %v vs %v", top, bottom)
	}
	if !vecClose(camera.PixelCenterRay(2, 2).Origin, core.NewVec3(0, 0, 0), 0) {
		t.Error("Expected pinhole origin at the eye")
	}
}
