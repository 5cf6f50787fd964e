package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center        core.Vec3 // Eye position
	LookAt        core.Vec3 // Target point
	Up            core.Vec3 // Up hint, need not be perpendicular to the view direction
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the plane of perfect focus, 0 for auto-focus on LookAt
}

// Camera generates rays for rendering. It is immutable after construction.
type Camera struct {
	config CameraConfig

	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	imageHeight     int
}

// applyDefaults fills zero-valued fields with sensible values
func (c CameraConfig) applyDefaults() CameraConfig {
	if c.Width <= 0 {
		c.Width = 400
	}
	if c.AspectRatio <= 0 {
		c.AspectRatio = 16.0 / 9.0
	}
	if c.VFov <= 0 {
		c.VFov = 90.0
	}
	if c.Up == (core.Vec3{}) {
		c.Up = core.NewVec3(0, 1, 0)
	}
	if c.FocusDistance <= 0 {
		c.FocusDistance = c.Center.Subtract(c.LookAt).Length()
	}
	// Center == LookAt has no view direction and yields a NaN basis; keep the viewport finite
	if c.FocusDistance <= 0 {
		c.FocusDistance = 1
	}
	return c
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	config = config.applyDefaults()

	// Rows of the view matrix are the camera basis: right, up, and backward.
	view := mgl64.LookAtV(toMgl(config.Center), toMgl(config.LookAt), toMgl(config.Up))
	u := fromMgl(view.Row(0).Vec3())
	v := fromMgl(view.Row(1).Vec3())
	w := fromMgl(view.Row(2).Vec3())

	theta := mgl64.DegToRad(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	// The viewport sits on the focus plane so that plane is sharp
	focus := config.FocusDistance
	origin := config.Center
	horizontal := u.Multiply(focus * viewportWidth)
	vertical := v.Multiply(focus * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focus))

	return &Camera{
		config:          config,
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		imageHeight:     max(1, int(float64(config.Width)/config.AspectRatio)),
	}
}

// GetRay generates a ray for viewport coordinates (s, t) where 0 <= s,t <= 1.
// s runs left to right and t bottom to top. A non-zero lens radius offsets the
// origin within the lens disk while the focus-plane target stays fixed.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	if c.lensRadius <= 0 {
		return c.PinholeRay(s, t)
	}

	rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
	offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))

	origin := c.origin.Add(offset)
	return core.NewRay(origin, c.focusPoint(s, t).Subtract(origin))
}

// PinholeRay generates the ray through the lens center, with no defocus
func (c *Camera) PinholeRay(s, t float64) core.Ray {
	return core.NewRay(c.origin, c.focusPoint(s, t).Subtract(c.origin))
}

// PixelCenterRay returns the pinhole ray through the center of image pixel (x, y),
// with y growing downward
func (c *Camera) PixelCenterRay(x, y int) core.Ray {
	j := c.imageHeight - 1 - y
	s := (float64(x) + 0.5) / span(c.config.Width)
	t := (float64(j) + 0.5) / span(c.imageHeight)
	return c.PinholeRay(s, t)
}

// focusPoint returns the point on the focus plane for viewport coordinates (s, t)
func (c *Camera) focusPoint(s, t float64) core.Vec3 {
	return c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// Basis returns the orthonormal camera basis (u right, v up, w backward)
func (c *Camera) Basis() (u, v, w core.Vec3) {
	return c.u, c.v, c.w
}

// LensRadius returns half the aperture
func (c *Camera) LensRadius() float64 {
	return c.lensRadius
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// ImageHeight returns the image height in pixels derived from width and aspect ratio
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// Config returns the configuration after defaults were applied
func (c *Camera) Config() CameraConfig {
	return c.config
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}

// span is the jitter divisor for a dimension; a single pixel spans the whole viewport
func span(dimension int) float64 {
	return float64(max(1, dimension-1))
}
