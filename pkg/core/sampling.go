package core

import "math/rand"

// Sampler provides uniform random samples to the rendering algorithms.
// Each rendering goroutine must own its own Sampler.
type Sampler interface {
	// Uniform returns a sample uniformly distributed in [min, max)
	Uniform(min, max float64) float64
	// Get1D returns a sample in [0, 1)
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Uniform returns a random float64 in [min, max)
func (r *RandomSampler) Uniform(min, max float64) float64 {
	return min + (max-min)*r.random.Float64()
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// RandomVec3 returns a vector with each component drawn from [min, max)
func RandomVec3(sampler Sampler, min, max float64) Vec3 {
	return NewVec3(sampler.Uniform(min, max), sampler.Uniform(min, max), sampler.Uniform(min, max))
}

// RandomInUnitSphere generates a random point inside a unit sphere
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := RandomVec3(sampler, -1, 1)
		// Accept if inside unit sphere
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniformly distributed direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		p := RandomInUnitSphere(sampler)
		// Points too close to the center lose precision when normalized
		if p.LengthSquared() > 1e-160 {
			return p.Normalize()
		}
	}
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(sampler.Uniform(-1, 1), sampler.Uniform(-1, 1), 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
