package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", a.Cross(b), NewVec3(27, 6, -13)},
		{"Lerp midpoint", a.Lerp(b, 0.5), NewVec3(2.5, -1.5, 4.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	v := NewVec3(3, 4, 12)
	if v.Dot(NewVec3(1, 1, 1)) != 19 {
		t.Errorf("Expected dot 19, got %f", v.Dot(NewVec3(1, 1, 1)))
	}
	if v.LengthSquared() != 169 {
		t.Errorf("Expected squared length 169, got %f", v.LengthSquared())
	}
	if v.Length() != 13 {
		t.Errorf("Expected length 13, got %f", v.Length())
	}
}

func TestVec3_CrossIsRightHanded(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	if !x.Cross(y).Equals(NewVec3(0, 0, 1)) {
		t.Errorf("Expected x × y = z, got %v", x.Cross(y))
	}
	if !y.Cross(x).Equals(NewVec3(0, 0, -1)) {
		t.Errorf("Expected y × x = -z, got %v", y.Cross(x))
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(0, 3, 4).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if math.Abs(v.Y-0.6) > 1e-12 || math.Abs(v.Z-0.8) > 1e-12 {
		t.Errorf("Expected (0, 0.6, 0.8), got %v", v)
	}

	zero := NewVec3(0, 0, 0).Normalize()
	if !math.IsNaN(zero.X) || !math.IsNaN(zero.Y) || !math.IsNaN(zero.Z) {
		t.Errorf("Normalizing the zero vector should propagate NaN, got %v", zero)
	}
}

func TestVec3_DivideByZero(t *testing.T) {
	v := NewVec3(1, -1, 0).Divide(0)
	if !math.IsInf(v.X, 1) || !math.IsInf(v.Y, -1) || !math.IsNaN(v.Z) {
		t.Errorf("Expected (+Inf, -Inf, NaN), got %v", v)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected bool
	}{
		{"Zero vector", NewVec3(0, 0, 0), true},
		{"Tiny components", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"One component at epsilon", NewVec3(1e-8, 0, 0), false},
		{"Regular vector", NewVec3(0.1, 0, 0), false},
		{"Negative component", NewVec3(0, 0, -1e-7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.vector.NearZero() != tt.expected {
				t.Errorf("NearZero(%v) = %v, expected %v", tt.vector, !tt.expected, tt.expected)
			}
		})
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))
	if p := ray.At(0); !p.Equals(ray.Origin) {
		t.Errorf("At(0) should be the origin, got %v", p)
	}
	if p := ray.At(1.5); !p.Equals(NewVec3(1, 1, -2)) {
		t.Errorf("Expected (1, 1, -2), got %v", p)
	}
}
