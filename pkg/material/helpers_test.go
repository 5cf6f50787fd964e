package material

// sequenceSampler replays fixed values for deterministic tests.
// Uniform ignores its bounds and returns the next value as-is.
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Uniform(min, max float64) float64 {
	return s.Get1D()
}
