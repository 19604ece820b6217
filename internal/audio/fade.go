package audio

// Smoothstep returns the smoothstep interpolation for t in [0,1].
// Formula: 3t^2 - 2t^3.
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// ramp is a per-sample gain envelope moving from one level to another.
type ramp struct {
	from, to float64
	length   int // samples
	pos      int
}

func newRamp(from, to float64, length int) ramp {
	return ramp{from: from, to: to, length: length}
}

// next returns the current level and advances one sample.
func (r *ramp) next() float64 {
	if r.length <= 0 || r.pos >= r.length {
		return r.to
	}
	g := r.from + (r.to-r.from)*Smoothstep(float64(r.pos)/float64(r.length))
	r.pos++
	return g
}

// level returns the current level without advancing.
func (r *ramp) level() float64 {
	if r.length <= 0 || r.pos >= r.length {
		return r.to
	}
	return r.from + (r.to-r.from)*Smoothstep(float64(r.pos)/float64(r.length))
}

func (r *ramp) finished() bool {
	return r.length <= 0 || r.pos >= r.length
}
