package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig describes Glorot (Xavier) initialization drawing
// weights uniformly from a range scaled by the layer's fan-in and
// fan-out. Gain further scales the range; 1.0 is the usual choice for
// layers followed by tanh or linear activations.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the type of weight initializer the config describes
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the described initializer as a Gorgonia InitWFn
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig describes the normal-distribution variant of Glorot
// initialization, with the same fan-based variance scaling as
// GlorotUConfig.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot Normal weight initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the type of weight initializer the config describes
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the described initializer as a Gorgonia InitWFn
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}
