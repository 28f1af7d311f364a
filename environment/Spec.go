package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType names the part of the environment interaction a Spec
// describes
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

// String implements the fmt.Stringer interface
func (t SpecType) String() string {
	switch t {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	case Reward:
		return "Reward"
	}
	return fmt.Sprintf("SpecType(%d)", int(t))
}

// Cardinality determines whether the described values are drawn from a
// finite, enumerable set or from a continuum
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec describes the shape and element-wise bounds of one part of the
// environment interaction. Agents read Specs at construction to size
// their function approximators: the observation Spec's Shape gives the
// feature count, and a Discrete action Spec's bounds enumerate the
// legal action indices.
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new Spec. The bound vectors give the
// element-wise lower and upper bounds of the described data and must
// match the shape vector in length; a mismatch is a programming error
// in the environment and panics.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() || shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("newspec: %v bounds must match shape length "+
			"\n\twant(%v)\n\thave(%v, %v)", t, shape.Len(),
			lowerBound.Len(), upperBound.Len()))
	}

	return Spec{
		Shape:       shape,
		Type:        t,
		LowerBound:  lowerBound,
		UpperBound:  upperBound,
		Cardinality: cardinality,
	}
}
