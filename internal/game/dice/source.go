package dice

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
)

// fixedSource returns the same value on every draw.
type fixedSource struct {
	v float64
}

// NewFixedSource returns a Source that always yields v.
//
// NewFixedSource(Deterministic) is the source used for deterministic battles.
func NewFixedSource(v float64) Source {
	return fixedSource{v: v}
}

func (f fixedSource) Float64() float64 { return f.v }

// NewSeed generates a non-reproducible seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// NewSeededSource returns a PCG-backed Source. Two sources built from the
// same seed produce the same sequence.
func NewSeededSource(seed uint64) Source {
	return mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a PCG-backed Source seeded from crypto/rand, so
// repeated calls produce different sequences.
//
// Postcondition: Returns a non-nil Source or the seed error.
func NewRandomSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(seed), nil
}

// ScriptedSource replays a fixed sequence of values, wrapping around when
// exhausted. It exists so tests can force specific outcomes.
type ScriptedSource struct {
	values []float64
	next   int
}

// NewScriptedSource returns a ScriptedSource that yields values in order.
//
// Precondition: len(values) > 0. Panics otherwise.
func NewScriptedSource(values ...float64) *ScriptedSource {
	if len(values) == 0 {
		panic("dice: NewScriptedSource requires at least one value")
	}
	return &ScriptedSource{values: values}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws returns how many values have been consumed.
func (s *ScriptedSource) Draws() int {
	return s.next
}
