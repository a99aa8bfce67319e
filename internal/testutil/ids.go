package testutil

import "time"

// FixedIDGenerator returns the same id every time.
//
// Used to reproduce id collisions: the engine never checks generated ids
// against existing rows, so two inserts with a FixedIDGenerator store two
// rows sharing one id.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id any
}

// NewFixedIDGenerator creates a generator that always returns id.
//
// If id is nil, Generate() returns "fixed-id".
func NewFixedIDGenerator(id any) *FixedIDGenerator {
	if id == nil {
		id = "fixed-id"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
//
// Implements engine.IDGenerator interface.
func (g *FixedIDGenerator) Generate(time.Time) any {
	return g.id
}
