package physics

import (
	"encoding/binary"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/zeebo/xxh3"
)

// Checksum fingerprints the simulated state in registration order: every
// platform position, then every body position, velocity and grounded flag.
// Two worlds fed the same content and steps report equal checksums.
func (w *PhysicsWorld) Checksum() uint64 {
	platforms := w.platforms.snapshot()
	bodies := w.bodies.snapshot()

	buf := make([]byte, 0, 8+len(platforms)*16+len(bodies)*33)
	buf = binary.LittleEndian.AppendUint64(buf, w.ticks)
	for _, e := range platforms {
		buf = appendVector(buf, e.value.position)
	}
	for _, e := range bodies {
		b := e.value
		buf = appendVector(buf, b.position)
		buf = appendVector(buf, b.velocity)
		if b.grounded {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return xxh3.Hash(buf)
}

func appendVector(buf []byte, v cp.Vector) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.X))
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Y))
}
