package physics

import "strconv"

// Handle is an opaque generational reference to a registered body or
// platform. The zero Handle is never issued.
type Handle uint64

type slotID uint32
type generation uint32

const slotBits = 32

func makeHandle(id slotID, gen generation) Handle {
	return Handle(uint64(gen)<<slotBits | uint64(id))
}

func (h Handle) slot() slotID {
	return slotID(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> slotBits))
}

func (h Handle) Valid() bool {
	return h.slot() > 0
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.slot()), 10) + "@" + strconv.FormatUint(uint64(h.generation()), 10)
}

// handleStore tracks slot generations and free slots.
type handleStore struct {
	gen  []generation
	free []slotID
}

func (s *handleStore) create() Handle {
	var id slotID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.gen = append(s.gen, 0)
		id = slotID(len(s.gen))
	}
	return makeHandle(id, s.gen[id-1])
}

func (s *handleStore) destroy(h Handle) bool {
	if !s.isAlive(h) {
		return false
	}
	id := h.slot()
	s.gen[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *handleStore) isAlive(h Handle) bool {
	id := h.slot()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == h.generation()
}
