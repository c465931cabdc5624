package physics

import (
	"fmt"
	"math"
	"strings"
)

type SurfaceType uint8

const (
	SurfaceNormal SurfaceType = iota
	SurfaceIce
	SurfaceMud
)

func (s SurfaceType) String() string {
	switch s {
	case SurfaceNormal:
		return "normal"
	case SurfaceIce:
		return "ice"
	case SurfaceMud:
		return "mud"
	}
	return fmt.Sprintf("surface(%d)", uint8(s))
}

// ParseSurfaceType accepts the names produced by String, case-insensitively.
// The empty string is Normal.
func ParseSurfaceType(name string) (SurfaceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return SurfaceNormal, nil
	case "ice":
		return SurfaceIce, nil
	case "mud":
		return SurfaceMud, nil
	}
	return SurfaceNormal, fmt.Errorf("%w: %q", ErrUnknownSurface, name)
}

// Material is an immutable surface descriptor. A single *Material is shared
// by every tile layer, platform and body that references it.
type Material struct {
	name     string
	friction float64
	surface  SurfaceType
}

// NewMaterial validates friction and builds a shared material.
func NewMaterial(name string, friction float64, surface SurfaceType) (*Material, error) {
	if friction < 0 || friction > 1 || math.IsNaN(friction) {
		return nil, fmt.Errorf("%w: %s has %v", ErrInvalidFriction, name, friction)
	}
	if surface > SurfaceMud {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSurface, surface)
	}
	return &Material{name: name, friction: friction, surface: surface}, nil
}

// MustMaterial is NewMaterial for package-level tables; it panics on invalid input.
func MustMaterial(name string, friction float64, surface SurfaceType) *Material {
	m, err := NewMaterial(name, friction, surface)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Material) Name() string {
	if m == nil {
		return ""
	}
	return m.name
}

func (m *Material) Friction() float64 {
	if m == nil {
		return DefaultFriction
	}
	return m.friction
}

func (m *Material) Surface() SurfaceType {
	if m == nil {
		return SurfaceNormal
	}
	return m.surface
}

func (m *Material) String() string {
	if m == nil {
		return "<default>"
	}
	return fmt.Sprintf("%s(%s, friction=%.2f)", m.name, m.surface, m.friction)
}
