package prefabs

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilekin/physics"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownPrefab     = errors.New("prefabs: unknown prefab")
	ErrUnknownMaterial   = errors.New("prefabs: unknown material")
	ErrDuplicateMaterial = errors.New("prefabs: duplicate material")
)

// MaterialTable maps material names to the shared physics materials.
type MaterialTable map[string]*physics.Material

// Build validates every material and returns them by name.
func (s MaterialsSpec) Build() (MaterialTable, error) {
	out := make(MaterialTable, len(s.Materials))
	for _, ms := range s.Materials {
		if _, ok := out[ms.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMaterial, ms.Name)
		}
		surface, err := physics.ParseSurfaceType(ms.Surface)
		if err != nil {
			return nil, fmt.Errorf("prefabs: material %q: %w", ms.Name, err)
		}
		m, err := physics.NewMaterial(ms.Name, ms.Friction, surface)
		if err != nil {
			return nil, fmt.Errorf("prefabs: material %q: %w", ms.Name, err)
		}
		out[ms.Name] = m
	}
	return out, nil
}

// Lookup resolves a material name; the empty name is no material.
func (t MaterialTable) Lookup(name string) (*physics.Material, error) {
	if name == "" {
		return nil, nil
	}
	m, ok := t[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Config converts the prefab into the physics body configuration.
func (s BodySpec) Config(materials MaterialTable) (physics.BodyConfig, error) {
	m, err := materials.Lookup(s.DefaultMaterial)
	if err != nil {
		return physics.BodyConfig{}, err
	}
	return physics.BodyConfig{
		HalfExtents:     cp.Vector{X: s.HalfWidth, Y: s.HalfHeight},
		Gravity:         s.Gravity,
		BaseGroundAccel: s.BaseGroundAccel,
		DefaultMaterial: m,
	}, nil
}

// Config converts the prefab into a platform configuration. path, when
// given, is used as is; otherwise the prefab's offsets are added to spawn.
func (s PlatformSpec) Config(spawn cp.Vector, path []cp.Vector, materials MaterialTable) (physics.PlatformConfig, error) {
	m, err := materials.Lookup(s.Material)
	if err != nil {
		return physics.PlatformConfig{}, err
	}
	waypoints := path
	if len(waypoints) == 0 {
		for _, off := range s.Path {
			waypoints = append(waypoints, spawn.Add(cp.Vector{X: off.X, Y: off.Y}))
		}
	}
	return physics.PlatformConfig{
		Waypoints:    waypoints,
		Speed:        s.Speed,
		HalfExtents:  cp.Vector{X: s.HalfWidth, Y: s.HalfHeight},
		CenterOffset: cp.Vector{X: s.OffsetX, Y: s.OffsetY},
		Material:     m,
		Wait:         s.Wait,
	}, nil
}

// Content is every prefab file decoded and cross-checked.
type Content struct {
	Engine    physics.Config
	Materials MaterialTable
	Bodies    map[string]BodySpec
	Platforms map[string]PlatformSpec
}

func LoadContent() (*Content, error) {
	engine, err := LoadEngineConfig()
	if err != nil {
		return nil, err
	}
	ms, err := LoadMaterialsSpec()
	if err != nil {
		return nil, err
	}
	materials, err := ms.Build()
	if err != nil {
		return nil, err
	}
	bodies, err := LoadBodiesSpec()
	if err != nil {
		return nil, err
	}
	platforms, err := LoadPlatformsSpec()
	if err != nil {
		return nil, err
	}

	c := &Content{
		Engine:    engine,
		Materials: materials,
		Bodies:    bodies.Bodies,
		Platforms: platforms.Platforms,
	}
	for name, b := range c.Bodies {
		if _, err := b.Config(materials); err != nil {
			return nil, fmt.Errorf("prefabs: body %q: %w", name, err)
		}
	}
	for name, p := range c.Platforms {
		if _, err := materials.Lookup(p.Material); err != nil {
			return nil, fmt.Errorf("prefabs: platform %q: %w", name, err)
		}
	}
	return c, nil
}

func (c *Content) Body(name string) (BodySpec, error) {
	s, ok := c.Bodies[name]
	if !ok {
		return BodySpec{}, fmt.Errorf("%w: body %q", ErrUnknownPrefab, name)
	}
	return s, nil
}

func (c *Content) Platform(name string) (PlatformSpec, error) {
	s, ok := c.Platforms[name]
	if !ok {
		return PlatformSpec{}, fmt.Errorf("%w: platform %q", ErrUnknownPrefab, name)
	}
	return s, nil
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Override returns a copy of base with the fields named in props replaced,
// keyed by their yaml names. Level entities use it to tweak a prefab.
func Override[T any](base T, props map[string]any) (T, error) {
	if len(props) == 0 {
		return base, nil
	}
	out, err := DecodeComponentSpec[T](base)
	if err != nil {
		return base, err
	}
	b, err := yaml.Marshal(props)
	if err != nil {
		return base, err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, fmt.Errorf("prefabs: override: %w", err)
	}
	return out, nil
}
