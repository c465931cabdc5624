package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/tilekin/physics"
	"gopkg.in/yaml.v3"
)

const (
	EngineFile    = "engine.yaml"
	MaterialsFile = "materials.yaml"
	BodiesFile    = "bodies.yaml"
	PlatformsFile = "platforms.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadEngineConfig reads the engine constants. Missing or invalid fields
// fall back to physics.DefaultConfig when the config reaches a world.
func LoadEngineConfig() (physics.Config, error) {
	return LoadSpec[physics.Config](EngineFile)
}

type MaterialSpec struct {
	Name     string  `yaml:"name"`
	Friction float64 `yaml:"friction"`
	Surface  string  `yaml:"surface"`
}

type MaterialsSpec struct {
	Materials []MaterialSpec `yaml:"materials"`
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BodySpec holds the per-body tunables of a prefab.
type BodySpec struct {
	HalfWidth       float64    `yaml:"half_width"`
	HalfHeight      float64    `yaml:"half_height"`
	Gravity         float64    `yaml:"gravity"`
	BaseGroundAccel float64    `yaml:"base_ground_accel"`
	DefaultMaterial string     `yaml:"default_material"`
	MoveSpeed       float64    `yaml:"move_speed"`
	JumpSpeed       float64    `yaml:"jump_speed"`
	Color           *YAMLColor `yaml:"color"`
}

type BodiesSpec struct {
	Bodies map[string]BodySpec `yaml:"bodies"`
}

// PlatformSpec describes a platform prefab. Path holds offsets from the
// spawn point and is used when the level gives no explicit path.
type PlatformSpec struct {
	HalfWidth  float64    `yaml:"half_width"`
	HalfHeight float64    `yaml:"half_height"`
	OffsetX    float64    `yaml:"offset_x"`
	OffsetY    float64    `yaml:"offset_y"`
	Speed      float64    `yaml:"speed"`
	Wait       float64    `yaml:"wait"`
	Material   string     `yaml:"material"`
	Path       []Vec2Spec `yaml:"path"`
	Color      *YAMLColor `yaml:"color"`
}

type PlatformsSpec struct {
	Platforms map[string]PlatformSpec `yaml:"platforms"`
}

func LoadMaterialsSpec() (MaterialsSpec, error) {
	return LoadSpec[MaterialsSpec](MaterialsFile)
}

func LoadBodiesSpec() (BodiesSpec, error) {
	return LoadSpec[BodiesSpec](BodiesFile)
}

func LoadPlatformsSpec() (PlatformsSpec, error) {
	return LoadSpec[PlatformsSpec](PlatformsFile)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	col, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = col
	return nil
}

func (c YAMLColor) MarshalYAML() (interface{}, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// ParseHexColor accepts #rrggbb or #rrggbbaa, with or without the #.
func ParseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")

	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", hex)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
