package physics

// Config holds the engine-wide tuning constants. They are shared by every
// body and platform in a PhysicsWorld, never set per instance.
type Config struct {
	// SubStep is the largest distance a body advances along one axis before
	// it is tested for overlap again.
	SubStep float64 `yaml:"sub_step"`
	// BackOff is the increment used to walk a blocked candidate back until clear.
	BackOff float64 `yaml:"back_off"`
	// MaxDepenetration bounds how far a body that already overlaps something
	// at the start of an increment may be pushed back against its travel.
	MaxDepenetration float64 `yaml:"max_depenetration"`
	// AirControl scales horizontal acceleration while airborne.
	AirControl float64 `yaml:"air_control"`
	// LowFrictionAccel is the acceleration on a frictionless surface.
	LowFrictionAccel float64 `yaml:"low_friction_accel"`
	// MaterialProbe is how far below the feet the surface material is sampled.
	MaterialProbe float64 `yaml:"material_probe"`
	// CarryProbeInset lifts the carry probe above the feet.
	CarryProbeInset float64 `yaml:"carry_probe_inset"`
	// DefaultFriction applies when a body has no material at all.
	DefaultFriction float64 `yaml:"default_friction"`
}

const (
	DefaultSubStep          = 0.05
	DefaultBackOff          = 0.001
	DefaultAirControl       = 0.3
	DefaultLowFrictionAccel = 10.0
	DefaultMaterialProbe    = 0.02
	DefaultCarryProbeInset  = 0.01
	DefaultFriction         = 0.5
)

func DefaultConfig() Config {
	return Config{
		SubStep:          DefaultSubStep,
		BackOff:          DefaultBackOff,
		MaxDepenetration: DefaultSubStep,
		AirControl:       DefaultAirControl,
		LowFrictionAccel: DefaultLowFrictionAccel,
		MaterialProbe:    DefaultMaterialProbe,
		CarryProbeInset:  DefaultCarryProbeInset,
		DefaultFriction:  DefaultFriction,
	}
}

// WithDefaults fills every non-positive field from DefaultConfig. AirControl,
// CarryProbeInset and DefaultFriction may legitimately be zero, so for them
// only negatives are replaced (and DefaultFriction above 1).
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.SubStep <= 0 {
		c.SubStep = d.SubStep
	}
	if c.BackOff <= 0 {
		c.BackOff = d.BackOff
	}
	if c.BackOff > c.SubStep {
		c.BackOff = c.SubStep
	}
	if c.MaxDepenetration <= 0 {
		c.MaxDepenetration = c.SubStep
	}
	if c.AirControl < 0 {
		c.AirControl = d.AirControl
	}
	if c.LowFrictionAccel <= 0 {
		c.LowFrictionAccel = d.LowFrictionAccel
	}
	if c.MaterialProbe <= 0 {
		c.MaterialProbe = d.MaterialProbe
	}
	if c.CarryProbeInset < 0 {
		c.CarryProbeInset = d.CarryProbeInset
	}
	if c.DefaultFriction < 0 || c.DefaultFriction > 1 {
		c.DefaultFriction = d.DefaultFriction
	}
	return c
}
