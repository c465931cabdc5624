package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilekin/physics"
	"github.com/milk9111/tilekin/prefabs"
)

// Program is a compiled mover script. One Program can drive any number of
// bodies; each Mover runs its own clone.
type Program struct {
	name     string
	compiled *tengo.Compiled
}

// inputs are set before every run; outputs are read back after it.
var (
	inputs  = []string{"x", "y", "vx", "vy", "t", "dt"}
	outputs = []string{"dir", "speed", "jump"}
)

// Load compiles scripts/<name>.tengo from the prefab directory.
func Load(name string) (*Program, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return Compile(name, src)
}

// Compile builds a Program from source. The script sees the body state as
// x, y, vx, vy, grounded, t (seconds since the mover started) and dt, plus a
// state map that survives between runs. It sets dir and speed, and jump to
// a positive speed to jump.
func Compile(name string, src []byte) (*Program, error) {
	s := tengo.NewScript(src)
	for _, n := range inputs {
		_ = s.Add(n, 0.0)
	}
	_ = s.Add("grounded", false)
	for _, n := range outputs {
		_ = s.Add(n, 0.0)
	}
	_ = s.Add("state", map[string]interface{}{})

	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return &Program{name: name, compiled: compiled}, nil
}

func (p *Program) Name() string { return p.name }

// Mover feeds a body's state to a script each update and applies the
// movement the script asks for.
type Mover struct {
	name     string
	body     *physics.KinematicBody
	compiled *tengo.Compiled
	state    *tengo.Map
	elapsed  float64
}

func (p *Program) NewMover(b *physics.KinematicBody) *Mover {
	return &Mover{
		name:     p.name,
		body:     b,
		compiled: p.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

func (m *Mover) Body() *physics.KinematicBody { return m.body }

// Update runs the script once. It must be called before the world steps so
// the intent applies to that step.
func (m *Mover) Update(dt float64) error {
	if m == nil || m.body == nil {
		return nil
	}
	pos := m.body.Position()
	vel := m.body.Velocity()
	values := map[string]interface{}{
		"x":        pos.X,
		"y":        pos.Y,
		"vx":       vel.X,
		"vy":       vel.Y,
		"grounded": m.body.Grounded(),
		"t":        m.elapsed,
		"dt":       dt,
		"jump":     0.0,
		"state":    m.state,
	}
	for name, v := range values {
		if err := m.compiled.Set(name, v); err != nil {
			return fmt.Errorf("script %s: set %s: %w", m.name, name, err)
		}
	}
	if err := m.compiled.Run(); err != nil {
		return fmt.Errorf("script %s: %w", m.name, err)
	}
	m.elapsed += dt

	m.body.SetMoveInput(m.compiled.Get("dir").Float(), m.compiled.Get("speed").Float())
	if jump := m.compiled.Get("jump").Float(); jump > 0 {
		m.body.Jump(jump)
	}
	return nil
}

// State returns a value the script stored in its state map, or nil.
func (m *Mover) State(key string) interface{} {
	v, ok := m.state.Value[key]
	if !ok {
		return nil
	}
	return tengo.ToInterface(v)
}
