package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilekin/levels"
	"github.com/milk9111/tilekin/physics"
	"github.com/milk9111/tilekin/prefabs"
	"github.com/milk9111/tilekin/script"
	"github.com/sirupsen/logrus"
)

var ErrNoPlayer = errors.New("scene: level has no player")

// Actor is a body spawned from a level entity.
type Actor struct {
	Name   string
	Prefab string
	Script string
	Body   *physics.KinematicBody
	Spec   prefabs.BodySpec
	Mover  *script.Mover

	props map[string]any
}

// Drive applies keyboard style intent using the actor's prefab speeds.
// It reports whether a jump was started.
func (a *Actor) Drive(dir float64, jump bool) bool {
	a.Body.SetMoveInput(dir, a.Spec.MoveSpeed)
	if jump {
		return a.Body.Jump(a.Spec.JumpSpeed)
	}
	return false
}

// Platform is a moving platform spawned from a level entity.
type Platform struct {
	Name     string
	Prefab   string
	Platform *physics.MovingPlatform
	Spec     prefabs.PlatformSpec
}

// Scene is one level running in its own physics world.
type Scene struct {
	World *physics.PhysicsWorld
	Level *levels.Level
	Tiles *physics.TileWorld

	content   *prefabs.Content
	log       logrus.FieldLogger
	actors    []*Actor
	byHandle  map[physics.Handle]*Actor
	platforms []*Platform
	player    *Actor
	programs  map[string]*script.Program
}

type Option func(*Scene)

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

type spawnFn func(s *Scene, e levels.Entity) error

var spawners = map[levels.EntityType]spawnFn{
	levels.EntityPlatform: spawnPlatform,
	levels.EntityPlayer:   spawnActor,
	levels.EntityBody:     spawnActor,
}

// Platforms register first so they tick ahead of the bodies they carry.
var spawnOrder = []levels.EntityType{
	levels.EntityPlatform,
	levels.EntityPlayer,
	levels.EntityBody,
}

// Build creates the world for lvl: tiles from its layers, then every entity
// from the matching prefab. Entity props override prefab fields.
func Build(lvl *levels.Level, content *prefabs.Content, opts ...Option) (*Scene, error) {
	if lvl == nil || content == nil {
		return nil, errors.New("scene: nil level or content")
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Scene{
		Level:    lvl,
		content:  content,
		log:      quiet,
		byHandle: make(map[physics.Handle]*Actor),
		programs: make(map[string]*script.Program),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	tiles, err := levels.BuildTileWorld(lvl, content.Materials)
	if err != nil {
		return nil, err
	}
	s.Tiles = tiles
	s.World = physics.NewWorld(
		physics.WithConfig(content.Engine),
		physics.WithTiles(tiles),
		physics.WithLogger(s.log),
	)
	s.World.OnEvent(s.logContact)

	for _, t := range spawnOrder {
		for _, e := range lvl.EntitiesOf(t) {
			if err := spawners[t](s, e); err != nil {
				return nil, fmt.Errorf("scene: entity %q: %w", entityName(e), err)
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"bodies":    len(s.actors),
		"platforms": len(s.platforms),
	}).Debug("scene: built")
	return s, nil
}

func entityName(e levels.Entity) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Prefab
}

func spawnActor(s *Scene, e levels.Entity) error {
	base, err := s.content.Body(e.Prefab)
	if err != nil {
		return err
	}
	spec, err := prefabs.Override(base, e.Props)
	if err != nil {
		return err
	}
	cfg, err := spec.Config(s.content.Materials)
	if err != nil {
		return err
	}
	body, err := physics.NewBody(s.Level.CellCenter(e.X, e.Y), cfg)
	if err != nil {
		return err
	}
	h, err := s.World.AttachBody(body)
	if err != nil {
		return err
	}

	a := &Actor{
		Name:   entityName(e),
		Prefab: e.Prefab,
		Script: e.Script,
		Body:   body,
		Spec:   spec,
		props:  e.Props,
	}
	if e.Script != "" {
		p, err := s.program(e.Script)
		if err != nil {
			return err
		}
		a.Mover = p.NewMover(body)
	}
	if e.Type == levels.EntityPlayer && s.player == nil {
		s.player = a
	}
	s.actors = append(s.actors, a)
	s.byHandle[h] = a
	return nil
}

func spawnPlatform(s *Scene, e levels.Entity) error {
	base, err := s.content.Platform(e.Prefab)
	if err != nil {
		return err
	}
	spec, err := prefabs.Override(base, e.Props)
	if err != nil {
		return err
	}
	cfg, err := spec.Config(s.Level.CellCenter(e.X, e.Y), s.Level.Waypoints(e), s.content.Materials)
	if err != nil {
		return err
	}
	p, err := physics.NewPlatform(cfg)
	if err != nil {
		return err
	}
	if _, err := s.World.AttachPlatform(p); err != nil {
		return err
	}
	s.platforms = append(s.platforms, &Platform{
		Name:     entityName(e),
		Prefab:   e.Prefab,
		Platform: p,
		Spec:     spec,
	})
	return nil
}

func (s *Scene) program(name string) (*script.Program, error) {
	if p, ok := s.programs[name]; ok {
		return p, nil
	}
	p, err := script.Load(name)
	if err != nil {
		return nil, err
	}
	s.programs[name] = p
	return p, nil
}

func (s *Scene) logContact(_ *physics.PhysicsWorld, evt physics.Event) {
	a, ok := s.byHandle[evt.Body]
	if !ok {
		return
	}
	s.log.WithFields(logrus.Fields{
		"actor":    a.Name,
		"event":    evt.Kind,
		"material": evt.Material.Name(),
	}).Debug("scene: contact")
}

// Player is the first player entity, or nil.
func (s *Scene) Player() *Actor {
	return s.player
}

// Actors lists spawned bodies in spawn order.
func (s *Scene) Actors() []*Actor {
	return append([]*Actor(nil), s.actors...)
}

func (s *Scene) Platforms() []*Platform {
	return append([]*Platform(nil), s.platforms...)
}

// Actor finds a body by entity name.
func (s *Scene) Actor(name string) (*Actor, bool) {
	for _, a := range s.actors {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Update runs every scripted mover and then steps the world once. A failing
// script stops its body but the step still runs; the first error is returned.
func (s *Scene) Update(dt float64) error {
	var first error
	for _, a := range s.actors {
		if a.Mover == nil {
			continue
		}
		if err := a.Mover.Update(dt); err != nil {
			a.Body.SetMoveInput(0, 0)
			if first == nil {
				first = fmt.Errorf("scene: actor %q: %w", a.Name, err)
			}
		}
	}
	s.World.Step(dt)
	return first
}

// Reload re-applies body prefabs from content, keeping each actor's level
// props. Platforms keep their running paths. Every config is built before
// any is applied, so a bad prefab leaves the scene untouched.
func (s *Scene) Reload(content *prefabs.Content) error {
	if content == nil {
		return errors.New("scene: nil content")
	}
	specs := make([]prefabs.BodySpec, len(s.actors))
	cfgs := make([]physics.BodyConfig, len(s.actors))
	for i, a := range s.actors {
		base, err := content.Body(a.Prefab)
		if err != nil {
			return fmt.Errorf("scene: reload %q: %w", a.Name, err)
		}
		spec, err := prefabs.Override(base, a.props)
		if err != nil {
			return fmt.Errorf("scene: reload %q: %w", a.Name, err)
		}
		cfg, err := spec.Config(content.Materials)
		if err != nil {
			return fmt.Errorf("scene: reload %q: %w", a.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("scene: reload %q: %w", a.Name, err)
		}
		specs[i], cfgs[i] = spec, cfg
	}
	for i, a := range s.actors {
		if err := a.Body.ApplyConfig(cfgs[i]); err != nil {
			return fmt.Errorf("scene: reload %q: %w", a.Name, err)
		}
		a.Spec = specs[i]
	}
	s.content = content
	s.log.WithField("bodies", len(s.actors)).Info("scene: prefabs reloaded")
	return nil
}

// ReloadScript recompiles a script and gives every actor running it a fresh
// mover. Script state starts over.
func (s *Scene) ReloadScript(name string) error {
	p, err := script.Load(name)
	if err != nil {
		return err
	}
	s.programs[name] = p
	n := 0
	for _, a := range s.actors {
		if a.Script != name {
			continue
		}
		a.Mover = p.NewMover(a.Body)
		n++
	}
	s.log.WithFields(logrus.Fields{"script": name, "movers": n}).Info("scene: script reloaded")
	return nil
}

// Spawn returns the world position of the player's spawn cell.
func (s *Scene) Spawn() cp.Vector {
	for _, e := range s.Level.EntitiesOf(levels.EntityPlayer) {
		return s.Level.CellCenter(e.X, e.Y)
	}
	return s.Level.Bounds().Center()
}

// Respawn teleports the player back to its spawn cell.
func (s *Scene) Respawn() error {
	if s.player == nil {
		return ErrNoPlayer
	}
	s.player.Body.SetPosition(s.Spawn())
	return nil
}
