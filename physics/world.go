package physics

import (
	"fmt"
	"io"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"
)

// Option configures a PhysicsWorld at construction.
type Option func(*PhysicsWorld)

func WithConfig(cfg Config) Option {
	return func(w *PhysicsWorld) {
		w.cfg = cfg.WithDefaults()
	}
}

func WithTiles(t Tiles) Option {
	return func(w *PhysicsWorld) {
		w.tiles = t
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(w *PhysicsWorld) {
		if l != nil {
			w.log = l
		}
	}
}

// PhysicsWorld owns the body and platform registries for one simulation
// session and runs the fixed-step cycle over them.
type PhysicsWorld struct {
	cfg   Config
	tiles Tiles
	log   logrus.FieldLogger

	bodies    *registry[*KinematicBody]
	platforms *registry[*MovingPlatform]

	stepping bool
	boxes    []platformBox
	boxesSet bool
	ticks    uint64

	events   EventQueue
	handlers []EventHandler
}

type tickEnv struct {
	cfg       Config
	tiles     Tiles
	platforms []platformBox
}

func NewWorld(opts ...Option) *PhysicsWorld {
	w := &PhysicsWorld{
		cfg:       DefaultConfig(),
		log:       discardLogger(),
		bodies:    newRegistry[*KinematicBody](),
		platforms: newRegistry[*MovingPlatform](),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (w *PhysicsWorld) Config() Config {
	return w.cfg
}

func (w *PhysicsWorld) Tiles() Tiles {
	return w.tiles
}

// SetTiles swaps the tile oracle. It must not be called from inside Step.
func (w *PhysicsWorld) SetTiles(t Tiles) {
	if w.stepping {
		w.log.Warn("physics: SetTiles ignored during step")
		return
	}
	w.tiles = t
}

// Ticks is the number of completed steps.
func (w *PhysicsWorld) Ticks() uint64 {
	return w.ticks
}

// OnEvent subscribes a handler to contact events.
func (w *PhysicsWorld) OnEvent(h EventHandler) {
	if h == nil {
		return
	}
	w.handlers = append(w.handlers, h)
}

// Events returns the queue of events emitted by the last step.
func (w *PhysicsWorld) Events() *EventQueue {
	return &w.events
}

// AttachBody registers b. During Step the body joins at the next cycle.
func (w *PhysicsWorld) AttachBody(b *KinematicBody) (Handle, error) {
	if b == nil {
		return 0, ErrNilBody
	}
	if b.world != nil {
		return 0, fmt.Errorf("attach body: %w", ErrAlreadyAttached)
	}
	h := w.bodies.add(b, w.stepping)
	b.world = w
	b.handle = h
	w.log.WithFields(logrus.Fields{"body": h, "deferred": w.stepping}).Debug("physics: body attached")
	return h, nil
}

// DetachBody unregisters a body. During Step it is skipped by every later
// phase of the current cycle and removed at the cycle boundary.
func (w *PhysicsWorld) DetachBody(h Handle) error {
	b, err := w.bodies.remove(h, w.stepping)
	if err != nil {
		return fmt.Errorf("detach body %s: %w", h, err)
	}
	b.world = nil
	b.handle = 0
	b.reported = false
	w.log.WithFields(logrus.Fields{"body": h, "deferred": w.stepping}).Debug("physics: body detached")
	return nil
}

func (w *PhysicsWorld) AttachPlatform(p *MovingPlatform) (Handle, error) {
	if p == nil {
		return 0, ErrNilPlatform
	}
	if p.world != nil {
		return 0, fmt.Errorf("attach platform: %w", ErrAlreadyAttached)
	}
	h := w.platforms.add(p, w.stepping)
	p.world = w
	p.handle = h
	w.log.WithFields(logrus.Fields{"platform": h, "deferred": w.stepping}).Debug("physics: platform attached")
	return h, nil
}

func (w *PhysicsWorld) DetachPlatform(h Handle) error {
	p, err := w.platforms.remove(h, w.stepping)
	if err != nil {
		return fmt.Errorf("detach platform %s: %w", h, err)
	}
	p.world = nil
	p.handle = 0
	w.log.WithFields(logrus.Fields{"platform": h, "deferred": w.stepping}).Debug("physics: platform detached")
	return nil
}

// Attach registers the body with w.
func (b *KinematicBody) Attach(w *PhysicsWorld) (Handle, error) {
	if w == nil {
		return 0, ErrNotAttached
	}
	return w.AttachBody(b)
}

// Detach unregisters the body from whichever world holds it.
func (b *KinematicBody) Detach() error {
	if b.world == nil {
		return ErrNotAttached
	}
	return b.world.DetachBody(b.handle)
}

func (p *MovingPlatform) Attach(w *PhysicsWorld) (Handle, error) {
	if w == nil {
		return 0, ErrNotAttached
	}
	return w.AttachPlatform(p)
}

func (p *MovingPlatform) Detach() error {
	if p.world == nil {
		return ErrNotAttached
	}
	return p.world.DetachPlatform(p.handle)
}

func (w *PhysicsWorld) Body(h Handle) (*KinematicBody, bool) {
	return w.bodies.get(h)
}

func (w *PhysicsWorld) Platform(h Handle) (*MovingPlatform, bool) {
	return w.platforms.get(h)
}

// Bodies lists the simulated bodies in registration order.
func (w *PhysicsWorld) Bodies() []*KinematicBody {
	snap := w.bodies.snapshot()
	out := make([]*KinematicBody, 0, len(snap))
	for _, e := range snap {
		out = append(out, e.value)
	}
	return out
}

func (w *PhysicsWorld) Platforms() []*MovingPlatform {
	snap := w.platforms.snapshot()
	out := make([]*MovingPlatform, 0, len(snap))
	for _, e := range snap {
		out = append(out, e.value)
	}
	return out
}

// Len returns the registered body and platform counts, including deferred attachments.
func (w *PhysicsWorld) Len() (bodies, platforms int) {
	return w.bodies.len(), w.platforms.len()
}

// Step runs one fixed tick: platforms, bodies, landing interception,
// platform carry, then the platforms' late tick. Registry changes requested
// while it runs take effect once it returns.
func (w *PhysicsWorld) Step(dt float64) {
	if w.stepping {
		w.log.Warn("physics: nested Step ignored")
		return
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	w.stepping = true
	w.events.flush()

	platforms := w.platforms.snapshot()
	bodies := w.bodies.snapshot()

	for _, e := range platforms {
		if w.platforms.live(e.handle) {
			e.value.Tick(dt)
		}
	}

	prevY := make([]float64, len(bodies))
	for i, e := range bodies {
		prevY[i] = e.value.position.Y
	}

	w.boxes = w.collectBoxes(platforms)
	w.boxesSet = true
	for _, e := range bodies {
		if w.bodies.live(e.handle) {
			e.value.Tick(dt)
		}
	}
	w.boxes = nil
	w.boxesSet = false

	w.interceptLandings(bodies, prevY, platforms)
	w.carry(bodies, platforms)

	for _, e := range platforms {
		if w.platforms.live(e.handle) {
			e.value.LateTick()
		}
	}

	w.ticks++
	w.emitContactEvents(bodies)
	w.dispatchEvents()
	w.stepping = false

	bodiesAdded, bodiesRemoved := w.bodies.flush()
	platformsAdded, platformsRemoved := w.platforms.flush()
	if bodiesAdded+bodiesRemoved+platformsAdded+platformsRemoved > 0 {
		w.log.WithFields(logrus.Fields{
			"tick":              w.ticks,
			"bodies_added":      bodiesAdded,
			"bodies_removed":    bodiesRemoved,
			"platforms_added":   platformsAdded,
			"platforms_removed": platformsRemoved,
		}).Debug("physics: deferred registry changes applied")
	}
}

// interceptLandings catches bodies whose feet crossed a platform top this
// cycle without the in-tick test stopping them.
func (w *PhysicsWorld) interceptLandings(bodies []entry[*KinematicBody], prevY []float64, platforms []entry[*MovingPlatform]) {
	for i, be := range bodies {
		if !w.bodies.live(be.handle) {
			continue
		}
		b := be.value
		if b.velocity.Y > 0 {
			continue
		}
		prevFeet := prevY[i] - b.half.Y
		currFeet := b.Feet()
		for _, pe := range platforms {
			if !w.platforms.live(pe.handle) {
				continue
			}
			p := pe.value
			top := p.Top()
			if !(prevFeet > top && currFeet <= top) {
				continue
			}
			if math.Abs(b.position.X-p.Center().X) < b.half.X+p.half.X {
				b.landOn(top, p.material)
				break
			}
		}
	}
}

// carry moves every grounded body standing on a platform by that
// platform's delta since its last LateTick.
func (w *PhysicsWorld) carry(bodies []entry[*KinematicBody], platforms []entry[*MovingPlatform]) {
	inset := cp.Vector{}
	for _, pe := range platforms {
		if !w.platforms.live(pe.handle) {
			continue
		}
		p := pe.value
		delta := p.MovementDelta()
		for _, be := range bodies {
			if !w.bodies.live(be.handle) {
				continue
			}
			b := be.value
			if !b.grounded {
				continue
			}
			inset.Y = b.half.Y - w.cfg.CarryProbeInset
			feet := b.position.Sub(inset)
			if p.IsOverlapping(feet, b.half) {
				b.translate(delta)
				b.SetSurfaceMaterial(p.material)
			}
		}
	}
}

// emitContactEvents compares each body's contact state with what the
// previous step reported, so a Jump between steps still reports left_ground.
func (w *PhysicsWorld) emitContactEvents(bodies []entry[*KinematicBody]) {
	for _, be := range bodies {
		if !w.bodies.live(be.handle) {
			continue
		}
		b := be.value
		switch {
		case b.grounded && !b.reported:
			w.events.Push(Event{Kind: EventLanded, Body: be.handle, Material: b.material})
		case !b.grounded && b.reported:
			w.events.Push(Event{Kind: EventLeftGround, Body: be.handle})
		}
		b.reported = b.grounded
	}
}

func (w *PhysicsWorld) dispatchEvents() {
	if len(w.handlers) == 0 || w.events.Len() == 0 {
		return
	}
	for _, evt := range w.events.items {
		for _, h := range w.handlers {
			h(w, evt)
		}
	}
}

func (w *PhysicsWorld) collectBoxes(platforms []entry[*MovingPlatform]) []platformBox {
	boxes := make([]platformBox, 0, len(platforms))
	for _, e := range platforms {
		if w.platforms.live(e.handle) {
			boxes = append(boxes, e.value.box())
		}
	}
	return boxes
}

// collisionEnv is what a body sees while it moves. Outside Step the
// platform boxes are gathered on demand.
func (w *PhysicsWorld) collisionEnv() tickEnv {
	env := tickEnv{cfg: w.cfg, tiles: w.tiles}
	if w.boxesSet {
		env.platforms = w.boxes
	} else {
		env.platforms = w.collectBoxes(w.platforms.snapshot())
	}
	return env
}
