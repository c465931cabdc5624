package main

import (
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilekin/debugdraw"
	"github.com/milk9111/tilekin/levels"
	"github.com/milk9111/tilekin/prefabs"
	"github.com/milk9111/tilekin/scene"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

const (
	baseWidth     = 1280
	baseHeight    = 720
	pixelsPerUnit = 32
	tps           = 60
	fixedDT       = 1.0 / tps
)

type Game struct {
	log     *logrus.Logger
	level   *levels.Level
	scene   *scene.Scene
	watcher *prefabs.Watcher
	cam     debugdraw.Camera

	debug  bool
	paused bool
}

func NewGame(levelName string, debug bool, log *logrus.Logger) (*Game, error) {
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, err
	}
	content, err := prefabs.LoadContent()
	if err != nil {
		return nil, err
	}
	s, err := scene.Build(lvl, content, scene.WithLogger(log))
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"level": levelName, "actors": len(s.Actors())}).Info("sandbox: level loaded")

	return &Game{
		log:   log,
		level: lvl,
		scene: s,
		cam:   debugdraw.NewCamera(baseWidth, baseHeight, pixelsPerUnit),
		debug: debug,
	}, nil
}

// Watch hot-reloads prefab specs and scripts from disk.
func (g *Game) Watch() error {
	w, err := prefabs.WatchDefault()
	if err != nil {
		return err
	}
	g.watcher = w
	g.log.WithField("dir", prefabs.DiskDir).Info("sandbox: watching prefabs")
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.drainChanges()

	in := readInput()
	if in.debug {
		g.debug = !g.debug
	}
	if in.pause {
		g.paused = !g.paused
	}
	if in.respawn {
		if err := g.scene.Respawn(); err != nil {
			g.log.WithError(err).Warn("sandbox: respawn")
		}
	}

	if p := g.scene.Player(); p != nil {
		p.Drive(in.moveX, in.jump)
	}

	if !g.paused || in.step {
		if err := g.scene.Update(fixedDT); err != nil {
			g.log.WithError(err).Warn("sandbox: update")
		}
	}

	target := g.level.Bounds().Center()
	if p := g.scene.Player(); p != nil {
		target = p.Body.Position()
	}
	g.cam = g.cam.Follow(target, g.level.Bounds())
	return nil
}

func (g *Game) drainChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.apply(c)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.WithError(err).Warn("sandbox: watch")
			}
		default:
			return
		}
	}
}

func (g *Game) apply(c prefabs.Change) {
	entry := g.log.WithField("file", c.Name())
	switch c.Kind {
	case prefabs.ChangeSpec:
		content, err := prefabs.LoadContent()
		if err != nil {
			entry.WithError(err).Warn("sandbox: reload prefabs")
			return
		}
		if content.Engine.WithDefaults() != g.scene.World.Config() {
			g.rebuild(content)
			return
		}
		if err := g.scene.Reload(content); err != nil {
			entry.WithError(err).Warn("sandbox: reload prefabs")
		}
	case prefabs.ChangeScript:
		name := strings.TrimSuffix(path.Base(c.Name()), ".tengo")
		if err := g.scene.ReloadScript(name); err != nil {
			entry.WithError(err).Warn("sandbox: reload script")
		}
	}
}

// rebuild starts the level over; engine constants only apply to a new world.
func (g *Game) rebuild(content *prefabs.Content) {
	s, err := scene.Build(g.level, content, scene.WithLogger(g.log))
	if err != nil {
		g.log.WithError(err).Warn("sandbox: rebuild")
		return
	}
	g.scene = s
	g.log.Info("sandbox: engine config changed, level restarted")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	debugdraw.DrawScene(screen, g.cam, g.scene, debugdraw.Options{
		Waypoints: g.debug,
		HUD:       g.debug,
	})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
